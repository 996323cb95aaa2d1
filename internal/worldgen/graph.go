package worldgen

import "math/rand"

// edge is an undirected connection between two room indices, stored with
// u < v so the set dedupes regardless of pick order.
type edge struct {
	u, v int
}

func newEdge(a, b int) edge {
	if a < b {
		return edge{u: a, v: b}
	}
	return edge{u: b, v: a}
}

// maxGraphAttempts bounds the generate-and-validate loop before giving up
// and falling back to a linear path.
const maxGraphAttempts = 64

// assignDegrees targets roughly 10% of rooms with one door, 80% with two,
// and 10% with three; the rounding remainder gets two. If the degree sum
// comes out odd no graph can realize it, so one sub-3 room is bumped.
func assignDegrees(roomCount int) []int {
	numTwo := roomCount * 8 / 10
	numOne := roomCount / 10
	if numOne+numTwo > roomCount {
		numTwo = roomCount - numOne
	}
	numThree := roomCount - numOne - numTwo

	degrees := make([]int, 0, roomCount)
	for i := 0; i < numTwo; i++ {
		degrees = append(degrees, 2)
	}
	for i := 0; i < numOne; i++ {
		degrees = append(degrees, 1)
	}
	for i := 0; i < numThree; i++ {
		degrees = append(degrees, 3)
	}
	for len(degrees) < roomCount {
		degrees = append(degrees, 2)
	}
	degrees = degrees[:roomCount]

	sum := 0
	for _, d := range degrees {
		sum += d
	}
	if sum%2 == 1 {
		for i, d := range degrees {
			if d < 3 {
				degrees[i] = d + 1
				break
			}
		}
	}
	return degrees
}

// buildRandomGraph repeatedly pairs rooms with remaining degree budget that
// are not already adjacent until all budgets hit zero, rejecting attempts
// that get stuck or produce a disconnected graph. After maxGraphAttempts it
// falls back to a linear path over all rooms: degraded structure, but
// guaranteed connected and terminating.
func buildRandomGraph(roomCount int, degrees []int, rng *rand.Rand) []edge {
	if roomCount <= 1 {
		return nil
	}

	for attempt := 0; attempt < maxGraphAttempts; attempt++ {
		remaining := make([]int, len(degrees))
		copy(remaining, degrees)
		var edges []edge
		adjacency := make([]map[int]struct{}, roomCount)
		for i := range adjacency {
			adjacency[i] = make(map[int]struct{})
		}

		failed := false
		for {
			var candidates []int
			for i, d := range remaining {
				if d > 0 {
					candidates = append(candidates, i)
				}
			}
			if len(candidates) == 0 {
				break
			}

			u := candidates[rng.Intn(len(candidates))]
			var possible []int
			for _, v := range candidates {
				if v == u {
					continue
				}
				if _, adjacent := adjacency[u][v]; adjacent {
					continue
				}
				possible = append(possible, v)
			}
			if len(possible) == 0 {
				failed = true
				break
			}
			v := possible[rng.Intn(len(possible))]

			e := newEdge(u, v)
			edges = append(edges, e)
			adjacency[u][v] = struct{}{}
			adjacency[v][u] = struct{}{}
			remaining[u]--
			remaining[v]--
		}

		if failed {
			continue
		}
		if isConnected(roomCount, edges) {
			return edges
		}
	}

	fallback := make([]edge, 0, roomCount-1)
	for i := 0; i < roomCount-1; i++ {
		fallback = append(fallback, edge{u: i, v: i + 1})
	}
	return fallback
}

// isConnected verifies a traversal from room 0 reaches every room.
func isConnected(roomCount int, edges []edge) bool {
	if roomCount == 0 {
		return true
	}
	adjacency := make([][]int, roomCount)
	for _, e := range edges {
		adjacency[e.u] = append(adjacency[e.u], e.v)
		adjacency[e.v] = append(adjacency[e.v], e.u)
	}

	visited := make([]bool, roomCount)
	stack := []int{0}
	count := 0
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[node] {
			continue
		}
		visited[node] = true
		count++
		for _, next := range adjacency[node] {
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}
	return count == roomCount
}
