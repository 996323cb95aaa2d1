package game

import "strings"

// Minimap geometry: a fixed 15x15 character grid with rooms drawn as 2x2
// blocks, four cells apart. '*' marks the player's own room, 'P' a room with
// other players, '.' a discovered empty room. Corridors ('|' and '-') are
// drawn only for directions with configured exits, so the map always matches
// the movement commands that would succeed.
const (
	minimapSize = 15
	minimapStep = 4
)

var minimapOffsets = map[string][2]int{
	DirNorth: {0, -1},
	DirSouth: {0, 1},
	DirWest:  {-1, 0},
	DirEast:  {1, 0},
}

// minimapFor renders the minimap around the player's room. Lock must be held.
func (e *Engine) minimapFor(player *PlayerState) string {
	roomDef, ok := e.state.Config.Rooms[player.RoomID]
	if !ok {
		return ""
	}
	if _, ok := e.state.RoomStates[player.RoomID]; !ok {
		return ""
	}

	grid := make([][]byte, minimapSize)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(" ", minimapSize))
	}

	center := minimapSize / 2
	drawBlock(grid, center, center, '*')

	for dir, exit := range roomDef.Exits {
		offset, ok := minimapOffsets[dir]
		if !ok {
			continue
		}
		dx, dy := offset[0], offset[1]

		if neighbour, ok := e.state.RoomStates[exit.Target]; ok {
			mark := byte('.')
			if occupiedByOther(neighbour, player.PlayerID) {
				mark = 'P'
			}
			drawBlock(grid, center+dx*minimapStep, center+dy*minimapStep, mark)
		}

		if dx == 0 {
			setCell(grid, center, center+dy*(minimapStep/2), '|')
		} else {
			setCell(grid, center+dx*(minimapStep/2), center, '-')
		}
	}

	rows := make([]string, minimapSize)
	for y, row := range grid {
		rows[y] = string(row)
	}
	return strings.Join(rows, "\n")
}

// drawBlock fills the 2x2 block whose lower-right corner is (cx, cy).
func drawBlock(grid [][]byte, cx, cy int, ch byte) {
	for dy := -1; dy <= 0; dy++ {
		for dx := -1; dx <= 0; dx++ {
			setCell(grid, cx+dx, cy+dy, ch)
		}
	}
}

func setCell(grid [][]byte, x, y int, ch byte) {
	if x < 0 || x >= minimapSize || y < 0 || y >= minimapSize {
		return
	}
	grid[y][x] = ch
}

func occupiedByOther(rs *RoomState, selfID string) bool {
	for pid := range rs.Players {
		if pid != selfID {
			return true
		}
	}
	return false
}
