package game

import "strings"

// ResolveCharacterName resolves a name query against the given online player
// ids. Exact matches against the full display name or its first word win;
// failing that, a prefix match on the first word is accepted. One match
// resolves; several matches resolve only if exactly one of them is exact.
// Returns "" when nothing resolves unambiguously.
func (e *Engine) ResolveCharacterName(query string, onlineIDs []string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ""
	}

	type match struct {
		playerID string
		name     string
	}
	var matches []match
	for _, pid := range onlineIDs {
		player, ok := e.state.Players[pid]
		if !ok {
			continue
		}
		full := strings.ToLower(player.Name)
		first := strings.ToLower(firstWord(player.Name))

		if full == q || first == q || strings.HasPrefix(first, q) {
			matches = append(matches, match{playerID: pid, name: player.Name})
		}
	}

	if len(matches) == 1 {
		return matches[0].playerID
	}
	if len(matches) > 1 {
		var exact []string
		for _, m := range matches {
			if strings.EqualFold(m.name, query) || strings.EqualFold(firstWord(m.name), strings.TrimSpace(query)) {
				exact = append(exact, m.playerID)
			}
		}
		if len(exact) == 1 {
			return exact[0]
		}
	}
	return ""
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
