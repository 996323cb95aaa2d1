package listener

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/hollowroot/jungeon/internal/commands"
	"github.com/hollowroot/jungeon/internal/display"
	"github.com/hollowroot/jungeon/internal/game"
	"github.com/hollowroot/jungeon/internal/session"
)

// AcceptConnection runs a full line-based player session on a telnet or ssh
// connection: character selection, then the command loop until quit or
// disconnect.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := m.runSession(ctx, conn); err != nil && !errors.Is(err, io.EOF) {
		slog.WarnContext(ctx, "player session", "error", err)
	}
}

func (m *ConnectionManager) runSession(ctx context.Context, conn io.ReadWriter) error {
	reader := bufio.NewScanner(conn)

	sess, player, err := m.loginFlow(conn, reader)
	if err != nil {
		return err
	}
	defer func() {
		m.Logout(sess)
		m.BroadcastOnlinePlayers()
	}()

	// Deliver frames published for this player while the session lasts.
	unsubscribe, err := m.Subscribe(player.PlayerID, func(data []byte) {
		if text := renderFrame(data); text != "" {
			fmt.Fprintf(conn, "%s\n", text)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing player subject: %w", err)
	}
	defer unsubscribe()

	m.Attach(player.PlayerID)
	m.BroadcastOnlinePlayers()

	fmt.Fprintf(conn, "Welcome, %s!\n\n", player.Name)
	m.sendRoom(conn, player.PlayerID)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fmt.Fprint(conn, "> ")
		if !reader.Scan() {
			return reader.Err()
		}
		line := strings.TrimSpace(reader.Text())
		if strings.EqualFold(line, "quit") {
			fmt.Fprint(conn, "Goodbye.\n")
			return nil
		}

		result, err := m.Dispatch(player.PlayerID, line)
		if err != nil {
			var ue *game.UserError
			if errors.As(err, &ue) {
				fmt.Fprintf(conn, "%s\n", ue.Message)
				continue
			}
			return err
		}

		for _, reply := range result.Replies {
			if text := renderLocal(reply); text != "" {
				fmt.Fprintf(conn, "%s\n", text)
			}
		}
		if result.RefreshRoom {
			m.sendRoom(conn, player.PlayerID)
		}
		if result.RefreshInventory {
			m.sendInventory(conn, player.PlayerID)
		}
	}
}

// loginFlow lists the free characters and reads a selection by number, id,
// or name until the login sticks.
func (m *ConnectionManager) loginFlow(conn io.Writer, reader *bufio.Scanner) (*session.Session, *game.PlayerState, error) {
	for {
		available := m.engine.AvailableCharacters()
		if len(available) == 0 {
			fmt.Fprint(conn, "No characters are available right now. Try again later.\n")
			return nil, nil, io.EOF
		}
		sort.Slice(available, func(i, j int) bool { return available[i].ID < available[j].ID })

		fmt.Fprint(conn, "Choose a character:\n")
		for i, c := range available {
			desc := c.ShortDescription
			if desc != "" {
				desc = " - " + desc
			}
			fmt.Fprintf(conn, "  %d. %s%s\n", i+1, c.Name, desc)
		}
		fmt.Fprint(conn, "> ")

		if !reader.Scan() {
			if err := reader.Err(); err != nil {
				return nil, nil, err
			}
			return nil, nil, io.EOF
		}
		choice := strings.TrimSpace(reader.Text())
		if choice == "" {
			continue
		}

		characterID := ""
		if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(available) {
			characterID = available[n-1].ID
		} else {
			for _, c := range available {
				if strings.EqualFold(c.ID, choice) || strings.EqualFold(c.Name, choice) {
					characterID = c.ID
					break
				}
			}
		}
		if characterID == "" {
			fmt.Fprint(conn, "No such character.\n")
			continue
		}

		sess, player, err := m.Login(characterID)
		if err != nil {
			var ue *game.UserError
			if errors.As(err, &ue) {
				fmt.Fprintf(conn, "%s\n", ue.Message)
				continue
			}
			return nil, nil, err
		}
		return sess, player, nil
	}
}

func (m *ConnectionManager) sendRoom(conn io.Writer, playerID string) {
	view, err := m.engine.DescribeRoomForPlayer(playerID)
	if err != nil {
		return
	}
	fmt.Fprintf(conn, "%s\n", renderRoomView(view))
}

func (m *ConnectionManager) sendInventory(conn io.Writer, playerID string) {
	coins, items, err := m.engine.Inventory(playerID)
	if err != nil {
		return
	}
	fmt.Fprintf(conn, "%s\n", renderInventory(coins, items))
}

func renderRoomView(view *game.RoomView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", view.Name)
	fmt.Fprintf(&b, "%s\n", display.Wrap(view.Description))
	if len(view.Exits) > 0 {
		exits := make([]string, len(view.Exits))
		for i, e := range view.Exits {
			exits[i] = display.Capitalize(e)
		}
		fmt.Fprintf(&b, "Exits: %s\n", strings.Join(exits, ", "))
	}
	if view.Minimap != "" {
		fmt.Fprintf(&b, "\n%s\n", view.Minimap)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderInventory(coins int, items []game.ItemRef) string {
	if coins == 0 && len(items) == 0 {
		return "You are carrying nothing."
	}
	parts := []string{fmt.Sprintf("%d coin(s)", coins)}
	for _, item := range items {
		parts = append(parts, item.Name)
	}
	return fmt.Sprintf("You are carrying: %s.", strings.Join(parts, ", "))
}

// renderLocal turns a reply frame produced by this connection's own dispatch
// into a text line.
func renderLocal(msg commands.Message) string {
	switch msg.Type {
	case "event", "error":
		if data, ok := msg.Data.(map[string]any); ok {
			if text, ok := data["text"].(string); ok {
				return text
			}
			if text, ok := data["message"].(string); ok {
				return text
			}
		}
	case "roomState":
		if view, ok := msg.Data.(*game.RoomView); ok {
			return renderRoomView(view)
		}
	case "inventory":
		if data, ok := msg.Data.(map[string]any); ok {
			coins, _ := data["coins"].(int)
			items, _ := data["items"].([]game.ItemRef)
			return renderInventory(coins, items)
		}
	case "onlinePlayers":
		if data, ok := msg.Data.(map[string]any); ok {
			if players, ok := data["players"].([]game.NamedPlayer); ok {
				return renderOnlinePlayers(players)
			}
		}
	}
	return ""
}

// renderFrame turns a serialized frame from the player's subject into a text
// line. Only the simple frame types ever travel that path.
func renderFrame(data []byte) string {
	var frame struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		return ""
	}

	switch frame.Type {
	case "event", "error":
		var payload struct {
			Text    string `json:"text"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			return ""
		}
		if payload.Text != "" {
			return payload.Text
		}
		return payload.Message
	case "onlinePlayers":
		var payload struct {
			Players []game.NamedPlayer `json:"players"`
		}
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			return ""
		}
		return renderOnlinePlayers(payload.Players)
	}
	return ""
}

func renderOnlinePlayers(players []game.NamedPlayer) string {
	if len(players) == 0 {
		return "No one else is online."
	}
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	sort.Strings(names)
	return fmt.Sprintf("Online: %s.", strings.Join(names, ", "))
}
