package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hollowroot/jungeon/internal/commands"
	"github.com/hollowroot/jungeon/internal/game"
)

// WebsocketListener serves the JSON client protocol: a small HTTP API for
// character selection and login, then a websocket per player carrying
// command frames in and state frames out.
type WebsocketListener struct {
	port uint16
	cm   *ConnectionManager

	upgrader websocket.Upgrader
}

func NewWebsocketListener(port uint16, cm *ConnectionManager) *WebsocketListener {
	return &WebsocketListener{
		port: port,
		cm:   cm,
		upgrader: websocket.Upgrader{
			// The game trusts session tokens, not origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/characters/available", l.handleAvailableCharacters)
	mux.HandleFunc("POST /api/login", l.handleLogin)
	mux.HandleFunc("/ws", l.handleWebsocket)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", l.port),
		Handler: mux,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	slog.InfoContext(ctx, "listening for websocket clients", "port", l.port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http on port %d: %w", l.port, err)
	}
}

type characterInfo struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ShortDescription string `json:"shortDescription"`
}

func (l *WebsocketListener) handleAvailableCharacters(w http.ResponseWriter, r *http.Request) {
	available := l.cm.Engine().AvailableCharacters()
	infos := make([]characterInfo, 0, len(available))
	for _, c := range available {
		infos = append(infos, characterInfo{
			ID:               c.ID,
			Name:             c.Name,
			ShortDescription: c.ShortDescription,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"characters": infos})
}

func (l *WebsocketListener) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CharacterID string `json:"characterId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid request body"})
		return
	}

	sess, player, err := l.cm.Login(req.CharacterID)
	if err != nil {
		var ue *game.UserError
		if errors.As(err, &ue) {
			writeJSON(w, http.StatusConflict, map[string]any{"detail": ue.Message})
			return
		}
		slog.Error("login failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId":   sess.ID,
		"playerName":  player.Name,
		"characterId": player.CharacterID,
	})
}

func (l *WebsocketListener) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	sess := l.cm.Resolve(r.URL.Query().Get("sessionId"))
	if sess == nil {
		http.Error(w, "unknown session", http.StatusUnauthorized)
		return
	}

	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade", "error", err)
		return
	}

	ws := &wsSession{cm: l.cm, conn: conn, playerID: sess.PlayerID}
	defer func() {
		l.cm.Logout(sess)
		conn.Close()
		l.cm.BroadcastOnlinePlayers()
	}()

	// Forward frames published for this player to the socket as-is.
	unsubscribe, err := l.cm.Subscribe(sess.PlayerID, ws.writeRaw)
	if err != nil {
		slog.Error("subscribing player subject", "error", err)
		return
	}
	defer unsubscribe()

	l.cm.Attach(sess.PlayerID)

	ws.sendRoomState()
	ws.sendInventory()
	l.cm.BroadcastOnlinePlayers()

	ws.readLoop(r.Context())
}

// wsSession serializes writes; the NATS handler and the read loop both send
// frames.
type wsSession struct {
	cm       *ConnectionManager
	conn     *websocket.Conn
	playerID string

	writeMu sync.Mutex
}

func (s *wsSession) readLoop(ctx context.Context) {
	for {
		var frame struct {
			Type  string `json:"type"`
			Input string `json:"input"`
		}
		if err := s.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.DebugContext(ctx, "websocket closed", "error", err)
			}
			return
		}
		if frame.Type != "command" {
			continue
		}

		result, err := s.cm.Dispatch(s.playerID, frame.Input)
		if err != nil {
			var ue *game.UserError
			if errors.As(err, &ue) {
				s.write(commands.ErrorMessage(ue.Message))
				continue
			}
			slog.ErrorContext(ctx, "dispatching command", "error", err)
			return
		}

		for _, reply := range result.Replies {
			s.write(reply)
		}
		if result.RefreshRoom {
			s.sendRoomState()
		}
		if result.RefreshInventory {
			s.sendInventory()
		}
	}
}

func (s *wsSession) sendRoomState() {
	view, err := s.cm.Engine().DescribeRoomForPlayer(s.playerID)
	if err != nil {
		return
	}
	s.write(commands.Message{Type: "roomState", Data: view})
}

func (s *wsSession) sendInventory() {
	coins, items, err := s.cm.Engine().Inventory(s.playerID)
	if err != nil {
		return
	}
	s.write(commands.Message{Type: "inventory", Data: map[string]any{"coins": coins, "items": items}})
}

func (s *wsSession) write(msg commands.Message) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		slog.Debug("websocket write", "error", err)
	}
}

func (s *wsSession) writeRaw(data []byte) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("websocket write", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Debug("writing json response", "error", err)
	}
}
