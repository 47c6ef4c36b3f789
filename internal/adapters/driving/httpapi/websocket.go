package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/logger"
)

const writeWait = 10 * time.Second

// checkOrigin applies the CORS origin policy to WebSocket upgrades.
// Requests without an Origin header come from non-browser clients.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if s.cfg.AllowAll || origin == "" {
		return true
	}
	return originAllowed(origin, localOrigins)
}

// originAllowed matches origin against patterns of the form
// "scheme://host:*", where "*" stands for an optional numeric port.
func originAllowed(origin string, patterns []string) bool {
	origin = strings.ToLower(origin)
	for _, p := range patterns {
		prefix := strings.TrimSuffix(p, "*")
		if origin == strings.TrimSuffix(prefix, ":") {
			return true
		}
		port, ok := strings.CutPrefix(origin, prefix)
		if ok && port != "" && strings.Trim(port, "0123456789") == "" {
			return true
		}
	}
	return false
}

// Event types sent to WebSocket clients.
const (
	eventPlayer = "player"
	eventError  = "error"
)

// wsEvent is the outgoing WebSocket message format.
type wsEvent struct {
	Type     string              `json:"type"`
	ClientID string              `json:"client_id"`
	State    *domain.PlayerState `json:"state,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// wsCommand is the incoming WebSocket message format.
type wsCommand struct {
	Action string `json:"action"` // "next", "prev" or "toggle"
}

// handleWebSocket streams player states. Clients may also drive the
// player by sending commands.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	clientID := uuid.NewString()
	session := s.ports.Session
	states, cancel := session.Subscribe()
	defer cancel()

	out := make(chan wsEvent, 8)
	done := make(chan struct{})
	go s.readCommands(conn, clientID, out, done)

	initial := session.State()
	if !send(conn, wsEvent{Type: eventPlayer, ClientID: clientID, State: &initial}) {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			if !send(conn, wsEvent{Type: eventPlayer, ClientID: clientID, State: &st}) {
				return
			}
		case ev := <-out:
			if !send(conn, ev) {
				return
			}
		}
	}
}

func (s *Server) readCommands(conn *websocket.Conn, clientID string, out chan<- wsEvent, done chan<- struct{}) {
	defer close(done)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read: %v", err)
			}
			return
		}

		var cmd wsCommand
		if err := json.Unmarshal(msg, &cmd); err != nil {
			trySend(out, wsEvent{Type: eventError, ClientID: clientID, Error: "invalid message format"})
			continue
		}

		switch cmd.Action {
		case "next":
			s.ports.Session.Next()
		case "prev":
			s.ports.Session.Prev()
		case "toggle":
			s.ports.Session.TogglePlay()
		default:
			trySend(out, wsEvent{Type: eventError, ClientID: clientID, Error: "unknown action: " + cmd.Action})
		}
	}
}

func send(conn *websocket.Conn, ev wsEvent) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(ev); err != nil {
		logger.Debug("websocket write: %v", err)
		return false
	}
	return true
}

// trySend drops the event when the writer is not keeping up.
func trySend(out chan<- wsEvent, ev wsEvent) {
	select {
	case out <- ev:
	default:
	}
}
