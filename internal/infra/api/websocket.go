package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"tender-analysis-service/internal/infra/notify"
)

// wsConn adapts *websocket.Conn to the hub's connection interface.
type wsConn struct {
	*websocket.Conn
}

func (c wsConn) WriteJSON(v any) error {
	if t, ok := v.(notify.TextMessage); ok {
		return c.Conn.WriteMessage(websocket.TextMessage, []byte(t))
	}
	return c.Conn.WriteJSON(v)
}

// handleWebSocket upgrades the connection, registers it with the hub
// and then just sits in a read loop. Incoming text frames are echoed
// back; the loop mainly exists to notice the peer going away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkWSOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	sub := s.hub.Subscribe(userID, wsConn{conn})
	defer s.hub.Unsubscribe(sub)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType == websocket.TextMessage {
			sub.Send(notify.TextMessage("Echo: " + string(data)))
		}
	}
}

func (s *Server) checkWSOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.allowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
