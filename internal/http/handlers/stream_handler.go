// README: WebSocket stream pushing frames and transitions to one session viewer.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"javai/internal/session"
	"javai/internal/types"
)

const (
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// A map demo serves any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type StreamHandler struct {
	sessions *session.Manager
	log      *logrus.Entry
}

func NewStreamHandler(sessions *session.Manager, log *logrus.Entry) *StreamHandler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &StreamHandler{sessions: sessions, log: log}
}

// outMessage is the envelope for everything the stream pushes.
type outMessage struct {
	Type string `json:"type"` // "frame" or "transition"
	Data any    `json:"data"`
}

// inMessage carries client input; currently only live positions.
type inMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Serve handles GET /api/sessions/:id/stream.
func (h *StreamHandler) Serve(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return
	}
	s, ok := h.sessions.Get(types.ID(id))
	if !ok {
		writeError(c, http.StatusNotFound, session.ErrNotFound.Error())
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	log := h.log.WithField("session_id", id)

	done := make(chan struct{})
	go h.writePump(conn, s, done, log)
	h.readPump(conn, s, log)
	close(done)
}

func (h *StreamHandler) writePump(conn *websocket.Conn, s *session.Session, done <-chan struct{}, log *logrus.Entry) {
	ticker := time.NewTicker(pingInterval)
	transitions, cancel := s.Machine.Subscribe()
	defer func() {
		ticker.Stop()
		cancel()
		_ = conn.Close()
	}()

	frames := s.Engine.Frames()
	for {
		select {
		case <-done:
			return
		case f := <-frames:
			if err := writeMessage(conn, outMessage{Type: "frame", Data: f}); err != nil {
				return
			}
		case t, ok := <-transitions:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := writeMessage(conn, outMessage{Type: "transition", Data: t}); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *StreamHandler) readPump(conn *websocket.Conn, s *session.Session, log *logrus.Entry) {
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Debug("websocket read ended")
			}
			return
		}

		var msg inMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Type != "position" {
			continue
		}
		var pos types.Point
		if err := json.Unmarshal(msg.Data, &pos); err != nil {
			continue
		}
		s.Engine.SetLivePosition(pos)
	}
}

func writeMessage(conn *websocket.Conn, msg outMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
