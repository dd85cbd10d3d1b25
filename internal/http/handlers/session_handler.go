// README: Session lifecycle and frame snapshot handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"javai/internal/session"
	"javai/internal/types"
)

type SessionHandler struct {
	sessions *session.Manager
}

func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type openSessionReq struct {
	Role string `json:"role"`
}

// Open handles POST /api/sessions.
func (h *SessionHandler) Open(c *gin.Context) {
	var req openSessionReq
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	s := h.sessions.Open(session.RoleFor(req.Role))
	writeJSON(c, http.StatusCreated, map[string]any{
		"session_id": s.ID,
		"role":       s.Role.Name(),
	})
}

// Close handles DELETE /api/sessions/:id.
func (h *SessionHandler) Close(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return
	}
	h.sessions.Close(types.ID(id))
	writeJSON(c, http.StatusOK, map[string]any{"closed": true})
}

// Frame handles GET /api/sessions/:id/frame.
func (h *SessionHandler) Frame(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, s.Engine.Snapshot())
}

func (h *SessionHandler) lookup(c *gin.Context) (*session.Session, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return nil, false
	}
	s, ok := h.sessions.Get(types.ID(id))
	if !ok {
		writeError(c, http.StatusNotFound, session.ErrNotFound.Error())
		return nil, false
	}
	return s, true
}
