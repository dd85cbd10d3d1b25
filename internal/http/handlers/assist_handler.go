// README: Support chat handler.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"javai/internal/assist"
)

type AssistHandler struct {
	assist *assist.Service
}

func NewAssistHandler(assistSvc *assist.Service) *AssistHandler {
	return &AssistHandler{assist: assistSvc}
}

type chatReq struct {
	Message string `json:"message"`
}

// Chat handles POST /api/assist/chat.
func (h *AssistHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()
	reply := h.assist.Chat(ctx, req.Message)
	writeJSON(c, http.StatusOK, map[string]any{"reply": reply})
}
