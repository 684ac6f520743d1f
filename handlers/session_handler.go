package handlers

import (
	"net/http"

	"questlog/serializers"
	"questlog/services"

	"github.com/gin-gonic/gin"
)

// SessionHandler serves game sessions (sittings), not login sessions.
type SessionHandler struct {
	sessionService *services.SessionService
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.CreateSessionRequest
	if !decode(c, &req) {
		return
	}

	session, err := h.sessionService.CreateSession(gameID, id.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializers.NewSession(session))
}

func (h *SessionHandler) UpdateSession(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateSessionRequest
	if !decode(c, &req) {
		return
	}

	session, err := h.sessionService.UpdateSession(sessionID, id.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializers.NewSession(session))
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.sessionService.DeleteSession(sessionID, id.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
