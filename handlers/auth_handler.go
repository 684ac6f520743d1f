package handlers

import (
	"errors"
	"log"
	"net/http"

	"questlog/middleware"
	"questlog/serializers"
	"questlog/services"
	"questlog/sessions"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  *services.AuthService
	sessions     *sessions.Manager
	cookieSecure bool
}

func NewAuthHandler(authService *services.AuthService, sessionManager *sessions.Manager, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		sessions:     sessionManager,
		cookieSecure: cookieSecure,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupRequest
	if !decode(c, &req) {
		return
	}

	user, err := h.authService.Signup(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	if !h.startSession(c, user.ID) {
		return
	}
	c.JSON(http.StatusCreated, serializers.NewUser(user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !decode(c, &req) {
		return
	}

	user, err := h.authService.Login(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	if !h.startSession(c, user.ID) {
		return
	}
	c.JSON(http.StatusOK, serializers.NewUser(user))
}

func (h *AuthHandler) CheckSession(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": middleware.UnauthenticatedMessage})
		return
	}

	user, err := h.authService.GetUser(id.UserID)
	if errors.Is(err, services.ErrNotFound) {
		h.clearCookie(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": middleware.UnauthenticatedMessage})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializers.NewUser(user))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if id, ok := middleware.CurrentIdentity(c); ok {
		if err := h.sessions.End(c.Request.Context(), id.SessionID); err != nil {
			respondError(c, err)
			return
		}
	}

	h.clearCookie(c)
	c.Status(http.StatusNoContent)
}

// DeleteAccount removes the caller's account and everything it owns, then
// ends all of the caller's sessions.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	if err := h.authService.DeleteAccount(id.UserID); err != nil {
		respondError(c, err)
		return
	}
	if err := h.sessions.EndAll(c.Request.Context(), id.UserID); err != nil {
		log.Printf("Failed to end sessions of deleted user %d: %v", id.UserID, err)
	}

	h.clearCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) startSession(c *gin.Context, userID uint) bool {
	token, _, err := h.sessions.Start(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return false
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.sessions.TTL().Seconds()), "/", "", h.cookieSecure, true)
	return true
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
}
