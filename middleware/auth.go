package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"questlog/sessions"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session"

const identityKey = "identity"

// UnauthenticatedMessage is the error body for requests without a session.
const UnauthenticatedMessage = "401 unauthorized"

const internalMessage = "Internal server error"

var publicPaths = map[string]bool{
	"/signup":        true,
	"/login":         true,
	"/check_session": true,
	"/logout":        true,
	"/health":        true,
	"/metrics":       true,
}

var staticPaths = map[string]bool{
	"/favicon.ico":   true,
	"/manifest.json": true,
	"/robots.txt":    true,
}

const staticPrefix = "/static/"

// SessionGate resolves the session cookie into an Identity and rejects
// non-public requests that have none. A failing session store is answered
// with 500 rather than treated as a missing session.
func SessionGate(manager *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if exempt(c) {
			c.Next()
			return
		}

		if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
			identity, err := manager.Resolve(c.Request.Context(), token)
			switch {
			case err == nil:
				c.Set(identityKey, identity)
			case !errors.Is(err, sessions.ErrSessionNotFound):
				log.Printf("Session lookup failed: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": internalMessage})
				return
			}
		}

		if publicPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		if _, ok := CurrentIdentity(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": UnauthenticatedMessage})
			return
		}

		c.Next()
	}
}

// exempt reports requests that never need a session: preflights, static
// assets and unmatched routes, which fall through to the SPA / not-found
// handler.
func exempt(c *gin.Context) bool {
	if c.Request.Method == http.MethodOptions {
		return true
	}
	if c.FullPath() == "" {
		return true
	}
	path := c.Request.URL.Path
	return staticPaths[path] || strings.HasPrefix(path, staticPrefix)
}

// CurrentIdentity returns the caller resolved by SessionGate.
func CurrentIdentity(c *gin.Context) (*sessions.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*sessions.Identity)
	return identity, ok
}
