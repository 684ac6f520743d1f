package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"questlog/middleware"
	"questlog/services"
	"questlog/sessions"
	"questlog/validation"

	"github.com/gin-gonic/gin"
)

const (
	notFoundMessage     = "Not found."
	unauthorizedMessage = "Not authorized to modify this resource"
	conflictMessage     = "Username already exists"
	credentialsMessage  = "Invalid username or password"
	internalMessage     = "Internal server error"
)

// respondError maps a service error onto its status code and error body.
func respondError(c *gin.Context, err error) {
	if errs, ok := validation.IsErrors(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	var notFound *services.NotFoundError
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": unauthorizedMessage})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": credentialsMessage})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflictMessage})
	default:
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMessage})
	}
}

// pathID reads a numeric path parameter. A malformed id cannot name a
// record, so it is answered like a missing one.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
		return 0, false
	}
	return uint(id), true
}

// identity returns the caller. SessionGate has already rejected anonymous
// requests on protected routes; the check here keeps handlers safe if one is
// ever mounted without it.
func identity(c *gin.Context) (*sessions.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": middleware.UnauthenticatedMessage})
		return nil, false
	}
	return id, true
}

// decode reads the request body into req, answering 400 on malformed input.
// Requests embedding validation.Body never fail here; their service reports
// the problem once the target record has been authorized.
func decode(c *gin.Context, req interface{}) bool {
	if err := validation.Decode(c.Request.Body, req); err != nil {
		respondError(c, err)
		return false
	}
	return true
}
