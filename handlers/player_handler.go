package handlers

import (
	"net/http"

	"questlog/serializers"
	"questlog/services"

	"github.com/gin-gonic/gin"
)

type PlayerHandler struct {
	playerService *services.PlayerService
}

func NewPlayerHandler(playerService *services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

func (h *PlayerHandler) GetUserPlayers(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	players, err := h.playerService.GetUserPlayers(id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializers.NewPlayers(players))
}

func (h *PlayerHandler) CreatePlayer(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req services.CreatePlayerRequest
	if !decode(c, &req) {
		return
	}
	req.Character = nil

	player, err := h.playerService.CreatePlayer(id.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializers.NewPlayer(player))
}

// CreatePlayerInGame creates a player, and optionally their character, in
// the game named by the path.
func (h *PlayerHandler) CreatePlayerInGame(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.CreatePlayerRequest
	if !decode(c, &req) {
		return
	}

	player, character, err := h.playerService.CreatePlayerInGame(gameID, id.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializers.NewPlayerWithCharacter(player, character))
}

func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	playerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	player, err := h.playerService.GetPlayer(playerID, id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializers.NewPlayer(player))
}

func (h *PlayerHandler) UpdatePlayer(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	playerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdatePlayerRequest
	if !decode(c, &req) {
		return
	}

	player, err := h.playerService.UpdatePlayer(playerID, id.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializers.NewPlayer(player))
}

func (h *PlayerHandler) DeletePlayer(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	playerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.playerService.DeletePlayer(playerID, id.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
