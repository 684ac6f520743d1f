package handlers

import (
	"net/http"

	"questlog/serializers"
	"questlog/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService *services.GameService
}

func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

func (h *GameHandler) GetUserGames(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	games, err := h.gameService.GetUserGames(id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializers.NewGames(games))
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req services.CreateGameRequest
	if !decode(c, &req) {
		return
	}

	game, err := h.gameService.CreateGame(id.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializers.NewGame(game))
}

func (h *GameHandler) GetGame(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "id")
	if !ok {
		return
	}

	game, err := h.gameService.GetGame(gameID, id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializers.NewGame(game))
}

func (h *GameHandler) UpdateGame(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateGameRequest
	if !decode(c, &req) {
		return
	}

	game, err := h.gameService.UpdateGame(gameID, id.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializers.NewGame(game))
}

func (h *GameHandler) DeleteGame(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.gameService.DeleteGame(gameID, id.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
