package handlers

import (
	"net/http"

	"questlog/serializers"
	"questlog/services"

	"github.com/gin-gonic/gin"
)

type CharacterHandler struct {
	characterService *services.CharacterService
}

func NewCharacterHandler(characterService *services.CharacterService) *CharacterHandler {
	return &CharacterHandler{characterService: characterService}
}

func (h *CharacterHandler) CreateCharacter(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	playerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.CreateCharacterRequest
	if !decode(c, &req) {
		return
	}

	character, err := h.characterService.CreateCharacter(playerID, id.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializers.NewCharacter(character))
}

func (h *CharacterHandler) UpdateCharacter(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	characterID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCharacterRequest
	if !decode(c, &req) {
		return
	}

	character, err := h.characterService.UpdateCharacter(characterID, id.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializers.NewCharacter(character))
}

func (h *CharacterHandler) DeleteCharacter(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	characterID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.characterService.DeleteCharacter(characterID, id.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
