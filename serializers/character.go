package serializers

import (
	"questlog/models"
)

type Character struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	CharacterClass string `json:"character_class"`
	Level          int    `json:"level"`
	Icon           string `json:"icon"`
	IsActive       bool   `json:"is_active"`
	PlayerID       uint   `json:"player_id"`
	GameID         uint   `json:"game_id"`
}

func NewCharacter(c *models.Character) Character {
	return Character{
		ID:             c.ID,
		Name:           c.Name,
		CharacterClass: c.CharacterClass,
		Level:          c.Level,
		Icon:           c.Icon,
		IsActive:       c.IsActive,
		PlayerID:       c.PlayerID,
		GameID:         c.GameID,
	}
}

func NewCharacters(characters []models.Character) []Character {
	out := make([]Character, 0, len(characters))
	for i := range characters {
		out = append(out, NewCharacter(&characters[i]))
	}
	return out
}
