package models

import (
	"time"
)

// Character joins a player to a game.
type Character struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"size:100;not null"`
	CharacterClass string    `json:"character_class" gorm:"size:50;not null"`
	Level          int       `json:"level" gorm:"not null"`
	Icon           string    `json:"icon" gorm:"size:255"`
	IsActive       bool      `json:"is_active" gorm:"not null"`
	PlayerID       uint      `json:"player_id" gorm:"not null;index"`
	GameID         uint      `json:"game_id" gorm:"not null;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relationships
	Player Player `json:"player,omitempty"`
	Game   Game   `json:"game,omitempty"`
}
