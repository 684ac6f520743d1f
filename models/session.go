package models

import (
	"time"
)

// Session is one sitting of a game, not a login session.
type Session struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Date      time.Time `json:"date" gorm:"type:date;not null"`
	Summary   string    `json:"summary" gorm:"type:text"`
	GameID    uint      `json:"game_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Game Game `json:"game,omitempty"`
}
