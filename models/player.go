package models

import (
	"time"
)

// Player is a person at the table. A player joins games through characters.
type Player struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Summary   string    `json:"summary" gorm:"type:text"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User       User        `json:"user,omitempty"`
	Characters []Character `json:"characters,omitempty" gorm:"foreignKey:PlayerID"`
}

func (p *Player) OwnedBy(userID uint) bool {
	return p.UserID == userID
}
