package models

import (
	"time"
)

type Game struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"size:100;not null"`
	Description string     `json:"description" gorm:"type:text"`
	System      string     `json:"system" gorm:"size:100;not null"`
	StartDate   *time.Time `json:"start_date" gorm:"type:date"`
	Setting     string     `json:"setting" gorm:"type:text"`
	Status      string     `json:"status" gorm:"size:50;not null"`
	UserID      uint       `json:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	User       User        `json:"user,omitempty"`
	Sessions   []Session   `json:"sessions,omitempty" gorm:"foreignKey:GameID"`
	Characters []Character `json:"characters,omitempty" gorm:"foreignKey:GameID"`
}

func (g *Game) OwnedBy(userID uint) bool {
	return g.UserID == userID
}
