package serializers

import (
	"questlog/models"
)

type Session struct {
	ID      uint   `json:"id"`
	Date    string `json:"date"`
	Summary string `json:"summary"`
	GameID  uint   `json:"game_id"`
}

func NewSession(s *models.Session) Session {
	return Session{
		ID:      s.ID,
		Date:    formatDate(s.Date),
		Summary: s.Summary,
		GameID:  s.GameID,
	}
}

func NewSessions(sessions []models.Session) []Session {
	out := make([]Session, 0, len(sessions))
	for i := range sessions {
		out = append(out, NewSession(&sessions[i]))
	}
	return out
}
