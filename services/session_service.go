package services

import (
	"log"

	"questlog/models"
	"questlog/validation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

type CreateSessionRequest struct {
	validation.Body

	Date    *string `json:"date" binding:"required,datetime=2006-01-02"`
	Summary *string `json:"summary"`
}

type UpdateSessionRequest struct {
	validation.Body

	Date    *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Summary *string `json:"summary"`
}

func (r *UpdateSessionRequest) Apply(session *models.Session) error {
	if r.Date != nil {
		date, err := parseDate(*r.Date)
		if err != nil {
			return err
		}
		session.Date = date
	}
	if r.Summary != nil {
		session.Summary = *r.Summary
	}
	return nil
}

// CreateSession records a session of gameID, which userID must own.
func (s *SessionService) CreateSession(gameID, userID uint, req *CreateSessionRequest) (*models.Session, error) {
	if _, err := loadOwnedGame(s.db, gameID, userID); err != nil {
		return nil, err
	}

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	date, err := parseDate(*req.Date)
	if err != nil {
		return nil, err
	}

	session := models.Session{
		Date:    date,
		Summary: stringValue(req.Summary),
		GameID:  gameID,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}

	log.Printf("Session %d recorded for game %d", session.ID, gameID)
	return &session, nil
}

func (s *SessionService) UpdateSession(sessionID, userID uint, req *UpdateSessionRequest) (*models.Session, error) {
	session, err := loadOwnedSession(s.db, sessionID, userID)
	if err != nil {
		return nil, err
	}

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := req.Apply(session); err != nil {
		return nil, err
	}

	if err := s.db.Omit(clause.Associations).Save(session).Error; err != nil {
		return nil, err
	}

	return session, nil
}

func (s *SessionService) DeleteSession(sessionID, userID uint) error {
	session, err := loadOwnedSession(s.db, sessionID, userID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(&models.Session{}, session.ID).Error; err != nil {
		return err
	}

	log.Printf("Session %d deleted by user %d", sessionID, userID)
	return nil
}
