package services

import (
	"errors"
	"log"

	"questlog/models"
	"questlog/validation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultCharacterLevel = 1

type CharacterService struct {
	db *gorm.DB
}

func NewCharacterService(db *gorm.DB) *CharacterService {
	return &CharacterService{db: db}
}

type CreateCharacterRequest struct {
	validation.Body

	Name           *string       `json:"name" binding:"required,min=1,max=100"`
	CharacterClass *string       `json:"character_class" binding:"required,min=1,max=50"`
	Level          *int          `json:"level"`
	Icon           *string       `json:"icon" binding:"omitempty,url,max=255"`
	IsActive       *bool         `json:"is_active"`
	PlayerID       validation.ID `json:"player_id"`
	GameID         validation.ID `json:"game_id"`
}

func (r *CreateCharacterRequest) Normalize() {
	r.Icon = emptyToNil(r.Icon)
}

type UpdateCharacterRequest struct {
	validation.Body

	Name           *string `json:"name" binding:"omitempty,min=1,max=100"`
	CharacterClass *string `json:"character_class" binding:"omitempty,min=1,max=50"`
	Level          *int    `json:"level"`
	Icon           *string `json:"icon" binding:"omitempty,url,max=255"`
	IsActive       *bool   `json:"is_active"`

	clearIcon bool
}

// Normalize turns an empty icon into a request to clear it, so the URL check
// only sees real values.
func (r *UpdateCharacterRequest) Normalize() {
	if r.Icon != nil && *r.Icon == "" {
		r.Icon = nil
		r.clearIcon = true
	}
}

func (r *UpdateCharacterRequest) Apply(character *models.Character) {
	if r.Name != nil {
		character.Name = *r.Name
	}
	if r.CharacterClass != nil {
		character.CharacterClass = *r.CharacterClass
	}
	if r.Level != nil {
		character.Level = *r.Level
	}
	if r.Icon != nil {
		character.Icon = *r.Icon
	} else if r.clearIcon {
		character.Icon = ""
	}
	if r.IsActive != nil {
		character.IsActive = *r.IsActive
	}
}

// insertCharacter validates req and writes the character using db. The
// caller resolves PlayerID and GameID; the client never picks them freely.
func insertCharacter(db *gorm.DB, req *CreateCharacterRequest) (*models.Character, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	character := models.Character{
		Name:           *req.Name,
		CharacterClass: *req.CharacterClass,
		Level:          defaultCharacterLevel,
		Icon:           stringValue(req.Icon),
		IsActive:       true,
		PlayerID:       uint(req.PlayerID),
		GameID:         uint(req.GameID),
	}
	if req.Level != nil {
		character.Level = *req.Level
	}
	if req.IsActive != nil {
		character.IsActive = *req.IsActive
	}

	if err := db.Create(&character).Error; err != nil {
		return nil, err
	}
	return &character, nil
}

// CreateCharacter adds a character for playerID in the game named by the
// request. Both the player and the game must belong to userID.
func (s *CharacterService) CreateCharacter(playerID, userID uint, req *CreateCharacterRequest) (*models.Character, error) {
	if _, err := loadOwnedPlayer(s.db, playerID, userID); err != nil {
		return nil, err
	}

	if err := validation.DecodeError(req); err != nil {
		return nil, err
	}

	req.PlayerID = validation.ID(playerID)
	errs := validation.Errors{}
	if err := errs.Collect("", validation.Struct(req)); err != nil {
		return nil, err
	}
	if req.GameID == 0 {
		errs.Add("game_id", validation.RequiredMessage)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if _, err := loadOwnedGame(s.db, uint(req.GameID), userID); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) {
			return nil, validation.Errors{"game_id": {"Game not found."}}
		}
		return nil, err
	}

	character, err := insertCharacter(s.db, req)
	if err != nil {
		return nil, err
	}

	log.Printf("Character %d created for player %d in game %d", character.ID, playerID, character.GameID)
	return character, nil
}

func (s *CharacterService) UpdateCharacter(characterID, userID uint, req *UpdateCharacterRequest) (*models.Character, error) {
	character, err := loadOwnedCharacter(s.db, characterID, userID)
	if err != nil {
		return nil, err
	}

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	req.Apply(character)

	if err := s.db.Omit(clause.Associations).Save(character).Error; err != nil {
		return nil, err
	}

	return character, nil
}

func (s *CharacterService) DeleteCharacter(characterID, userID uint) error {
	character, err := loadOwnedCharacter(s.db, characterID, userID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(&models.Character{}, character.ID).Error; err != nil {
		return err
	}

	log.Printf("Character %d deleted by user %d", characterID, userID)
	return nil
}
