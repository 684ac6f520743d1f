package services

import (
	"errors"
	"log"

	"questlog/models"
	"questlog/validation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlayerService struct {
	db *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{db: db}
}

type CreatePlayerRequest struct {
	validation.Body

	Name    *string `json:"name" binding:"required,min=1,max=100"`
	Summary *string `json:"summary"`

	// Only read by CreatePlayerInGame. Validated after the player exists.
	Character *CreateCharacterRequest `json:"character" binding:"-"`
}

func (r *CreatePlayerRequest) Normalize() {
	if r.Character != nil {
		r.Character.Normalize()
	}
}

type UpdatePlayerRequest struct {
	validation.Body

	Name    *string `json:"name" binding:"omitempty,min=1,max=100"`
	Summary *string `json:"summary"`
}

func (r *UpdatePlayerRequest) Apply(player *models.Player) {
	if r.Name != nil {
		player.Name = *r.Name
	}
	if r.Summary != nil {
		player.Summary = *r.Summary
	}
}

// insertPlayer validates req and writes a player owned by userID using db,
// which may be a transaction.
func insertPlayer(db *gorm.DB, userID uint, req *CreatePlayerRequest) (*models.Player, error) {
	if req == nil {
		req = &CreatePlayerRequest{}
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	player := models.Player{
		Name:    *req.Name,
		Summary: stringValue(req.Summary),
		UserID:  userID,
	}
	if err := db.Create(&player).Error; err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *PlayerService) GetUserPlayers(userID uint) ([]models.Player, error) {
	var players []models.Player
	err := playerDetails(s.db).
		Where("user_id = ?", userID).
		Order("id").
		Find(&players).Error
	return players, err
}

func (s *PlayerService) GetPlayer(playerID, userID uint) (*models.Player, error) {
	if _, err := loadOwnedPlayer(s.db, playerID, userID); err != nil {
		return nil, err
	}
	return s.reload(playerID)
}

func (s *PlayerService) reload(playerID uint) (*models.Player, error) {
	var player models.Player
	if err := playerDetails(s.db).First(&player, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Player")
		}
		return nil, err
	}
	return &player, nil
}

// CreatePlayer creates a player that is not yet in any game.
func (s *PlayerService) CreatePlayer(userID uint, req *CreatePlayerRequest) (*models.Player, error) {
	player, err := insertPlayer(s.db, userID, req)
	if err != nil {
		return nil, err
	}

	log.Printf("Player %d created by user %d", player.ID, userID)
	return s.reload(player.ID)
}

// CreatePlayerInGame creates a player and, when req carries one, its
// character in gameID. The player insert is rolled back if the character
// turns out to be invalid.
func (s *PlayerService) CreatePlayerInGame(gameID, userID uint, req *CreatePlayerRequest) (*models.Player, *models.Character, error) {
	if _, err := loadOwnedGame(s.db, gameID, userID); err != nil {
		return nil, nil, err
	}

	var (
		player    *models.Player
		character *models.Character
	)
	err := inTransaction(s.db, func(tx *gorm.DB) error {
		var err error
		player, err = insertPlayer(tx, userID, req)
		if err != nil {
			return err
		}

		if req.Character == nil {
			return nil
		}
		req.Character.PlayerID = validation.ID(player.ID)
		req.Character.GameID = validation.ID(gameID)

		character, err = insertCharacter(tx, req.Character)
		if fieldErrs, ok := validation.IsErrors(err); ok {
			errs := validation.Errors{}
			errs.Merge("character", fieldErrs)
			return errs
		}
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	log.Printf("Player %d created in game %d by user %d", player.ID, gameID, userID)
	return player, character, nil
}

func (s *PlayerService) UpdatePlayer(playerID, userID uint, req *UpdatePlayerRequest) (*models.Player, error) {
	player, err := loadOwnedPlayer(s.db, playerID, userID)
	if err != nil {
		return nil, err
	}

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	req.Apply(player)

	if err := s.db.Omit(clause.Associations).Save(player).Error; err != nil {
		return nil, err
	}

	return s.reload(player.ID)
}

// DeletePlayer removes the player and all of their characters.
func (s *PlayerService) DeletePlayer(playerID, userID uint) error {
	if _, err := loadOwnedPlayer(s.db, playerID, userID); err != nil {
		return err
	}

	if err := inTransaction(s.db, func(tx *gorm.DB) error {
		return deletePlayerTree(tx, playerID)
	}); err != nil {
		return err
	}

	log.Printf("Player %d deleted by user %d", playerID, userID)
	return nil
}
