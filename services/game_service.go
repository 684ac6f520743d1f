package services

import (
	"errors"
	"fmt"
	"log"

	"questlog/models"
	"questlog/validation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GameService struct {
	db *gorm.DB
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{db: db}
}

type CreateGameRequest struct {
	Title       *string `json:"title" binding:"required,min=1,max=100"`
	Description *string `json:"description"`
	System      *string `json:"system" binding:"required,min=1,max=100"`
	StartDate   *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	Setting     *string `json:"setting"`
	Status      *string `json:"status" binding:"required,min=1,max=50"`

	Assignments []AssignmentRequest `json:"assignments" binding:"-"`
}

func (r *CreateGameRequest) Normalize() {
	r.StartDate = emptyToNil(r.StartDate)
	for i := range r.Assignments {
		if c := r.Assignments[i].Character; c != nil {
			c.Normalize()
		}
	}
}

// AssignmentRequest puts a player into a new game through a character. The
// player is either an existing one (PlayerID) or created inline (Player).
type AssignmentRequest struct {
	PlayerID  validation.ID           `json:"player_id"`
	Player    *CreatePlayerRequest    `json:"player"`
	Character *CreateCharacterRequest `json:"character"`
}

// blank reports a row that names no player at all. Such rows are skipped.
func (a *AssignmentRequest) blank() bool {
	return a.PlayerID == 0 && (a.Player == nil || stringValue(a.Player.Name) == "")
}

type UpdateGameRequest struct {
	validation.Body

	Title       *string `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	System      *string `json:"system" binding:"omitempty,min=1,max=100"`
	StartDate   *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	Setting     *string `json:"setting"`
	Status      *string `json:"status" binding:"omitempty,min=1,max=50"`
}

func (r *UpdateGameRequest) Normalize() {
	r.StartDate = emptyToNil(r.StartDate)
}

// Apply copies the supplied fields onto game.
func (r *UpdateGameRequest) Apply(game *models.Game) error {
	if r.Title != nil {
		game.Title = *r.Title
	}
	if r.Description != nil {
		game.Description = *r.Description
	}
	if r.System != nil {
		game.System = *r.System
	}
	if r.StartDate != nil {
		startDate, err := parseOptionalDate(r.StartDate)
		if err != nil {
			return err
		}
		game.StartDate = startDate
	}
	if r.Setting != nil {
		game.Setting = *r.Setting
	}
	if r.Status != nil {
		game.Status = *r.Status
	}
	return nil
}

func (s *GameService) GetUserGames(userID uint) ([]models.Game, error) {
	var games []models.Game
	err := gameDetails(s.db, "").
		Where("user_id = ?", userID).
		Order("id").
		Find(&games).Error
	return games, err
}

func (s *GameService) GetGame(gameID, userID uint) (*models.Game, error) {
	if _, err := loadOwnedGame(s.db, gameID, userID); err != nil {
		return nil, err
	}
	return s.reload(gameID)
}

func (s *GameService) reload(gameID uint) (*models.Game, error) {
	var game models.Game
	if err := gameDetails(s.db, "").First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Game")
		}
		return nil, err
	}
	return &game, nil
}

// CreateGame creates a game owned by userID together with its assignments.
// Invalid game fields and invalid assignments are reported together, and
// nothing is written unless everything is valid.
func (s *GameService) CreateGame(userID uint, req *CreateGameRequest) (*models.Game, error) {
	errs := validation.Errors{}
	if err := errs.Collect("", validation.Struct(req)); err != nil {
		return nil, err
	}
	for i := range req.Assignments {
		assignment := &req.Assignments[i]
		if assignment.blank() {
			continue
		}
		if err := errs.Collect(fmt.Sprintf("assignments.%d", i), s.checkAssignment(userID, assignment)); err != nil {
			return nil, err
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	game := models.Game{
		Title:       *req.Title,
		Description: stringValue(req.Description),
		System:      *req.System,
		StartDate:   startDate,
		Setting:     stringValue(req.Setting),
		Status:      *req.Status,
		UserID:      userID,
	}

	applied := 0
	err = inTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(&game).Error; err != nil {
			return err
		}

		errs := validation.Errors{}
		for i := range req.Assignments {
			assignment := &req.Assignments[i]
			if assignment.blank() {
				continue
			}
			if err := errs.Collect(fmt.Sprintf("assignments.%d", i), s.assign(tx, userID, game.ID, assignment)); err != nil {
				return err
			}
			applied++
		}
		return errs.Err()
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Game %d created by user %d with %d assignment(s)", game.ID, userID, applied)
	return s.reload(game.ID)
}

// checkAssignment validates one assignment without writing anything.
func (s *GameService) checkAssignment(userID uint, a *AssignmentRequest) error {
	errs := validation.Errors{}

	if a.PlayerID != 0 {
		_, err := loadOwnedPlayer(s.db, uint(a.PlayerID), userID)
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnauthorized):
			errs.Add("player_id", "Player not found.")
		case err != nil:
			return err
		}
	} else {
		player := a.Player
		if player == nil {
			player = &CreatePlayerRequest{}
		}
		if err := errs.Collect("player", validation.Struct(player)); err != nil {
			return err
		}
	}

	if a.Character == nil {
		errs.Add("character", validation.RequiredMessage)
	} else if err := errs.Collect("character", validation.Struct(a.Character)); err != nil {
		return err
	}

	return errs.Err()
}

// assign links one checked assignment to gameID inside tx, creating the
// player first when the assignment carries a new one.
func (s *GameService) assign(tx *gorm.DB, userID, gameID uint, a *AssignmentRequest) error {
	errs := validation.Errors{}

	playerID := uint(a.PlayerID)
	if playerID == 0 {
		player, err := insertPlayer(tx, userID, a.Player)
		if err := errs.Collect("player", err); err != nil {
			return err
		}
		if player == nil {
			return errs.Err()
		}
		playerID = player.ID
	}

	a.Character.PlayerID = validation.ID(playerID)
	a.Character.GameID = validation.ID(gameID)
	_, err := insertCharacter(tx, a.Character)
	if err := errs.Collect("character", err); err != nil {
		return err
	}
	return errs.Err()
}

// UpdateGame applies a partial update. Ownership is checked before the
// supplied fields are validated.
func (s *GameService) UpdateGame(gameID, userID uint, req *UpdateGameRequest) (*models.Game, error) {
	game, err := loadOwnedGame(s.db, gameID, userID)
	if err != nil {
		return nil, err
	}

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := req.Apply(game); err != nil {
		return nil, err
	}

	if err := s.db.Omit(clause.Associations).Save(game).Error; err != nil {
		return nil, err
	}

	return s.reload(game.ID)
}

// DeleteGame removes the game with its sessions and characters.
func (s *GameService) DeleteGame(gameID, userID uint) error {
	if _, err := loadOwnedGame(s.db, gameID, userID); err != nil {
		return err
	}

	if err := inTransaction(s.db, func(tx *gorm.DB) error {
		return deleteGameTree(tx, gameID)
	}); err != nil {
		return err
	}

	log.Printf("Game %d deleted by user %d", gameID, userID)
	return nil
}
