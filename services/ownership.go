package services

import (
	"errors"

	"questlog/models"

	"gorm.io/gorm"
)

// The loadOwned* helpers fetch a record and check that userID controls it,
// following the owner chain when the record has no user_id of its own. A
// missing record is reported before an ownership mismatch.

func loadOwnedGame(db *gorm.DB, gameID, userID uint) (*models.Game, error) {
	var game models.Game
	if err := db.First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Game")
		}
		return nil, err
	}
	if !game.OwnedBy(userID) {
		return nil, ErrUnauthorized
	}
	return &game, nil
}

func loadOwnedPlayer(db *gorm.DB, playerID, userID uint) (*models.Player, error) {
	var player models.Player
	if err := db.First(&player, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Player")
		}
		return nil, err
	}
	if !player.OwnedBy(userID) {
		return nil, ErrUnauthorized
	}
	return &player, nil
}

// Session → Game → User.
func loadOwnedSession(db *gorm.DB, sessionID, userID uint) (*models.Session, error) {
	var session models.Session
	if err := db.Preload("Game").First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Session")
		}
		return nil, err
	}
	if !session.Game.OwnedBy(userID) {
		return nil, ErrUnauthorized
	}
	return &session, nil
}

// Character → Player → User.
func loadOwnedCharacter(db *gorm.DB, characterID, userID uint) (*models.Character, error) {
	var character models.Character
	if err := db.Preload("Player").First(&character, characterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Character")
		}
		return nil, err
	}
	if !character.Player.OwnedBy(userID) {
		return nil, ErrUnauthorized
	}
	return &character, nil
}

// gameDetails preloads what the game view embeds. path is the association
// path to the game ("" for a game query, "Games." from a user).
func gameDetails(db *gorm.DB, path string) *gorm.DB {
	return db.
		Preload(path+"Sessions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sessions.date, sessions.id")
		}).
		Preload(path+"Characters", func(db *gorm.DB) *gorm.DB {
			return db.Order("characters.id")
		}).
		Preload(path + "Characters.Player")
}

func playerDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Characters", func(db *gorm.DB) *gorm.DB {
			return db.Order("characters.id")
		}).
		Preload("Characters.Game")
}
