package services

import (
	"fmt"

	"questlog/models"

	"gorm.io/gorm"
)

// The delete* helpers remove a record and everything that depends on it,
// children first. They must run inside a transaction.

func deleteGameTree(tx *gorm.DB, gameID uint) error {
	if err := tx.Where("game_id = ?", gameID).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete sessions of game %d: %w", gameID, err)
	}
	if err := tx.Where("game_id = ?", gameID).Delete(&models.Character{}).Error; err != nil {
		return fmt.Errorf("failed to delete characters of game %d: %w", gameID, err)
	}
	if err := tx.Delete(&models.Game{}, gameID).Error; err != nil {
		return fmt.Errorf("failed to delete game %d: %w", gameID, err)
	}
	return nil
}

func deletePlayerTree(tx *gorm.DB, playerID uint) error {
	if err := tx.Where("player_id = ?", playerID).Delete(&models.Character{}).Error; err != nil {
		return fmt.Errorf("failed to delete characters of player %d: %w", playerID, err)
	}
	if err := tx.Delete(&models.Player{}, playerID).Error; err != nil {
		return fmt.Errorf("failed to delete player %d: %w", playerID, err)
	}
	return nil
}

func deleteUserTree(tx *gorm.DB, userID uint) error {
	var gameIDs []uint
	if err := tx.Model(&models.Game{}).Where("user_id = ?", userID).Pluck("id", &gameIDs).Error; err != nil {
		return fmt.Errorf("failed to list games of user %d: %w", userID, err)
	}
	for _, id := range gameIDs {
		if err := deleteGameTree(tx, id); err != nil {
			return err
		}
	}

	var playerIDs []uint
	if err := tx.Model(&models.Player{}).Where("user_id = ?", userID).Pluck("id", &playerIDs).Error; err != nil {
		return fmt.Errorf("failed to list players of user %d: %w", userID, err)
	}
	for _, id := range playerIDs {
		if err := deletePlayerTree(tx, id); err != nil {
			return err
		}
	}

	if err := tx.Delete(&models.User{}, userID).Error; err != nil {
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	return nil
}
