package services

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"questlog/models"
	"questlog/validation"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func strPtr(s string) *string { return &s }

func mustSignup(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user, err := NewAuthService(db).Signup(&SignupRequest{Username: strPtr(username), Password: strPtr("secret123")})
	require.NoError(t, err)
	return user
}

func mustGame(t *testing.T, db *gorm.DB, userID uint, title string) *models.Game {
	t.Helper()
	game, err := NewGameService(db).CreateGame(userID, &CreateGameRequest{
		Title:  strPtr(title),
		System: strPtr("5e"),
		Status: strPtr("active"),
	})
	require.NoError(t, err)
	return game
}

func count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func TestSignup_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	mustSignup(t, db, "ana")

	_, err := NewAuthService(db).Signup(&SignupRequest{Username: strPtr("ana"), Password: strPtr("other")})

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, int64(1), count(t, db, &models.User{}, "username = ?", "ana"))
}

func TestSignup_Validation(t *testing.T) {
	db := newTestDB(t)

	_, err := NewAuthService(db).Signup(&SignupRequest{Username: strPtr("ab")})

	errs, ok := validation.IsErrors(err)
	require.True(t, ok)
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "password")
	assert.Equal(t, int64(0), count(t, db, &models.User{}, "1 = 1"))
}

func TestSignup_StoresHashOnly(t *testing.T) {
	db := newTestDB(t)
	user := mustSignup(t, db, "ana")

	assert.NotEqual(t, "secret123", user.PasswordHash)
	_, err := user.Password()
	assert.ErrorIs(t, err, models.ErrPasswordUnreadable)
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	mustSignup(t, db, "ana")
	auth := NewAuthService(db)

	user, err := auth.Login(&LoginRequest{Username: "ana", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)

	_, err = auth.Login(&LoginRequest{Username: "ana", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(&LoginRequest{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUserGames_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")
	ben := mustSignup(t, db, "ben")
	mustGame(t, db, ana.ID, "Strahd")

	games, err := NewGameService(db).GetUserGames(ben.ID)
	require.NoError(t, err)
	assert.Empty(t, games)

	games, err = NewGameService(db).GetUserGames(ana.ID)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Strahd", games[0].Title)
}

func TestUpdateGame_PartialAndOwnership(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")
	ben := mustSignup(t, db, "ben")
	game := mustGame(t, db, ana.ID, "Strahd")
	games := NewGameService(db)

	_, err := games.UpdateGame(game.ID, ben.ID, &UpdateGameRequest{Status: strPtr("completed")})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = games.UpdateGame(game.ID+100, ana.ID, &UpdateGameRequest{})
	assert.ErrorIs(t, err, ErrNotFound)

	// Ownership is decided before field validation.
	_, err = games.UpdateGame(game.ID, ben.ID, &UpdateGameRequest{Title: strPtr("")})
	assert.ErrorIs(t, err, ErrUnauthorized)

	updated, err := games.UpdateGame(game.ID, ana.ID, &UpdateGameRequest{Status: strPtr("completed")})
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "Strahd", updated.Title)
	assert.Equal(t, "5e", updated.System)

	_, err = games.UpdateGame(game.ID, ana.ID, &UpdateGameRequest{Title: strPtr("")})
	errs, ok := validation.IsErrors(err)
	require.True(t, ok)
	assert.Contains(t, errs, "title")
}

func TestDeleteGame_Cascades(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")
	game := mustGame(t, db, ana.ID, "Strahd")

	_, err := NewSessionService(db).CreateSession(game.ID, ana.ID, &CreateSessionRequest{Date: strPtr("2024-05-01")})
	require.NoError(t, err)
	player, _, err := NewPlayerService(db).CreatePlayerInGame(game.ID, ana.ID, &CreatePlayerRequest{
		Name:      strPtr("Bob"),
		Character: &CreateCharacterRequest{Name: strPtr("Ireena"), CharacterClass: strPtr("Fighter")},
	})
	require.NoError(t, err)

	require.NoError(t, NewGameService(db).DeleteGame(game.ID, ana.ID))

	assert.Equal(t, int64(0), count(t, db, &models.Game{}, "id = ?", game.ID))
	assert.Equal(t, int64(0), count(t, db, &models.Session{}, "game_id = ?", game.ID))
	assert.Equal(t, int64(0), count(t, db, &models.Character{}, "game_id = ?", game.ID))
	// The player outlives the game.
	assert.Equal(t, int64(1), count(t, db, &models.Player{}, "id = ?", player.ID))
}

func TestCreatePlayerInGame_RollsBackOnInvalidCharacter(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")
	game := mustGame(t, db, ana.ID, "Strahd")

	_, _, err := NewPlayerService(db).CreatePlayerInGame(game.ID, ana.ID, &CreatePlayerRequest{
		Name:      strPtr("Bob"),
		Character: &CreateCharacterRequest{Name: strPtr("Ireena")},
	})

	errs, ok := validation.IsErrors(err)
	require.True(t, ok)
	assert.Contains(t, errs, "character.character_class")
	assert.Equal(t, int64(0), count(t, db, &models.Player{}, "1 = 1"))
	assert.Equal(t, int64(0), count(t, db, &models.Character{}, "1 = 1"))
}

func TestCreatePlayerInGame_WithCharacter(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")
	game := mustGame(t, db, ana.ID, "Strahd")

	player, character, err := NewPlayerService(db).CreatePlayerInGame(game.ID, ana.ID, &CreatePlayerRequest{
		Name:      strPtr("Bob"),
		Character: &CreateCharacterRequest{Name: strPtr("Ireena"), CharacterClass: strPtr("Fighter")},
	})
	require.NoError(t, err)

	require.NotNil(t, character)
	assert.Equal(t, player.ID, character.PlayerID)
	assert.Equal(t, game.ID, character.GameID)
	assert.Equal(t, 1, character.Level)
	assert.True(t, character.IsActive)
	assert.Equal(t, ana.ID, player.UserID)
}

func TestCreatePlayerInGame_ForeignGame(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")
	ben := mustSignup(t, db, "ben")
	game := mustGame(t, db, ana.ID, "Strahd")

	_, _, err := NewPlayerService(db).CreatePlayerInGame(game.ID, ben.ID, &CreatePlayerRequest{Name: strPtr("Bob")})

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int64(0), count(t, db, &models.Player{}, "1 = 1"))
}

func TestCreateGame_WithAssignments(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")
	existing, err := NewPlayerService(db).CreatePlayer(ana.ID, &CreatePlayerRequest{Name: strPtr("Cleo")})
	require.NoError(t, err)

	game, err := NewGameService(db).CreateGame(ana.ID, &CreateGameRequest{
		Title:  strPtr("Tomb"),
		System: strPtr("5e"),
		Status: strPtr("planning"),
		Assignments: []AssignmentRequest{
			{PlayerID: validation.ID(existing.ID), Character: &CreateCharacterRequest{Name: strPtr("Vex"), CharacterClass: strPtr("Ranger")}},
			{Player: &CreatePlayerRequest{Name: strPtr("Dan")}, Character: &CreateCharacterRequest{Name: strPtr("Grog"), CharacterClass: strPtr("Barbarian")}},
			{},
		},
	})
	require.NoError(t, err)

	assert.Len(t, game.Characters, 2)
	assert.Equal(t, int64(2), count(t, db, &models.Player{}, "user_id = ?", ana.ID))
}

func TestCreateGame_AssignmentFailureRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")
	ben := mustSignup(t, db, "ben")
	foreign, err := NewPlayerService(db).CreatePlayer(ben.ID, &CreatePlayerRequest{Name: strPtr("Eve")})
	require.NoError(t, err)

	_, err = NewGameService(db).CreateGame(ana.ID, &CreateGameRequest{
		Title:  strPtr("Tomb"),
		System: strPtr("5e"),
		Status: strPtr("planning"),
		Assignments: []AssignmentRequest{
			{Player: &CreatePlayerRequest{Name: strPtr("Dan")}, Character: &CreateCharacterRequest{Name: strPtr("Grog"), CharacterClass: strPtr("Barbarian")}},
			{Player: &CreatePlayerRequest{Name: strPtr("Fay")}, Character: &CreateCharacterRequest{Name: strPtr("Pike")}},
			{PlayerID: validation.ID(foreign.ID), Character: &CreateCharacterRequest{Name: strPtr("X"), CharacterClass: strPtr("Y")}},
		},
	})

	errs, ok := validation.IsErrors(err)
	require.True(t, ok)
	assert.Contains(t, errs, "assignments.1.character.character_class")
	assert.Contains(t, errs, "assignments.2.player_id")
	assert.Equal(t, int64(0), count(t, db, &models.Game{}, "user_id = ?", ana.ID))
	assert.Equal(t, int64(0), count(t, db, &models.Player{}, "user_id = ?", ana.ID))
	assert.Equal(t, int64(0), count(t, db, &models.Character{}, "1 = 1"))
}

func TestCreateGame_NormalizesEmptyStartDate(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")

	req := &CreateGameRequest{Title: strPtr("T"), System: strPtr("S"), Status: strPtr("s"), StartDate: strPtr("")}
	req.Normalize()
	game, err := NewGameService(db).CreateGame(ana.ID, req)

	require.NoError(t, err)
	assert.Nil(t, game.StartDate)
}

func TestSessionOwnershipThroughGame(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")
	ben := mustSignup(t, db, "ben")
	game := mustGame(t, db, ana.ID, "Strahd")
	sessions := NewSessionService(db)

	session, err := sessions.CreateSession(game.ID, ana.ID, &CreateSessionRequest{Date: strPtr("2024-05-01"), Summary: strPtr("Arrival")})
	require.NoError(t, err)

	_, err = sessions.UpdateSession(session.ID, ben.ID, &UpdateSessionRequest{Summary: strPtr("hijacked")})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, sessions.DeleteSession(session.ID, ben.ID), ErrUnauthorized)

	updated, err := sessions.UpdateSession(session.ID, ana.ID, &UpdateSessionRequest{Summary: strPtr("Village of Barovia")})
	require.NoError(t, err)
	assert.Equal(t, "Village of Barovia", updated.Summary)
	assert.Equal(t, "2024-05-01", updated.Date.Format("2006-01-02"))

	_, err = sessions.CreateSession(game.ID, ana.ID, &CreateSessionRequest{Date: strPtr("May 1st")})
	errs, ok := validation.IsErrors(err)
	require.True(t, ok)
	assert.Contains(t, errs, "date")
}

func TestCharacterOwnershipThroughPlayer(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")
	ben := mustSignup(t, db, "ben")
	game := mustGame(t, db, ana.ID, "Strahd")
	benGame := mustGame(t, db, ben.ID, "Other")
	player, err := NewPlayerService(db).CreatePlayer(ana.ID, &CreatePlayerRequest{Name: strPtr("Bob")})
	require.NoError(t, err)
	characters := NewCharacterService(db)

	_, err = characters.CreateCharacter(player.ID, ben.ID, &CreateCharacterRequest{
		Name: strPtr("A"), CharacterClass: strPtr("B"), GameID: validation.ID(benGame.ID),
	})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = characters.CreateCharacter(player.ID, ana.ID, &CreateCharacterRequest{
		Name: strPtr("A"), CharacterClass: strPtr("B"), GameID: validation.ID(benGame.ID),
	})
	errs, ok := validation.IsErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Game not found."}, errs["game_id"])

	character, err := characters.CreateCharacter(player.ID, ana.ID, &CreateCharacterRequest{
		Name: strPtr("Ireena"), CharacterClass: strPtr("Fighter"), GameID: validation.ID(game.ID),
	})
	require.NoError(t, err)

	_, err = characters.UpdateCharacter(character.ID, ben.ID, &UpdateCharacterRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrUnauthorized)

	inactive := false
	level := 5
	updated, err := characters.UpdateCharacter(character.ID, ana.ID, &UpdateCharacterRequest{IsActive: &inactive, Level: &level})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 5, updated.Level)
	assert.Equal(t, "Ireena", updated.Name)

	require.NoError(t, characters.DeleteCharacter(character.ID, ana.ID))
	assert.ErrorIs(t, characters.DeleteCharacter(character.ID, ana.ID), ErrNotFound)
}

func TestDeletePlayer_Cascades(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")
	game := mustGame(t, db, ana.ID, "Strahd")
	player, _, err := NewPlayerService(db).CreatePlayerInGame(game.ID, ana.ID, &CreatePlayerRequest{
		Name:      strPtr("Bob"),
		Character: &CreateCharacterRequest{Name: strPtr("Ireena"), CharacterClass: strPtr("Fighter")},
	})
	require.NoError(t, err)

	require.NoError(t, NewPlayerService(db).DeletePlayer(player.ID, ana.ID))

	assert.Equal(t, int64(0), count(t, db, &models.Character{}, "player_id = ?", player.ID))
	assert.Equal(t, int64(1), count(t, db, &models.Game{}, "id = ?", game.ID))
}

func TestDeleteAccount_Cascades(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")
	ben := mustSignup(t, db, "ben")
	game := mustGame(t, db, ana.ID, "Strahd")
	mustGame(t, db, ben.ID, "Other")
	_, err := NewSessionService(db).CreateSession(game.ID, ana.ID, &CreateSessionRequest{Date: strPtr("2024-05-01")})
	require.NoError(t, err)
	_, _, err = NewPlayerService(db).CreatePlayerInGame(game.ID, ana.ID, &CreatePlayerRequest{
		Name:      strPtr("Bob"),
		Character: &CreateCharacterRequest{Name: strPtr("Ireena"), CharacterClass: strPtr("Fighter")},
	})
	require.NoError(t, err)

	require.NoError(t, NewAuthService(db).DeleteAccount(ana.ID))

	assert.Equal(t, int64(0), count(t, db, &models.User{}, "id = ?", ana.ID))
	assert.Equal(t, int64(0), count(t, db, &models.Game{}, "user_id = ?", ana.ID))
	assert.Equal(t, int64(0), count(t, db, &models.Player{}, "user_id = ?", ana.ID))
	assert.Equal(t, int64(0), count(t, db, &models.Session{}, "1 = 1"))
	assert.Equal(t, int64(0), count(t, db, &models.Character{}, "1 = 1"))
	assert.Equal(t, int64(1), count(t, db, &models.Game{}, "user_id = ?", ben.ID))
}

func TestCreateGame_ReportsGameAndAssignmentErrorsTogether(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")

	_, err := NewGameService(db).CreateGame(ana.ID, &CreateGameRequest{
		Title:  strPtr(""),
		System: strPtr("5e"),
		Assignments: []AssignmentRequest{
			{Player: &CreatePlayerRequest{Name: strPtr("Dan")}, Character: &CreateCharacterRequest{Name: strPtr("Grog")}},
			{Player: &CreatePlayerRequest{Name: strPtr("Fay")}},
		},
	})

	errs, ok := validation.IsErrors(err)
	require.True(t, ok)
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "status")
	assert.Contains(t, errs, "assignments.0.character.character_class")
	assert.Equal(t, []string{validation.RequiredMessage}, errs["assignments.1.character"])
	assert.Equal(t, int64(0), count(t, db, &models.Game{}, "1 = 1"))
	assert.Equal(t, int64(0), count(t, db, &models.Player{}, "1 = 1"))
}

func TestCreateGame_LogsAppliedAssignmentsOnly(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	_, err := NewGameService(db).CreateGame(ana.ID, &CreateGameRequest{
		Title:  strPtr("Tomb"),
		System: strPtr("5e"),
		Status: strPtr("planning"),
		Assignments: []AssignmentRequest{
			{},
			{Player: &CreatePlayerRequest{Name: strPtr("Dan")}, Character: &CreateCharacterRequest{Name: strPtr("Grog"), CharacterClass: strPtr("Barbarian")}},
			{Player: &CreatePlayerRequest{Name: strPtr("")}},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "with 1 assignment(s)")
}

func TestUpdateGame_DecodeErrorReportedAfterOwnership(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")
	ben := mustSignup(t, db, "ben")
	game := mustGame(t, db, ana.ID, "Strahd")
	games := NewGameService(db)

	var req UpdateGameRequest
	require.NoError(t, validation.Decode(strings.NewReader(`{"title":5}`), &req))

	_, err := games.UpdateGame(game.ID, ben.ID, &req)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = games.UpdateGame(game.ID+100, ana.ID, &req)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = games.UpdateGame(game.ID, ana.ID, &req)
	errs, ok := validation.IsErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Not a valid string."}, errs["title"])
}

func TestCreateCharacter_RequiresGame(t *testing.T) {
	db := newTestDB(t)
	ana := mustSignup(t, db, "ana")
	player, err := NewPlayerService(db).CreatePlayer(ana.ID, &CreatePlayerRequest{Name: strPtr("Bob")})
	require.NoError(t, err)

	_, err = NewCharacterService(db).CreateCharacter(player.ID, ana.ID, &CreateCharacterRequest{
		Name: strPtr("Ireena"), CharacterClass: strPtr("Fighter"),
	})

	errs, ok := validation.IsErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{validation.RequiredMessage}, errs["game_id"])
}
