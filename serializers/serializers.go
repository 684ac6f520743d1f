// Package serializers shapes models into their JSON wire form. Each view is a
// fixed struct; nested views that would point back at their parent use a
// reduced projection instead, so no output can recurse.
package serializers

import (
	"time"

	"questlog/models"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Games    []Game `json:"games"`
}

func NewUser(u *models.User) User {
	return User{
		ID:       u.ID,
		Username: u.Username,
		Games:    NewGames(u.Games),
	}
}

type Game struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	System      string          `json:"system"`
	StartDate   *string         `json:"start_date"`
	Setting     string          `json:"setting"`
	Status      string          `json:"status"`
	UserID      uint            `json:"user_id"`
	Sessions    []Session       `json:"sessions"`
	Characters  []Character     `json:"characters"`
	Players     []PlayerSummary `json:"players"`
}

func NewGame(g *models.Game) Game {
	return Game{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		System:      g.System,
		StartDate:   formatOptionalDate(g.StartDate),
		Setting:     g.Setting,
		Status:      g.Status,
		UserID:      g.UserID,
		Sessions:    NewSessions(g.Sessions),
		Characters:  NewCharacters(g.Characters),
		Players:     UniquePlayers(g.Characters),
	}
}

func NewGames(games []models.Game) []Game {
	out := make([]Game, 0, len(games))
	for i := range games {
		out = append(out, NewGame(&games[i]))
	}
	return out
}

// GameSummary is a game without its nested collections, used inside player
// views.
type GameSummary struct {
	ID        uint    `json:"id"`
	Title     string  `json:"title"`
	System    string  `json:"system"`
	Status    string  `json:"status"`
	StartDate *string `json:"start_date"`
}

func NewGameSummary(g *models.Game) GameSummary {
	return GameSummary{
		ID:        g.ID,
		Title:     g.Title,
		System:    g.System,
		Status:    g.Status,
		StartDate: formatOptionalDate(g.StartDate),
	}
}
