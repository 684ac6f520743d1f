package serializers

import (
	"questlog/models"
)

// PlayerSummary is a player without characters or games.
type PlayerSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
	UserID  uint   `json:"user_id"`
}

func NewPlayerSummary(p *models.Player) PlayerSummary {
	return PlayerSummary{
		ID:      p.ID,
		Name:    p.Name,
		Summary: p.Summary,
		UserID:  p.UserID,
	}
}

type Player struct {
	PlayerSummary
	Characters []Character   `json:"characters"`
	Games      []GameSummary `json:"games"`
}

// NewPlayer expects p.Characters with their Game loaded.
func NewPlayer(p *models.Player) Player {
	games := make([]GameSummary, 0, len(p.Characters))
	seen := make(map[uint]bool, len(p.Characters))
	for i := range p.Characters {
		g := &p.Characters[i].Game
		if g.ID == 0 || seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		games = append(games, NewGameSummary(g))
	}

	return Player{
		PlayerSummary: NewPlayerSummary(p),
		Characters:    NewCharacters(p.Characters),
		Games:         games,
	}
}

func NewPlayers(players []models.Player) []Player {
	out := make([]Player, 0, len(players))
	for i := range players {
		out = append(out, NewPlayer(&players[i]))
	}
	return out
}

// PlayerWithCharacter is the result of creating a player together with its
// first character.
type PlayerWithCharacter struct {
	PlayerSummary
	Character *Character `json:"character"`
}

func NewPlayerWithCharacter(p *models.Player, c *models.Character) PlayerWithCharacter {
	out := PlayerWithCharacter{PlayerSummary: NewPlayerSummary(p)}
	if c != nil {
		view := NewCharacter(c)
		out.Character = &view
	}
	return out
}

// UniquePlayers lists the players behind characters, once per player id, in
// first-seen order. Characters must have Player loaded.
func UniquePlayers(characters []models.Character) []PlayerSummary {
	out := make([]PlayerSummary, 0, len(characters))
	seen := make(map[uint]bool, len(characters))
	for i := range characters {
		p := &characters[i].Player
		if p.ID == 0 || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, NewPlayerSummary(p))
	}
	return out
}
