// internal/game/game.go
package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nadav-o/pokerface/internal/deck"
)

var (
	ErrGameNotFound         = errors.New("game does not exist")
	ErrGameFull             = errors.New("game is full")
	ErrGameFinished         = errors.New("game has already finished")
	ErrPlayerNotInGame      = errors.New("player is not seated in this game")
	ErrPlayerAlreadySeated  = errors.New("player is already seated in this game")
	ErrSpectatingNotAllowed = errors.New("game does not allow spectators")
)

// Preferences are the table settings fixed when a game is created.
type Preferences struct {
	BuyIn             int  `json:"buy_in"`
	ChipPolicy        int  `json:"chip_policy"`
	MinBet            int  `json:"min_bet"`
	MinPlayers        int  `json:"min_players"`
	MaxPlayers        int  `json:"max_players"`
	SpectatingAllowed bool `json:"spectating_allowed"`
}

// Game is one table. It exclusively owns its deck; no other game ever touches
// it. All state behind mu.
type Game struct {
	ID    int
	Prefs Preferences

	mu         sync.Mutex
	deck       *deck.Deck
	pot        int
	players    map[string]bool
	spectators map[string]bool
	replay     []string
	finished   bool
}

func newGame(id int, prefs Preferences) *Game {
	return &Game{
		ID:         id,
		Prefs:      prefs,
		deck:       deck.New(),
		players:    make(map[string]bool),
		spectators: make(map[string]bool),
	}
}

func (g *Game) record(format string, args ...interface{}) {
	g.replay = append(g.replay, fmt.Sprintf(format, args...))
}

// Join seats a player at the table.
func (g *Game) Join(username string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.finished {
		return ErrGameFinished
	}
	if g.players[username] {
		return ErrPlayerAlreadySeated
	}
	if g.Prefs.MaxPlayers > 0 && len(g.players) >= g.Prefs.MaxPlayers {
		return ErrGameFull
	}
	g.players[username] = true
	g.record("%s joined game %d", username, g.ID)
	return nil
}

// Spectate adds a watcher, subject to the table's spectating policy.
func (g *Game) Spectate(username string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.Prefs.SpectatingAllowed {
		return ErrSpectatingNotAllowed
	}
	g.spectators[username] = true
	g.record("%s started spectating game %d", username, g.ID)
	return nil
}

// Deal draws the next card from the table's deck.
func (g *Game) Deal() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	card, err := g.deck.Deal()
	if err != nil {
		return "", err
	}
	g.record("dealt %s", card)
	return card.String(), nil
}

// act applies a betting action for a seated player. amount is the number of
// chips moved into the pot (already debited from the player's wallet by the
// service layer).
func (g *Game) act(username, action string, amount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.finished {
		return ErrGameFinished
	}
	if !g.players[username] {
		return ErrPlayerNotInGame
	}
	g.pot += amount
	if amount > 0 {
		g.record("%s %s %d (pot %d)", username, action, amount, g.pot)
	} else {
		g.record("%s %s", username, action)
	}
	if action == "folded" {
		delete(g.players, username)
	}
	return nil
}

// Pot returns the current pot size.
func (g *Game) Pot() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pot
}

// Players returns the usernames currently seated.
func (g *Game) Players() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	names := make([]string, 0, len(g.players))
	for name := range g.players {
		names = append(names, name)
	}
	return names
}

// Replay returns a copy of the recorded action lines.
func (g *Game) Replay() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.replay...)
}

func (g *Game) finish() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished {
		return nil
	}
	g.finished = true
	g.record("game %d finished (pot %d)", g.ID, g.pot)
	names := make([]string, 0, len(g.players))
	for name := range g.players {
		names = append(names, name)
	}
	return names
}
