// internal/session/session.go
package session

import (
	"context"

	"github.com/nadav-o/pokerface/internal/account"
	"github.com/nadav-o/pokerface/internal/game"
	"github.com/nadav-o/pokerface/internal/models"
)

// GameService is the game collaborator a session delegates to. Implemented
// by game.Service; faked in tests.
type GameService interface {
	Create(ctx context.Context, username string, prefs game.Preferences) (int, error)
	Join(ctx context.Context, username string, gameID int) error
	Spectate(ctx context.Context, username string, gameID int) error
	Replay(ctx context.Context, gameID int) ([]string, error)
	SaveFavoriteTurn(ctx context.Context, username string, gameID int, turn string) error
	FindBySpectatingPolicy(allowed bool) []int
	FindByPotSize(potSize int) []int
	Check(ctx context.Context, username string, gameID int) error
	Bet(ctx context.Context, username string, gameID int, amount int) error
	Raise(ctx context.Context, username string, gameID int, amount int) error
	AllIn(ctx context.Context, username string, gameID int) error
	Fold(ctx context.Context, username string, gameID int) error
}

// Session is a per-request accessor bound to one authenticated user. It
// decides nothing about betting legality; it confirms the user is logged in
// at construction and forwards actions to the game collaborator unchanged.
type Session struct {
	user  models.User
	games GameService
}

// Resolve builds a session for username, failing with the registry's
// UserNotFound / UserNotLoggedIn errors if the user cannot act.
func Resolve(registry *account.Registry, games GameService, username string) (*Session, error) {
	u, err := registry.GetLoggedInUser(username)
	if err != nil {
		return nil, err
	}
	return &Session{user: u, games: games}, nil
}

// User returns the snapshot taken when the session was resolved.
func (s *Session) User() models.User {
	return s.user
}

func (s *Session) CreateGame(ctx context.Context, prefs game.Preferences) (int, error) {
	return s.games.Create(ctx, s.user.Username, prefs)
}

func (s *Session) JoinGame(ctx context.Context, gameID int) error {
	return s.games.Join(ctx, s.user.Username, gameID)
}

func (s *Session) SpectateGame(ctx context.Context, gameID int) error {
	return s.games.Spectate(ctx, s.user.Username, gameID)
}

func (s *Session) ViewReplay(ctx context.Context, gameID int) ([]string, error) {
	return s.games.Replay(ctx, gameID)
}

func (s *Session) SaveFavoriteTurn(ctx context.Context, gameID int, turn string) error {
	return s.games.SaveFavoriteTurn(ctx, s.user.Username, gameID, turn)
}

// FindSpectatableGames lists games the user could watch.
func (s *Session) FindSpectatableGames() []int {
	return s.games.FindBySpectatingPolicy(true)
}

func (s *Session) FindGamesByPotSize(potSize int) []int {
	return s.games.FindByPotSize(potSize)
}

func (s *Session) Check(ctx context.Context, gameID int) error {
	return s.games.Check(ctx, s.user.Username, gameID)
}

func (s *Session) Bet(ctx context.Context, gameID int, amount int) error {
	return s.games.Bet(ctx, s.user.Username, gameID, amount)
}

func (s *Session) Raise(ctx context.Context, gameID int, amount int) error {
	return s.games.Raise(ctx, s.user.Username, gameID, amount)
}

func (s *Session) AllIn(ctx context.Context, gameID int) error {
	return s.games.AllIn(ctx, s.user.Username, gameID)
}

func (s *Session) Fold(ctx context.Context, gameID int) error {
	return s.games.Fold(ctx, s.user.Username, gameID)
}

// SetCriteria mirrors an administrative hook that was never given behavior
// upstream. Kept as an explicit no-op.
func (s *Session) SetCriteria(criteria int) {}
