// internal/game/service.go
package game

import (
	"context"
	"fmt"
	"sort"

	"github.com/nadav-o/pokerface/internal/account"
	"github.com/nadav-o/pokerface/internal/audit"
	"github.com/nadav-o/pokerface/internal/models"
)

// Service coordinates games with the account registry: bets debit wallets
// through the registry, and finished games feed the registry's game counter.
type Service struct {
	store    *Store
	registry *account.Registry
	audit    audit.Logger
}

func NewService(store *Store, registry *account.Registry, auditLog audit.Logger) *Service {
	return &Service{store: store, registry: registry, audit: auditLog}
}

// Create opens a new table and seats its creator.
func (s *Service) Create(ctx context.Context, username string, prefs Preferences) (int, error) {
	g := s.store.Create(prefs)
	if err := g.Join(username); err != nil {
		s.store.Delete(g.ID)
		return 0, err
	}
	s.audit.WriteLine(fmt.Sprintf("%s created game %d.", username, g.ID))
	return g.ID, nil
}

func (s *Service) Join(ctx context.Context, username string, gameID int) error {
	g, ok := s.store.Get(gameID)
	if !ok {
		return ErrGameNotFound
	}
	return g.Join(username)
}

func (s *Service) Spectate(ctx context.Context, username string, gameID int) error {
	g, ok := s.store.Get(gameID)
	if !ok {
		return ErrGameNotFound
	}
	return g.Spectate(username)
}

// Replay returns the recorded action lines of a game.
func (s *Service) Replay(ctx context.Context, gameID int) ([]string, error) {
	g, ok := s.store.Get(gameID)
	if !ok {
		return nil, ErrGameNotFound
	}
	return g.Replay(), nil
}

// SaveFavoriteTurn records a turn identifier from a game on the user.
func (s *Service) SaveFavoriteTurn(ctx context.Context, username string, gameID int, turn string) error {
	if _, ok := s.store.Get(gameID); !ok {
		return ErrGameNotFound
	}
	return s.registry.AddFavoriteTurn(ctx, username, turn)
}

// FindBySpectatingPolicy lists ids of active games matching the given
// spectating policy, ascending.
func (s *Service) FindBySpectatingPolicy(allowed bool) []int {
	var ids []int
	for _, g := range s.store.List() {
		if g.Prefs.SpectatingAllowed == allowed {
			ids = append(ids, g.ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// FindByPotSize lists ids of active games whose pot is at least potSize,
// ascending.
func (s *Service) FindByPotSize(potSize int) []int {
	var ids []int
	for _, g := range s.store.List() {
		if g.Pot() >= potSize {
			ids = append(ids, g.ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// Check passes the action without moving chips.
func (s *Service) Check(ctx context.Context, username string, gameID int) error {
	g, ok := s.store.Get(gameID)
	if !ok {
		return ErrGameNotFound
	}
	return g.act(username, "checked", 0)
}

// Bet debits the player's wallet and moves the chips into the pot.
func (s *Service) Bet(ctx context.Context, username string, gameID int, amount int) error {
	return s.wager(ctx, username, gameID, "bet", amount)
}

// Raise is a bet on top of the current pot.
func (s *Service) Raise(ctx context.Context, username string, gameID int, amount int) error {
	return s.wager(ctx, username, gameID, "raised", amount)
}

// AllIn wagers the player's entire wallet.
func (s *Service) AllIn(ctx context.Context, username string, gameID int) error {
	u, ok := s.registry.GetUser(username)
	if !ok {
		return account.ErrUserNotFound
	}
	return s.wager(ctx, username, gameID, "went all in with", u.Wallet.Amount)
}

func (s *Service) Fold(ctx context.Context, username string, gameID int) error {
	g, ok := s.store.Get(gameID)
	if !ok {
		return ErrGameNotFound
	}
	return g.act(username, "folded", 0)
}

func (s *Service) wager(ctx context.Context, username string, gameID int, action string, amount int) error {
	if amount < 0 {
		return models.ErrNegativeValue
	}
	g, ok := s.store.Get(gameID)
	if !ok {
		return ErrGameNotFound
	}
	if err := s.registry.DebitWallet(ctx, username, amount); err != nil {
		return err
	}
	if err := g.act(username, action, amount); err != nil {
		// Seat check failed after the debit; give the chips back.
		if creditErr := s.registry.CreditWallet(ctx, username, amount); creditErr != nil {
			return fmt.Errorf("failed to refund %s after rejected action: %w", username, creditErr)
		}
		return err
	}
	return nil
}

// Finish closes a game and reports one completed game per seated player to
// the registry, driving league promotion.
func (s *Service) Finish(ctx context.Context, gameID int) error {
	g, ok := s.store.Get(gameID)
	if !ok {
		return ErrGameNotFound
	}
	players := g.finish()
	for _, username := range players {
		if err := s.registry.RecordGamePlayed(ctx, username); err != nil {
			return fmt.Errorf("failed to record game for %s: %w", username, err)
		}
	}
	s.store.Delete(gameID)
	s.audit.WriteLine(fmt.Sprintf("game %d finished with %d players.", gameID, len(players)))
	return nil
}
