// internal/game/service_test.go
package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadav-o/pokerface/internal/account"
	"github.com/nadav-o/pokerface/internal/audit"
)

func newTestService(t *testing.T) (*Service, *account.Registry) {
	t.Helper()
	registry := account.NewRegistry(account.NewMemStore(), audit.Nop{})
	return NewService(NewStore(), registry, audit.Nop{}), registry
}

func registerAndLogin(t *testing.T, r *account.Registry, username string) {
	t.Helper()
	_, err := r.Register(context.Background(), username, "pw1", username+"@x.com", 100)
	require.NoError(t, err)
	_, err = r.Login(context.Background(), username, "pw1")
	require.NoError(t, err)
}

func TestCreateSeatsCreator(t *testing.T) {
	svc, registry := newTestService(t)
	ctx := context.Background()
	registerAndLogin(t, registry, "alice")

	id, err := svc.Create(ctx, "alice", Preferences{MaxPlayers: 4})
	require.NoError(t, err)

	g, ok := svc.store.Get(id)
	require.True(t, ok)
	assert.Contains(t, g.Players(), "alice")
}

func TestJoinRules(t *testing.T) {
	svc, registry := newTestService(t)
	ctx := context.Background()
	registerAndLogin(t, registry, "alice")
	registerAndLogin(t, registry, "bob")
	registerAndLogin(t, registry, "carol")

	id, err := svc.Create(ctx, "alice", Preferences{MaxPlayers: 2})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Join(ctx, "bob", 999), ErrGameNotFound)
	require.NoError(t, svc.Join(ctx, "bob", id))
	assert.ErrorIs(t, svc.Join(ctx, "bob", id), ErrPlayerAlreadySeated)
	assert.ErrorIs(t, svc.Join(ctx, "carol", id), ErrGameFull)
}

func TestSpectatingPolicy(t *testing.T) {
	svc, registry := newTestService(t)
	ctx := context.Background()
	registerAndLogin(t, registry, "alice")
	registerAndLogin(t, registry, "bob")

	open, err := svc.Create(ctx, "alice", Preferences{SpectatingAllowed: true})
	require.NoError(t, err)
	closed, err := svc.Create(ctx, "alice", Preferences{SpectatingAllowed: false})
	require.NoError(t, err)

	require.NoError(t, svc.Spectate(ctx, "bob", open))
	assert.ErrorIs(t, svc.Spectate(ctx, "bob", closed), ErrSpectatingNotAllowed)

	assert.Equal(t, []int{open}, svc.FindBySpectatingPolicy(true))
	assert.Equal(t, []int{closed}, svc.FindBySpectatingPolicy(false))
}

func TestBettingMovesChips(t *testing.T) {
	svc, registry := newTestService(t)
	ctx := context.Background()
	registerAndLogin(t, registry, "alice")

	id, err := svc.Create(ctx, "alice", Preferences{})
	require.NoError(t, err)

	require.NoError(t, svc.Check(ctx, "alice", id))
	require.NoError(t, svc.Bet(ctx, "alice", id, 30))
	require.NoError(t, svc.Raise(ctx, "alice", id, 20))

	u, _ := registry.GetUser("alice")
	assert.Equal(t, 50, u.Wallet.Amount)

	g, _ := svc.store.Get(id)
	assert.Equal(t, 50, g.Pot())

	// A bet past the wallet balance fails without touching the pot.
	assert.Error(t, svc.Bet(ctx, "alice", id, 51))
	assert.Equal(t, 50, g.Pot())

	require.NoError(t, svc.AllIn(ctx, "alice", id))
	u, _ = registry.GetUser("alice")
	assert.Equal(t, 0, u.Wallet.Amount)
	assert.Equal(t, 100, g.Pot())
}

func TestBetRefundedWhenNotSeated(t *testing.T) {
	svc, registry := newTestService(t)
	ctx := context.Background()
	registerAndLogin(t, registry, "alice")
	registerAndLogin(t, registry, "bob")

	id, err := svc.Create(ctx, "alice", Preferences{})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Bet(ctx, "bob", id, 40), ErrPlayerNotInGame)
	u, _ := registry.GetUser("bob")
	assert.Equal(t, 100, u.Wallet.Amount)
}

func TestFoldRemovesPlayer(t *testing.T) {
	svc, registry := newTestService(t)
	ctx := context.Background()
	registerAndLogin(t, registry, "alice")
	registerAndLogin(t, registry, "bob")

	id, err := svc.Create(ctx, "alice", Preferences{})
	require.NoError(t, err)
	require.NoError(t, svc.Join(ctx, "bob", id))

	require.NoError(t, svc.Fold(ctx, "bob", id))
	g, _ := svc.store.Get(id)
	assert.NotContains(t, g.Players(), "bob")
	assert.ErrorIs(t, svc.Check(ctx, "bob", id), ErrPlayerNotInGame)
}

func TestFindByPotSize(t *testing.T) {
	svc, registry := newTestService(t)
	ctx := context.Background()
	registerAndLogin(t, registry, "alice")

	small, err := svc.Create(ctx, "alice", Preferences{})
	require.NoError(t, err)
	big, err := svc.Create(ctx, "alice", Preferences{})
	require.NoError(t, err)

	require.NoError(t, svc.Bet(ctx, "alice", small, 10))
	require.NoError(t, svc.Bet(ctx, "alice", big, 60))

	assert.Equal(t, []int{small, big}, svc.FindByPotSize(0))
	assert.Equal(t, []int{big}, svc.FindByPotSize(50))
	assert.Empty(t, svc.FindByPotSize(1000))
}

func TestReplayAndFavoriteTurn(t *testing.T) {
	svc, registry := newTestService(t)
	ctx := context.Background()
	registerAndLogin(t, registry, "alice")

	id, err := svc.Create(ctx, "alice", Preferences{})
	require.NoError(t, err)
	require.NoError(t, svc.Bet(ctx, "alice", id, 10))

	lines, err := svc.Replay(ctx, id)
	require.NoError(t, err)
	require.NotEmpty(t, lines)

	require.NoError(t, svc.SaveFavoriteTurn(ctx, "alice", id, lines[len(lines)-1]))
	u, _ := registry.GetUser("alice")
	assert.Len(t, u.FavoriteTurns, 1)

	assert.ErrorIs(t, svc.SaveFavoriteTurn(ctx, "alice", 999, "x"), ErrGameNotFound)
}

func TestFinishRecordsGamesPlayed(t *testing.T) {
	svc, registry := newTestService(t)
	ctx := context.Background()
	registerAndLogin(t, registry, "alice")
	registerAndLogin(t, registry, "bob")

	id, err := svc.Create(ctx, "alice", Preferences{})
	require.NoError(t, err)
	require.NoError(t, svc.Join(ctx, "bob", id))

	require.NoError(t, svc.Finish(ctx, id))

	for _, name := range []string{"alice", "bob"} {
		u, _ := registry.GetUser(name)
		assert.Equal(t, 1, u.GamesPlayed)
	}

	// The game is gone afterwards.
	assert.ErrorIs(t, svc.Join(ctx, "bob", id), ErrGameNotFound)
	assert.ErrorIs(t, svc.Finish(ctx, id), ErrGameNotFound)
}

func TestGameDealsFromOwnDeck(t *testing.T) {
	svc, registry := newTestService(t)
	ctx := context.Background()
	registerAndLogin(t, registry, "alice")

	id, err := svc.Create(ctx, "alice", Preferences{})
	require.NoError(t, err)
	g, _ := svc.store.Get(id)

	seen := make(map[string]bool)
	for i := 0; i < 52; i++ {
		card, err := g.Deal()
		require.NoError(t, err)
		assert.False(t, seen[card], "duplicate deal %s", card)
		seen[card] = true
	}
	_, err = g.Deal()
	assert.Error(t, err)
}
