// internal/account/registry_test.go
package account

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadav-o/pokerface/internal/audit"
	"github.com/nadav-o/pokerface/internal/models"
)

func newTestRegistry(t *testing.T) (*Registry, *MemStore) {
	t.Helper()
	store := NewMemStore()
	return NewRegistry(store, audit.Nop{}), store
}

func mustRegister(t *testing.T, r *Registry, username string) models.User {
	t.Helper()
	u, err := r.Register(context.Background(), username, "pw1", username+"@x.com", 100)
	require.NoError(t, err)
	return u
}

func TestRegisterValidationOrder(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx := context.Background()

	// Username shape is checked before anything else.
	_, err := r.Register(ctx, "", "pw", "a@x.com", 10)
	assert.ErrorIs(t, err, ErrInvalidUsername)
	_, err = r.Register(ctx, "has space", "pw", "a@x.com", 10)
	assert.ErrorIs(t, err, ErrInvalidUsername)

	mustRegister(t, r, "alice")

	// An existing username wins over a bad password.
	_, err = r.Register(ctx, "alice", "", "a@x.com", 10)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = r.Register(ctx, "bob", "bad pw", "b@x.com", 10)
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = r.Register(ctx, "bob", "pw", "not-an-email", 10)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = r.Register(ctx, "bob", "pw", "b@x.com", -5)
	assert.ErrorIs(t, err, ErrNegativeValue)
}

func TestRegisterDefaults(t *testing.T) {
	r, store := newTestRegistry(t)

	u := mustRegister(t, r, "alice")
	assert.Equal(t, DefaultLeague, u.League)
	assert.False(t, u.LoggedIn)
	assert.Equal(t, 100, u.Wallet.Amount)
	assert.NotEqual(t, "pw1", u.Password, "password must be stored hashed")
	assert.Equal(t, 1, store.Len())
}

func TestRegisterAssignsUniqueIDs(t *testing.T) {
	r, _ := newTestRegistry(t)

	seen := make(map[int64]bool)
	for i := 0; i < 20; i++ {
		u := mustRegister(t, r, fmt.Sprintf("user%d", i))
		assert.False(t, seen[u.ID], "id %d assigned twice", u.ID)
		seen[u.ID] = true
	}

	// Clearing the registry must not recycle ids.
	require.NoError(t, r.ClearUsers(context.Background()))
	u := mustRegister(t, r, "late")
	assert.False(t, seen[u.ID], "id %d reused after clear", u.ID)
}

func TestConcurrentDuplicateRegistration(t *testing.T) {
	r, store := newTestRegistry(t)

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.Register(context.Background(), "alice", "pw1", "alice@x.com", 100)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrUserAlreadyExists)
		}
	}
	assert.Equal(t, 1, wins, "exactly one registration must succeed")
	assert.Equal(t, 1, store.Len())
}

func TestLoginLogoutStateMachine(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx := context.Background()
	mustRegister(t, r, "alice")

	// login -> logout -> login again all succeed in sequence.
	for i := 0; i < 2; i++ {
		u, err := r.Login(ctx, "alice", "pw1")
		require.NoError(t, err)
		assert.True(t, u.LoggedIn)
		require.NoError(t, r.Logout(ctx, "alice"))
	}

	_, err := r.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	_, err = r.Login(ctx, "alice", "pw1")
	assert.ErrorIs(t, err, ErrAlreadyLoggedIn)

	require.NoError(t, r.Logout(ctx, "alice"))
	assert.ErrorIs(t, r.Logout(ctx, "alice"), ErrAlreadyLoggedOut)
}

func TestLoginValidation(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx := context.Background()
	mustRegister(t, r, "alice")

	_, err := r.Login(ctx, "", "pw1")
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = r.Login(ctx, "ghost", "pw1")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = r.Login(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = r.Login(ctx, "alice", "wrongpw")
	assert.ErrorIs(t, err, ErrCredentialMismatch)

	assert.ErrorIs(t, r.Logout(ctx, "ghost"), ErrUserNotFound)
}

func TestConcurrentLoginSingleWinner(t *testing.T) {
	r, _ := newTestRegistry(t)
	mustRegister(t, r, "alice")

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.Login(context.Background(), "alice", "pw1")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyLoggedIn)
		}
	}
	assert.Equal(t, 1, wins, "exactly one login must succeed")
}

func TestGetLoggedInUser(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx := context.Background()

	_, err := r.GetLoggedInUser("ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	mustRegister(t, r, "alice")
	_, err = r.GetLoggedInUser("alice")
	assert.ErrorIs(t, err, ErrUserNotLoggedIn)

	_, err = r.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	u, err := r.GetLoggedInUser("alice")
	require.NoError(t, err)

	// The snapshot must not alias registry state.
	u.Wallet.Amount = 0
	again, err := r.GetLoggedInUser("alice")
	require.NoError(t, err)
	assert.Equal(t, 100, again.Wallet.Amount)
}

func TestLeaguePromotionEveryTenGames(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx := context.Background()
	mustRegister(t, r, "alice")

	for i := 0; i < 9; i++ {
		require.NoError(t, r.RecordGamePlayed(ctx, "alice"))
	}
	u, _ := r.GetUser("alice")
	assert.Equal(t, 0, u.League, "9 games must not promote")

	require.NoError(t, r.RecordGamePlayed(ctx, "alice"))
	u, _ = r.GetUser("alice")
	assert.Equal(t, 1, u.League, "10th game promotes to league 1")
	assert.Equal(t, 10, u.GamesPlayed)
}

func TestConcurrentRecordGamePlayed(t *testing.T) {
	r, store := newTestRegistry(t)
	mustRegister(t, r, "alice")

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.RecordGamePlayed(context.Background(), "alice"))
		}()
	}
	wg.Wait()

	u, _ := r.GetUser("alice")
	assert.Equal(t, n, u.GamesPlayed, "no increment may be lost")
	assert.Equal(t, n/10, u.League, "one promotion per ten games, no doubles")

	stored, err := store.Get(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, n, stored.GamesPlayed)
}

func TestSetUsernameUpdatesIndex(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx := context.Background()
	mustRegister(t, r, "alice")
	mustRegister(t, r, "bob")

	assert.ErrorIs(t, r.SetUsername(ctx, "alice", "has space"), ErrInvalidUsername)
	assert.ErrorIs(t, r.SetUsername(ctx, "alice", "bob"), ErrUserAlreadyExists)
	assert.ErrorIs(t, r.SetUsername(ctx, "ghost", "carol"), ErrUserNotFound)

	require.NoError(t, r.SetUsername(ctx, "alice", "carol"))
	_, ok := r.GetUser("alice")
	assert.False(t, ok, "old key must be gone")
	u, ok := r.GetUser("carol")
	require.True(t, ok)
	assert.Equal(t, "carol", u.Username)

	// The freed name is available again.
	mustRegister(t, r, "alice")
}

func TestSetEmailAndPassword(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx := context.Background()
	mustRegister(t, r, "alice")

	assert.ErrorIs(t, r.SetEmail(ctx, "alice", "nope"), ErrInvalidEmail)
	require.NoError(t, r.SetEmail(ctx, "alice", "new@y.org"))
	u, _ := r.GetUser("alice")
	assert.Equal(t, "new@y.org", u.Email)

	assert.ErrorIs(t, r.SetPassword(ctx, "alice", "with space"), ErrInvalidPassword)
	require.NoError(t, r.SetPassword(ctx, "alice", "pw2"))
	_, err := r.Login(ctx, "alice", "pw1")
	assert.ErrorIs(t, err, ErrCredentialMismatch)
	_, err = r.Login(ctx, "alice", "pw2")
	assert.NoError(t, err)
}

func TestMoveUserToLeague(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx := context.Background()
	mustRegister(t, r, "alice")

	assert.ErrorIs(t, r.MoveUserToLeague(ctx, "ghost", 2), ErrUserNotFound)
	assert.ErrorIs(t, r.MoveUserToLeague(ctx, "alice", 0), ErrUserAlreadyInLeague)

	require.NoError(t, r.MoveUserToLeague(ctx, "alice", 3))
	u, _ := r.GetUser("alice")
	assert.Equal(t, 3, u.League)
}

func TestWalletOperations(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx := context.Background()
	mustRegister(t, r, "alice")

	require.NoError(t, r.DebitWallet(ctx, "alice", 30))
	require.NoError(t, r.CreditWallet(ctx, "alice", 10))
	u, _ := r.GetUser("alice")
	assert.Equal(t, 80, u.Wallet.Amount)

	// Debiting past zero fails and changes nothing.
	assert.ErrorIs(t, r.DebitWallet(ctx, "alice", 81), ErrNegativeValue)
	u, _ = r.GetUser("alice")
	assert.Equal(t, 80, u.Wallet.Amount)
}

func TestClearUsers(t *testing.T) {
	r, store := newTestRegistry(t)
	ctx := context.Background()
	mustRegister(t, r, "alice")
	mustRegister(t, r, "bob")

	require.NoError(t, r.ClearUsers(ctx))
	_, ok := r.GetUser("alice")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("alice@x.com"))
	assert.True(t, ValidEmail("a.b+c@mail.example.org"))
	assert.False(t, ValidEmail(""))
	assert.False(t, ValidEmail("alice"))
	assert.False(t, ValidEmail("alice@"))
	assert.False(t, ValidEmail("@x.com"))
	assert.False(t, ValidEmail("alice@x"))
}
