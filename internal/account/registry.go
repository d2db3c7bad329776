// internal/account/registry.go
package account

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/nadav-o/pokerface/internal/audit"
	"github.com/nadav-o/pokerface/internal/auth"
	"github.com/nadav-o/pokerface/internal/models"
)

// DefaultLeague is the rank every user starts in until promoted.
const DefaultLeague = 0

// gamesPerPromotion is how many completed games advance a user one league.
const gamesPerPromotion = 10

var emailRegexp = regexp.MustCompile(`^[\w\-.+]*[\w\-.]@(\w+\.)+\w+$`)

// Registry owns the full set of registered users for the process. The map
// keyed by username and the id counter are the only shared mutable state;
// one reader/writer lock guards both, and every check-then-act sequence runs
// under it so concurrent callers observe a total order of state transitions.
//
// Construct one Registry in main and inject it; tests build a fresh instance
// each.
type Registry struct {
	mu     sync.RWMutex
	users  map[string]*models.User
	nextID int64

	store Store
	audit audit.Logger
}

// NewRegistry builds an empty registry backed by the given store and audit
// sink.
func NewRegistry(store Store, auditLog audit.Logger) *Registry {
	return &Registry{
		users: make(map[string]*models.User),
		store: store,
		audit: auditLog,
	}
}

func validUsername(username string) bool {
	return username != "" && !strings.ContainsFunc(username, unicode.IsSpace)
}

func validPassword(password string) bool {
	return password != "" && !strings.ContainsFunc(password, unicode.IsSpace)
}

// ValidEmail reports whether email has the shape local@domain.tld.
func ValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

// Register creates a new user. Validation short-circuits in a fixed order:
// username shape, username taken, password shape, email shape, wallet sign.
// The existence check, id assignment and insert happen under one write lock,
// so of two concurrent registrations for the same username exactly one
// succeeds.
func (r *Registry) Register(ctx context.Context, username, password, email string, initialWallet int) (models.User, error) {
	if !validUsername(username) {
		return models.User{}, ErrInvalidUsername
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[username]; ok {
		return models.User{}, ErrUserAlreadyExists
	}
	if !validPassword(password) {
		return models.User{}, ErrInvalidPassword
	}
	if !ValidEmail(email) {
		return models.User{}, ErrInvalidEmail
	}
	wallet, err := models.NewWallet(initialWallet)
	if err != nil {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		ID:       r.nextID,
		Username: username,
		Password: hash,
		Email:    email,
		Wallet:   wallet,
		League:   DefaultLeague,
	}
	if err := r.store.Insert(ctx, u); err != nil {
		return models.User{}, fmt.Errorf("failed to persist user %s: %w", username, err)
	}
	r.nextID++
	r.users[username] = u

	r.audit.WriteLine(fmt.Sprintf("user %s successfully registered.", username))
	return u.Clone(), nil
}

// Login validates credentials and marks the user logged in. The logged-in
// check and flag set run under the write lock, so two concurrent logins for
// one user cannot both succeed.
func (r *Registry) Login(ctx context.Context, username, password string) (models.User, error) {
	if !validUsername(username) {
		return models.User{}, ErrInvalidUsername
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	if !validPassword(password) {
		return models.User{}, ErrInvalidPassword
	}
	match, err := auth.VerifyPassword(password, u.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to verify password for %s: %w", username, err)
	}
	if !match {
		return models.User{}, ErrCredentialMismatch
	}
	if u.LoggedIn {
		return models.User{}, ErrAlreadyLoggedIn
	}

	if err := r.store.SetLoggedIn(ctx, username, true); err != nil {
		return models.User{}, fmt.Errorf("failed to persist login for %s: %w", username, err)
	}
	u.LoggedIn = true

	r.audit.WriteLine(fmt.Sprintf("%s successfully logged in.", username))
	return u.Clone(), nil
}

// Logout clears the logged-in flag.
func (r *Registry) Logout(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return ErrUserNotFound
	}
	if !u.LoggedIn {
		return ErrAlreadyLoggedOut
	}

	if err := r.store.SetLoggedIn(ctx, username, false); err != nil {
		return fmt.Errorf("failed to persist logout for %s: %w", username, err)
	}
	u.LoggedIn = false

	r.audit.WriteLine(fmt.Sprintf("%s successfully logged out.", username))
	return nil
}

// GetLoggedInUser resolves username to a snapshot of its account, failing if
// the user is unknown or not currently logged in. Callers never receive the
// live record; all mutation goes back through registry methods.
func (r *Registry) GetLoggedInUser(username string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	if !u.LoggedIn {
		return models.User{}, ErrUserNotLoggedIn
	}
	return u.Clone(), nil
}

// GetUser returns a snapshot of any registered user.
func (r *Registry) GetUser(username string) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return models.User{}, false
	}
	return u.Clone(), true
}

// SetUsername renames a user. The collision check and the index update are a
// single critical section, so the uniqueness index never holds a stale or
// duplicate key.
func (r *Registry) SetUsername(ctx context.Context, username, newUsername string) error {
	if !validUsername(newUsername) {
		return ErrInvalidUsername
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return ErrUserNotFound
	}
	if other, ok := r.users[newUsername]; ok && other != u {
		return ErrUserAlreadyExists
	}

	u.Username = newUsername
	if err := r.store.Update(ctx, username, u); err != nil {
		u.Username = username
		return fmt.Errorf("failed to persist username change for %s: %w", username, err)
	}
	delete(r.users, username)
	r.users[newUsername] = u
	return nil
}

func (r *Registry) SetEmail(ctx context.Context, username, email string) error {
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return ErrUserNotFound
	}

	prev := u.Email
	u.Email = email
	if err := r.store.Update(ctx, username, u); err != nil {
		u.Email = prev
		return fmt.Errorf("failed to persist email change for %s: %w", username, err)
	}
	return nil
}

func (r *Registry) SetPassword(ctx context.Context, username, password string) error {
	if !validPassword(password) {
		return ErrInvalidPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return ErrUserNotFound
	}

	prev := u.Password
	u.Password = hash
	if err := r.store.Update(ctx, username, u); err != nil {
		u.Password = prev
		return fmt.Errorf("failed to persist password change for %s: %w", username, err)
	}
	return nil
}

// MoveUserToLeague reassigns a user's league band. Sign validation is the
// caller's responsibility; moving a user to the league they already occupy
// fails.
func (r *Registry) MoveUserToLeague(ctx context.Context, username string, newLeague int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return ErrUserNotFound
	}
	if u.League == newLeague {
		return ErrUserAlreadyInLeague
	}

	prev := u.League
	u.League = newLeague
	if err := r.store.Update(ctx, username, u); err != nil {
		u.League = prev
		return fmt.Errorf("failed to persist league move for %s: %w", username, err)
	}

	r.audit.WriteLine(fmt.Sprintf("%s moved from league %d to league %d.", username, prev, newLeague))
	return nil
}

// RecordGamePlayed increments the user's completed-game count and promotes
// the league by one at every multiple of gamesPerPromotion. Increment and
// promotion happen under one lock acquisition, so concurrent completion
// reports neither lose counts nor double-promote.
func (r *Registry) RecordGamePlayed(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return ErrUserNotFound
	}

	u.GamesPlayed++
	if err := r.store.SetNumGamesPlayed(ctx, username, u.GamesPlayed); err != nil {
		u.GamesPlayed--
		return fmt.Errorf("failed to persist game count for %s: %w", username, err)
	}
	if u.GamesPlayed%gamesPerPromotion == 0 {
		u.League++
		if err := r.store.Update(ctx, username, u); err != nil {
			u.League--
			return fmt.Errorf("failed to persist promotion for %s: %w", username, err)
		}
		r.audit.WriteLine(fmt.Sprintf("%s promoted to league %d after %d games.", username, u.League, u.GamesPlayed))
	}
	return nil
}

// AddFavoriteTurn records a turn identifier on the user's favorites.
func (r *Registry) AddFavoriteTurn(ctx context.Context, username, turn string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return ErrUserNotFound
	}

	u.FavoriteTurns = append(u.FavoriteTurns, turn)
	if err := r.store.Update(ctx, username, u); err != nil {
		u.FavoriteTurns = u.FavoriteTurns[:len(u.FavoriteTurns)-1]
		return fmt.Errorf("failed to persist favorite turn for %s: %w", username, err)
	}
	return nil
}

// CreditWallet adds chips to the user's wallet.
func (r *Registry) CreditWallet(ctx context.Context, username string, amount int) error {
	return r.updateWallet(ctx, username, func(w *models.Wallet) error { return w.Credit(amount) })
}

// DebitWallet removes chips from the user's wallet; debiting past zero fails
// with ErrNegativeValue and changes nothing.
func (r *Registry) DebitWallet(ctx context.Context, username string, amount int) error {
	return r.updateWallet(ctx, username, func(w *models.Wallet) error { return w.Debit(amount) })
}

func (r *Registry) updateWallet(ctx context.Context, username string, op func(*models.Wallet) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return ErrUserNotFound
	}

	prev := u.Wallet
	if err := op(&u.Wallet); err != nil {
		return err
	}
	if err := r.store.Update(ctx, username, u); err != nil {
		u.Wallet = prev
		return fmt.Errorf("failed to persist wallet change for %s: %w", username, err)
	}
	return nil
}

// ClearUsers wipes the entire registry. Callers must serialize this against
// all other registry use; the id counter is not reset, so ids stay unique
// for the process lifetime.
func (r *Registry) ClearUsers(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear user store: %w", err)
	}
	r.users = make(map[string]*models.User)
	return nil
}
