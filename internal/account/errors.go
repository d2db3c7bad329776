// internal/account/errors.go
package account

import (
	"errors"

	"github.com/nadav-o/pokerface/internal/models"
)

// Validation and state errors surfaced by the registry. Callers dispatch on
// these with errors.Is; the texts are stable but not part of the contract.
var (
	ErrInvalidUsername    = errors.New("username must be non-empty with no whitespace")
	ErrInvalidPassword    = errors.New("password must be non-empty with no whitespace")
	ErrInvalidEmail       = errors.New("email address is not valid")
	ErrUserAlreadyExists  = errors.New("username is already taken")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrCredentialMismatch = errors.New("username and password do not match")
	ErrAlreadyLoggedIn    = errors.New("user is already logged in")
	ErrAlreadyLoggedOut   = errors.New("user is already logged out")
	ErrUserNotLoggedIn    = errors.New("user is not logged in")

	ErrLeagueNotFound      = errors.New("league does not exist")
	ErrUserAlreadyInLeague = errors.New("user is already in that league")
	ErrUserNotInLeague     = errors.New("user is not in that league")
)

// ErrNegativeValue aliases the shared wallet sentinel, so every registry
// error kind can be matched from this package.
var ErrNegativeValue = models.ErrNegativeValue
