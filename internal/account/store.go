// internal/account/store.go
package account

import (
	"context"

	"github.com/nadav-o/pokerface/internal/models"
)

// Store is the persistence collaborator behind the registry. The registry's
// in-memory map is authoritative during a process lifetime; the store is kept
// in step so users survive restarts. Implementations must be safe for
// concurrent use.
type Store interface {
	Exists(ctx context.Context, username string) (bool, error)
	Get(ctx context.Context, username string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
	// Update rewrites the stored record for oldUsername with u, including a
	// possible username change.
	Update(ctx context.Context, oldUsername string, u *models.User) error
	SetLoggedIn(ctx context.Context, username string, loggedIn bool) error
	SetNumGamesPlayed(ctx context.Context, username string, n int) error
	DeleteAll(ctx context.Context) error
}
