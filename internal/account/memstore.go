// internal/account/memstore.go
package account

import (
	"context"
	"sync"

	"github.com/nadav-o/pokerface/internal/models"
)

// MemStore is an in-memory Store. It backs tests and standalone runs without
// a database.
type MemStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewMemStore() *MemStore {
	return &MemStore{users: make(map[string]models.User)}
}

func (s *MemStore) Exists(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[username]
	return ok, nil
}

func (s *MemStore) Get(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	cp := u.Clone()
	return &cp, nil
}

func (s *MemStore) Insert(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Username] = u.Clone()
	return nil
}

func (s *MemStore) Update(_ context.Context, oldUsername string, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, oldUsername)
	s.users[u.Username] = u.Clone()
	return nil
}

func (s *MemStore) SetLoggedIn(_ context.Context, username string, loggedIn bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[username]; ok {
		u.LoggedIn = loggedIn
		s.users[username] = u
	}
	return nil
}

func (s *MemStore) SetNumGamesPlayed(_ context.Context, username string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[username]; ok {
		u.GamesPlayed = n
		s.users[username] = u
	}
	return nil
}

func (s *MemStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]models.User)
	return nil
}

// Len reports how many records the store holds. Test helper.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
