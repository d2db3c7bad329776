// internal/game/store.go
package game

import "sync"

// Store holds the active games in memory.
type Store struct {
	mu     sync.Mutex
	games  map[int]*Game
	nextID int
}

func NewStore() *Store {
	return &Store{games: make(map[int]*Game), nextID: 1}
}

// Create builds a new game with the given preferences and registers it.
func (s *Store) Create(prefs Preferences) *Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := newGame(s.nextID, prefs)
	s.nextID++
	s.games[g.ID] = g
	return g
}

func (s *Store) Get(id int) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	return g, ok
}

func (s *Store) Delete(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// List returns a copy of the active game set, so callers can filter while
// other goroutines mutate the store.
func (s *Store) List() []*Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	games := make([]*Game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g)
	}
	return games
}
