// internal/deck/deck.go
package deck

import (
	"errors"
	"math/rand"
	"time"

	"github.com/nadav-o/pokerface/internal/models"
)

// Size is the number of cards in a full deck.
const Size = 52

// ErrDeckExhausted is returned by Deal when no cards remain.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is an ordered sequence of up to 52 unique cards. Each deck is owned
// exclusively by a single game instance; the deck itself does no locking.
type Deck struct {
	cards []models.Card
	rng   *rand.Rand
}

// New builds a full deck with a time-seeded random source and shuffles it.
func New() *Deck {
	return NewSeeded(rand.NewSource(time.Now().UnixNano()))
}

// NewSeeded builds a full shuffled deck using the given source, so tests can
// make the permutation deterministic.
func NewSeeded(src rand.Source) *Deck {
	d := &Deck{rng: rand.New(src)}
	d.Reset()
	return d
}

// Reset discards the current contents, rebuilds the fixed 52-card base order
// (all ranks of clubs, spades, diamonds, then hearts) and shuffles.
func (d *Deck) Reset() {
	d.cards = d.cards[:0]
	for _, suit := range models.Suits {
		for _, rank := range models.Ranks {
			d.cards = append(d.cards, models.NewCard(rank, suit))
		}
	}
	d.Shuffle()
}

// Shuffle produces a new random permutation of the remaining cards.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes and returns the top card.
func (d *Deck) Deal() (models.Card, error) {
	if len(d.cards) == 0 {
		return models.Card{}, ErrDeckExhausted
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// Remaining reports how many cards are left to deal.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
