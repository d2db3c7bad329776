package models

import "errors"

// ErrNegativeValue is returned whenever an operation would require or produce
// a negative amount of money.
var ErrNegativeValue = errors.New("negative value")

// Wallet holds a user's chip balance. A wallet belongs to exactly one user
// and is only mutated through Credit and Debit; the balance never goes
// negative.
type Wallet struct {
	Amount int `json:"amount"`
}

func NewWallet(amount int) (Wallet, error) {
	if amount < 0 {
		return Wallet{}, ErrNegativeValue
	}
	return Wallet{Amount: amount}, nil
}

func (w *Wallet) Credit(amount int) error {
	if amount < 0 {
		return ErrNegativeValue
	}
	w.Amount += amount
	return nil
}

// Debit removes amount from the wallet. Debiting more than the current
// balance fails and leaves the wallet untouched.
func (w *Wallet) Debit(amount int) error {
	if amount < 0 || amount > w.Amount {
		return ErrNegativeValue
	}
	w.Amount -= amount
	return nil
}

// User is a registered account. The username is the unique lookup key; the
// numeric ID is assigned once at registration and never reused. Password
// holds the argon2id hash, never the plaintext.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
	Email    string `json:"email"`

	Wallet Wallet `json:"wallet"`
	League int    `json:"league"`

	LoggedIn      bool     `json:"logged_in"`
	GamesPlayed   int      `json:"games_played"`
	FavoriteTurns []string `json:"favorite_turns,omitempty"`
}

// Clone returns a deep copy, so callers holding a snapshot can never mutate
// registry state through it.
func (u *User) Clone() User {
	cp := *u
	cp.FavoriteTurns = append([]string(nil), u.FavoriteTurns...)
	return cp
}
