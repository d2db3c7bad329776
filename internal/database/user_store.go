// internal/database/user_store.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nadav-o/pokerface/internal/models"
)

// UserStore persists users in Postgres. It implements account.Store.
type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	q := `SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)`
	if err := s.db.QueryRow(ctx, q, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user %s: %w", username, err)
	}
	return exists, nil
}

func (s *UserStore) Get(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	q := `
	SELECT id, username, password, email, wallet, league, logged_in, games_played
	FROM users
	WHERE username=$1
	`
	err := s.db.QueryRow(ctx, q, username).Scan(
		&u.ID, &u.Username, &u.Password, &u.Email,
		&u.Wallet.Amount, &u.League, &u.LoggedIn, &u.GamesPlayed,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", username, err)
	}
	return &u, nil
}

func (s *UserStore) Insert(ctx context.Context, u *models.User) error {
	q := `INSERT INTO users (id, username, password, email, wallet, league, logged_in, games_played)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	err := pgx.BeginTxFunc(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			u.ID, u.Username, u.Password, u.Email,
			u.Wallet.Amount, u.League, u.LoggedIn, u.GamesPlayed,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to insert user %s: %w", u.Username, err)
	}
	return nil
}

func (s *UserStore) Update(ctx context.Context, oldUsername string, u *models.User) error {
	q := `
	UPDATE users
	SET username=$1, password=$2, email=$3, wallet=$4, league=$5, games_played=$6
	WHERE username=$7
	`
	err := pgx.BeginTxFunc(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			u.Username, u.Password, u.Email,
			u.Wallet.Amount, u.League, u.GamesPlayed,
			oldUsername,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", oldUsername, err)
	}
	return nil
}

func (s *UserStore) SetLoggedIn(ctx context.Context, username string, loggedIn bool) error {
	q := `UPDATE users SET logged_in=$1 WHERE username=$2`
	if _, err := s.db.Exec(ctx, q, loggedIn, username); err != nil {
		return fmt.Errorf("failed to set logged_in for %s: %w", username, err)
	}
	return nil
}

func (s *UserStore) SetNumGamesPlayed(ctx context.Context, username string, n int) error {
	q := `UPDATE users SET games_played=$1 WHERE username=$2`
	if _, err := s.db.Exec(ctx, q, n, username); err != nil {
		return fmt.Errorf("failed to set games_played for %s: %w", username, err)
	}
	return nil
}

func (s *UserStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}
	return nil
}
