// Package session provides the opaque sid token stores behind the session
// cookie. The Postgres backend delegates to the usp_sessions_* procedures;
// the Redis backend keeps the token out of the database entirely.
package session

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound means the token does not exist, expired, or was revoked.
var ErrNotFound = errors.New("session not found")

type Store interface {
	Create(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	Lookup(ctx context.Context, sid string) (int64, error)
	Revoke(ctx context.Context, sid string) error
}

// sessionDB is the slice of the data store the Postgres backend needs.
type sessionDB interface {
	CreateSession(ctx context.Context, userID int64, ttlMinutes int) (string, error)
	GetValidSession(ctx context.Context, sid string) (int64, error)
	RevokeSession(ctx context.Context, sid string) error
}

type PostgresStore struct {
	db sessionDB
}

func NewPostgresStore(db sessionDB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	return s.db.CreateSession(ctx, userID, int(ttl.Minutes()))
}

func (s *PostgresStore) Lookup(ctx context.Context, sid string) (int64, error) {
	userID, err := s.db.GetValidSession(ctx, sid)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func (s *PostgresStore) Revoke(ctx context.Context, sid string) error {
	return s.db.RevokeSession(ctx, sid)
}
