package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/sebkasanzew/comoi/internal/store"
	"github.com/sebkasanzew/comoi/internal/user/entity"
)

// UserRepo provides data access for the users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// EnsureTable creates the users table if not exists (idempotent).
// This is a convenience for early development; prefer migrations in production.
func (r *UserRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  subject TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('customer','vendor','admin')),
  phone TEXT,
  email TEXT,
  name TEXT,
  image_url TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_subject ON users(subject);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// GetBySubject looks a user up through the unique subject index.
// Returns store.ErrNoDocument when no row matches.
func (r *UserRepo) GetBySubject(ctx context.Context, subject string) (*entity.User, error) {
	const q = `SELECT id, subject, role, phone, email, name, image_url, created_at, updated_at
	  FROM users WHERE subject=$1`
	var u entity.User
	if err := r.db.GetContext(ctx, &u, q, subject); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoDocument
		}
		return nil, err
	}
	return &u, nil
}

// InsertUser inserts a user row. Used by the seed generator; user sync
// from the identity provider happens elsewhere.
func (r *UserRepo) InsertUser(ctx context.Context, u *entity.User) error {
	const q = `INSERT INTO users (id, subject, role, phone, email, name, image_url, created_at, updated_at)
	  VALUES (:id, :subject, :role, :phone, :email, :name, :image_url, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, q, u)
	return err
}

// DeleteAll removes every user row.
func (r *UserRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users`)
	return err
}
