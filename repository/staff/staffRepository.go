package staffrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sophieemessing/video-store-consumer-api/model"
)

type Repo interface {
	Create(ctx context.Context, s *model.Staff) error
	ByEmail(ctx context.Context, email string) (*model.Staff, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, s *model.Staff) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO staff (email, username, role, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		s.Email, s.Username, s.Role, s.PasswordHash,
	).Scan(&s.ID, &s.CreatedAt)
}

// ByEmail returns nil when no staff account matches.
func (r *repo) ByEmail(ctx context.Context, email string) (*model.Staff, error) {
	const q = `
		SELECT id, email, username, role, password_hash, created_at
		FROM staff
		WHERE email = $1`
	var s model.Staff
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&s.ID, &s.Email, &s.Username, &s.Role, &s.PasswordHash, &s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
