package profile

import (
	"context"
	"errors"
	"fmt"

	"shelfapi/internal/apperr"
	"shelfapi/internal/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) GetProfile(ctx context.Context, userID string) (entity.Profile, error) {
	const query = `
		SELECT user_id, author_count, work_count, max_authors, max_works, created_at, updated_at
		FROM profiles
		WHERE user_id = $1`

	var p entity.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.AuthorCount, &p.WorkCount, &p.MaxAuthors, &p.MaxWorks,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Profile{}, fmt.Errorf("%w: user %s", apperr.ErrProfileNotFound, userID)
	}
	if err != nil {
		return entity.Profile{}, err
	}
	return p, nil
}
