package shelf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shelfapi/internal/apperr"
	"shelfapi/internal/entity"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) HasAuthorAttachment(ctx context.Context, userID, authorID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_authors WHERE user_id = $1 AND author_id = $2)`,
		userID, authorID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepo) InsertAuthorAttachment(ctx context.Context, userID, authorID string) error {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO user_authors (user_id, author_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, author_id) DO NOTHING`,
		userID, authorID)
	if err != nil {
		return fmt.Errorf("insert author attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: author %s", apperr.ErrAlreadyAttached, authorID)
	}
	return nil
}

func (r *PostgresRepo) DeleteAuthorAttachment(ctx context.Context, userID, authorID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM user_authors WHERE user_id = $1 AND author_id = $2`,
		userID, authorID)
	if err != nil {
		return fmt.Errorf("delete author attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: author %s", apperr.ErrNotAttached, authorID)
	}
	return nil
}

func (r *PostgresRepo) InsertWorkAttachment(ctx context.Context, userID, workID, status string) error {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO user_works (user_id, work_id, status, status_updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, work_id) DO NOTHING`,
		userID, workID, status)
	if err != nil {
		return fmt.Errorf("insert work attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: work %s", apperr.ErrAlreadyAttached, workID)
	}
	return nil
}

func (r *PostgresRepo) DeleteWorkAttachment(ctx context.Context, userID, workID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM user_works WHERE user_id = $1 AND work_id = $2`,
		userID, workID)
	if err != nil {
		return fmt.Errorf("delete work attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: work %s", apperr.ErrNotAttached, workID)
	}
	return nil
}

func (r *PostgresRepo) ListLinkedWorkIDs(ctx context.Context, authorID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT work_id FROM author_works WHERE author_id = $1`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PostgresRepo) DeleteWorkAttachments(ctx context.Context, userID string, workIDs []string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM user_works WHERE user_id = $1 AND work_id = ANY($2)`,
		userID, workIDs)
	if err != nil {
		return fmt.Errorf("delete work attachments: %w", err)
	}
	return nil
}

// UpdateWorkAttachments touches only rows that exist for this user; missing
// pairs simply do not appear in the returned ids. status_updated_at moves
// only when the status actually changes.
func (r *PostgresRepo) UpdateWorkAttachments(ctx context.Context, userID string, workIDs []string, update WorkUpdate) ([]string, error) {
	const updateSQL = `
		UPDATE user_works SET
			status = COALESCE($3, status),
			status_updated_at = CASE
				WHEN $3::text IS NOT NULL AND status IS DISTINCT FROM $3::text THEN now()
				ELSE status_updated_at
			END,
			available = COALESCE($4, available)
		WHERE user_id = $1 AND work_id = ANY($2)
		RETURNING work_id`

	rows, err := r.db.Query(ctx, updateSQL, userID, workIDs, update.Status, update.Available)
	if err != nil {
		return nil, fmt.Errorf("update work attachments: %w", err)
	}
	defer rows.Close()

	updated := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		updated = append(updated, id)
	}
	return updated, rows.Err()
}

func (r *PostgresRepo) ListAuthors(ctx context.Context, userID string, limit, offset int) ([]entity.Author, int, error) {
	const countSQL = `SELECT COUNT(*) FROM user_authors WHERE user_id = $1`
	var total int
	if err := r.db.QueryRow(ctx, countSQL, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const dataSQL = `
		SELECT a.id, a.name, a.manual, a.owner_user_id, a.source_id, a.fetched_at, a.expires_at, a.created_at, a.updated_at
		FROM user_authors ua
		JOIN authors a ON a.id = ua.author_id
		WHERE ua.user_id = $1
		ORDER BY a.name ASC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, dataSQL, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var authors []entity.Author
	for rows.Next() {
		var (
			a               entity.Author
			manual          bool
			owner, source   *string
			fetched, expire *time.Time
		)
		if err := rows.Scan(&a.ID, &a.Name, &manual, &owner, &source, &fetched, &expire, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		a.Provenance = rowProvenance(manual, owner, source, fetched, expire)
		authors = append(authors, a)
	}
	return authors, total, rows.Err()
}

func (r *PostgresRepo) ListWorks(ctx context.Context, userID, status string, limit, offset int) ([]WorkItem, int, error) {
	clauses := []string{"uw.user_id = $1"}
	args := []any{userID}
	argn := 2

	if status != "" {
		clauses = append(clauses, fmt.Sprintf("uw.status = $%d", argn))
		args = append(args, status)
		argn++
	}
	where := "WHERE " + strings.Join(clauses, " AND ")

	countSQL := fmt.Sprintf(`SELECT COUNT(*) FROM user_works uw %s`, where)
	var total int
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`
		SELECT w.id, w.title, w.first_publish_year, w.primary_edition_id,
		       w.manual, w.owner_user_id, w.source_id, w.fetched_at, w.expires_at,
		       w.created_at, w.updated_at,
		       uw.status, uw.available, uw.status_updated_at
		FROM user_works uw
		JOIN works w ON w.id = uw.work_id
		%s
		ORDER BY w.title ASC
		LIMIT $%d OFFSET $%d`, where, argn, argn+1)

	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []WorkItem
	for rows.Next() {
		var (
			item            WorkItem
			manual          bool
			owner, source   *string
			fetched, expire *time.Time
		)
		if err := rows.Scan(
			&item.Work.ID, &item.Work.Title, &item.Work.FirstPublishYear, &item.Work.PrimaryEditionID,
			&manual, &owner, &source, &fetched, &expire,
			&item.Work.CreatedAt, &item.Work.UpdatedAt,
			&item.Status, &item.Available, &item.StatusUpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		item.Work.Provenance = rowProvenance(manual, owner, source, fetched, expire)
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func rowProvenance(manual bool, owner, source *string, fetched, expires *time.Time) entity.Provenance {
	if manual && owner != nil {
		return entity.ManualProvenance(*owner)
	}
	p := entity.Provenance{Catalog: &entity.CatalogSource{}}
	if source != nil {
		p.Catalog.SourceID = *source
	}
	if fetched != nil {
		p.Catalog.FetchedAt = *fetched
	}
	if expires != nil {
		p.Catalog.ExpiresAt = *expires
	}
	return p
}
