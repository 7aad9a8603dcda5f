package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

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

const authorColumns = `id, name, manual, owner_user_id, source_id, fetched_at, expires_at, created_at, updated_at`

func (r *PostgresRepo) GetAuthorByID(ctx context.Context, id string) (entity.Author, error) {
	row := r.db.QueryRow(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = $1`, id)
	return scanAuthor(row)
}

func (r *PostgresRepo) GetAuthorBySourceID(ctx context.Context, sourceID string) (entity.Author, error) {
	row := r.db.QueryRow(ctx, `SELECT `+authorColumns+` FROM authors WHERE source_id = $1`, sourceID)
	return scanAuthor(row)
}

const upsertAuthorSQL = `
	INSERT INTO authors (name, manual, source_id, fetched_at, expires_at)
	VALUES ($1, FALSE, $2, $3, $4)
	ON CONFLICT (source_id) WHERE source_id IS NOT NULL DO UPDATE SET
		name = EXCLUDED.name,
		fetched_at = EXCLUDED.fetched_at,
		expires_at = EXCLUDED.expires_at,
		updated_at = now()
	RETURNING ` + authorColumns

func (r *PostgresRepo) UpsertAuthors(ctx context.Context, authors []entity.Author) ([]entity.Author, error) {
	if len(authors) == 0 {
		return nil, nil
	}

	batch := &pgx.Batch{}
	for _, a := range authors {
		src := a.Provenance.Catalog
		if src == nil {
			return nil, fmt.Errorf("%w: upsert requires catalog provenance", apperr.ErrValidation)
		}
		batch.Queue(upsertAuthorSQL, a.Name, src.SourceID, src.FetchedAt, src.ExpiresAt)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	out := make([]entity.Author, 0, len(authors))
	for range authors {
		stored, err := scanAuthor(results.QueryRow())
		if err != nil {
			return nil, fmt.Errorf("upsert author: %w", err)
		}
		out = append(out, stored)
	}
	return out, nil
}

const workColumns = `id, title, first_publish_year, primary_edition_id, manual, owner_user_id, source_id, fetched_at, expires_at, created_at, updated_at`

func (r *PostgresRepo) GetWorkByID(ctx context.Context, id string) (entity.Work, error) {
	row := r.db.QueryRow(ctx, `SELECT `+workColumns+` FROM works WHERE id = $1`, id)
	return scanWork(row)
}

func (r *PostgresRepo) GetWorkBySourceID(ctx context.Context, sourceID string) (entity.Work, error) {
	row := r.db.QueryRow(ctx, `SELECT `+workColumns+` FROM works WHERE source_id = $1`, sourceID)
	return scanWork(row)
}

func (r *PostgresRepo) UpsertWork(ctx context.Context, w entity.Work) (entity.Work, error) {
	src := w.Provenance.Catalog
	if src == nil {
		return entity.Work{}, fmt.Errorf("%w: upsert requires catalog provenance", apperr.ErrValidation)
	}

	const upsertSQL = `
		INSERT INTO works (title, first_publish_year, manual, source_id, fetched_at, expires_at)
		VALUES ($1, $2, FALSE, $3, $4, $5)
		ON CONFLICT (source_id) WHERE source_id IS NOT NULL DO UPDATE SET
			title = EXCLUDED.title,
			first_publish_year = EXCLUDED.first_publish_year,
			fetched_at = EXCLUDED.fetched_at,
			expires_at = EXCLUDED.expires_at,
			updated_at = now()
		RETURNING ` + workColumns

	row := r.db.QueryRow(ctx, upsertSQL, w.Title, w.FirstPublishYear, src.SourceID, src.FetchedAt, src.ExpiresAt)
	stored, err := scanWork(row)
	if err != nil {
		return entity.Work{}, fmt.Errorf("upsert work: %w", err)
	}
	return stored, nil
}

const editionColumns = `id, work_id, title, publish_date, publish_year, manual, owner_user_id, source_id, fetched_at, expires_at, created_at, updated_at`

func (r *PostgresRepo) GetEditionBySourceID(ctx context.Context, sourceID string) (entity.Edition, error) {
	row := r.db.QueryRow(ctx, `SELECT `+editionColumns+` FROM editions WHERE source_id = $1`, sourceID)
	return scanEdition(row)
}

func (r *PostgresRepo) UpsertEdition(ctx context.Context, e entity.Edition) (entity.Edition, error) {
	src := e.Provenance.Catalog
	if src == nil {
		return entity.Edition{}, fmt.Errorf("%w: upsert requires catalog provenance", apperr.ErrValidation)
	}

	const upsertSQL = `
		INSERT INTO editions (work_id, title, publish_date, publish_year, manual, source_id, fetched_at, expires_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6, $7)
		ON CONFLICT (source_id) WHERE source_id IS NOT NULL DO UPDATE SET
			work_id = EXCLUDED.work_id,
			title = EXCLUDED.title,
			publish_date = EXCLUDED.publish_date,
			publish_year = EXCLUDED.publish_year,
			fetched_at = EXCLUDED.fetched_at,
			expires_at = EXCLUDED.expires_at,
			updated_at = now()
		RETURNING ` + editionColumns

	row := r.db.QueryRow(ctx, upsertSQL, e.WorkID, e.Title, e.PublishDate, e.PublishYear, src.SourceID, src.FetchedAt, src.ExpiresAt)
	stored, err := scanEdition(row)
	if err != nil {
		return entity.Edition{}, fmt.Errorf("upsert edition: %w", err)
	}
	return stored, nil
}

func (r *PostgresRepo) SetPrimaryEdition(ctx context.Context, workID, editionID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE works SET primary_edition_id = $2, updated_at = now() WHERE id = $1`,
		workID, editionID)
	if err != nil {
		return fmt.Errorf("set primary edition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) EnsureAuthorWorkLink(ctx context.Context, authorID, workID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO author_works (author_id, work_id)
		VALUES ($1, $2)
		ON CONFLICT (author_id, work_id) DO NOTHING`,
		authorID, workID)
	if err != nil {
		return fmt.Errorf("ensure author-work link: %w", err)
	}
	return nil
}

func (r *PostgresRepo) CreateManualAuthor(ctx context.Context, a entity.Author) (entity.Author, error) {
	const insertSQL = `
		INSERT INTO authors (name, manual, owner_user_id)
		VALUES ($1, TRUE, $2)
		RETURNING ` + authorColumns

	row := r.db.QueryRow(ctx, insertSQL, a.Name, a.Provenance.Manual.OwnerUserID)
	stored, err := scanAuthor(row)
	if err != nil {
		return entity.Author{}, fmt.Errorf("create manual author: %w", err)
	}
	return stored, nil
}

func (r *PostgresRepo) CreateManualWork(ctx context.Context, w entity.Work) (entity.Work, error) {
	const insertSQL = `
		INSERT INTO works (title, first_publish_year, manual, owner_user_id)
		VALUES ($1, $2, TRUE, $3)
		RETURNING ` + workColumns

	row := r.db.QueryRow(ctx, insertSQL, w.Title, w.FirstPublishYear, w.Provenance.Manual.OwnerUserID)
	stored, err := scanWork(row)
	if err != nil {
		return entity.Work{}, fmt.Errorf("create manual work: %w", err)
	}
	return stored, nil
}

// DeleteManualAuthor runs the cascade as an explicit sequence of idempotent
// deletes inside one transaction: attachment rows for works reachable only
// through this author, then the link rows, then the user attachments to the
// author, then the author row. Work rows themselves survive.
func (r *PostgresRepo) DeleteManualAuthor(ctx context.Context, authorID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const deleteSoleWorkAttachments = `
		DELETE FROM user_works uw
		USING author_works aw
		WHERE aw.author_id = $1
		  AND aw.work_id = uw.work_id
		  AND NOT EXISTS (
			SELECT 1 FROM author_works other
			WHERE other.work_id = aw.work_id AND other.author_id <> $1
		  )`

	if _, err := tx.Exec(ctx, deleteSoleWorkAttachments, authorID); err != nil {
		return fmt.Errorf("delete work attachments: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM author_works WHERE author_id = $1`, authorID); err != nil {
		return fmt.Errorf("delete author-work links: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM user_authors WHERE author_id = $1`, authorID); err != nil {
		return fmt.Errorf("delete author attachments: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM authors WHERE id = $1 AND manual`, authorID); err != nil {
		return fmt.Errorf("delete author: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepo) DeleteManualWork(ctx context.Context, workID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM user_works WHERE work_id = $1`, workID); err != nil {
		return fmt.Errorf("delete work attachments: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM author_works WHERE work_id = $1`, workID); err != nil {
		return fmt.Errorf("delete author-work links: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM editions WHERE work_id = $1`, workID); err != nil {
		return fmt.Errorf("delete editions: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM works WHERE id = $1 AND manual`, workID); err != nil {
		return fmt.Errorf("delete work: %w", err)
	}

	return tx.Commit(ctx)
}

func provenanceFrom(manual bool, owner, source *string, fetched, expires *time.Time) entity.Provenance {
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

func scanAuthor(row pgx.Row) (entity.Author, error) {
	var (
		a               entity.Author
		manual          bool
		owner, source   *string
		fetched, expire *time.Time
	)
	err := row.Scan(&a.ID, &a.Name, &manual, &owner, &source, &fetched, &expire, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Author{}, apperr.ErrNotFound
	}
	if err != nil {
		return entity.Author{}, err
	}
	a.Provenance = provenanceFrom(manual, owner, source, fetched, expire)
	return a, nil
}

func scanWork(row pgx.Row) (entity.Work, error) {
	var (
		w               entity.Work
		manual          bool
		owner, source   *string
		fetched, expire *time.Time
	)
	err := row.Scan(&w.ID, &w.Title, &w.FirstPublishYear, &w.PrimaryEditionID, &manual, &owner, &source, &fetched, &expire, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Work{}, apperr.ErrNotFound
	}
	if err != nil {
		return entity.Work{}, err
	}
	w.Provenance = provenanceFrom(manual, owner, source, fetched, expire)
	return w, nil
}

func scanEdition(row pgx.Row) (entity.Edition, error) {
	var (
		e               entity.Edition
		manual          bool
		owner, source   *string
		publishDate     *string
		fetched, expire *time.Time
	)
	err := row.Scan(&e.ID, &e.WorkID, &e.Title, &publishDate, &e.PublishYear, &manual, &owner, &source, &fetched, &expire, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Edition{}, apperr.ErrNotFound
	}
	if err != nil {
		return entity.Edition{}, err
	}
	if publishDate != nil {
		e.PublishDate = *publishDate
	}
	e.Provenance = provenanceFrom(manual, owner, source, fetched, expire)
	return e, nil
}
