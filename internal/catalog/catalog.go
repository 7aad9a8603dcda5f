package catalog

import (
	"context"

	"shelfapi/internal/entity"
)

// Repository is the storage contract for the shared catalog. Upserts are
// keyed by source_id and overwrite in place; shared rows are never duplicated
// and never deleted by user action.
type Repository interface {
	GetAuthorByID(ctx context.Context, id string) (entity.Author, error)
	GetAuthorBySourceID(ctx context.Context, sourceID string) (entity.Author, error)
	// UpsertAuthors writes a batch of externally sourced authors in one
	// round trip and returns the stored rows, ids included.
	UpsertAuthors(ctx context.Context, authors []entity.Author) ([]entity.Author, error)

	GetWorkByID(ctx context.Context, id string) (entity.Work, error)
	GetWorkBySourceID(ctx context.Context, sourceID string) (entity.Work, error)
	UpsertWork(ctx context.Context, work entity.Work) (entity.Work, error)

	GetEditionBySourceID(ctx context.Context, sourceID string) (entity.Edition, error)
	UpsertEdition(ctx context.Context, edition entity.Edition) (entity.Edition, error)
	SetPrimaryEdition(ctx context.Context, workID, editionID string) error

	EnsureAuthorWorkLink(ctx context.Context, authorID, workID string) error

	CreateManualAuthor(ctx context.Context, author entity.Author) (entity.Author, error)
	CreateManualWork(ctx context.Context, work entity.Work) (entity.Work, error)
	// DeleteManualAuthor removes the author row, its author_works links and
	// every user's work attachments for works that were linked solely
	// through this author.
	DeleteManualAuthor(ctx context.Context, authorID string) error
	DeleteManualWork(ctx context.Context, workID string) error
}
