package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shelfapi/internal/apperr"
	"shelfapi/internal/entity"
	"shelfapi/internal/platform/openlibrary"
)

// AuthorSource is the slice of the external client the cache needs.
type AuthorSource interface {
	GetAuthor(ctx context.Context, sourceID string) (*openlibrary.AuthorDetails, error)
}

// Service owns cache freshness for shared catalog rows and the lifecycle of
// manual entities. Freshness lives in storage, not in process memory, so
// every instance sees the same expiry state.
type Service struct {
	repo   Repository
	source AuthorSource
	now    func() time.Time
}

func NewService(repo Repository, source AuthorSource) *Service {
	return &Service{repo: repo, source: source, now: time.Now}
}

// ResolveAuthor returns the cached author when it is still fresh and only
// goes to the network otherwise. This is the cache-first "commit" policy;
// the search path deliberately does not use it.
func (s *Service) ResolveAuthor(ctx context.Context, sourceID string) (entity.Author, error) {
	sourceID = openlibrary.NormalizeKey(sourceID)
	if sourceID == "" {
		return entity.Author{}, fmt.Errorf("%w: empty source id", apperr.ErrValidation)
	}

	author, err := s.repo.GetAuthorBySourceID(ctx, sourceID)
	if err == nil && author.Provenance.Fresh(s.now()) {
		return author, nil
	}
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return entity.Author{}, err
	}

	details, err := s.source.GetAuthor(ctx, sourceID)
	if err != nil {
		return entity.Author{}, err
	}

	upserted, err := s.repo.UpsertAuthors(ctx, []entity.Author{{
		Name:       details.Name,
		Provenance: entity.CatalogProvenance(details.SourceID, s.now()),
	}})
	if err != nil {
		return entity.Author{}, err
	}
	return upserted[0], nil
}

// LookupAuthor fetches the cached row without any network traffic. The
// second return value reports whether the row exists at all.
func (s *Service) LookupAuthor(ctx context.Context, sourceID string) (entity.Author, bool, error) {
	author, err := s.repo.GetAuthorBySourceID(ctx, openlibrary.NormalizeKey(sourceID))
	if errors.Is(err, apperr.ErrNotFound) {
		return entity.Author{}, false, nil
	}
	if err != nil {
		return entity.Author{}, false, err
	}
	return author, true, nil
}

// UpsertAuthors stamps and writes a batch of externally sourced authors.
func (s *Service) UpsertAuthors(ctx context.Context, refs []openlibrary.AuthorRef) ([]entity.Author, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	authors := make([]entity.Author, 0, len(refs))
	for _, ref := range refs {
		authors = append(authors, entity.Author{
			Name:       ref.Name,
			Provenance: entity.CatalogProvenance(ref.SourceID, s.now()),
		})
	}
	return s.repo.UpsertAuthors(ctx, authors)
}

func (s *Service) CreateManualAuthor(ctx context.Context, userID, name string) (entity.Author, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Author{}, fmt.Errorf("%w: name is required", apperr.ErrValidation)
	}
	return s.repo.CreateManualAuthor(ctx, entity.Author{
		Name:       name,
		Provenance: entity.ManualProvenance(userID),
	})
}

func (s *Service) CreateManualWork(ctx context.Context, userID, title string, firstPublishYear *int) (entity.Work, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return entity.Work{}, fmt.Errorf("%w: title is required", apperr.ErrValidation)
	}
	return s.repo.CreateManualWork(ctx, entity.Work{
		Title:            title,
		FirstPublishYear: firstPublishYear,
		Provenance:       entity.ManualProvenance(userID),
	})
}

// DeleteManualAuthor removes a user-owned author. Shared catalog rows are
// never deleted through this path.
func (s *Service) DeleteManualAuthor(ctx context.Context, userID, authorID string) error {
	author, err := s.repo.GetAuthorByID(ctx, authorID)
	if err != nil {
		return err
	}
	if err := requireOwned(author.Provenance, userID); err != nil {
		return err
	}
	return s.repo.DeleteManualAuthor(ctx, authorID)
}

func (s *Service) DeleteManualWork(ctx context.Context, userID, workID string) error {
	work, err := s.repo.GetWorkByID(ctx, workID)
	if err != nil {
		return err
	}
	if err := requireOwned(work.Provenance, userID); err != nil {
		return err
	}
	return s.repo.DeleteManualWork(ctx, workID)
}

func requireOwned(p entity.Provenance, userID string) error {
	if !p.IsManual() {
		return fmt.Errorf("%w: shared catalog entries cannot be deleted", apperr.ErrValidation)
	}
	if p.Manual.OwnerUserID != userID {
		return apperr.ErrForbidden
	}
	return nil
}
