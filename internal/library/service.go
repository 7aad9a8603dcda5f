package library

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shelfapi/internal/apperr"
	"shelfapi/internal/catalog"
	"shelfapi/internal/entity"
	"shelfapi/internal/platform/openlibrary"

	"go.uber.org/zap"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50

	// cacheWriteTimeout bounds the detached write-back after a search
	// response has already been sent.
	cacheWriteTimeout = 15 * time.Second
)

// Source is the slice of the external catalog client the façade drives.
type Source interface {
	SearchAuthors(ctx context.Context, query string, limit int) ([]openlibrary.AuthorRef, error)
	GetWork(ctx context.Context, sourceID string) (*openlibrary.WorkDetails, error)
	GetEditions(ctx context.Context, workSourceID string) ([]openlibrary.EditionDetails, error)
	GetEdition(ctx context.Context, sourceID string) (*openlibrary.EditionDetails, error)
}

// WorkView is the import-work result: the shared work plus its chosen
// primary edition, when one could be selected.
type WorkView struct {
	Work           entity.Work     `json:"work"`
	PrimaryEdition *entity.Edition `json:"primary_edition,omitempty"`
}

// SearchResult merges an external search hit with whatever the cache holds.
// CatalogID is empty for hits that have never been imported.
type SearchResult struct {
	SourceID  string `json:"source_id"`
	Name      string `json:"name"`
	CatalogID string `json:"catalog_id,omitempty"`
	Cached    bool   `json:"cached"`
}

// Service orchestrates imports and search across the external client, the
// catalog cache and shared storage.
type Service struct {
	source Source
	cache  *catalog.Service
	repo   catalog.Repository
	log    *zap.Logger
	now    func() time.Time

	// spawn runs the search write-back without blocking the response.
	spawn func(func())
}

func NewService(source Source, cache *catalog.Service, repo catalog.Repository, log *zap.Logger) *Service {
	return &Service{
		source: source,
		cache:  cache,
		repo:   repo,
		log:    log,
		now:    time.Now,
		spawn:  func(fn func()) { go fn() },
	}
}

// ImportAuthor resolves an external author into the shared catalog. It does
// not attach the author to anyone's list.
func (s *Service) ImportAuthor(ctx context.Context, sourceID string) (entity.Author, error) {
	return s.cache.ResolveAuthor(ctx, sourceID)
}

// ImportWork fetches a work, stores it, picks and stores its primary
// edition, and links it to the given catalog author.
func (s *Service) ImportWork(ctx context.Context, sourceID, authorID string) (WorkView, error) {
	author, err := s.repo.GetAuthorByID(ctx, authorID)
	if err != nil {
		return WorkView{}, err
	}

	details, err := s.source.GetWork(ctx, sourceID)
	if err != nil {
		return WorkView{}, err
	}

	work, err := s.repo.UpsertWork(ctx, entity.Work{
		Title:            details.Title,
		FirstPublishYear: details.FirstPublishYear,
		Provenance:       entity.CatalogProvenance(details.SourceID, s.now()),
	})
	if err != nil {
		return WorkView{}, err
	}

	candidates, err := s.source.GetEditions(ctx, details.SourceID)
	if err != nil {
		return WorkView{}, err
	}

	view := WorkView{Work: work}
	if chosen := catalog.SelectEdition(details.PrimaryEditionSourceID, candidates); chosen != nil {
		edition, err := s.repo.UpsertEdition(ctx, entity.Edition{
			WorkID:      work.ID,
			Title:       chosen.Title,
			PublishDate: chosen.PublishDate,
			PublishYear: chosen.PublishYear,
			Provenance:  entity.CatalogProvenance(chosen.SourceID, s.now()),
		})
		if err != nil {
			return WorkView{}, err
		}
		if err := s.repo.SetPrimaryEdition(ctx, work.ID, edition.ID); err != nil {
			return WorkView{}, err
		}
		view.Work.PrimaryEditionID = &edition.ID
		view.PrimaryEdition = &edition
	}

	if err := s.repo.EnsureAuthorWorkLink(ctx, author.ID, work.ID); err != nil {
		return WorkView{}, err
	}
	return view, nil
}

// ImportEdition fetches one edition and stores it under an existing work.
func (s *Service) ImportEdition(ctx context.Context, sourceID, workID string) (entity.Edition, error) {
	work, err := s.repo.GetWorkByID(ctx, workID)
	if err != nil {
		return entity.Edition{}, err
	}

	details, err := s.source.GetEdition(ctx, sourceID)
	if err != nil {
		return entity.Edition{}, err
	}

	return s.repo.UpsertEdition(ctx, entity.Edition{
		WorkID:      work.ID,
		Title:       details.Title,
		PublishDate: details.PublishDate,
		PublishYear: details.PublishYear,
		Provenance:  entity.CatalogProvenance(details.SourceID, s.now()),
	})
}

// SearchAuthors always queries the external API, then merges per hit: a
// fresh cached row contributes its fields, anything else is served straight
// from the search response and queued for a background cache write. The
// write-back must never fail the search; its errors are logged and dropped.
// Import is cache-first instead; the two freshness policies are intentional.
func (s *Service) SearchAuthors(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", apperr.ErrValidation)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	refs, err := s.source.SearchAuthors(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(refs))
	var stale []openlibrary.AuthorRef
	for _, ref := range refs {
		cached, ok, err := s.cache.LookupAuthor(ctx, ref.SourceID)
		if err != nil {
			return nil, err
		}
		if ok && cached.Provenance.Fresh(s.now()) {
			results = append(results, SearchResult{
				SourceID:  ref.SourceID,
				Name:      cached.Name,
				CatalogID: cached.ID,
				Cached:    true,
			})
			continue
		}

		result := SearchResult{SourceID: ref.SourceID, Name: ref.Name}
		if ok {
			result.CatalogID = cached.ID
		}
		results = append(results, result)
		stale = append(stale, ref)
	}

	if len(stale) > 0 {
		s.spawn(func() { s.writeBack(stale) })
	}
	return results, nil
}

func (s *Service) writeBack(refs []openlibrary.AuthorRef) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
	defer cancel()

	if _, err := s.cache.UpsertAuthors(ctx, refs); err != nil {
		s.log.Warn("search cache write-back failed",
			zap.Int("records", len(refs)),
			zap.Error(err))
	}
}
