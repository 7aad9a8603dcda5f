package shelf

import (
	"context"
	"errors"
	"fmt"

	"shelfapi/internal/apperr"
	"shelfapi/internal/entity"
)

// Admitter is the quota gate consulted before attachment writes.
type Admitter interface {
	AdmitAuthor(ctx context.Context, userID string) error
	AdmitWork(ctx context.Context, userID string) error
	AdmitWorkBatch(ctx context.Context, userID string, n int) error
}

// Engine manages the user↔entity attachment relation. Admission and write
// are separate steps; see profile.Enforcer for the accepted race.
type Engine struct {
	repo  Repository
	quota Admitter
}

func NewEngine(repo Repository, quota Admitter) *Engine {
	return &Engine{repo: repo, quota: quota}
}

func (e *Engine) AttachAuthor(ctx context.Context, userID, authorID string) error {
	if err := e.quota.AdmitAuthor(ctx, userID); err != nil {
		return err
	}
	return e.repo.InsertAuthorAttachment(ctx, userID, authorID)
}

// DetachAuthor removes the author from the user's list along with the user's
// shelf entries for every work linked to that author. Shared author and work
// rows are left untouched.
func (e *Engine) DetachAuthor(ctx context.Context, userID, authorID string) error {
	attached, err := e.repo.HasAuthorAttachment(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if !attached {
		return fmt.Errorf("%w: author %s", apperr.ErrNotAttached, authorID)
	}

	workIDs, err := e.repo.ListLinkedWorkIDs(ctx, authorID)
	if err != nil {
		return err
	}
	if len(workIDs) > 0 {
		if err := e.repo.DeleteWorkAttachments(ctx, userID, workIDs); err != nil {
			return err
		}
	}
	return e.repo.DeleteAuthorAttachment(ctx, userID, authorID)
}

func (e *Engine) AttachWork(ctx context.Context, userID, workID, status string) error {
	if status == "" {
		status = entity.StatusToRead
	}
	if err := ValidateStatus(status); err != nil {
		return err
	}
	if err := e.quota.AdmitWork(ctx, userID); err != nil {
		return err
	}
	return e.repo.InsertWorkAttachment(ctx, userID, workID, status)
}

func (e *Engine) DetachWork(ctx context.Context, userID, workID string) error {
	return e.repo.DeleteWorkAttachment(ctx, userID, workID)
}

// BulkAttachWorks deduplicates the ids, admits the whole batch once, then
// attaches item by item. A quota rejection drops the entire batch before any
// write; after admission the only per-item outcome besides success is
// "already attached", reported in Skipped.
func (e *Engine) BulkAttachWorks(ctx context.Context, userID string, workIDs []string, status string) (BulkAttachResult, error) {
	if status == "" {
		status = entity.StatusToRead
	}
	if err := ValidateStatus(status); err != nil {
		return BulkAttachResult{}, err
	}

	distinct := dedupe(workIDs)
	if len(distinct) == 0 {
		return BulkAttachResult{}, fmt.Errorf("%w: no work ids given", apperr.ErrValidation)
	}

	if err := e.quota.AdmitWorkBatch(ctx, userID, len(distinct)); err != nil {
		return BulkAttachResult{}, err
	}

	result := BulkAttachResult{Added: []string{}, Skipped: []string{}}
	for _, workID := range distinct {
		err := e.repo.InsertWorkAttachment(ctx, userID, workID, status)
		switch {
		case err == nil:
			result.Added = append(result.Added, workID)
		case errors.Is(err, apperr.ErrAlreadyAttached):
			result.Skipped = append(result.Skipped, workID)
		default:
			// Partial application is a documented outcome: earlier ids
			// stay written.
			return result, err
		}
	}
	return result, nil
}

// BulkUpdateWorks updates every given work currently attached to the user
// and returns the ids actually touched. Unattached ids are omitted, not
// errors.
func (e *Engine) BulkUpdateWorks(ctx context.Context, userID string, workIDs []string, update WorkUpdate) ([]string, error) {
	if update.Status == nil && update.Available == nil {
		return nil, fmt.Errorf("%w: nothing to update", apperr.ErrValidation)
	}
	if update.Status != nil {
		if err := ValidateStatus(*update.Status); err != nil {
			return nil, err
		}
	}

	distinct := dedupe(workIDs)
	if len(distinct) == 0 {
		return nil, fmt.Errorf("%w: no work ids given", apperr.ErrValidation)
	}
	return e.repo.UpdateWorkAttachments(ctx, userID, distinct, update)
}

func (e *Engine) ListAuthors(ctx context.Context, userID string, limit, offset int) ([]entity.Author, int, error) {
	return e.repo.ListAuthors(ctx, userID, limit, offset)
}

func (e *Engine) ListWorks(ctx context.Context, userID, status string, limit, offset int) ([]WorkItem, int, error) {
	if status != "" {
		if err := ValidateStatus(status); err != nil {
			return nil, 0, err
		}
	}
	return e.repo.ListWorks(ctx, userID, status, limit, offset)
}

// dedupe keeps first occurrences in order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
