package shelf

import (
	"context"
	"fmt"
	"time"

	"shelfapi/internal/apperr"
	"shelfapi/internal/entity"
)

func ValidateStatus(status string) error {
	switch status {
	case entity.StatusToRead, entity.StatusInProgress, entity.StatusRead, entity.StatusHidden:
		return nil
	default:
		return fmt.Errorf("%w: invalid status %q", apperr.ErrValidation, status)
	}
}

// WorkItem is a work on a user's shelf together with the attachment state.
type WorkItem struct {
	Work            entity.Work `json:"work"`
	Status          string      `json:"status"`
	Available       *bool       `json:"available_in_external_source,omitempty"`
	StatusUpdatedAt time.Time   `json:"status_updated_at"`
}

// WorkUpdate carries the optional fields of a bulk update. At least one must
// be set.
type WorkUpdate struct {
	Status    *string
	Available *bool
}

// BulkAttachResult classifies each distinct id of a bulk attach.
type BulkAttachResult struct {
	Added   []string `json:"added"`
	Skipped []string `json:"skipped"`
}

// Repository is the storage contract for attachment rows. Inserts and
// deletes are conditional: inserting an existing pair fails ErrAlreadyAttached,
// deleting a missing pair fails ErrNotAttached. Profile counters move via
// storage triggers on these writes.
type Repository interface {
	HasAuthorAttachment(ctx context.Context, userID, authorID string) (bool, error)
	InsertAuthorAttachment(ctx context.Context, userID, authorID string) error
	DeleteAuthorAttachment(ctx context.Context, userID, authorID string) error

	InsertWorkAttachment(ctx context.Context, userID, workID, status string) error
	DeleteWorkAttachment(ctx context.Context, userID, workID string) error

	// ListLinkedWorkIDs enumerates every work tied to the author through
	// author_works, regardless of user.
	ListLinkedWorkIDs(ctx context.Context, authorID string) ([]string, error)
	// DeleteWorkAttachments removes this user's attachments for the given
	// works, skipping ids that are not attached.
	DeleteWorkAttachments(ctx context.Context, userID string, workIDs []string) error

	// UpdateWorkAttachments applies the update to every given work that is
	// attached to the user and returns the ids actually updated.
	UpdateWorkAttachments(ctx context.Context, userID string, workIDs []string, update WorkUpdate) ([]string, error)

	ListAuthors(ctx context.Context, userID string, limit, offset int) ([]entity.Author, int, error)
	ListWorks(ctx context.Context, userID, status string, limit, offset int) ([]WorkItem, int, error)
}
