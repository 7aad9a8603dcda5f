package profile

import (
	"context"
	"fmt"

	"shelfapi/internal/apperr"
	"shelfapi/internal/entity"
)

// Enforcer admits or rejects attach operations against the per-user maxima.
// The admission check and the attachment write are separate steps with no
// enclosing transaction: two concurrent requests can both pass the check and
// transiently push a user over quota. That race is accepted, not prevented.
type Enforcer struct {
	repo Repository
}

func NewEnforcer(repo Repository) *Enforcer {
	return &Enforcer{repo: repo}
}

func (e *Enforcer) Profile(ctx context.Context, userID string) (entity.Profile, error) {
	return e.repo.GetProfile(ctx, userID)
}

func (e *Enforcer) AuthorQuota(ctx context.Context, userID string) (Quota, error) {
	p, err := e.repo.GetProfile(ctx, userID)
	if err != nil {
		return Quota{}, err
	}
	return Quota{Count: p.AuthorCount, Max: p.MaxAuthors}, nil
}

func (e *Enforcer) WorkQuota(ctx context.Context, userID string) (Quota, error) {
	p, err := e.repo.GetProfile(ctx, userID)
	if err != nil {
		return Quota{}, err
	}
	return Quota{Count: p.WorkCount, Max: p.MaxWorks}, nil
}

// AdmitAuthor admits a single author attach: rejected iff count >= max.
func (e *Enforcer) AdmitAuthor(ctx context.Context, userID string) error {
	q, err := e.AuthorQuota(ctx, userID)
	if err != nil {
		return err
	}
	return admit(q, 1)
}

// AdmitWork admits a single work attach.
func (e *Enforcer) AdmitWork(ctx context.Context, userID string) error {
	q, err := e.WorkQuota(ctx, userID)
	if err != nil {
		return err
	}
	return admit(q, 1)
}

// AdmitWorkBatch admits n work attaches at once: rejected iff count + n > max.
// Checked once up front, so a batch is strictly stricter than attaching the
// same items one at a time.
func (e *Enforcer) AdmitWorkBatch(ctx context.Context, userID string, n int) error {
	q, err := e.WorkQuota(ctx, userID)
	if err != nil {
		return err
	}
	return admit(q, n)
}

func admit(q Quota, n int) error {
	if q.Count+n > q.Max {
		return fmt.Errorf("%w: %d of %d used, %d requested", apperr.ErrQuotaExceeded, q.Count, q.Max, n)
	}
	return nil
}
