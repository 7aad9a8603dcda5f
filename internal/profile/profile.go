package profile

import (
	"context"

	"shelfapi/internal/entity"
)

// Quota is a counter/maximum pair read from the user's profile row.
type Quota struct {
	Count int `json:"count"`
	Max   int `json:"max"`
}

// Repository reads profile rows. Counter maintenance happens in storage as a
// side effect of attachment writes; nothing here recomputes counts.
type Repository interface {
	GetProfile(ctx context.Context, userID string) (entity.Profile, error)
}
