package entity

import "time"

// FreshnessTTL is how long an externally sourced record stays trustworthy
// before a resolve must refetch it.
const FreshnessTTL = 7 * 24 * time.Hour

// ManualSource marks an entity created directly by a user. It is owned by
// exactly that user and never expires.
type ManualSource struct {
	OwnerUserID string `json:"owner_user_id"`
}

// CatalogSource marks an entity fetched from the external catalog. It is
// shared between users and refreshed when stale.
type CatalogSource struct {
	SourceID  string    `json:"source_id"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Provenance is a two-variant union: exactly one of Manual or Catalog is set.
// Constructing it through ManualProvenance/CatalogProvenance keeps the
// manual ⟺ owner ⟺ no-source invariant out of reach of callers.
type Provenance struct {
	Manual  *ManualSource  `json:"manual,omitempty"`
	Catalog *CatalogSource `json:"catalog,omitempty"`
}

func ManualProvenance(ownerUserID string) Provenance {
	return Provenance{Manual: &ManualSource{OwnerUserID: ownerUserID}}
}

func CatalogProvenance(sourceID string, fetchedAt time.Time) Provenance {
	return Provenance{Catalog: &CatalogSource{
		SourceID:  sourceID,
		FetchedAt: fetchedAt,
		ExpiresAt: fetchedAt.Add(FreshnessTTL),
	}}
}

func (p Provenance) IsManual() bool { return p.Manual != nil }

// SourceID returns the external key, or "" for manual entities.
func (p Provenance) SourceID() string {
	if p.Catalog == nil {
		return ""
	}
	return p.Catalog.SourceID
}

// Fresh reports whether an externally sourced entity is still inside its TTL.
// Manual entities are always fresh.
func (p Provenance) Fresh(now time.Time) bool {
	if p.Catalog == nil {
		return true
	}
	return p.Catalog.ExpiresAt.After(now)
}

type Author struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Provenance Provenance `json:"provenance"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type Work struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	FirstPublishYear *int       `json:"first_publish_year,omitempty"`
	PrimaryEditionID *string    `json:"primary_edition_id,omitempty"`
	Provenance       Provenance `json:"provenance"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type Edition struct {
	ID          string     `json:"id"`
	WorkID      string     `json:"work_id"`
	Title       string     `json:"title"`
	PublishDate string     `json:"publish_date,omitempty"`
	PublishYear *int       `json:"publish_year,omitempty"`
	Provenance  Provenance `json:"provenance"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AuthorWorkLink ties an author to a work in the shared catalog. It is never
// user-scoped.
type AuthorWorkLink struct {
	AuthorID  string    `json:"author_id"`
	WorkID    string    `json:"work_id"`
	CreatedAt time.Time `json:"created_at"`
}
