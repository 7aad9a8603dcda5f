package entity

import "time"

// Reading statuses for a work on a user's shelf.
const (
	StatusToRead     = "TO_READ"
	StatusInProgress = "IN_PROGRESS"
	StatusRead       = "READ"
	StatusHidden     = "HIDDEN"
)

// Profile carries per-user attachment counters and their maxima. The counters
// are maintained by database triggers on attachment inserts/deletes; this core
// only reads them.
type Profile struct {
	UserID      string    `json:"user_id"`
	AuthorCount int       `json:"author_count"`
	WorkCount   int       `json:"work_count"`
	MaxAuthors  int       `json:"max_authors"`
	MaxWorks    int       `json:"max_works"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UserAuthorAttachment struct {
	UserID    string    `json:"user_id"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// UserWorkAttachment is a work on a user's shelf. Available is tri-state:
// nil means the external source has not been consulted yet.
type UserWorkAttachment struct {
	UserID          string    `json:"user_id"`
	WorkID          string    `json:"work_id"`
	Status          string    `json:"status"`
	Available       *bool     `json:"available_in_external_source,omitempty"`
	StatusUpdatedAt time.Time `json:"status_updated_at"`
	CreatedAt       time.Time `json:"created_at"`
}
