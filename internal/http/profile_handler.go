package http

import (
	"context"
	"net/http"

	"shelfapi/internal/entity"
	"shelfapi/internal/httpx"
)

// ProfileReader exposes the caller's profile row with its counters and caps.
type ProfileReader interface {
	Profile(ctx context.Context, userID string) (entity.Profile, error)
}

type ProfileHandler struct {
	profiles ProfileReader
}

func NewProfileHandler(profiles ProfileReader) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type profileView struct {
	UserID           string `json:"user_id"`
	AuthorCount      int    `json:"author_count"`
	WorkCount        int    `json:"work_count"`
	MaxAuthors       int    `json:"max_authors"`
	MaxWorks         int    `json:"max_works"`
	AuthorsRemaining int    `json:"authors_remaining"`
	WorksRemaining   int    `json:"works_remaining"`
}

// @Summary Get own profile
// @Description Retrieve the authenticated user's attachment counters and quota caps
// @Tags users
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Security Bearer
// @Router /me/profile [get]
func (h *ProfileHandler) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	p, err := h.profiles.Profile(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	JSONSuccess(w, profileView{
		UserID:           p.UserID,
		AuthorCount:      p.AuthorCount,
		WorkCount:        p.WorkCount,
		MaxAuthors:       p.MaxAuthors,
		MaxWorks:         p.MaxWorks,
		AuthorsRemaining: remaining(p.AuthorCount, p.MaxAuthors),
		WorksRemaining:   remaining(p.WorkCount, p.MaxWorks),
	}, nil)
}

func remaining(count, max int) int {
	if max <= count {
		return 0
	}
	return max - count
}
