package http

import (
	"context"
	"encoding/json"
	"net/http"

	"shelfapi/internal/entity"
	"shelfapi/internal/httpx"
)

// ManualCatalog is the personal-entry surface the handler drives. Manual
// entries belong to their creator; shared catalog rows never pass through
// these operations.
type ManualCatalog interface {
	CreateManualAuthor(ctx context.Context, userID, name string) (entity.Author, error)
	CreateManualWork(ctx context.Context, userID, title string, firstPublishYear *int) (entity.Work, error)
	DeleteManualAuthor(ctx context.Context, userID, authorID string) error
	DeleteManualWork(ctx context.Context, userID, workID string) error
}

type ManualHandler struct {
	svc ManualCatalog
}

func NewManualHandler(svc ManualCatalog) *ManualHandler {
	return &ManualHandler{svc: svc}
}

type createAuthorRequest struct {
	Name string `json:"name" validate:"required,max=500"`
}

// @Summary Create manual author
// @Tags manual
// @Accept json
// @Produce json
// @Param body body createAuthorRequest true "Author name"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Security Bearer
// @Router /authors [post]
func (h *ManualHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var req createAuthorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if verrs := ValidateStruct(req); verrs != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", toDetails(verrs))
		return
	}

	author, err := h.svc.CreateManualAuthor(r.Context(), userID, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessCreated(w, author)
}

// @Summary Delete manual author
// @Description Delete an author the caller created, cascading through links and every user's affected shelf entries
// @Tags manual
// @Produce json
// @Param id path string true "Author id"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security Bearer
// @Router /authors/{id} [delete]
func (h *ManualHandler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	authorID := pathTail(r.URL.Path, "/authors/")
	if authorID == "" {
		http.NotFound(w, r)
		return
	}

	if err := h.svc.DeleteManualAuthor(r.Context(), userID, authorID); err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessNoContent(w)
}

type createWorkRequest struct {
	Title            string `json:"title" validate:"required,max=1000"`
	FirstPublishYear *int   `json:"first_publish_year" validate:"omitempty,gte=1000,lte=2100"`
}

// @Summary Create manual work
// @Tags manual
// @Accept json
// @Produce json
// @Param body body createWorkRequest true "Work title and optional first publish year"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Security Bearer
// @Router /works [post]
func (h *ManualHandler) CreateWork(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var req createWorkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if verrs := ValidateStruct(req); verrs != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", toDetails(verrs))
		return
	}

	work, err := h.svc.CreateManualWork(r.Context(), userID, req.Title, req.FirstPublishYear)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessCreated(w, work)
}

// @Summary Delete manual work
// @Tags manual
// @Produce json
// @Param id path string true "Work id"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security Bearer
// @Router /works/{id} [delete]
func (h *ManualHandler) DeleteWork(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	workID := pathTail(r.URL.Path, "/works/")
	if workID == "" {
		http.NotFound(w, r)
		return
	}

	if err := h.svc.DeleteManualWork(r.Context(), userID, workID); err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessNoContent(w)
}
