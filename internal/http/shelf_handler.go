package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"shelfapi/internal/entity"
	"shelfapi/internal/httpx"
	"shelfapi/internal/shelf"
)

// ShelfEngine is the attachment surface the handler drives.
type ShelfEngine interface {
	AttachAuthor(ctx context.Context, userID, authorID string) error
	DetachAuthor(ctx context.Context, userID, authorID string) error
	AttachWork(ctx context.Context, userID, workID, status string) error
	DetachWork(ctx context.Context, userID, workID string) error
	BulkAttachWorks(ctx context.Context, userID string, workIDs []string, status string) (shelf.BulkAttachResult, error)
	BulkUpdateWorks(ctx context.Context, userID string, workIDs []string, update shelf.WorkUpdate) ([]string, error)
	ListAuthors(ctx context.Context, userID string, limit, offset int) ([]entity.Author, int, error)
	ListWorks(ctx context.Context, userID, status string, limit, offset int) ([]shelf.WorkItem, int, error)
}

type ShelfHandler struct {
	engine ShelfEngine
}

func NewShelfHandler(engine ShelfEngine) *ShelfHandler {
	return &ShelfHandler{engine: engine}
}

type attachAuthorRequest struct {
	AuthorID string `json:"author_id" validate:"required"`
}

// @Summary Attach author
// @Description Add a catalog author to the caller's list
// @Tags shelf
// @Accept json
// @Produce json
// @Param body body attachAuthorRequest true "Catalog author id"
// @Success 201 {object} SuccessResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security Bearer
// @Router /shelf/authors [post]
func (h *ShelfHandler) AttachAuthor(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var req attachAuthorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if verrs := ValidateStruct(req); verrs != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", toDetails(verrs))
		return
	}

	if err := h.engine.AttachAuthor(r.Context(), userID, req.AuthorID); err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessCreated(w, map[string]string{"author_id": req.AuthorID})
}

// @Summary Detach author
// @Description Remove an author from the caller's list along with the caller's shelf entries for that author's works
// @Tags shelf
// @Produce json
// @Param id path string true "Catalog author id"
// @Success 204
// @Failure 409 {object} ErrorResponse
// @Security Bearer
// @Router /shelf/authors/{id} [delete]
func (h *ShelfHandler) DetachAuthor(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	authorID := pathTail(r.URL.Path, "/shelf/authors/")
	if authorID == "" {
		http.NotFound(w, r)
		return
	}

	if err := h.engine.DetachAuthor(r.Context(), userID, authorID); err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessNoContent(w)
}

// @Summary List shelf authors
// @Tags shelf
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Success 200 {object} SuccessResponse
// @Security Bearer
// @Router /shelf/authors [get]
func (h *ShelfHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	page, pageSize := pagination(r)

	authors, total, err := h.engine.ListAuthors(r.Context(), userID, pageSize, (page-1)*pageSize)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, authors, paginationMeta(page, pageSize, total))
}

type attachWorkRequest struct {
	WorkID string `json:"work_id" validate:"required"`
	Status string `json:"status" validate:"omitempty,shelf_status"`
}

// @Summary Attach work
// @Description Add a catalog work to the caller's shelf; status defaults to TO_READ
// @Tags shelf
// @Accept json
// @Produce json
// @Param body body attachWorkRequest true "Catalog work id and optional status"
// @Success 201 {object} SuccessResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security Bearer
// @Router /shelf/works [post]
func (h *ShelfHandler) AttachWork(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var req attachWorkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if verrs := ValidateStruct(req); verrs != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", toDetails(verrs))
		return
	}

	if err := h.engine.AttachWork(r.Context(), userID, req.WorkID, req.Status); err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessCreated(w, map[string]string{"work_id": req.WorkID})
}

// @Summary Detach work
// @Tags shelf
// @Produce json
// @Param id path string true "Catalog work id"
// @Success 204
// @Failure 409 {object} ErrorResponse
// @Security Bearer
// @Router /shelf/works/{id} [delete]
func (h *ShelfHandler) DetachWork(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	workID := pathTail(r.URL.Path, "/shelf/works/")
	if workID == "" || workID == "bulk" {
		http.NotFound(w, r)
		return
	}

	if err := h.engine.DetachWork(r.Context(), userID, workID); err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessNoContent(w)
}

// @Summary List shelf works
// @Tags shelf
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Success 200 {object} SuccessResponse
// @Security Bearer
// @Router /shelf/works [get]
func (h *ShelfHandler) ListWorks(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")

	items, total, err := h.engine.ListWorks(r.Context(), userID, status, pageSize, (page-1)*pageSize)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, items, paginationMeta(page, pageSize, total))
}

type bulkAttachRequest struct {
	WorkIDs []string `json:"work_ids" validate:"required,min=1"`
	Status  string   `json:"status" validate:"omitempty,shelf_status"`
}

// @Summary Bulk attach works
// @Description Attach several works at once; the whole batch is admitted against the quota before any write
// @Tags shelf
// @Accept json
// @Produce json
// @Param body body bulkAttachRequest true "Work ids and optional status"
// @Success 200 {object} SuccessResponse
// @Failure 422 {object} ErrorResponse
// @Security Bearer
// @Router /shelf/works/bulk [post]
func (h *ShelfHandler) BulkAttachWorks(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var req bulkAttachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if verrs := ValidateStruct(req); verrs != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", toDetails(verrs))
		return
	}

	result, err := h.engine.BulkAttachWorks(r.Context(), userID, req.WorkIDs, req.Status)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, result, nil)
}

type bulkUpdateRequest struct {
	WorkIDs   []string `json:"work_ids" validate:"required,min=1"`
	Status    *string  `json:"status" validate:"omitempty,shelf_status"`
	Available *bool    `json:"available_in_external_source"`
}

// @Summary Bulk update works
// @Description Update status and availability of several attached works; unattached ids are omitted from the result
// @Tags shelf
// @Accept json
// @Produce json
// @Param body body bulkUpdateRequest true "Work ids and fields to update"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Security Bearer
// @Router /shelf/works/bulk [patch]
func (h *ShelfHandler) BulkUpdateWorks(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var req bulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if verrs := ValidateStruct(req); verrs != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", toDetails(verrs))
		return
	}

	updated, err := h.engine.BulkUpdateWorks(r.Context(), userID, req.WorkIDs, shelf.WorkUpdate{
		Status:    req.Status,
		Available: req.Available,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, map[string]interface{}{"updated": updated}, nil)
}

func pathTail(path, prefix string) string {
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	tail := strings.TrimPrefix(path, prefix)
	if tail == "" || strings.Contains(tail, "/") {
		return ""
	}
	return tail
}

func pagination(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func paginationMeta(page, pageSize, total int) map[string]interface{} {
	return map[string]interface{}{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	}
}
