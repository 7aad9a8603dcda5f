package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"shelfapi/internal/entity"
	"shelfapi/internal/library"
)

// CatalogService is the import/search surface the handler drives.
type CatalogService interface {
	SearchAuthors(ctx context.Context, query string, limit int) ([]library.SearchResult, error)
	ImportAuthor(ctx context.Context, sourceID string) (entity.Author, error)
	ImportWork(ctx context.Context, sourceID, authorID string) (library.WorkView, error)
	ImportEdition(ctx context.Context, sourceID, workID string) (entity.Edition, error)
}

type CatalogHandler struct {
	svc CatalogService
}

func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// @Summary Search authors
// @Description Search the external catalog, merged with locally cached rows
// @Tags catalog
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Max results" default(10)
// @Success 200 {object} SuccessResponse
// @Failure 502 {object} ErrorResponse
// @Security Bearer
// @Router /catalog/search [get]
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.svc.SearchAuthors(r.Context(), query, limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, results, map[string]interface{}{"count": len(results)})
}

type importAuthorRequest struct {
	SourceID string `json:"source_id" validate:"required"`
}

// @Summary Import author
// @Description Resolve an external author into the shared catalog
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body importAuthorRequest true "Author source id"
// @Success 201 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Security Bearer
// @Router /catalog/authors/import [post]
func (h *CatalogHandler) ImportAuthor(w http.ResponseWriter, r *http.Request) {
	var req importAuthorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if verrs := ValidateStruct(req); verrs != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", toDetails(verrs))
		return
	}

	author, err := h.svc.ImportAuthor(r.Context(), req.SourceID)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessCreated(w, author)
}

type importWorkRequest struct {
	SourceID string `json:"source_id" validate:"required"`
	AuthorID string `json:"author_id" validate:"required"`
}

// @Summary Import work
// @Description Fetch a work, pick its primary edition and link it to a catalog author
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body importWorkRequest true "Work source id and catalog author id"
// @Success 201 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Security Bearer
// @Router /catalog/works/import [post]
func (h *CatalogHandler) ImportWork(w http.ResponseWriter, r *http.Request) {
	var req importWorkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if verrs := ValidateStruct(req); verrs != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", toDetails(verrs))
		return
	}

	view, err := h.svc.ImportWork(r.Context(), req.SourceID, req.AuthorID)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessCreated(w, view)
}

type importEditionRequest struct {
	SourceID string `json:"source_id" validate:"required"`
	WorkID   string `json:"work_id" validate:"required"`
}

// @Summary Import edition
// @Description Fetch a single edition and store it under an existing work
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body importEditionRequest true "Edition source id and catalog work id"
// @Success 201 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Security Bearer
// @Router /catalog/editions/import [post]
func (h *CatalogHandler) ImportEdition(w http.ResponseWriter, r *http.Request) {
	var req importEditionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if verrs := ValidateStruct(req); verrs != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", toDetails(verrs))
		return
	}

	edition, err := h.svc.ImportEdition(r.Context(), req.SourceID, req.WorkID)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessCreated(w, edition)
}

func toDetails(verrs []ValidationError) []ErrorDetail {
	details := make([]ErrorDetail, 0, len(verrs))
	for _, v := range verrs {
		details = append(details, ErrorDetail{Field: v.Field, Message: v.Message})
	}
	return details
}
