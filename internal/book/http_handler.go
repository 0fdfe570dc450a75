package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"booklib/internal/httpx"
)

const (
	defaultPage = 0
	defaultSize = 10
	maxSize     = 100
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type bookPayload struct {
	Title         string   `json:"title" validate:"required"`
	Author        string   `json:"author" validate:"required"`
	Description   string   `json:"description" validate:"max=500"`
	ISBN          string   `json:"isbn" validate:"omitempty,isbn"`
	Category      string   `json:"category"`
	PageCount     *int     `json:"page_count" validate:"omitempty,gte=0"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"published_date"`
	ThumbnailURL  string   `json:"thumbnail_url"`
	Rating        *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Language      string   `json:"language"`
}

func (p bookPayload) toInput() Input {
	return Input{
		Title:         p.Title,
		Author:        p.Author,
		Description:   p.Description,
		ISBN:          p.ISBN,
		Category:      p.Category,
		PageCount:     p.PageCount,
		Publisher:     p.Publisher,
		PublishedDate: p.PublishedDate,
		ThumbnailURL:  p.ThumbnailURL,
		Rating:        p.Rating,
		Language:      p.Language,
	}
}

// decodePayload reads and validates the request body, writing the error
// response itself when the payload is unusable.
func (h *HTTPHandler) decodePayload(w http.ResponseWriter, r *http.Request) (bookPayload, bool) {
	var payload bookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON", nil)
		return bookPayload{}, false
	}
	if details := validatePayload(payload); len(details) > 0 {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", details)
		return bookPayload{}, false
	}
	return payload, true
}

// pathID reads the {id} path value and rejects anything that is not a UUID
// before it can reach the store, where it would fail the uuid column cast.
func (h *HTTPHandler) pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if uuid.Validate(id) != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "VALIDATION_FAILED", "Path parameter 'id' must be a valid UUID", []httpx.ErrorDetail{
			{Field: "id", Message: "id must be a valid UUID"},
		})
		return "", false
	}
	return id, true
}

// Create handles POST /api/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), payload.toInput())
	if err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessCreatedWithRequest(r, w, created)
}

// Update handles PUT /api/books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), id, payload.toInput())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, updated, nil)
}

// Delete handles DELETE /api/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// GetByID handles GET /api/books/{id}
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	summary, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, summary, nil)
}

// List handles GET /api/books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pagination(r)

	books, total, err := h.service.List(r.Context(), size, page*size)
	if err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, books, pageMeta(page, size, total))
}

// Search handles GET /api/books/search
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "VALIDATION_FAILED", "Query parameter 'query' is required", []httpx.ErrorDetail{
			{Field: "query", Message: "query is required"},
		})
		return
	}
	searchBy := r.URL.Query().Get("searchBy")
	page, size := pagination(r)

	books, total, err := h.service.Search(r.Context(), query, searchBy, size, page*size)
	if err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, books, pageMeta(page, size, total))
}

// GetDetail handles GET /api/books/{id}/details
func (h *HTTPHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.service.GetDetail(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, detail, nil)
}

func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.JSONErrorWithRequest(r, w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		return
	}
	httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}

// pagination reads the zero-based page and size query params.
func pagination(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 0 {
		page = defaultPage
	}
	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 || size > maxSize {
		size = defaultSize
	}
	return page, size
}

func pageMeta(page, size, total int) map[string]any {
	return map[string]any{
		"page":           page,
		"size":           size,
		"total_elements": total,
		"total_pages":    (total + size - 1) / size,
	}
}
