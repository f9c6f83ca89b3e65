package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/bookmarkd/internal/alias"
	"github.com/joestump/bookmarkd/internal/auth"
	"github.com/joestump/bookmarkd/internal/metrics"
	"github.com/joestump/bookmarkd/internal/store"
)

// bookmarksAPIHandler provides REST handlers for bookmark management. Every
// operation is scoped to the authenticated owner.
type bookmarksAPIHandler struct {
	bookmarks store.BookmarkStoreIface
}

// List returns one page of the caller's bookmarks.
// GET /api/v1/bookmarks
//
// @Summary      List bookmarks
// @Description  Returns the caller's bookmarks in creation order, paginated.
// @Tags         Bookmarks
// @Produce      json
// @Param        page      query     int  false  "Page number (default 1)"
// @Param        per_page  query     int  false  "Page size (default 5, max 100)"
// @Success      200       {object}  BookmarkListResponse
// @Failure      401       {object}  ErrorResponse
// @Failure      500       {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks [get]
func (h *bookmarksAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	page, perPage := parsePagination(r)
	bookmarks, total, err := h.bookmarks.ListByOwner(r.Context(), user.ID, page, perPage)
	if err != nil {
		log.Printf("api: list bookmarks: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	resp := BookmarkListResponse{
		Bookmarks: make([]BookmarkResponse, 0, len(bookmarks)),
		Meta:      newMeta(page, perPage, total),
	}
	for _, b := range bookmarks {
		resp.Bookmarks = append(resp.Bookmarks, toBookmarkResponse(b))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a bookmark and assigns it a short alias.
// POST /api/v1/bookmarks
//
// @Summary      Create a bookmark
// @Description  Creates a bookmark. The URL must not be bookmarked by anyone; a unique short alias is assigned atomically.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        body  body      CreateBookmarkRequest  true  "Bookmark to create"
// @Success      201   {object}  BookmarkResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks [post]
func (h *bookmarksAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var req CreateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	if err := store.ValidateURL(req.URL); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_URL")
		return
	}

	bookmark, err := h.bookmarks.Create(r.Context(), user.ID, req.URL, req.Body)
	if err != nil {
		if errors.Is(err, store.ErrURLTaken) {
			writeError(w, http.StatusConflict, err.Error(), "URL_CONFLICT")
			return
		}
		if errors.Is(err, alias.ErrSpaceExhausted) {
			log.Printf("api: create bookmark: %v", err)
			writeError(w, http.StatusInternalServerError, "could not allocate an alias", "ALIAS_SPACE_EXHAUSTED")
			return
		}
		log.Printf("api: create bookmark: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.BookmarksCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, toBookmarkResponse(bookmark))
}

// Get returns a single bookmark by ID.
// GET /api/v1/bookmarks/{id}
//
// @Summary      Get a bookmark
// @Description  Returns one of the caller's bookmarks. Another user's bookmark is a 404.
// @Tags         Bookmarks
// @Produce      json
// @Param        id   path      string  true  "Bookmark ID"
// @Success      200  {object}  BookmarkResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [get]
func (h *bookmarksAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	bookmark, err := h.bookmarks.GetByID(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, toBookmarkResponse(bookmark))
}

// Update modifies a bookmark's url and body. The alias never changes.
// PUT /api/v1/bookmarks/{id}
//
// @Summary      Update a bookmark
// @Description  Updates url and body. The short alias is immutable. Keeping the same URL is always allowed.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Bookmark ID"
// @Param        body  body      UpdateBookmarkRequest  true  "Fields to update"
// @Success      200   {object}  BookmarkResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [put]
func (h *bookmarksAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var req UpdateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	// Resolve ownership before validating the payload: a missing or foreign
	// bookmark is a 404 regardless of what the body contains.
	id := chi.URLParam(r, "id")
	if _, err := h.bookmarks.GetByID(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	if err := store.ValidateURL(req.URL); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_URL")
		return
	}

	bookmark, err := h.bookmarks.Update(r.Context(), user.ID, id, req.URL, req.Body)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
			return
		}
		if errors.Is(err, store.ErrURLTaken) {
			writeError(w, http.StatusConflict, err.Error(), "URL_CONFLICT")
			return
		}
		log.Printf("api: update bookmark: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, toBookmarkResponse(bookmark))
}

// Delete removes a bookmark.
// DELETE /api/v1/bookmarks/{id}
//
// @Summary      Delete a bookmark
// @Description  Deletes one of the caller's bookmarks permanently.
// @Tags         Bookmarks
// @Produce      json
// @Param        id   path  string  true  "Bookmark ID"
// @Success      204  "No Content"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [delete]
func (h *bookmarksAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	err := h.bookmarks.Delete(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats returns visit counts for the caller's bookmarks.
// GET /api/v1/bookmarks/stats
//
// @Summary      Bookmark stats
// @Description  Returns per-bookmark visit counts for the caller.
// @Tags         Bookmarks
// @Produce      json
// @Success      200  {object}  StatsListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/stats [get]
func (h *bookmarksAPIHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	stats, err := h.bookmarks.Stats(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	resp := StatsListResponse{Stats: make([]BookmarkStatsResponse, 0, len(stats))}
	for _, s := range stats {
		resp.Stats = append(resp.Stats, BookmarkStatsResponse{
			ID:         s.ID,
			URL:        s.URL,
			ShortAlias: s.ShortAlias,
			Visits:     s.Visits,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func toBookmarkResponse(b *store.Bookmark) BookmarkResponse {
	return BookmarkResponse{
		ID:         b.ID,
		URL:        b.URL,
		ShortAlias: b.ShortAlias,
		Body:       b.Body,
		Visits:     b.Visits,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
