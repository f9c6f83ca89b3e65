package api

import (
	"net/http"
	"strconv"
)

const (
	defaultPerPage = 5
	maxPerPage     = 100
)

// Meta describes one page of a list response.
type Meta struct {
	Page     int  `json:"page"`
	PerPage  int  `json:"per_page"`
	Total    int  `json:"total"`
	Pages    int  `json:"pages"`
	HasNext  bool `json:"has_next"`
	HasPrev  bool `json:"has_prev"`
	NextPage *int `json:"next_page"`
	PrevPage *int `json:"prev_page"`
}

// parsePagination extracts page and per_page from query parameters.
// page defaults to 1; per_page defaults to 5 and is silently capped at 100.
func parsePagination(r *http.Request) (page, perPage int) {
	page = 1
	perPage = defaultPerPage

	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if pp := r.URL.Query().Get("per_page"); pp != "" {
		if parsed, err := strconv.Atoi(pp); err == nil && parsed > 0 {
			perPage = parsed
		}
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return page, perPage
}

// newMeta builds pagination metadata for a page of total rows.
func newMeta(page, perPage, total int) Meta {
	pages := (total + perPage - 1) / perPage

	m := Meta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1 && total > 0,
	}
	if m.HasNext {
		next := page + 1
		m.NextPage = &next
	}
	if m.HasPrev {
		prev := page - 1
		if prev > pages {
			prev = pages
		}
		m.PrevPage = &prev
	}
	return m
}
