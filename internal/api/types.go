package api

import "time"

// --- Auth types ---

// RegisterRequest is the request body for POST /api/v1/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the JSON representation of a user. The password hash is
// never serialized.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterResponse is the body returned on successful registration.
type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the freshly issued token pair.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username"`
	Email        string `json:"email"`
}

// RefreshResponse carries the access token minted from a refresh token.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// --- Bookmark types ---

// CreateBookmarkRequest is the request body for POST /api/v1/bookmarks.
type CreateBookmarkRequest struct {
	URL  string `json:"url"`
	Body string `json:"body,omitempty"`
}

// UpdateBookmarkRequest is the request body for PUT /api/v1/bookmarks/{id}.
// The alias is intentionally absent: it is immutable after creation.
type UpdateBookmarkRequest struct {
	URL  string `json:"url"`
	Body string `json:"body,omitempty"`
}

// BookmarkResponse is the JSON representation of a single bookmark.
type BookmarkResponse struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	ShortAlias string    `json:"short_alias"`
	Body       string    `json:"body"`
	Visits     int       `json:"visits"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BookmarkListResponse is the paginated response for the bookmark list.
type BookmarkListResponse struct {
	Bookmarks []BookmarkResponse `json:"bookmarks"`
	Meta      Meta               `json:"meta"`
}

// BookmarkStatsResponse is one row of GET /api/v1/bookmarks/stats.
type BookmarkStatsResponse struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	ShortAlias string `json:"short_alias"`
	Visits     int    `json:"visits"`
}

// StatsListResponse is the response for GET /api/v1/bookmarks/stats.
type StatsListResponse struct {
	Stats []BookmarkStatsResponse `json:"stats"`
}
