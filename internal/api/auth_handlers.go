package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/joestump/bookmarkd/internal/auth"
	"github.com/joestump/bookmarkd/internal/metrics"
	"github.com/joestump/bookmarkd/internal/store"
)

// authAPIHandler provides REST handlers for registration and the token
// lifecycle.
type authAPIHandler struct {
	users  store.UserStoreIface
	tokens *auth.TokenIssuer
}

// Register creates a new user account.
// POST /api/v1/auth/register
//
// Checks run in a fixed order so the caller always gets the most specific
// failure: password length, username length, username charset, email syntax,
// email taken, username taken. The first failing check short-circuits.
//
// @Summary      Register
// @Description  Creates a user account. The password is stored only as a bcrypt hash.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "Account to create"
// @Success      201   {object}  RegisterResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *authAPIHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	if err := store.ValidatePassword(req.Password); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	if err := store.ValidateUsername(req.Username); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	if err := store.ValidateEmail(req.Email); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	taken, err := h.users.ExistsByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	if taken {
		metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		writeError(w, http.StatusConflict, store.ErrEmailTaken.Error(), "EMAIL_CONFLICT")
		return
	}

	taken, err = h.users.ExistsByUsername(r.Context(), req.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	if taken {
		metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		writeError(w, http.StatusConflict, store.ErrUsernameTaken.Error(), "USERNAME_CONFLICT")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	user, err := h.users.Create(r.Context(), req.Username, req.Email, hash)
	if err != nil {
		// The unique indexes backstop the pre-checks against concurrent
		// registrations with the same email or username.
		if errors.Is(err, store.ErrEmailTaken) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			writeError(w, http.StatusConflict, err.Error(), "EMAIL_CONFLICT")
			return
		}
		if errors.Is(err, store.ErrUsernameTaken) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			writeError(w, http.StatusConflict, err.Error(), "USERNAME_CONFLICT")
			return
		}
		log.Printf("api: register %q: %v", req.Username, err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusCreated, RegisterResponse{
		Message: "user created",
		User:    toUserResponse(user),
	})
}

// Login verifies credentials and issues an access/refresh token pair.
// POST /api/v1/auth/login
//
// An unknown email and a wrong password produce the same response, so the
// endpoint cannot be used to probe which accounts exist.
//
// @Summary      Log in
// @Description  Exchanges email and password for an access/refresh token pair.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  LoginResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *authAPIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("denied").Inc()
			writeError(w, http.StatusUnauthorized, "wrong credentials", "INVALID_CREDENTIALS")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("denied").Inc()
		writeError(w, http.StatusUnauthorized, "wrong credentials", "INVALID_CREDENTIALS")
		return
	}

	access, err := h.tokens.Issue(user.ID, auth.TypeAccess)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	refresh, err := h.tokens.Issue(user.ID, auth.TypeRefresh)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Username:     user.Username,
		Email:        user.Email,
	})
}

// Refresh mints a new access token from a refresh token.
// GET /api/v1/auth/token/refresh
//
// The Bearer token MUST be refresh-type; access tokens are rejected here.
//
// @Summary      Refresh access token
// @Description  Mints a new access token. The Bearer token must be a refresh token.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  RefreshResponse
// @Failure      401  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /auth/token/refresh [get]
func (h *authAPIHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	claims, err := h.tokens.Verify(auth.BearerToken(r), auth.TypeRefresh)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token", "INVALID_TOKEN")
		return
	}

	// The subject must still exist; a refresh token can outlive its user.
	if _, err := h.users.GetByID(r.Context(), claims.UserID); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token", "INVALID_TOKEN")
		return
	}

	access, err := h.tokens.Issue(claims.UserID, auth.TypeAccess)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, RefreshResponse{AccessToken: access})
}

// Me returns the authenticated caller's profile.
// GET /api/v1/auth/me
//
// @Summary      Who am I
// @Description  Returns the authenticated user's username and email.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /auth/me [get]
func (h *authAPIHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func toUserResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
