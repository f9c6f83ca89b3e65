package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/joestump/bookmarkd/docs/swagger"
	"github.com/joestump/bookmarkd/internal/auth"
	"github.com/joestump/bookmarkd/internal/store"
)

// Deps holds all dependencies required to build the router.
type Deps struct {
	AuthMiddleware *auth.Middleware
	Tokens         *auth.TokenIssuer
	UserStore      store.UserStoreIface
	BookmarkStore  store.BookmarkStoreIface
}

// NewRouter creates the full server router: the JSON API under /api/v1,
// Swagger UI under /api/docs, Prometheus metrics, and a liveness probe.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/docs/*", httpSwagger.WrapHandler)

	r.Mount("/api/v1", newV1Router(deps))

	return r
}

// newV1Router builds the /api/v1 sub-router. All routes return
// application/json; bookmark routes and /auth/me require an access token.
func newV1Router(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(jsonContentType)

	ah := &authAPIHandler{users: deps.UserStore, tokens: deps.Tokens}
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", ah.Register)
		r.Post("/login", ah.Login)
		r.Get("/token/refresh", ah.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAccess)
			r.Get("/me", ah.Me)
		})
	})

	bh := &bookmarksAPIHandler{bookmarks: deps.BookmarkStore}
	r.Route("/bookmarks", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAccess)
		r.Get("/", bh.List)
		r.Post("/", bh.Create)
		r.Get("/stats", bh.Stats)
		r.Get("/{id}", bh.Get)
		r.Put("/{id}", bh.Update)
		r.Delete("/{id}", bh.Delete)
	})

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
