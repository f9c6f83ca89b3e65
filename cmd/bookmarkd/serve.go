package main

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/joestump/bookmarkd/internal/alias"
	"github.com/joestump/bookmarkd/internal/api"
	"github.com/joestump/bookmarkd/internal/auth"
	"github.com/joestump/bookmarkd/internal/config"
	"github.com/joestump/bookmarkd/internal/db"
	"github.com/joestump/bookmarkd/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			generator := &alias.Generator{
				BaseLength:  cfg.Alias.Length,
				MaxLength:   cfg.Alias.MaxLength,
				MaxAttempts: cfg.Alias.MaxAttempts,
				Saturation:  cfg.Alias.Saturation,
			}

			userStore := store.NewUserStore(database)
			bookmarkStore := store.NewBookmarkStore(database, generator)

			tokens := auth.NewTokenIssuer([]byte(cfg.JWT.Secret), cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
			authMiddleware := auth.NewMiddleware(tokens, userStore)

			router := api.NewRouter(api.Deps{
				AuthMiddleware: authMiddleware,
				Tokens:         tokens,
				UserStore:      userStore,
				BookmarkStore:  bookmarkStore,
			})

			log.Printf("listening on %s", cfg.HTTP.Addr)
			return http.ListenAndServe(cfg.HTTP.Addr, router)
		},
	}
}
