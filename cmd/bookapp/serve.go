package main

import (
	"context"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"bookapp/internal/api"
	"bookapp/internal/auth"
	"bookapp/internal/config"
	"bookapp/internal/oplog"
	"bookapp/internal/seed"
	"bookapp/internal/store"
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

			fetcher := seed.New(seed.Options{
				BooksURL:     cfg.Seed.URL,
				ImageBaseURL: cfg.Seed.ImageBaseURL,
				BooksFile:    cfg.BooksFile(),
				ImagesDir:    cfg.ImagesDir(),
				MetadataFile: cfg.MetadataFile(),
			})
			if err := fetcher.Ensure(context.Background()); err != nil {
				return err
			}

			audit, err := oplog.New(cfg.Log.File)
			if err != nil {
				return err
			}

			books := store.NewBookStore(cfg.BooksFile())
			users := store.NewUserStore(cfg.UsersFile())

			router := api.NewRouter(api.Deps{
				Books:     books,
				Users:     users,
				BasicAuth: auth.NewBasicAuthMiddleware(users),
				Audit:     audit,
			})

			log.Printf("listening on %s", cfg.HTTP.Addr)
			return http.ListenAndServe(cfg.HTTP.Addr, router)
		},
	}
}
