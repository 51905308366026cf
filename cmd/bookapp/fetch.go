package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"bookapp/internal/config"
	"bookapp/internal/seed"
)

func newFetchCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the seed catalog and cover images",
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

			ctx := context.Background()
			if force {
				if err := fetcher.DownloadBooks(ctx); err != nil {
					return err
				}
				if err := fetcher.DownloadImages(ctx); err != nil {
					return err
				}
			} else if err := fetcher.Ensure(ctx); err != nil {
				return err
			}

			log.Println("seed data ready")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "re-download even if seed data is already present")
	return cmd
}
