package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"bookapp/internal/client"
	"bookapp/internal/config"
	"bookapp/internal/shell"
)

func newShellCmd() *cobra.Command {
	var apiURL string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive terminal client",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if apiURL == "" {
				apiURL = cfg.Shell.APIURL
			}

			sh := shell.New(client.New(apiURL), os.Stdin, os.Stdout)
			return sh.Run(context.Background())
		},
	}
	cmd.Flags().StringVar(&apiURL, "api-url", "", "base URL of the bookapp server (default from config)")
	return cmd
}
