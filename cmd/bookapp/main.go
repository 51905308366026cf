package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bookapp/internal/build"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "bookapp",
		Short:   "A book catalog with a REST API and terminal client",
		Long:    "Bookapp serves a JSON-file-backed catalog of books over HTTP and ships an interactive shell to browse and manage it.",
		Version: fmt.Sprintf("%s (%s@%s)", build.Version, build.Commit, build.Branch),
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newShellCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
