package main

import (
	"fmt"

	"github.com/cwbudde/linfit/internal/server"
	"github.com/cwbudde/linfit/internal/store"
	"github.com/spf13/cobra"
)

var (
	serveAddr    string
	serveDataDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for remote fit jobs",
	Long: `Starts an HTTP server exposing the fit as background jobs with
live progress streaming over SSE. Finished runs are persisted under
the data directory.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "./data", "Base directory for run records")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	runStore, err := store.NewFSStore(serveDataDir)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}

	s := server.NewServer(serveAddr, serveDataDir, runStore)
	return s.Start()
}
