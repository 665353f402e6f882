package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/HenrYxZ/experiments/pkg/core"
	"github.com/HenrYxZ/experiments/web/server"
)

func main() {
	var port int

	cmd := &cobra.Command{
		Use:          "nrt-web",
		Short:        "Serve the sphere renderer over HTTP",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := core.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)), slog.LevelInfo)
			webServer := server.NewServer(port, logger)

			logger.Printf("Visit http://localhost:%d/api/health to check the server\n", port)
			return webServer.Start()
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to serve on")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
