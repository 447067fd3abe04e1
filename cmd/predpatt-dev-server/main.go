package main

import (
	"os"

	"github.com/gissleh/predpatt"
	"github.com/gissleh/predpatt/adapters/sourcestorage"
	"github.com/gissleh/predpatt/adapters/templfrontend"
	"github.com/gissleh/predpatt/adapters/webapi"
	"github.com/gissleh/predpatt/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sourceDir string
	listen    string
)

var rootCmd = &cobra.Command{
	Use:   "predpatt-dev-server",
	Short: "Serve a directory of CoNLL-U files with default options",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		storage, err := sourcestorage.Open(cmd.Context(), sourceDir, logger)
		if err != nil {
			logger.Error("Failed to open storage", zap.Error(err))
			return err
		}
		logger.Info("Sentences loaded", zap.Int("sentences", storage.SentenceCount()), zap.Strings("corpora", storage.Corpora()))

		svc := &service.Service{Options: predpatt.DefaultOptions(), Storage: storage, Logger: logger}

		api, errCh := webapi.Setup(listen, logger)

		webapi.Extract(api.Group("/api/extract"), svc)
		webapi.Sentences(api.Group("/api/sentences"), svc)
		templfrontend.Endpoints(api.Group(""), svc)

		err = <-errCh
		if err != nil {
			logger.Error("Failed to listen", zap.Error(err))
		}

		return err
	},
}

func main() {
	rootCmd.Flags().StringVar(&sourceDir, "source-dir", "./data", "Source directory")
	rootCmd.Flags().StringVar(&listen, "listen", "localhost:8080", "Address to listen on")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
