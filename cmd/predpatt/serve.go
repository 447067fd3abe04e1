package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gissleh/predpatt/adapters/conllu"
	"github.com/gissleh/predpatt/adapters/jsonstorage"
	"github.com/gissleh/predpatt/adapters/redisstorage"
	"github.com/gissleh/predpatt/adapters/sourcestorage"
	"github.com/gissleh/predpatt/adapters/templfrontend"
	"github.com/gissleh/predpatt/adapters/webapi"
	"github.com/gissleh/predpatt/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API and the web frontend",
	RunE:  runServe,
}

var importCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Store the sentences of CoNLL-U files",
	Long: `Reads CoNLL-U files and stores every sentence in the configured storage. The
corpus of a sentence is its file name without extension unless --corpus is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	addOptionFlags(serveCmd)
	serveCmd.Flags().String("listen", "", "Address to listen on")
	serveCmd.Flags().String("data", "", "Storage path")
	serveCmd.Flags().Bool("read-only", false, "Reject changes to stored sentences")

	importCmd.Flags().String("data", "", "Storage path")
	importCmd.Flags().String("corpus", "", "Corpus name for every imported sentence")
}

// storageCloser flushes a storage that does not write through.
type storageCloser func() error

func openService(ctx context.Context, cmd *cobra.Command) (*service.Service, *service.Config, storageCloser, error) {
	conf, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	if cmd.Flags().Changed("listen") {
		conf.Listen, _ = cmd.Flags().GetString("listen")
	}
	if cmd.Flags().Changed("data") {
		conf.Storage.Path, _ = cmd.Flags().GetString("data")
	}
	if cmd.Flags().Changed("read-only") {
		conf.ReadOnly, _ = cmd.Flags().GetBool("read-only")
	}
	if err := conf.ValidateAndDefaults(logger); err != nil {
		return nil, nil, nil, err
	}

	svc := &service.Service{
		Options:  conf.Options,
		Logger:   logger,
		Workers:  conf.Workers,
		ReadOnly: conf.ReadOnly,
	}

	closer := storageCloser(func() error { return nil })
	switch conf.Storage.Kind {
	case service.StorageJSON:
		var storage *jsonstorage.Storage
		storage, err = jsonstorage.Open(conf.Storage.Path, conf.ReadOnly)
		if errors.Is(err, os.ErrNotExist) && !conf.ReadOnly {
			storage, err = jsonstorage.New(conf.Storage.Path), nil
		}
		if err != nil {
			return nil, nil, nil, err
		}

		svc.Storage = storage
		if !conf.ReadOnly {
			closer = storage.WriteToFile
		}
		logger.Info("Sentences loaded", zap.String("path", conf.Storage.Path), zap.Int("sentences", storage.SentenceCount()))
	default:
		storage, err := sourcestorage.Open(ctx, conf.Storage.Path, logger)
		if err != nil {
			return nil, nil, nil, err
		}

		svc.Storage = storage
		logger.Info("Sentences loaded", zap.String("path", conf.Storage.Path), zap.Int("sentences", storage.SentenceCount()))
	}

	if conf.Redis != nil {
		cache := redisstorage.Open(conf.Redis.Addr, conf.Redis.Password, conf.Redis.DB, conf.Redis.Prefix, conf.Redis.TTL)
		svc.Cache = cache

		flush := closer
		closer = func() error {
			err := flush()
			_ = cache.Close()
			return err
		}
	}

	return svc, conf, closer, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, conf, closer, err := openService(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := closer(); err != nil {
			logger.Error("Failed to save storage", zap.Error(err))
		}
	}()

	api, errCh := webapi.Setup(conf.Listen, logger)
	webapi.Extract(api.Group("/api/extract"), svc)
	webapi.Sentences(api.Group("/api/sentences"), svc)
	templfrontend.Endpoints(api.Group(""), svc)

	logger.Info("Listening", zap.String("listen", conf.Listen), zap.Bool("readOnly", conf.ReadOnly))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return api.Shutdown(shutdownCtx)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, _, closer, err := openService(ctx, cmd)
	if err != nil {
		return err
	}

	corpus, _ := cmd.Flags().GetString("corpus")
	saved := 0
	for _, file := range args {
		sentences, err := conllu.ReadFile(file, corpus)
		if err != nil {
			return err
		}

		for _, sentence := range sentences {
			if _, err := svc.SaveSentence(ctx, sentence, false); err != nil {
				return err
			}
			saved++
		}

		logger.Info("File imported", zap.String("file", file), zap.Int("sentences", len(sentences)))
	}

	logger.Info("Import done", zap.Int("sentences", saved))

	return closer()
}
