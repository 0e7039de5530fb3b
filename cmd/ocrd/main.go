package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/async"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/common"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/document"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/genai"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/logging"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/preview"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/server"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/template"
)

func main() {
	cfg := common.LoadConfig()

	logger := logging.Init(logging.Config{
		Level: cfg.Server.LogLevel,
		JSON:  cfg.Server.LogJSON,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := template.OpenStore(ctx, cfg.Catalog.DBPath, logger)
	if err != nil {
		logger.Error("opening template catalog", "error", err)
		os.Exit(1)
	}
	defer catalog.Close()

	analyzer := genai.NewClient(genai.Config{
		APIKey:      cfg.GenAI.APIKey,
		BaseURL:     cfg.GenAI.BaseURL,
		Model:       cfg.GenAI.Model,
		Temperature: cfg.GenAI.Temperature,
		Timeout:     cfg.GenAI.Timeout,
	}, logger)

	docs := document.NewStore()
	proc := document.NewProcessor(docs, analyzer, preview.NewConverter(logger), catalog, logger)

	queue := async.NewProcessorQueue(proc.Process, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
		async.WithProcessTimeout(cfg.Queue.ProcessTimeout),
	)
	proc.AttachQueue(queue)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(docs, proc, catalog, logger).Router(),
	}

	go func() {
		logger.Info("server.listening", "addr", cfg.Server.Addr, "model", cfg.GenAI.Model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("server.shutdown.begin")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	queue.Shutdown(shutdownCtx)
	logger.Info("server.shutdown.complete")
}
