// ocr-batch processes a directory of scanned documents headlessly and
// writes the unified export, the command-line counterpart of the dashboard
// flow. Files are processed strictly in name order, one at a time.
package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/constants"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/common"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/document"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/export"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/genai"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/logging"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/preview"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/template"
)

func main() {
	var (
		inputDir string
		outFile  string
		format   string
	)

	root := &cobra.Command{
		Use:   "ocr-batch",
		Short: "Classify and extract every document in a directory, then write one unified export",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), inputDir, outFile, format)
		},
	}
	root.Flags().StringVarP(&inputDir, "input", "i", ".", "directory of PDF/image documents")
	root.Flags().StringVarP(&outFile, "out", "o", "unified_export.csv", "output file path")
	root.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv or xlsx")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, inputDir, outFile, format string) error {
	cfg := common.LoadConfig()
	logger := logging.Init(logging.Config{Level: cfg.Server.LogLevel, JSON: false})
	if cfg.GenAI.APIKey == "" {
		return common.NewAppError("CONFIG_ERROR", "GENAI_API_KEY is required", common.ErrInvalidInput)
	}

	catalog, err := template.OpenStore(ctx, cfg.Catalog.DBPath, logger)
	if err != nil {
		return common.WrapError(err, "open template catalog")
	}
	defer catalog.Close()

	uploads, err := collectUploads(inputDir)
	if err != nil {
		return err
	}
	if len(uploads) == 0 {
		return fmt.Errorf("no processable documents in %s", inputDir)
	}

	analyzer := genai.NewClient(genai.Config{
		APIKey:      cfg.GenAI.APIKey,
		BaseURL:     cfg.GenAI.BaseURL,
		Model:       cfg.GenAI.Model,
		Temperature: cfg.GenAI.Temperature,
		Timeout:     cfg.GenAI.Timeout,
	}, logger)

	docs := document.NewStore()
	proc := document.NewProcessor(docs, analyzer, preview.NewConverter(logger), catalog, logger)

	// no queue attached: Submit processes inline, in order
	if _, err := proc.Submit(ctx, uploads); err != nil {
		return err
	}

	var body []byte
	switch format {
	case "csv":
		body, err = export.UnifiedCSV(docs.List(), logger)
	case "xlsx":
		body, err = export.UnifiedXLSX(docs.List(), logger)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(outFile, body, 0o644); err != nil {
		return common.WrapError(err, "write output")
	}
	logger.Info("batch.export.ok", "documents", len(uploads), "out", outFile)
	return nil
}

func collectUploads(dir string) ([]document.Upload, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, common.WrapError(err, "read input directory")
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if constants.MapExtToFormat(filepath.Ext(e.Name())) != constants.UNKNOWN {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	uploads := make([]document.Upload, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, common.WrapError(err, "read "+name)
		}
		uploads = append(uploads, document.Upload{
			Name:  name,
			MIME:  mime.TypeByExtension(filepath.Ext(name)),
			Bytes: data,
		})
	}
	return uploads, nil
}
