package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ersonp/genlib/internal/domain/entities"
	"github.com/ersonp/genlib/internal/domain/ports"
	"github.com/ersonp/genlib/internal/domain/services"
	"github.com/ersonp/genlib/internal/infrastructure/parsers"
)

// ImportHandler handles importing genealogy files.
type ImportHandler struct {
	service *services.GedcomImportService
	audit   ports.AuditLog
	log     *slog.Logger
}

// NewImportHandler creates a new import handler.
func NewImportHandler(service *services.GedcomImportService, audit ports.AuditLog, logger *slog.Logger) *ImportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportHandler{
		service: service,
		audit:   audit,
		log:     logger,
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format string // "gedcom" or "auto"
	DryRun bool   // Preview without saving
}

// HandleResult holds either a preview (dry run) or an import result.
type HandleResult struct {
	Preview *services.ImportPreview
	Result  *services.ImportResult
}

// Handle parses a file and previews or imports it. Read and parse failures
// are returned before anything is written. A cancelled import returns the
// partial result together with the error.
func (h *ImportHandler) Handle(ctx context.Context, filePath string, opts ImportOptions) (*HandleResult, error) {
	var parser parsers.Parser
	if opts.Format == "" || opts.Format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(opts.Format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	doc, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	if opts.DryRun {
		preview, err := h.service.Preview(ctx, doc)
		if err != nil {
			return nil, err
		}
		return &HandleResult{Preview: preview}, nil
	}

	result, importErr := h.service.Import(ctx, doc)
	if result != nil {
		h.record(ctx, filePath, result, importErr)
	}
	return &HandleResult{Result: result}, importErr
}

func (h *ImportHandler) record(ctx context.Context, filePath string, result *services.ImportResult, importErr error) {
	details := map[string]any{
		"file":               filepath.Base(filePath),
		"persons_imported":   result.PersonsImported,
		"relations_imported": result.RelationsImported,
		"skipped":            result.Skipped,
		"warnings":           len(result.Warnings),
	}
	if importErr != nil {
		details["error"] = importErr.Error()
	}

	// An interrupted run is still recorded.
	if err := h.audit.LogAction(context.WithoutCancel(ctx), entities.AuditActionImport, result.RunID, details); err != nil {
		h.log.Warn("audit log write failed", slog.String("action", entities.AuditActionImport), slog.String("error", err.Error()))
	}
}
