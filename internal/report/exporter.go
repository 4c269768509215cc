package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wcagadvisor/internal/project"
	"wcagadvisor/internal/requirement"
)

const specificationPath = "specification.md"

// Exporter renders a project's requirement specification and files it in the
// report store under a fresh export id.
type Exporter struct {
	store Store
}

func NewExporter(store Store) *Exporter {
	return &Exporter{store: store}
}

// ExportResult locates one stored export. URL is empty when the backing
// store cannot presign.
type ExportResult struct {
	ExportID string `json:"export_id"`
	Path     string `json:"path"`
	URL      string `json:"url,omitempty"`
}

func (e *Exporter) Export(ctx context.Context, p project.Project, reqs []requirement.Requirement) (ExportResult, error) {
	doc := Build(p, reqs, time.Now())
	exportID := uuid.NewString()
	if err := e.store.Put(ctx, exportID, specificationPath, doc); err != nil {
		return ExportResult{}, fmt.Errorf("store export: %w", err)
	}
	url, err := e.store.GetURL(ctx, exportID, specificationPath)
	if err != nil {
		// A missing presign surface is not an export failure.
		url = ""
	}
	return ExportResult{ExportID: exportID, Path: specificationPath, URL: url}, nil
}

// Fetch returns a previously exported document.
func (e *Exporter) Fetch(ctx context.Context, exportID string) ([]byte, error) {
	return e.store.Get(ctx, exportID, specificationPath)
}
