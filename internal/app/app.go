package app

import (
	"context"
	"fmt"
	"log"

	"wcagadvisor/internal/catalog"
	"wcagadvisor/internal/config"
	"wcagadvisor/internal/handler"
	"wcagadvisor/internal/project"
	"wcagadvisor/internal/report"
	"wcagadvisor/internal/requirement"
	"wcagadvisor/internal/server"
)

type App struct {
	server *server.Server

	catalogStore     *catalog.Store
	projectStore     *project.Store
	requirementStore *requirement.Store
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	catalogStore, projectStore, requirementStore, err := initStores(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.ProjectDSN == "" {
		// The in-memory project store resolves answer labels from the
		// catalog's possible values instead of a join.
		if criteria, err := catalogStore.Criteria(context.Background()); err == nil {
			for _, c := range criteria {
				projectStore.SeedValues(c.Values)
			}
		} else {
			log.Printf("catalog seed not loaded: %v", err)
		}
	}

	reportStore, err := initReportStore(cfg)
	if err != nil {
		return nil, err
	}

	hub := requirement.NewHub()
	requirementSvc := requirement.NewService(requirementStore, hub)
	exporter := report.NewExporter(reportStore)

	svc := handler.NewService(catalogStore, projectStore, requirementSvc, exporter, hub)
	mux := server.NewMux(svc)
	srv := server.New(cfg.Port, mux)

	return &App{
		server:           srv,
		catalogStore:     catalogStore,
		projectStore:     projectStore,
		requirementStore: requirementStore,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	_ = a.catalogStore.Close()
	_ = a.projectStore.Close()
	_ = a.requirementStore.Close()
	return err
}
