package app

import (
	"fmt"
	"log"
	"strings"

	"wcagadvisor/internal/catalog"
	"wcagadvisor/internal/config"
	"wcagadvisor/internal/project"
	"wcagadvisor/internal/report"
	"wcagadvisor/internal/requirement"
)

// initStores opens each store against its configured DSN, falling back to
// the in-memory backend only when no DSN is set. A bad DSN is an error, not
// a silent downgrade.
func initStores(cfg *config.Config) (*catalog.Store, *project.Store, *requirement.Store, error) {
	var (
		catalogStore     *catalog.Store
		projectStore     *project.Store
		requirementStore *requirement.Store
		err              error
	)
	if dsn := strings.TrimSpace(cfg.CatalogDSN); dsn != "" {
		catalogStore, err = catalog.NewPostgres(dsn)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open catalog store: %w", err)
		}
		log.Printf("catalog store: postgres")
	} else {
		catalogStore = catalog.New(cfg.CatalogPath)
		log.Printf("catalog store: in-memory, seed %s", cfg.CatalogPath)
	}
	if dsn := strings.TrimSpace(cfg.ProjectDSN); dsn != "" {
		projectStore, err = project.NewPostgres(dsn)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open project store: %w", err)
		}
		log.Printf("project store: postgres")
	} else {
		projectStore = project.New()
		log.Printf("project store: in-memory")
	}
	if dsn := strings.TrimSpace(cfg.RequirementDSN); dsn != "" {
		requirementStore, err = requirement.NewPostgres(dsn)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open requirement store: %w", err)
		}
		log.Printf("requirement store: postgres")
	} else {
		requirementStore = requirement.New()
		log.Printf("requirement store: in-memory")
	}
	return catalogStore, projectStore, requirementStore, nil
}

func initReportStore(cfg *config.Config) (report.Store, error) {
	if cfg.Report.CanUseS3() {
		s3Store, err := report.NewS3Store(report.S3Config{
			Endpoint:  cfg.Report.Endpoint,
			Region:    cfg.Report.Region,
			AccessKey: cfg.Report.AccessKey,
			SecretKey: cfg.Report.SecretKey,
			Bucket:    cfg.Report.Bucket,
			UseSSL:    cfg.Report.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize report s3 store: %w", err)
		}
		log.Printf("report store: s3 bucket=%s endpoint=%s", cfg.Report.Bucket, cfg.Report.Endpoint)
		return s3Store, nil
	}
	log.Printf("report store: in-memory (s3 config incomplete)")
	return report.NewMemoryStore(), nil
}
