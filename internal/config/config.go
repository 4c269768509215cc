package config

import (
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	CatalogPath string
	Report      ReportConfig

	// Per-store DSNs fall back to DatabaseURL; an empty value selects the
	// in-memory backend for that store.
	CatalogDSN     string
	ProjectDSN     string
	RequirementDSN string
}

type ReportConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// CanUseS3 reports whether the S3 export backend is fully configured.
func (c ReportConfig) CanUseS3() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	catalogPath := flag.String("catalog", filepath.Join("data", "catalog.json"), "catalog seed file")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))

	return &Config{
		Port:           *port,
		Env:            env,
		DatabaseURL:    databaseURL,
		CatalogPath:    firstNonEmpty(strings.TrimSpace(os.Getenv("CATALOG_PATH")), *catalogPath),
		Report:         loadReportConfig(env),
		CatalogDSN:     firstNonEmpty(strings.TrimSpace(os.Getenv("CATALOG_PG_DSN")), databaseURL),
		ProjectDSN:     firstNonEmpty(strings.TrimSpace(os.Getenv("PROJECT_PG_DSN")), databaseURL),
		RequirementDSN: firstNonEmpty(strings.TrimSpace(os.Getenv("REQUIREMENT_PG_DSN")), databaseURL),
	}, nil
}

func loadReportConfig(env string) ReportConfig {
	return ReportConfig{
		Endpoint:  resolveReportEndpoint(env),
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("REPORT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("REPORT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("REPORT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("REPORT_S3_BUCKET")), "wcagadvisor-reports"),
		UseSSL:    resolveReportUseSSL(env),
	}
}

func resolveReportEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return strings.TrimSpace(os.Getenv("REPORT_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("REPORT_S3_ENDPOINT"))
}

func resolveReportUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("REPORT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
