package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"wcagadvisor/internal/catalog"
	"wcagadvisor/internal/project"
	"wcagadvisor/internal/report"
	"wcagadvisor/internal/requirement"
)

// Service implements the HTTP surface. It holds the stores and domain
// services as its dependencies.
type Service struct {
	catalog      *catalog.Store
	projects     *project.Store
	requirements *requirement.Service
	exporter     *report.Exporter
	hub          *requirement.Hub
}

func NewService(
	cat *catalog.Store,
	projects *project.Store,
	requirements *requirement.Service,
	exporter *report.Exporter,
	hub *requirement.Hub,
) *Service {
	return &Service{
		catalog:      cat,
		projects:     projects,
		requirements: requirements,
		exporter:     exporter,
		hub:          hub,
	}
}

func (s *Service) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps not-found sentinels to 404 and everything else to 500.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, project.ErrNotFound) || errors.Is(err, requirement.ErrNotFound) || errors.Is(err, report.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	log.Printf("store error: %v", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}
