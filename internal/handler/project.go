package handler

import (
	"net/http"
	"strings"
	"time"

	"wcagadvisor/internal/catalog"
	"wcagadvisor/internal/project"
)

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TargetLevel string `json:"target_level"`
}

func (s *Service) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in createProjectRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	target := catalog.ParseLevel(in.TargetLevel)
	if catalog.Allowed(target) == nil {
		writeError(w, http.StatusBadRequest, "target_level must be A, AA or AAA")
		return
	}

	p := project.Project{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   time.Now(),
		TargetLevel: target,
	}
	id, err := s.projects.CreateProject(r.Context(), p)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	p.ID = id
	writeJSON(w, http.StatusCreated, p)
}

func (s *Service) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.projects.GetProject(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleSaveProject flags the project for the saved listing; the project and
// its requirements are already persisted at this point.
func (s *Service) HandleSaveProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.projects.MarkSaved(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (s *Service) HandleListSaved(w http.ResponseWriter, r *http.Request) {
	list, err := s.projects.ListSaved(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
