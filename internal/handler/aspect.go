package handler

import (
	"net/http"
	"strings"

	"wcagadvisor/internal/project"
)

type createAspectRequest struct {
	ProjectID   int    `json:"project_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Service) HandleCreateAspect(w http.ResponseWriter, r *http.Request) {
	var in createAspectRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.ProjectID <= 0 {
		writeError(w, http.StatusBadRequest, "project_id is required")
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	a := project.Aspect{
		ProjectID:   in.ProjectID,
		Code:        strings.TrimSpace(in.Code),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
	}
	id, err := s.projects.CreateAspect(r.Context(), a)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	a.ID = id
	writeJSON(w, http.StatusCreated, a)
}

type setAnswersRequest struct {
	ValueIDs []int `json:"value_ids"`
}

// HandleSetAnswers replaces the aspect's whole answer set. Submitting an
// empty list clears it.
func (s *Service) HandleSetAnswers(w http.ResponseWriter, r *http.Request) {
	aspectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in setAnswersRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.projects.ReplaceAnswers(r.Context(), aspectID, in.ValueIDs); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"aspect_id": aspectID, "answers": len(in.ValueIDs)})
}

// HandleSpecifications returns the project's aspects with their answers.
func (s *Service) HandleSpecifications(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.projects.GetProject(r.Context(), projectID); err != nil {
		writeStoreError(w, err)
		return
	}
	aspects, err := s.projects.AspectsByProject(r.Context(), projectID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, aspects)
}
