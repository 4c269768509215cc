package handler

import "net/http"

type exportRequest struct {
	ProjectID int `json:"project_id"`
}

// HandleExport renders the project's requirement specification and files it
// under a fresh export id.
func (s *Service) HandleExport(w http.ResponseWriter, r *http.Request) {
	var in exportRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.ProjectID <= 0 {
		writeError(w, http.StatusBadRequest, "project_id is required")
		return
	}
	ctx := r.Context()

	p, err := s.projects.GetProject(ctx, in.ProjectID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	reqs, err := s.requirements.ListByProject(ctx, in.ProjectID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	res, err := s.exporter.Export(ctx, p, reqs)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// HandleGetExport returns a previously exported document as markdown.
func (s *Service) HandleGetExport(w http.ResponseWriter, r *http.Request) {
	exportID := r.PathValue("exportID")
	doc, err := s.exporter.Fetch(r.Context(), exportID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
