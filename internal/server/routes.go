package server

import (
	"net/http"

	"wcagadvisor/internal/handler"
	"wcagadvisor/internal/middleware"
)

func NewMux(s *handler.Service) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.HandleHealth)

	mux.HandleFunc("POST /projects", s.HandleCreateProject)
	mux.HandleFunc("GET /projects/{id}", s.HandleGetProject)
	mux.HandleFunc("POST /projects/{id}/save", s.HandleSaveProject)
	mux.HandleFunc("GET /projects/saved", s.HandleListSaved)

	mux.HandleFunc("GET /criteria", s.HandleCriteria)
	mux.HandleFunc("GET /recommendations", s.HandleRecommendations)
	mux.HandleFunc("GET /recommendations/classified/{projectID}", s.HandleClassified)

	mux.HandleFunc("POST /aspects", s.HandleCreateAspect)
	mux.HandleFunc("PUT /aspects/{id}/answers", s.HandleSetAnswers)
	mux.HandleFunc("GET /specifications/{projectID}", s.HandleSpecifications)

	mux.HandleFunc("GET /requirements/{projectID}", s.HandleListRequirements)
	mux.HandleFunc("POST /requirements/confirm", s.HandleConfirm)
	mux.HandleFunc("PUT /requirements/update", s.HandleUpdate)
	mux.HandleFunc("POST /requirements/{projectID}/confirm-all", s.HandleConfirmAll)
	mux.HandleFunc("POST /requirements/{projectID}/cancel-all", s.HandleCancelAll)
	mux.HandleFunc("DELETE /requirements/{id}", s.HandleDeleteRequirement)
	mux.HandleFunc("GET /requirements/watch/{projectID}", s.HandleWatch)

	mux.HandleFunc("POST /reports/export", s.HandleExport)
	mux.HandleFunc("GET /reports/export/{exportID}", s.HandleGetExport)

	return middleware.CORS(middleware.RequestLog(mux))
}
