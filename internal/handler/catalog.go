package handler

import "net/http"

func (s *Service) HandleCriteria(w http.ResponseWriter, r *http.Request) {
	criteria, err := s.catalog.Criteria(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, criteria)
}

func (s *Service) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.catalog.Recommendations(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
