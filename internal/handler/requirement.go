package handler

import (
	"net/http"
	"strconv"

	"wcagadvisor/internal/engine"
	"wcagadvisor/internal/requirement"
)

type confirmRequest struct {
	ProjectID        int    `json:"project_id"`
	AspectID         int    `json:"aspect_id"`
	RecommendationID int    `json:"recommendation_id"`
	ProbabilityLevel string `json:"probability_level"`
	Status           string `json:"status"`
}

// HandleConfirm turns a recommendation into a requirement, or re-stamps the
// existing one. An omitted status defaults to "To review".
func (s *Service) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	var in confirmRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.ProjectID <= 0 || in.AspectID <= 0 || in.RecommendationID <= 0 {
		writeError(w, http.StatusBadRequest, "project_id, aspect_id and recommendation_id are required")
		return
	}
	res, err := s.requirements.Confirm(r.Context(),
		in.ProjectID, in.AspectID, in.RecommendationID,
		engine.ConfidenceLevel(in.ProbabilityLevel),
		requirement.ParseStatus(in.Status))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

// HandleUpdate applies a review edit to one requirement's status sub-record.
func (s *Service) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in requirement.Update
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.RequirementID <= 0 || in.AspectID <= 0 {
		writeError(w, http.StatusBadRequest, "requirement_id and aspect_id are required")
		return
	}
	if !requirement.ValidStatus(string(in.Status)) {
		writeError(w, http.StatusBadRequest, "status must be one of: To review, Reviewed, Cancelled")
		return
	}
	if err := s.requirements.Update(r.Context(), in); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (s *Service) HandleConfirmAll(w http.ResponseWriter, r *http.Request) {
	s.handleBulk(w, r, requirement.StatusToReview)
}

func (s *Service) HandleCancelAll(w http.ResponseWriter, r *http.Request) {
	s.handleBulk(w, r, requirement.StatusCancelled)
}

// handleBulk applies target to every recommendation currently classified for
// the project, optionally narrowed to one aspect via the aspect_id query
// parameter. Classified recommendations that were never confirmed get a
// requirement row created, so the batch covers the live classification and
// not just the rows that already exist.
func (s *Service) handleBulk(w http.ResponseWriter, r *http.Request, target requirement.Status) {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	aspectID := 0
	if raw := r.URL.Query().Get("aspect_id"); raw != "" {
		aspectID, err = strconv.Atoi(raw)
		if err != nil || aspectID <= 0 {
			writeError(w, http.StatusBadRequest, "invalid aspect_id")
			return
		}
	}
	ctx := r.Context()
	p, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	aspects, err := s.projects.AspectsByProject(ctx, projectID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	recs, err := s.catalog.Recommendations(ctx)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	var candidates []requirement.Candidate
	for _, a := range aspects {
		if aspectID != 0 && a.ID != aspectID {
			continue
		}
		buckets := engine.Classify(normalizeAnswers(a.Answers), recs, p.TargetLevel)
		for _, group := range [][]engine.Scored{buckets.High, buckets.Medium, buckets.Low} {
			for _, sc := range group {
				candidates = append(candidates, requirement.Candidate{
					AspectID:         a.ID,
					RecommendationID: sc.ID,
					Probability:      sc.Level,
				})
			}
		}
	}
	res, err := s.requirements.BulkApply(ctx, projectID, candidates, target)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Service) HandleListRequirements(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	list, err := s.requirements.ListByProject(r.Context(), projectID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Service) HandleDeleteRequirement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.requirements.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
