package handler

import (
	"net/http"

	"wcagadvisor/internal/catalog"
	"wcagadvisor/internal/engine"
	"wcagadvisor/internal/project"
	"wcagadvisor/internal/requirement"
)

type classifiedAspect struct {
	Aspect project.Aspect  `json:"aspect"`
	High   []engine.Scored `json:"high"`
	Medium []engine.Scored `json:"medium"`
	Low    []engine.Scored `json:"low"`
}

type classifiedResponse struct {
	Project   project.Project                    `json:"project"`
	Aspects   []classifiedAspect                 `json:"aspects"`
	Universal []catalog.Recommendation           `json:"universal"`
	Statuses  map[string]requirement.Requirement `json:"statuses"`
}

// HandleClassified evaluates the catalog against every aspect of the project
// and returns the leveled buckets, the general bucket, and the current
// requirement status per (aspect, recommendation) pair.
func (s *Service) HandleClassified(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
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

	out := classifiedResponse{
		Project:   p,
		Aspects:   make([]classifiedAspect, 0, len(aspects)),
		Universal: sortRecs(engine.Universal(recs, p.TargetLevel)),
		Statuses:  make(map[string]requirement.Requirement),
	}

	for _, a := range aspects {
		buckets := engine.Classify(normalizeAnswers(a.Answers), recs, p.TargetLevel)
		out.Aspects = append(out.Aspects, classifiedAspect{
			Aspect: a.Aspect,
			High:   sortScored(buckets.High),
			Medium: sortScored(buckets.Medium),
			Low:    sortScored(buckets.Low),
		})
	}

	reqs, err := s.requirements.ListByProject(ctx, projectID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	for _, req := range reqs {
		out.Statuses[req.Key()] = req
	}

	writeJSON(w, http.StatusOK, out)
}

// normalizeAnswers maps raw answer labels to the closed ternary type,
// dropping anything unrecognized.
func normalizeAnswers(raw map[int]string) map[int]engine.Answer {
	out := make(map[int]engine.Answer, len(raw))
	for criterionID, label := range raw {
		if a := engine.NormalizeAnswer(label); a != engine.AnswerUnknown {
			out[criterionID] = a
		}
	}
	return out
}

func sortScored(list []engine.Scored) []engine.Scored {
	return engine.SortByCode(list, func(s engine.Scored) string { return s.Formulation })
}

func sortRecs(list []catalog.Recommendation) []catalog.Recommendation {
	return engine.SortByCode(list, func(r catalog.Recommendation) string { return r.Formulation })
}
