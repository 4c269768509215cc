package project

import (
	"time"

	"wcagadvisor/internal/catalog"
)

// Project is one evaluated product. Its declared conformance target level
// determines which recommendation levels are allowed during classification.
type Project struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	TargetLevel catalog.Level `json:"target_level"`
	Saved       bool          `json:"saved"`
}

// Aspect is one use case within a project (PA in the source system). It owns
// one chosen possible-value per answered criterion. Answers are mutable until
// classification is finalized; the engine never writes them.
type Aspect struct {
	ID          int    `json:"id"`
	ProjectID   int    `json:"project_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// AspectAnswers is the view the classifier consumes: an aspect together with
// the raw answer label per criterion id. Labels are interpreted only through
// engine.NormalizeAnswer.
type AspectAnswers struct {
	Aspect
	Answers map[int]string `json:"answers"`
}
