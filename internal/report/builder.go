package report

import (
	"fmt"
	"strings"
	"time"

	"wcagadvisor/internal/engine"
	"wcagadvisor/internal/project"
	"wcagadvisor/internal/requirement"
)

// Build renders the requirement specification document for a project as
// markdown. Requirements are grouped per aspect in catalog code order, with
// cancelled ones listed apart so the review trail stays visible.
func Build(p project.Project, reqs []requirement.Requirement, now time.Time) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Accessibility requirement specification: %s\n\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Description)
	}
	fmt.Fprintf(&b, "- Target conformance level: %s\n", p.TargetLevel)
	fmt.Fprintf(&b, "- Generated: %s\n\n", now.Format(time.RFC3339))

	byAspect := make(map[int][]requirement.Requirement)
	order := make([]int, 0, 8)
	for _, r := range reqs {
		if _, seen := byAspect[r.AspectID]; !seen {
			order = append(order, r.AspectID)
		}
		byAspect[r.AspectID] = append(byAspect[r.AspectID], r)
	}

	for _, aspectID := range order {
		group := byAspect[aspectID]
		title := group[0].AspectName
		if title == "" {
			title = fmt.Sprintf("Aspect %d", aspectID)
		}
		if code := group[0].AspectCode; code != "" {
			title = code + " " + title
		}
		fmt.Fprintf(&b, "## %s\n\n", title)

		group = engine.SortByCode(group, func(r requirement.Requirement) string {
			return r.Formulation
		})

		var cancelled []requirement.Requirement
		for _, r := range group {
			if r.Status == requirement.StatusCancelled {
				cancelled = append(cancelled, r)
				continue
			}
			writeRequirement(&b, r)
		}
		if len(cancelled) > 0 {
			b.WriteString("### Cancelled\n\n")
			for _, r := range cancelled {
				writeRequirement(&b, r)
			}
		}
	}

	return []byte(b.String())
}

func writeRequirement(b *strings.Builder, r requirement.Requirement) {
	wording := r.Formulation
	if r.ClarifiedWording != "" {
		wording = r.ClarifiedWording
	}
	fmt.Fprintf(b, "- **%s**", wording)
	if r.Level != "" {
		fmt.Fprintf(b, " (level %s)", r.Level)
	}
	b.WriteString("\n")
	if r.Goal != "" {
		fmt.Fprintf(b, "  - Goal: %s\n", r.Goal)
	}
	fmt.Fprintf(b, "  - Status: %s\n", r.Status)
	if r.Priority > 0 {
		fmt.Fprintf(b, "  - Priority: %d\n", r.Priority)
	}
	if r.SatisfactionCriterion != "" {
		fmt.Fprintf(b, "  - Satisfaction criterion: %s\n", r.SatisfactionCriterion)
	}
	if r.RejectionReason != "" {
		fmt.Fprintf(b, "  - Rejection reason: %s\n", r.RejectionReason)
	}
	b.WriteString("\n")
}
