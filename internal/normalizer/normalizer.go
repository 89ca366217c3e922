package normalizer

import (
	"incidentassist/internal/domain"
)

// Payload keys have drifted across upload iterations; every canonical field
// lists its accepted aliases in priority order.
var fieldAliases = map[string][]string{
	"id":                 {"number", "incident_number"},
	"job_name":           {"job_name"},
	"description":        {"description", "incident_description"},
	"impact":             {"impact"},
	"closure_notes":      {"closure_notes"},
	"assigned_to":        {"assigned_to"},
	"assignment_group":   {"assignment_group"},
	"configuration_item": {"configuration_item"},
	"ci_class":           {"ci_class"},
	"opened_by":          {"opened_by"},
	"resolved_by":        {"resolved_by"},
	"closed_by":          {"closed_by"},
	"opened_time":        {"opened_time"},
	"resolved_time":      {"resolved"},
	"closed_time":        {"closed"},
	"priority":           {"priority"},
	"urgency":            {"urgency"},
	"state":              {"state"},
}

func lookup(payload map[string]string, field string) string {
	for _, key := range fieldAliases[field] {
		if v, ok := payload[key]; ok && v != "" {
			return v
		}
	}
	return ""
}

// Normalize maps raw search hits onto canonical incident records. Hits whose
// payload carries no incident identifier are skipped; the second return value
// reports how many were excluded. Missing string fields become empty strings,
// similarity scores pass through unmodified.
func Normalize(hits []domain.SearchHit) ([]domain.Incident, int) {
	incidents := make([]domain.Incident, 0, len(hits))
	dropped := 0
	for _, hit := range hits {
		id := lookup(hit.Payload, "id")
		if id == "" {
			dropped++
			continue
		}
		incidents = append(incidents, domain.Incident{
			ID:                id,
			JobName:           lookup(hit.Payload, "job_name"),
			Description:       lookup(hit.Payload, "description"),
			Impact:            lookup(hit.Payload, "impact"),
			ClosureNotes:      lookup(hit.Payload, "closure_notes"),
			AssignedTo:        lookup(hit.Payload, "assigned_to"),
			AssignmentGroup:   lookup(hit.Payload, "assignment_group"),
			ConfigurationItem: lookup(hit.Payload, "configuration_item"),
			CIClass:           lookup(hit.Payload, "ci_class"),
			OpenedBy:          lookup(hit.Payload, "opened_by"),
			ResolvedBy:        lookup(hit.Payload, "resolved_by"),
			ClosedBy:          lookup(hit.Payload, "closed_by"),
			OpenedTime:        lookup(hit.Payload, "opened_time"),
			ResolvedTime:      lookup(hit.Payload, "resolved_time"),
			ClosedTime:        lookup(hit.Payload, "closed_time"),
			Priority:          lookup(hit.Payload, "priority"),
			Urgency:           lookup(hit.Payload, "urgency"),
			State:             lookup(hit.Payload, "state"),
			SimilarityScore:   hit.Score,
		})
	}
	return incidents, dropped
}
