// Package server exposes the assist service over HTTP as a JSON API.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"incidentassist/internal/analytics"
	"incidentassist/internal/service"
)

// AssistPort is the server-facing subset of the assist service.
type AssistPort interface {
	Ask(query string) (*service.Answer, error)
}

type chatRequest struct {
	Prompt string `json:"prompt"`
}

type incidentJSON struct {
	IncidentID      string  `json:"incident_id"`
	Description     string  `json:"description,omitempty"`
	ClosureNotes    string  `json:"closure_notes,omitempty"`
	AssignmentGroup string  `json:"assignment_group,omitempty"`
	CIClass         string  `json:"ci_class,omitempty"`
	ResolvedBy      string  `json:"resolved_by,omitempty"`
	State           string  `json:"state,omitempty"`
	SimilarityScore float64 `json:"similarity_score"`
}

type entryJSON struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type analyticsJSON struct {
	RelatedCount        int         `json:"related_count"`
	NonRelatedCount     int         `json:"non_related_count"`
	ClosedCount         int         `json:"closed_count"`
	OpenCount           int         `json:"open_count"`
	OtherCount          int         `json:"other_count"`
	ResolutionRatePct   float64     `json:"resolution_rate_percent"`
	TopResolvers        []entryJSON `json:"top_resolvers"`
	TopAssignmentGroups []entryJSON `json:"top_assignment_groups"`
	TopCIClasses        []entryJSON `json:"top_ci_classes"`
}

type chatResponse struct {
	Answer    string         `json:"answer"`
	Analytics analyticsJSON  `json:"analytics"`
	Incidents []incidentJSON `json:"incidents"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New returns the HTTP handler serving POST /chat.
func New(svc AssistPort) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
			return
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "prompt is required"})
			return
		}
		ans, err := svc.Ask(req.Prompt)
		if err != nil {
			log.Printf("chat failed: %v", err)
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, toResponse(ans))
	})
	return mux
}

func toResponse(ans *service.Answer) chatResponse {
	resp := chatResponse{
		Answer:    ans.Text,
		Analytics: toAnalyticsJSON(ans.Snapshot),
		Incidents: make([]incidentJSON, 0, len(ans.Relevant)),
	}
	for _, inc := range ans.Relevant {
		resp.Incidents = append(resp.Incidents, incidentJSON{
			IncidentID:      inc.ID,
			Description:     inc.Description,
			ClosureNotes:    inc.ClosureNotes,
			AssignmentGroup: inc.AssignmentGroup,
			CIClass:         inc.CIClass,
			ResolvedBy:      inc.ResolvedBy,
			State:           inc.State,
			SimilarityScore: inc.SimilarityScore,
		})
	}
	return resp
}

func toAnalyticsJSON(s analytics.Snapshot) analyticsJSON {
	return analyticsJSON{
		RelatedCount:        s.RelatedCount,
		NonRelatedCount:     s.NonRelatedCount,
		ClosedCount:         s.ClosedCount,
		OpenCount:           s.OpenCount,
		OtherCount:          s.OtherCount,
		ResolutionRatePct:   s.ResolutionRatePct,
		TopResolvers:        toEntries(s.TopResolvers),
		TopAssignmentGroups: toEntries(s.TopAssignmentGroups),
		TopCIClasses:        toEntries(s.TopCIClasses),
	}
}

func toEntries(entries []analytics.Entry) []entryJSON {
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON{Key: e.Key, Count: e.Count})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
