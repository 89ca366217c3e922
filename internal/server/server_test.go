package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incidentassist/internal/analytics"
	"incidentassist/internal/domain"
	"incidentassist/internal/service"
)

type fakeAssist struct {
	answer *service.Answer
	err    error
	query  string
}

func (f *fakeAssist) Ask(query string) (*service.Answer, error) {
	f.query = query
	return f.answer, f.err
}

func postChat(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChatReturnsAnswerWithAnalytics(t *testing.T) {
	fake := &fakeAssist{answer: &service.Answer{
		Text: "Restart the pool.",
		Relevant: []domain.Incident{
			{ID: "INC001", Description: "db outage", State: "Closed", ResolvedBy: "alex", SimilarityScore: 0.95},
		},
		Snapshot: analytics.Snapshot{
			RelatedCount:      1,
			ClosedCount:       1,
			ResolutionRatePct: 100.0,
			TopResolvers:      []analytics.Entry{{Key: "alex", Count: 1}},
		},
	}}

	rec := postChat(t, New(fake), `{"prompt": "database outage"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "database outage", fake.query)

	var resp struct {
		Answer    string `json:"answer"`
		Analytics struct {
			RelatedCount      int     `json:"related_count"`
			ClosedCount       int     `json:"closed_count"`
			ResolutionRatePct float64 `json:"resolution_rate_percent"`
			TopResolvers      []struct {
				Key   string `json:"key"`
				Count int    `json:"count"`
			} `json:"top_resolvers"`
		} `json:"analytics"`
		Incidents []struct {
			IncidentID      string  `json:"incident_id"`
			State           string  `json:"state"`
			SimilarityScore float64 `json:"similarity_score"`
		} `json:"incidents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Restart the pool.", resp.Answer)
	assert.Equal(t, 1, resp.Analytics.RelatedCount)
	assert.Equal(t, 100.0, resp.Analytics.ResolutionRatePct)
	require.Len(t, resp.Analytics.TopResolvers, 1)
	assert.Equal(t, "alex", resp.Analytics.TopResolvers[0].Key)
	require.Len(t, resp.Incidents, 1)
	assert.Equal(t, "INC001", resp.Incidents[0].IncidentID)
	assert.Equal(t, 0.95, resp.Incidents[0].SimilarityScore)
}

func TestChatRejectsEmptyPrompt(t *testing.T) {
	rec := postChat(t, New(&fakeAssist{}), `{"prompt": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "prompt is required")
}

func TestChatRejectsInvalidJSON(t *testing.T) {
	rec := postChat(t, New(&fakeAssist{}), `{broken`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON body")
}

func TestChatRejectsWrongMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	rec := httptest.NewRecorder()
	New(&fakeAssist{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestChatServiceErrorIsBadGateway(t *testing.T) {
	fake := &fakeAssist{err: errors.New("groq unavailable")}
	rec := postChat(t, New(fake), `{"prompt": "db down"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "groq unavailable")
}
