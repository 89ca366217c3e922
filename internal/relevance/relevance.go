// Package relevance decides which retrieved incidents actually match a query.
// Vector similarity is the primary signal; a keyword-overlap fallback recovers
// records where an exact term (an error code, a job name) matters more than
// embedding distance.
package relevance

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"incidentassist/internal/domain"
)

// Params tunes the classifier. Zero value is not usable; start from
// DefaultParams.
type Params struct {
	// ThresholdFloor is the minimum score threshold regardless of how the
	// batch is distributed.
	ThresholdFloor float64
	// ThresholdMultiplier scales the batch mean into the dynamic threshold.
	ThresholdMultiplier float64
	// KeywordMatchRatio is the fraction of query keywords that must appear in
	// an incident's text for the fallback to accept it.
	KeywordMatchRatio float64
	// MinKeywordLength is the minimum length, in runes, of a query word to
	// count as a keyword.
	MinKeywordLength int
}

// DefaultParams returns the tuning observed in production use.
func DefaultParams() Params {
	return Params{
		ThresholdFloor:      0.6,
		ThresholdMultiplier: 0.7,
		KeywordMatchRatio:   0.3,
		MinKeywordLength:    3,
	}
}

// Validate rejects parameter combinations that would silently misclassify.
func (p Params) Validate() error {
	if p.ThresholdFloor < 0 {
		return fmt.Errorf("threshold floor must be >= 0, got %v", p.ThresholdFloor)
	}
	if p.ThresholdMultiplier <= 0 {
		return fmt.Errorf("threshold multiplier must be > 0, got %v", p.ThresholdMultiplier)
	}
	if p.KeywordMatchRatio < 0 || p.KeywordMatchRatio > 1 {
		return fmt.Errorf("keyword match ratio must be in [0,1], got %v", p.KeywordMatchRatio)
	}
	if p.MinKeywordLength < 1 {
		return fmt.Errorf("min keyword length must be >= 1, got %d", p.MinKeywordLength)
	}
	return nil
}

// Threshold computes the dynamic relevance threshold for a batch:
// max(mean * multiplier, floor). The floor guards against accepting a batch of
// uniformly weak matches; the relative term adapts to batches that score
// unusually high or low overall. Scores must be non-empty.
func (p Params) Threshold(scores []float64) float64 {
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	mean := sum / float64(len(scores))
	threshold := mean * p.ThresholdMultiplier
	if threshold < p.ThresholdFloor {
		threshold = p.ThresholdFloor
	}
	return threshold
}

// Result is an exact partition of the classified batch. Both slices preserve
// the original retrieval order.
type Result struct {
	Relevant    []domain.Incident
	NonRelevant []domain.Incident
	Threshold   float64
}

// Classify partitions incidents into relevant and non-relevant for the given
// query. A record passes on score when it meets the dynamic threshold;
// otherwise the keyword fallback accepts it when enough query keywords appear
// as substrings of its description and closure notes.
func (p Params) Classify(incidents []domain.Incident, query string) Result {
	keywords := p.keywords(query)
	res := Result{
		Relevant:    make([]domain.Incident, 0, len(incidents)),
		NonRelevant: make([]domain.Incident, 0),
	}
	if len(incidents) == 0 {
		return res
	}
	scores := make([]float64, len(incidents))
	for i, inc := range incidents {
		scores[i] = inc.SimilarityScore
	}
	res.Threshold = p.Threshold(scores)

	for _, inc := range incidents {
		if inc.SimilarityScore >= res.Threshold {
			res.Relevant = append(res.Relevant, inc)
			continue
		}
		text := strings.ToLower(inc.Description + " " + inc.ClosureNotes)
		matches := 0
		for kw := range keywords {
			if strings.Contains(text, kw) {
				matches++
			}
		}
		denom := len(keywords)
		if denom < 1 {
			denom = 1
		}
		if float64(matches)/float64(denom) >= p.KeywordMatchRatio {
			res.Relevant = append(res.Relevant, inc)
		} else {
			res.NonRelevant = append(res.NonRelevant, inc)
		}
	}
	return res
}

// keywords extracts the lower-cased query words long enough to be meaningful
// search terms. An empty query yields an empty set, which disables the
// fallback entirely.
func (p Params) keywords(query string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(w) >= p.MinKeywordLength {
			set[w] = struct{}{}
		}
	}
	return set
}
