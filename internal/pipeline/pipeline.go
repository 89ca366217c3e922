// Package pipeline composes normalization, relevance classification and
// analytics aggregation for a single query. The pipeline is pure and
// stateless: every run reads only its own inputs and allocates its own
// outputs, so one instance may serve concurrent queries.
package pipeline

import (
	"fmt"

	"incidentassist/internal/analytics"
	"incidentassist/internal/domain"
	"incidentassist/internal/normalizer"
	"incidentassist/internal/relevance"
)

// Params bundles the relevance and analytics tuning.
type Params struct {
	Relevance relevance.Params
	Analytics analytics.Params
}

// DefaultParams returns the production defaults for both stages.
func DefaultParams() Params {
	return Params{
		Relevance: relevance.DefaultParams(),
		Analytics: analytics.DefaultParams(),
	}
}

// Pipeline runs the classification and aggregation stages with validated
// parameters.
type Pipeline struct {
	params Params
}

// New constructs a pipeline, failing fast on invalid parameters rather than
// clamping them.
func New(params Params) (*Pipeline, error) {
	if err := params.Relevance.Validate(); err != nil {
		return nil, fmt.Errorf("relevance params: %w", err)
	}
	if err := params.Analytics.Validate(); err != nil {
		return nil, fmt.Errorf("analytics params: %w", err)
	}
	return &Pipeline{params: params}, nil
}

// Result is the structured outcome of one query run. Short-circuit outcomes
// (empty batch, nothing relevant) carry a zero-valued snapshot of the same
// shape as a full run.
type Result struct {
	Relevant    []domain.Incident
	NonRelevant []domain.Incident
	Snapshot    analytics.Snapshot
	Threshold   float64
	Dropped     int
}

// Run executes normalize -> classify -> aggregate for one query batch.
func (p *Pipeline) Run(query string, hits []domain.SearchHit) Result {
	if len(hits) == 0 {
		return Result{}
	}
	incidents, dropped := normalizer.Normalize(hits)
	if len(incidents) == 0 {
		return Result{Dropped: dropped}
	}
	cls := p.params.Relevance.Classify(incidents, query)
	res := Result{
		Relevant:    cls.Relevant,
		NonRelevant: cls.NonRelevant,
		Threshold:   cls.Threshold,
		Dropped:     dropped,
	}
	if len(cls.Relevant) == 0 {
		return res
	}
	// Non-related counts against the fetched batch, so dropped hits are
	// excluded-but-fetched too.
	res.Snapshot = p.params.Analytics.Aggregate(cls.Relevant, len(hits))
	return res
}
