// Package analytics aggregates the relevant incident subset into the grouped
// counts and summary ratios rendered by the caller.
package analytics

import (
	"fmt"
	"math"
	"strings"

	"incidentassist/internal/domain"
)

// State buckets reported in the snapshot.
const (
	StateClosed = "Closed"
	StateOpen   = "Open"
	StateOther  = "Other"
)

// Params configures the per-dimension truncation of the grouped counts.
type Params struct {
	TopResolvers int
	TopGroups    int
	TopCIClasses int
}

// DefaultParams matches the chart cutoffs used upstream.
func DefaultParams() Params {
	return Params{TopResolvers: 10, TopGroups: 8, TopCIClasses: 6}
}

// Validate rejects truncation limits that would produce empty charts.
func (p Params) Validate() error {
	if p.TopResolvers < 1 {
		return fmt.Errorf("top resolvers must be >= 1, got %d", p.TopResolvers)
	}
	if p.TopGroups < 1 {
		return fmt.Errorf("top groups must be >= 1, got %d", p.TopGroups)
	}
	if p.TopCIClasses < 1 {
		return fmt.Errorf("top ci classes must be >= 1, got %d", p.TopCIClasses)
	}
	return nil
}

// Entry is one key of a grouped count, in presentation order.
type Entry struct {
	Key   string
	Count int
}

// Snapshot is the aggregate view over the relevant incidents of one query.
// A query with no usable data yields a snapshot of the same shape with all
// counts zero.
type Snapshot struct {
	RelatedCount        int
	NonRelatedCount     int
	ClosedCount         int
	OpenCount           int
	OtherCount          int
	ResolutionRatePct   float64
	TopResolvers        []Entry
	TopAssignmentGroups []Entry
	TopCIClasses        []Entry
}

var (
	closedStates = map[string]struct{}{
		"closed": {}, "resolved": {}, "done": {}, "completed": {},
	}
	openStates = map[string]struct{}{
		"open": {}, "in_progress": {}, "assigned": {}, "pending": {}, "new": {}, "active": {},
	}
)

// counter accumulates counts while remembering first-seen order so that
// equal-count keys keep a stable presentation order.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) inc(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// top returns up to n entries sorted by count descending, ties broken by
// insertion order.
func (c *counter) top(n int) []Entry {
	entries := make([]Entry, 0, len(c.order))
	for _, k := range c.order {
		entries = append(entries, Entry{Key: k, Count: c.counts[k]})
	}
	// insertion sort keeps the first-seen order among equal counts
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].Count > entries[j-1].Count; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

// Aggregate builds a snapshot from the relevant incidents. batchSize is the
// full retrieved-batch size and yields NonRelatedCount; passing the true size
// rather than a fixed constant is deliberate.
func (p Params) Aggregate(relevant []domain.Incident, batchSize int) Snapshot {
	resolvers := newCounter()
	groups := newCounter()
	ciClasses := newCounter()

	snap := Snapshot{RelatedCount: len(relevant)}
	if batchSize > len(relevant) {
		snap.NonRelatedCount = batchSize - len(relevant)
	}

	for _, inc := range relevant {
		state := strings.ToLower(strings.TrimSpace(inc.State))
		resolvedBy := strings.TrimSpace(inc.ResolvedBy)
		group := strings.TrimSpace(inc.AssignmentGroup)
		ciClass := strings.TrimSpace(inc.CIClass)

		if _, ok := closedStates[state]; ok {
			snap.ClosedCount++
			// credit a resolver only for a closed, attributed incident
			if resolvedBy != "" {
				resolvers.inc(resolvedBy)
			}
		} else if _, ok := openStates[state]; ok {
			snap.OpenCount++
		} else {
			snap.OtherCount++
		}

		if group != "" {
			groups.inc(group)
		}
		if ciClass != "" {
			ciClasses.inc(ciClass)
		}
	}

	if snap.RelatedCount > 0 {
		rate := float64(snap.ClosedCount) / float64(snap.RelatedCount) * 100
		snap.ResolutionRatePct = math.Round(rate*10) / 10
	}
	snap.TopResolvers = resolvers.top(p.TopResolvers)
	snap.TopAssignmentGroups = groups.top(p.TopGroups)
	snap.TopCIClasses = ciClasses.top(p.TopCIClasses)
	return snap
}
