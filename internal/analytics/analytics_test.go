package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incidentassist/internal/domain"
)

func TestAggregateEmptyInput(t *testing.T) {
	snap := DefaultParams().Aggregate(nil, 0)
	assert.Zero(t, snap.RelatedCount)
	assert.Zero(t, snap.NonRelatedCount)
	assert.Zero(t, snap.ClosedCount)
	assert.Zero(t, snap.OpenCount)
	assert.Zero(t, snap.OtherCount)
	assert.Zero(t, snap.ResolutionRatePct)
	assert.Empty(t, snap.TopResolvers)
	assert.Empty(t, snap.TopAssignmentGroups)
	assert.Empty(t, snap.TopCIClasses)
}

func TestAggregateResolverCreditRequiresClosedAndAttributed(t *testing.T) {
	var relevant []domain.Incident
	for i := 0; i < 5; i++ {
		relevant = append(relevant, domain.Incident{ID: "a", State: "Closed", ResolvedBy: "Alice"})
	}
	for i := 0; i < 5; i++ {
		relevant = append(relevant, domain.Incident{ID: "b", State: "Closed"})
	}
	snap := DefaultParams().Aggregate(relevant, len(relevant))

	assert.Equal(t, 10, snap.ClosedCount)
	assert.Equal(t, 100.0, snap.ResolutionRatePct)
	require.Len(t, snap.TopResolvers, 1)
	assert.Equal(t, Entry{Key: "Alice", Count: 5}, snap.TopResolvers[0])
}

func TestAggregateOpenStateNeverCreditsResolver(t *testing.T) {
	relevant := []domain.Incident{
		{ID: "a", State: "in_progress", ResolvedBy: "Alice"},
		{ID: "b", State: "open", ResolvedBy: "Bob"},
	}
	snap := DefaultParams().Aggregate(relevant, 2)
	assert.Equal(t, 2, snap.OpenCount)
	assert.Empty(t, snap.TopResolvers)
	assert.Zero(t, snap.ResolutionRatePct)
}

func TestAggregateStateBucketTotalsMatchInput(t *testing.T) {
	relevant := []domain.Incident{
		{ID: "a", State: "Closed"},
		{ID: "b", State: "RESOLVED"},
		{ID: "c", State: " open "},
		{ID: "d", State: "weird"},
		{ID: "e", State: ""},
		{ID: "f", State: "pending"},
	}
	snap := DefaultParams().Aggregate(relevant, len(relevant))
	assert.Equal(t, len(relevant), snap.ClosedCount+snap.OpenCount+snap.OtherCount)
	assert.Equal(t, 2, snap.ClosedCount)
	assert.Equal(t, 2, snap.OpenCount)
	assert.Equal(t, 2, snap.OtherCount)
}

func TestAggregateTieBreakIsFirstSeen(t *testing.T) {
	relevant := []domain.Incident{
		{ID: "1", State: "closed", ResolvedBy: "Alice"},
		{ID: "2", State: "closed", ResolvedBy: "Bob"},
		{ID: "3", State: "closed", ResolvedBy: "Alice"},
		{ID: "4", State: "closed", ResolvedBy: "Bob"},
	}
	snap := DefaultParams().Aggregate(relevant, len(relevant))
	require.Len(t, snap.TopResolvers, 2)
	assert.Equal(t, "Alice", snap.TopResolvers[0].Key)
	assert.Equal(t, "Bob", snap.TopResolvers[1].Key)

	// Reversed first encounter flips the tie.
	relevant[0].ResolvedBy, relevant[2].ResolvedBy = "Bob", "Bob"
	relevant[1].ResolvedBy, relevant[3].ResolvedBy = "Alice", "Alice"
	snap = DefaultParams().Aggregate(relevant, len(relevant))
	assert.Equal(t, "Bob", snap.TopResolvers[0].Key)
	assert.Equal(t, "Alice", snap.TopResolvers[1].Key)
}

func TestAggregateTopNTruncation(t *testing.T) {
	p := Params{TopResolvers: 2, TopGroups: 1, TopCIClasses: 2}
	relevant := []domain.Incident{
		{ID: "1", State: "closed", ResolvedBy: "Alice", AssignmentGroup: "DBA", CIClass: "database"},
		{ID: "2", State: "closed", ResolvedBy: "Alice", AssignmentGroup: "DBA", CIClass: "database"},
		{ID: "3", State: "closed", ResolvedBy: "Bob", AssignmentGroup: "NET", CIClass: "switch"},
		{ID: "4", State: "closed", ResolvedBy: "Cara", AssignmentGroup: "NET", CIClass: "server"},
	}
	snap := p.Aggregate(relevant, len(relevant))

	require.Len(t, snap.TopResolvers, 2)
	assert.Equal(t, Entry{Key: "Alice", Count: 2}, snap.TopResolvers[0])
	assert.Equal(t, Entry{Key: "Bob", Count: 1}, snap.TopResolvers[1])

	require.Len(t, snap.TopAssignmentGroups, 1)
	assert.Equal(t, Entry{Key: "DBA", Count: 2}, snap.TopAssignmentGroups[0])

	require.Len(t, snap.TopCIClasses, 2)
	assert.Equal(t, Entry{Key: "database", Count: 2}, snap.TopCIClasses[0])
	assert.Equal(t, Entry{Key: "switch", Count: 1}, snap.TopCIClasses[1])
}

func TestAggregateGroupsCountedRegardlessOfState(t *testing.T) {
	relevant := []domain.Incident{
		{ID: "1", State: "open", AssignmentGroup: "DBA", CIClass: "database"},
		{ID: "2", State: "weird", AssignmentGroup: "DBA"},
		{ID: "3", State: "closed"},
	}
	snap := DefaultParams().Aggregate(relevant, len(relevant))
	require.Len(t, snap.TopAssignmentGroups, 1)
	assert.Equal(t, 2, snap.TopAssignmentGroups[0].Count)
	require.Len(t, snap.TopCIClasses, 1)
	assert.Equal(t, 1, snap.TopCIClasses[0].Count)
}

func TestAggregateNonRelatedFromBatchSize(t *testing.T) {
	relevant := []domain.Incident{
		{ID: "1", State: "closed"},
		{ID: "2", State: "open"},
	}
	snap := DefaultParams().Aggregate(relevant, 10)
	assert.Equal(t, 2, snap.RelatedCount)
	assert.Equal(t, 8, snap.NonRelatedCount)

	// A stale or missing batch size never yields a negative count.
	snap = DefaultParams().Aggregate(relevant, 0)
	assert.Zero(t, snap.NonRelatedCount)
}

func TestAggregateResolutionRateRounding(t *testing.T) {
	relevant := []domain.Incident{
		{ID: "1", State: "closed"},
		{ID: "2", State: "open"},
		{ID: "3", State: "open"},
	}
	// 1/3 -> 33.333... -> 33.3
	snap := DefaultParams().Aggregate(relevant, 3)
	assert.Equal(t, 33.3, snap.ResolutionRatePct)
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())
	assert.Error(t, Params{TopResolvers: 0, TopGroups: 8, TopCIClasses: 6}.Validate())
	assert.Error(t, Params{TopResolvers: 10, TopGroups: -1, TopCIClasses: 6}.Validate())
	assert.Error(t, Params{TopResolvers: 10, TopGroups: 8, TopCIClasses: 0}.Validate())
}
