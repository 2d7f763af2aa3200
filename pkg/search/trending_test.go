package search

import (
	"testing"
	"time"

	"github.com/shearline/cognate/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDoc inserts a content created at ts whose analysis mentions the given
// concept ids.
func seedDoc(s *store.Store, ts time.Time, hash string, conceptIDs ...string) {
	c := &store.Content{Title: "doc", ContentHash: hash}
	c.CreatedAt = ts
	c.UpdatedAt = ts
	id := s.Contents.Insert(c)
	s.Analyses.Insert(&store.Analysis{ContentID: id, ConceptIDs: conceptIDs})
}

func TestTrendingConcepts_GrowthRanking(t *testing.T) {
	s := store.New(nil, nil)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	e := NewEngine(s, func() time.Time { return now })

	steady := s.Concepts.Insert(&store.Concept{Name: "Steady", Type: store.TypeConcept, Frequency: 3})
	novel := s.Concepts.Insert(&store.Concept{Name: "Novel", Type: store.TypeTechnology, Frequency: 1})

	recent := now.AddDate(0, 0, -2)
	prior := now.AddDate(0, 0, -9)

	// Steady: mentioned in both windows at the same rate.
	seedDoc(s, recent, "r1", steady)
	seedDoc(s, recent, "r2", steady, novel)
	seedDoc(s, prior, "p1", steady)
	seedDoc(s, prior, "p2", steady)

	got := e.TrendingConcepts(TimeframeWeekly, 0)
	require.Len(t, got, 2)

	// Novel was unseen in the prior window, so the rate floor makes it the
	// top grower.
	assert.Equal(t, "Novel", got[0].Name)
	assert.Equal(t, 1, got[0].RecentMentions)
	assert.Equal(t, 0.0, got[0].PriorRate)
	assert.InDelta(t, 0.5/0.01, got[0].Growth, 1e-9)

	assert.Equal(t, "Steady", got[1].Name)
	assert.Equal(t, 2, got[1].RecentMentions)
	assert.InDelta(t, 1.0, got[1].RecentRate, 1e-9)
	assert.InDelta(t, 1.0, got[1].PriorRate, 1e-9)
	assert.InDelta(t, 1.0, got[1].Growth, 1e-9)
}

func TestTrendingConcepts_EmptyRecentWindow(t *testing.T) {
	s := store.New(nil, nil)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	e := NewEngine(s, func() time.Time { return now })

	id := s.Concepts.Insert(&store.Concept{Name: "Old", Frequency: 5})
	seedDoc(s, now.AddDate(0, -2, 0), "h1", id)

	got := e.TrendingConcepts(TimeframeWeekly, 5)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTrendingConcepts_WindowBoundaries(t *testing.T) {
	s := store.New(nil, nil)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	e := NewEngine(s, func() time.Time { return now })

	inWindow := s.Concepts.Insert(&store.Concept{Name: "In", Frequency: 1})
	outside := s.Concepts.Insert(&store.Concept{Name: "Out", Frequency: 1})

	// Exactly at the window start: included. Older than the prior window:
	// invisible entirely.
	seedDoc(s, now.AddDate(0, 0, -7), "h1", inWindow)
	seedDoc(s, now.AddDate(0, 0, -30), "h2", outside)

	got := e.TrendingConcepts(TimeframeWeekly, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "In", got[0].Name)
}

func TestTrendingConcepts_TopNAndTiebreak(t *testing.T) {
	s := store.New(nil, nil)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	e := NewEngine(s, func() time.Time { return now })

	b := s.Concepts.Insert(&store.Concept{Name: "Bravo", Frequency: 1})
	a := s.Concepts.Insert(&store.Concept{Name: "Alpha", Frequency: 1})
	c := s.Concepts.Insert(&store.Concept{Name: "Charlie", Frequency: 1})

	// One recent doc mentioning all three: identical growth and mentions,
	// so names break the tie.
	seedDoc(s, now.AddDate(0, 0, -1), "h1", b, a, c)

	got := e.TrendingConcepts(TimeframeWeekly, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, "Bravo", got[1].Name)
}

func TestTrendingConcepts_SkipsDanglingConceptIDs(t *testing.T) {
	s := store.New(nil, nil)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	e := NewEngine(s, func() time.Time { return now })

	known := s.Concepts.Insert(&store.Concept{Name: "Real", Frequency: 1})
	seedDoc(s, now.AddDate(0, 0, -1), "h1", known, "ghost-concept-id")

	got := e.TrendingConcepts(TimeframeWeekly, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "Real", got[0].Name)
}

func TestTimeframeWindowStart(t *testing.T) {
	ref := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, ref.AddDate(0, 0, -7), TimeframeWeekly.windowStart(ref))
	assert.Equal(t, ref.AddDate(0, -1, 0), TimeframeMonthly.windowStart(ref))
	assert.Equal(t, ref.AddDate(0, -3, 0), TimeframeQuarterly.windowStart(ref))
	assert.Equal(t, ref.AddDate(0, 0, -7), Timeframe("bogus").windowStart(ref))
}
