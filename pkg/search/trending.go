package search

import (
	"sort"
	"time"

	"github.com/shearline/cognate/pkg/store"
)

// Timeframe selects the trending window, measured back from now.
type Timeframe string

const (
	TimeframeWeekly    Timeframe = "weekly"    // 7 days
	TimeframeMonthly   Timeframe = "monthly"   // 1 calendar month
	TimeframeQuarterly Timeframe = "quarterly" // 3 calendar months
)

// windowStart returns the start of the timeframe window ending at ref.
// Unknown timeframes fall back to weekly.
func (tf Timeframe) windowStart(ref time.Time) time.Time {
	switch tf {
	case TimeframeMonthly:
		return ref.AddDate(0, -1, 0)
	case TimeframeQuarterly:
		return ref.AddDate(0, -3, 0)
	default:
		return ref.AddDate(0, 0, -7)
	}
}

// TrendingConcept is one trending result. Growth compares the concept's
// mention rate in the recent window against an equal-length window
// immediately preceding it.
type TrendingConcept struct {
	ConceptID      string            `json:"conceptId"`
	Name           string            `json:"name"`
	Type           store.ConceptType `json:"type"`
	RecentMentions int               `json:"recentMentions"`
	RecentRate     float64           `json:"recentRate"`
	PriorRate      float64           `json:"priorRate"`
	Growth         float64           `json:"growth"`
}

// DefaultTrendingLimit caps results when the caller passes topN <= 0.
const DefaultTrendingLimit = 10

// priorRateFloor guards the growth ratio against division by zero; a
// concept unseen in the prior window therefore ranks highest.
const priorRateFloor = 0.01

// TrendingConcepts tallies concept mentions from analyses of contents
// created in the timeframe window, computes growth as
// recentRate / max(0.01, priorRate), and returns the top N by growth
// descending (mentions, then name, as tiebreaks). Mention counts come from
// the per-document resolved concept set, so a concept counts once per
// document.
func (e *Engine) TrendingConcepts(tf Timeframe, topN int) []TrendingConcept {
	if topN <= 0 {
		topN = DefaultTrendingLimit
	}
	now := e.now()
	start := tf.windowStart(now)
	priorStart := tf.windowStart(start)

	recentDocs := 0
	priorDocs := 0
	inRecent := make(map[string]bool)
	inPrior := make(map[string]bool)
	for _, c := range e.store.Contents.All() {
		switch {
		case !c.CreatedAt.Before(start) && !c.CreatedAt.After(now):
			recentDocs++
			inRecent[c.ID] = true
		case !c.CreatedAt.Before(priorStart) && c.CreatedAt.Before(start):
			priorDocs++
			inPrior[c.ID] = true
		}
	}
	if recentDocs == 0 {
		return []TrendingConcept{}
	}

	recentMentions := make(map[string]int)
	priorMentions := make(map[string]int)
	for _, a := range e.store.Analyses.All() {
		switch {
		case inRecent[a.ContentID]:
			for _, id := range a.ConceptIDs {
				recentMentions[id]++
			}
		case inPrior[a.ContentID]:
			for _, id := range a.ConceptIDs {
				priorMentions[id]++
			}
		}
	}

	out := make([]TrendingConcept, 0, len(recentMentions))
	for id, mentions := range recentMentions {
		concept, ok := e.store.Concepts.Get(id)
		if !ok {
			continue
		}
		recentRate := float64(mentions) / float64(recentDocs)
		priorRate := 0.0
		if priorDocs > 0 {
			priorRate = float64(priorMentions[id]) / float64(priorDocs)
		}
		floor := priorRate
		if floor < priorRateFloor {
			floor = priorRateFloor
		}
		out = append(out, TrendingConcept{
			ConceptID:      id,
			Name:           concept.Name,
			Type:           concept.Type,
			RecentMentions: mentions,
			RecentRate:     recentRate,
			PriorRate:      priorRate,
			Growth:         recentRate / floor,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Growth != out[j].Growth {
			return out[i].Growth > out[j].Growth
		}
		if out[i].RecentMentions != out[j].RecentMentions {
			return out[i].RecentMentions > out[j].RecentMentions
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
