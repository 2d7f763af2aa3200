// Package search provides read-only projections of the concept graph:
// abstraction-level filtered views for display and time-windowed trend
// discovery. It never mutates the store.
package search

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shearline/cognate/pkg/store"
)

// Node is a concept prepared for rendering. Density is a display-only
// normalized frequency in [10,100] used for node sizing.
type Node struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	Type        store.ConceptType `json:"type"`
	Density     float64           `json:"density"`
	Frequency   int               `json:"frequency"`
	Description string            `json:"description"`
}

// Edge is a relationship prepared for rendering. Both endpoints are always
// present in the accompanying node set.
type Edge struct {
	ID     string             `json:"id"`
	Source string             `json:"source"`
	Target string             `json:"target"`
	Type   store.RelationType `json:"type"`
	Weight float64            `json:"weight"`
}

// Graph is the response shape consumed by the presentation layer.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Engine answers graph and trend queries over the store. now is injectable
// for tests.
type Engine struct {
	store *store.Store
	now   func() time.Time
}

// NewEngine creates a query engine. now may be nil (wall clock).
func NewEngine(s *store.Store, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{store: s, now: now}
}

// ConceptGraph builds the filtered concept graph.
//
// level (0-100) is the abstraction control: it maps to a frequency
// threshold of ceil(level/100 * maxFrequency), floored at 1, so a higher
// level yields fewer, more dominant concepts. A non-empty query further
// filters the surviving concepts by case-insensitive substring on name,
// description or type, or by the lenient fuzzy subsequence match. Every
// edge whose endpoints are not both in the surviving node set is dropped.
func (e *Engine) ConceptGraph(level int, query string) Graph {
	g := Graph{Nodes: []Node{}, Edges: []Edge{}}

	concepts := e.store.Concepts.All()
	maxFreq := 0
	for _, c := range concepts {
		if c.Frequency > maxFreq {
			maxFreq = c.Frequency
		}
	}
	if maxFreq == 0 {
		return g
	}

	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	minFreq := int(math.Ceil(float64(level) / 100 * float64(maxFreq)))
	if minFreq < 1 {
		minFreq = 1
	}

	query = strings.TrimSpace(query)
	kept := make(map[string]struct{})
	for _, c := range concepts {
		if c.Frequency < minFreq {
			continue
		}
		if query != "" && !matchesQuery(c, query) {
			continue
		}
		kept[c.ID] = struct{}{}
		g.Nodes = append(g.Nodes, Node{
			ID:          c.ID,
			Label:       c.Name,
			Type:        c.Type,
			Density:     density(c.Frequency, maxFreq),
			Frequency:   c.Frequency,
			Description: c.Description,
		})
	}

	sort.SliceStable(g.Nodes, func(i, j int) bool {
		if g.Nodes[i].Frequency != g.Nodes[j].Frequency {
			return g.Nodes[i].Frequency > g.Nodes[j].Frequency
		}
		return g.Nodes[i].Label < g.Nodes[j].Label
	})

	for _, r := range e.store.Relationships.All() {
		if _, ok := kept[r.FromConceptID]; !ok {
			continue
		}
		if _, ok := kept[r.ToConceptID]; !ok {
			continue
		}
		g.Edges = append(g.Edges, Edge{
			ID:     r.ID,
			Source: r.FromConceptID,
			Target: r.ToConceptID,
			Type:   r.Type,
			Weight: r.Strength,
		})
	}

	return g
}

func matchesQuery(c *store.Concept, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Description), q) ||
		strings.Contains(strings.ToLower(string(c.Type)), q) {
		return true
	}
	return FuzzyMatch(c.Name, query)
}

// density maps frequency to a display size in [10,100]. The floor keeps
// rarely-mentioned concepts visible as dots.
func density(freq, maxFreq int) float64 {
	d := float64(freq) / float64(maxFreq) * 100
	if d < 10 {
		return 10
	}
	if d > 100 {
		return 100
	}
	return d
}
