package search

import (
	"testing"

	"github.com/shearline/cognate/pkg/store"
)

func seedConcept(s *store.Store, name string, ctype store.ConceptType, freq int) string {
	return s.Concepts.Insert(&store.Concept{Name: name, Type: ctype, Frequency: freq})
}

func TestConceptGraph_EmptyStore(t *testing.T) {
	e := NewEngine(store.New(nil, nil), nil)
	g := e.ConceptGraph(0, "")
	if g.Nodes == nil || g.Edges == nil {
		t.Fatal("empty graph must carry non-nil slices")
	}
	if len(g.Nodes) != 0 || len(g.Edges) != 0 {
		t.Errorf("empty store produced %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
}

func TestConceptGraph_LevelThreshold(t *testing.T) {
	s := store.New(nil, nil)
	seedConcept(s, "rare", store.TypeConcept, 1)
	seedConcept(s, "common", store.TypeConcept, 3)
	seedConcept(s, "dominant", store.TypeConcept, 10)
	e := NewEngine(s, nil)

	// level 0: threshold floors at 1, everything shows.
	if g := e.ConceptGraph(0, ""); len(g.Nodes) != 3 {
		t.Errorf("level 0: got %d nodes, want 3", len(g.Nodes))
	}
	// level 25: ceil(0.25*10) = 3.
	if g := e.ConceptGraph(25, ""); len(g.Nodes) != 2 {
		t.Errorf("level 25: got %d nodes, want 2", len(g.Nodes))
	}
	// level 100: only max-frequency concepts survive.
	g := e.ConceptGraph(100, "")
	if len(g.Nodes) != 1 || g.Nodes[0].Label != "dominant" {
		t.Errorf("level 100: got %d nodes", len(g.Nodes))
	}
	// Out-of-range levels clamp instead of failing.
	if g := e.ConceptGraph(-5, ""); len(g.Nodes) != 3 {
		t.Errorf("level -5: got %d nodes, want 3", len(g.Nodes))
	}
	if g := e.ConceptGraph(900, ""); len(g.Nodes) != 1 {
		t.Errorf("level 900: got %d nodes, want 1", len(g.Nodes))
	}
}

// TestConceptGraph_LevelMonotonic verifies that raising the level never adds
// a concept: each level's node set is a subset of every lower level's.
func TestConceptGraph_LevelMonotonic(t *testing.T) {
	s := store.New(nil, nil)
	for i, name := range []string{"a", "b", "c", "d", "e", "f"} {
		seedConcept(s, name, store.TypeConcept, i+1)
	}
	e := NewEngine(s, nil)

	prev := map[string]bool{}
	first := true
	for level := 0; level <= 100; level += 10 {
		cur := map[string]bool{}
		for _, n := range e.ConceptGraph(level, "").Nodes {
			cur[n.ID] = true
		}
		if !first {
			for id := range cur {
				if !prev[id] {
					t.Fatalf("level %d introduced node %s absent at level %d", level, id, level-10)
				}
			}
		}
		prev, first = cur, false
	}
}

func TestConceptGraph_EdgesRequireBothEndpoints(t *testing.T) {
	s := store.New(nil, nil)
	hi := seedConcept(s, "high", store.TypeConcept, 10)
	hi2 := seedConcept(s, "high-too", store.TypeConcept, 9)
	lo := seedConcept(s, "low", store.TypeConcept, 1)
	s.Relationships.Insert(&store.Relationship{FromConceptID: hi, ToConceptID: hi2, Type: store.RelCoOccurs, Strength: 0.5})
	s.Relationships.Insert(&store.Relationship{FromConceptID: hi, ToConceptID: lo, Type: store.RelCoOccurs, Strength: 0.5})
	e := NewEngine(s, nil)

	g := e.ConceptGraph(50, "")
	nodes := map[string]bool{}
	for _, n := range g.Nodes {
		nodes[n.ID] = true
	}
	if nodes[lo] {
		t.Fatal("low-frequency concept survived level 50")
	}
	if len(g.Edges) != 1 {
		t.Fatalf("edges: got %d, want 1", len(g.Edges))
	}
	for _, edge := range g.Edges {
		if !nodes[edge.Source] || !nodes[edge.Target] {
			t.Errorf("edge %s has an endpoint outside the node set", edge.ID)
		}
	}
}

func TestConceptGraph_QueryFilter(t *testing.T) {
	s := store.New(nil, nil)
	seedConcept(s, "Kubernetes", store.TypeTechnology, 5)
	seedConcept(s, "Terraform", store.TypeTechnology, 5)
	s.Concepts.Insert(&store.Concept{Name: "GitOps", Type: store.TypeMethodology, Frequency: 5, Description: "declarative delivery"})
	e := NewEngine(s, nil)

	if g := e.ConceptGraph(0, "kuber"); len(g.Nodes) != 1 || g.Nodes[0].Label != "Kubernetes" {
		t.Errorf("substring query: got %d nodes", len(g.Nodes))
	}
	// Fuzzy: a dropped letter still finds the concept.
	if g := e.ConceptGraph(0, "kuberntes"); len(g.Nodes) != 1 {
		t.Errorf("fuzzy query: got %d nodes", len(g.Nodes))
	}
	// Description text is searched too.
	if g := e.ConceptGraph(0, "declarative"); len(g.Nodes) != 1 || g.Nodes[0].Label != "GitOps" {
		t.Errorf("description query: got %d nodes", len(g.Nodes))
	}
	// Type names are searchable.
	if g := e.ConceptGraph(0, "methodology"); len(g.Nodes) != 1 {
		t.Errorf("type query: got %d nodes", len(g.Nodes))
	}
	if g := e.ConceptGraph(0, "zzzzzz"); len(g.Nodes) != 0 {
		t.Errorf("no-match query: got %d nodes", len(g.Nodes))
	}
}

func TestConceptGraph_NodeOrderAndDensity(t *testing.T) {
	s := store.New(nil, nil)
	seedConcept(s, "beta", store.TypeConcept, 20)
	seedConcept(s, "alpha", store.TypeConcept, 20)
	seedConcept(s, "tiny", store.TypeConcept, 1)
	e := NewEngine(s, nil)

	g := e.ConceptGraph(0, "")
	if len(g.Nodes) != 3 {
		t.Fatalf("nodes: got %d, want 3", len(g.Nodes))
	}
	// Frequency descending, label ascending within ties.
	if g.Nodes[0].Label != "alpha" || g.Nodes[1].Label != "beta" || g.Nodes[2].Label != "tiny" {
		t.Errorf("order: got %s, %s, %s", g.Nodes[0].Label, g.Nodes[1].Label, g.Nodes[2].Label)
	}
	if g.Nodes[0].Density != 100 {
		t.Errorf("max-frequency density: got %v, want 100", g.Nodes[0].Density)
	}
	// 1/20 of max would be 5; the floor keeps it visible.
	if g.Nodes[2].Density != 10 {
		t.Errorf("floored density: got %v, want 10", g.Nodes[2].Density)
	}
}
