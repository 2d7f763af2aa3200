package graph

import (
	"testing"

	"github.com/shearline/cognate/pkg/store"
)

func newBuilder(t *testing.T) (*Builder, *store.Store) {
	t.Helper()
	s := store.New(nil, nil)
	return NewBuilder(s), s
}

func TestFindOrCreateConcept_CaseFolding(t *testing.T) {
	b, s := newBuilder(t)

	id1, created := b.FindOrCreateConcept("Rust", store.TypeTechnology)
	if !created {
		t.Fatal("first resolve did not create")
	}
	id2, created := b.FindOrCreateConcept("rust", store.TypeTechnology)
	if created {
		t.Fatal("case variant created a duplicate concept")
	}
	if id1 != id2 {
		t.Fatalf("case variants resolved to different concepts: %s vs %s", id1, id2)
	}

	c, _ := s.Concepts.Get(id1)
	if c.Name != "Rust" {
		t.Errorf("stored name: got %q, want first-seen casing %q", c.Name, "Rust")
	}
	if c.Frequency != 2 {
		t.Errorf("frequency: got %d, want 2", c.Frequency)
	}
}

func TestFindOrCreateConcept_InvalidTypeDefaults(t *testing.T) {
	b, s := newBuilder(t)
	id, _ := b.FindOrCreateConcept("something", store.ConceptType("alien"))
	c, _ := s.Concepts.Get(id)
	if c.Type != store.TypeConcept {
		t.Errorf("type: got %s, want %s", c.Type, store.TypeConcept)
	}
}

// TestIngestDocument_FrequencyPerDocument verifies each concept's frequency
// moves by exactly one per document, however often the document repeats it.
func TestIngestDocument_FrequencyPerDocument(t *testing.T) {
	b, s := newBuilder(t)

	ids := b.IngestDocument("content-1",
		[]store.Entity{
			{Name: "Rust", Type: store.TypeTechnology},
			{Name: "rust", Type: store.TypeTechnology},
		},
		[]string{"RUST", "wasm"},
		nil,
	)
	if len(ids) != 2 {
		t.Fatalf("resolved concepts: got %d, want 2 (rust, wasm)", len(ids))
	}

	rust := s.Concepts.ByIndex("nameFold", "rust")
	if len(rust) != 1 {
		t.Fatalf("rust concepts: got %d, want 1", len(rust))
	}
	if rust[0].Frequency != 1 {
		t.Errorf("rust frequency after one document: got %d, want 1", rust[0].Frequency)
	}

	b.IngestDocument("content-2", nil, []string{"rust"}, nil)
	rust = s.Concepts.ByIndex("nameFold", "rust")
	if rust[0].Frequency != 2 {
		t.Errorf("rust frequency after two documents: got %d, want 2", rust[0].Frequency)
	}
}

// TestIngestDocument_CoOccurrence covers the three-concept document: three
// nodes, three CO_OCCURS edges, and a second shared document strengthening
// rather than duplicating.
func TestIngestDocument_CoOccurrence(t *testing.T) {
	b, s := newBuilder(t)

	entities := []store.Entity{
		{Name: "Rust", Type: store.TypeTechnology},
		{Name: "WebAssembly", Type: store.TypeTechnology},
		{Name: "Go", Type: store.TypeTechnology},
	}
	b.IngestDocument("content-1", entities, nil, nil)

	if got := s.Concepts.Len(); got != 3 {
		t.Fatalf("concepts: got %d, want 3", got)
	}
	edges := s.Relationships.All()
	if len(edges) != 3 {
		t.Fatalf("edges: got %d, want 3", len(edges))
	}
	for _, e := range edges {
		if e.Type != store.RelCoOccurs {
			t.Errorf("edge type: got %s, want %s", e.Type, store.RelCoOccurs)
		}
		if e.Strength != 0.5 {
			t.Errorf("edge strength: got %v, want 0.5", e.Strength)
		}
		if e.ContentID != "content-1" {
			t.Errorf("edge attribution: got %s, want content-1", e.ContentID)
		}
	}

	// Same pair again from another document: strengthened, not duplicated.
	b.IngestDocument("content-2", entities[:2], nil, nil)
	edges = s.Relationships.All()
	if len(edges) != 3 {
		t.Fatalf("edges after repeat: got %d, want 3", len(edges))
	}
	strengthened := 0
	for _, e := range edges {
		if e.Strength > 0.5 {
			strengthened++
			if e.Strength != 0.6 {
				t.Errorf("strengthened edge: got %v, want 0.6", e.Strength)
			}
			if e.ContentID != "content-1" {
				t.Errorf("attribution moved to %s, want first content", e.ContentID)
			}
		}
	}
	if strengthened != 1 {
		t.Errorf("strengthened edges: got %d, want 1", strengthened)
	}
}

// TestIngestDocument_CoOccursUndirected verifies the canonical triple:
// (a CO_OCCURS b) and (b CO_OCCURS a) are the same edge.
func TestIngestDocument_CoOccursUndirected(t *testing.T) {
	b, s := newBuilder(t)

	b.IngestDocument("content-1", nil, []string{"alpha", "beta"}, nil)
	b.IngestDocument("content-2", nil, []string{"beta", "alpha"}, nil)

	if got := s.Relationships.Len(); got != 1 {
		t.Fatalf("edges: got %d, want 1 undirected edge", got)
	}
	e := s.Relationships.All()[0]
	if e.Strength != 0.6 {
		t.Errorf("strength after reversed repeat: got %v, want 0.6", e.Strength)
	}
}

func TestUpsertRelationship_StrengthCap(t *testing.T) {
	b, s := newBuilder(t)

	tags := []string{"x", "y"}
	for i := 0; i < 10; i++ {
		b.IngestDocument("content", nil, tags, nil)
	}
	e := s.Relationships.All()[0]
	if e.Strength > 1.0 {
		t.Errorf("strength exceeded cap: %v", e.Strength)
	}
	if e.Strength != 1.0 {
		t.Errorf("strength after many repeats: got %v, want 1.0", e.Strength)
	}
}

func TestIngestDocument_ExplicitRelations(t *testing.T) {
	b, s := newBuilder(t)

	rels := []Relation{
		{From: "Kubernetes", To: "Containers", Type: store.RelUses},
		{From: "Kubernetes", To: "Kubernetes", Type: store.RelRelatesTo}, // self-loop skipped
		{From: "", To: "Containers", Type: store.RelRelatesTo},           // empty endpoint skipped
	}
	b.IngestDocument("content-1", nil, nil, rels)

	edges := s.Relationships.All()
	// One explicit edge plus the co-occurrence between the two resolved
	// endpoint concepts.
	var explicit *store.Relationship
	for _, e := range edges {
		if e.Type == store.RelUses {
			explicit = e
		}
		if e.Type == store.RelRelatesTo {
			t.Error("self-loop or empty-endpoint relation was created")
		}
	}
	if explicit == nil {
		t.Fatal("explicit USES edge missing")
	}
	if explicit.Strength != 0.8 {
		t.Errorf("explicit strength: got %v, want 0.8", explicit.Strength)
	}
}

func TestIngestDocument_CoOccurrenceCap(t *testing.T) {
	b, s := newBuilder(t)
	b.maxCooccur = 3

	tags := []string{"a", "b", "c", "d", "e"}
	ids := b.IngestDocument("content-1", nil, tags, nil)
	if len(ids) != 5 {
		t.Fatalf("resolved concepts: got %d, want 5", len(ids))
	}

	// Only the first three concepts pair up: C(3,2) = 3 edges.
	if got := s.Relationships.Len(); got != 3 {
		t.Errorf("edges with cap 3: got %d, want 3", got)
	}
	// Concepts past the cap still get content links.
	if got := s.Links.Len(); got != 5 {
		t.Errorf("links: got %d, want 5", got)
	}
}

func TestLinkConceptToContent_Dedup(t *testing.T) {
	b, s := newBuilder(t)
	b.LinkConceptToContent("c1", "d1")
	b.LinkConceptToContent("c1", "d1")
	if got := s.Links.Len(); got != 1 {
		t.Errorf("links: got %d, want 1", got)
	}
}

func TestContentsForConcept(t *testing.T) {
	b, _ := newBuilder(t)
	b.LinkConceptToContent("c1", "d1")
	b.LinkConceptToContent("c1", "d2")
	b.LinkConceptToContent("c2", "d1")

	if got := b.ContentsForConcept("c1"); len(got) != 2 {
		t.Errorf("contents for c1: got %d, want 2", len(got))
	}
	if got := b.ConceptsForContent("d1"); len(got) != 2 {
		t.Errorf("concepts for d1: got %d, want 2", len(got))
	}
}
