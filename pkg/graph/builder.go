// Package graph turns per-document analysis output into nodes and edges of
// the concept graph.
package graph

import (
	"strings"

	"github.com/shearline/cognate/pkg/store"
)

const (
	// cooccurStrength is the default weight of an inferred co-occurrence
	// edge; explicitStrength the higher default for relationships named by
	// the analysis step.
	cooccurStrength  = 0.5
	explicitStrength = 0.8

	// strengthStep is added each time an identical (from, to, type) triple
	// recurs, capped at maxStrength.
	strengthStep = 0.1
	maxStrength  = 1.0

	// DefaultMaxCooccur bounds the concepts considered for pairwise
	// co-occurrence per document. Pairing is quadratic; per-document concept
	// counts are expected in the tens.
	DefaultMaxCooccur = 50
)

// Relation is one explicit relationship supplied by the analysis step,
// naming its endpoint concepts.
type Relation struct {
	From string             `json:"from"`
	To   string             `json:"to"`
	Type store.RelationType `json:"type"`
}

// Builder upserts concepts and creates or strengthens relationships. It
// mutates the concept, relationship and link tables only.
type Builder struct {
	store      *store.Store
	maxCooccur int
}

// NewBuilder creates a builder over the store.
func NewBuilder(s *store.Store) *Builder {
	return &Builder{store: s, maxCooccur: DefaultMaxCooccur}
}

// FindOrCreateConcept resolves a concept by case-folded name. On a hit the
// concept's frequency is incremented by one and its id returned; on a miss
// a new concept is created with frequency 1. Reports whether a concept was
// created.
func (b *Builder) FindOrCreateConcept(name string, ctype store.ConceptType) (string, bool) {
	folded := store.FoldName(name)
	if hits := b.store.Concepts.ByIndex("nameFold", folded); len(hits) > 0 {
		id := hits[0].ID
		b.store.Concepts.Update(id, func(c *store.Concept) {
			c.Frequency++
		})
		return id, false
	}
	if !ctype.Valid() {
		ctype = store.TypeConcept
	}
	concept := &store.Concept{Name: strings.TrimSpace(name), Type: ctype}
	concept.Frequency = 1
	return b.store.Concepts.Insert(concept), true
}

// IngestDocument resolves one document's entities, tags and explicit
// relationships into graph mutations and returns the resolved concept ids.
//
// The document's concept set is the case-insensitively deduplicated union
// of entities and tags (tags are typed as plain concepts); each member's
// frequency moves by exactly one regardless of repeat mentions inside the
// document. Every unordered pair among the first maxCooccur concepts gets a
// CO_OCCURS edge attributed to contentID. Explicit relationships resolve
// their endpoints (creating concepts as needed) and carry the higher
// default strength.
func (b *Builder) IngestDocument(contentID string, entities []store.Entity, tags []string, relations []Relation) []string {
	seen := make(map[string]string) // folded name -> concept id
	var conceptIDs []string

	resolve := func(name string, ctype store.ConceptType) string {
		folded := store.FoldName(name)
		if folded == "" {
			return ""
		}
		if id, ok := seen[folded]; ok {
			return id
		}
		id, _ := b.FindOrCreateConcept(name, ctype)
		seen[folded] = id
		conceptIDs = append(conceptIDs, id)
		b.LinkConceptToContent(id, contentID)
		return id
	}

	for _, e := range entities {
		resolve(e.Name, e.Type)
	}
	for _, tag := range tags {
		resolve(tag, store.TypeConcept)
	}

	// Pairwise co-occurrence over the capped prefix. Concepts past the cap
	// still get frequency credit and content links above.
	pairable := conceptIDs
	if len(pairable) > b.maxCooccur {
		pairable = pairable[:b.maxCooccur]
	}
	for i := 0; i < len(pairable); i++ {
		for j := i + 1; j < len(pairable); j++ {
			b.upsertRelationship(pairable[i], pairable[j], store.RelCoOccurs, cooccurStrength, contentID)
		}
	}

	for _, rel := range relations {
		from := resolve(rel.From, store.TypeConcept)
		to := resolve(rel.To, store.TypeConcept)
		if from == "" || to == "" || from == to {
			continue
		}
		b.upsertRelationship(from, to, rel.Type, explicitStrength, contentID)
	}

	return conceptIDs
}

// upsertRelationship creates an edge, or strengthens the existing edge with
// the same (from, to, type) identity instead of duplicating it. Attribution
// stays with the content that first created the edge.
func (b *Builder) upsertRelationship(from, to string, rt store.RelationType, strength float64, contentID string) {
	probe := &store.Relationship{FromConceptID: from, ToConceptID: to, Type: rt}
	if hits := b.store.Relationships.ByIndex("triple", probe.TripleKey()); len(hits) > 0 {
		b.store.Relationships.Update(hits[0].ID, func(r *store.Relationship) {
			r.Strength = min(maxStrength, r.Strength+strengthStep)
		})
		return
	}
	probe.Strength = strength
	probe.ContentID = contentID
	b.store.Relationships.Insert(probe)
}

// LinkConceptToContent records membership in the concept_contents join
// table. Duplicate pairs are ignored.
func (b *Builder) LinkConceptToContent(conceptID, contentID string) {
	link := &store.ConceptContent{ConceptID: conceptID, ContentID: contentID}
	if hits := b.store.Links.ByIndex("pair", link.PairKey()); len(hits) > 0 {
		return
	}
	b.store.Links.Insert(link)
}

// ContentsForConcept returns the ids of contents mentioning a concept.
func (b *Builder) ContentsForConcept(conceptID string) []string {
	links := b.store.Links.ByIndex("conceptId", conceptID)
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.ContentID)
	}
	return out
}

// ConceptsForContent returns the ids of concepts a content mentions.
func (b *Builder) ConceptsForContent(contentID string) []string {
	links := b.store.Links.ByIndex("contentId", contentID)
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.ConceptID)
	}
	return out
}
