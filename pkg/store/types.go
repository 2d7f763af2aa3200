package store

import "strings"

// ConceptType classifies a concept node.
type ConceptType string

const (
	TypeConcept      ConceptType = "concept"
	TypePerson       ConceptType = "person"
	TypeOrganization ConceptType = "organization"
	TypeTechnology   ConceptType = "technology"
	TypeMethodology  ConceptType = "methodology"
)

// Valid reports whether t is a known concept type.
func (t ConceptType) Valid() bool {
	switch t {
	case TypeConcept, TypePerson, TypeOrganization, TypeTechnology, TypeMethodology:
		return true
	}
	return false
}

// Priority is the analysis step's reading recommendation for a document.
type Priority string

const (
	PrioritySkim     Priority = "skim"
	PriorityRead     Priority = "read"
	PriorityDeepDive Priority = "deep-dive"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PrioritySkim, PriorityRead, PriorityDeepDive:
		return true
	}
	return false
}

// RelationType labels an edge between two concepts.
type RelationType string

const (
	RelIncludes     RelationType = "INCLUDES"
	RelRelatesTo    RelationType = "RELATES_TO"
	RelImplements   RelationType = "IMPLEMENTS"
	RelUses         RelationType = "USES"
	RelCompetesWith RelationType = "COMPETES_WITH"
	RelCoOccurs     RelationType = "CO_OCCURS"
)

// Content is one ingested document. ContentHash is the dedup key; URL is
// stored normalized.
type Content struct {
	Rec
	Title       string `json:"title"`
	URL         string `json:"url"`
	Body        string `json:"body"`
	Source      string `json:"source"`
	ContentHash string `json:"contentHash"`
}

// Entity is a named, typed extraction from the analysis step.
type Entity struct {
	Name string      `json:"name"`
	Type ConceptType `json:"type"`
}

// Summary holds the analysis step's condensed readings of a document.
type Summary struct {
	Sentence   string `json:"sentence"`
	Paragraph  string `json:"paragraph"`
	IsFullRead bool   `json:"isFullRead"`
}

// Analysis is the stored analysis result for one content row. Exactly one
// Analysis exists per Content. ConceptIDs are the resolved graph nodes for
// the document's entities and tags.
type Analysis struct {
	Rec
	ContentID  string   `json:"contentId"`
	Summary    Summary  `json:"summary"`
	Entities   []Entity `json:"entities"`
	Tags       []string `json:"tags"`
	ConceptIDs []string `json:"conceptIds"`
	Priority   Priority `json:"priority"`
	Confidence float64  `json:"confidence"`
}

// Concept is a graph node. Frequency counts the distinct analyses that
// mention it; it is never decremented outside maintenance sweeps.
type Concept struct {
	Rec
	Name        string      `json:"name"`
	Type        ConceptType `json:"type"`
	Frequency   int         `json:"frequency"`
	Description string      `json:"description"`
}

// Relationship is a weighted, typed edge between two concepts, attributed
// to the content that produced it. Strength stays in [0,1]; a recurring
// (from, to, type) triple strengthens the existing edge instead of
// duplicating it.
type Relationship struct {
	Rec
	FromConceptID string       `json:"fromConceptId"`
	ToConceptID   string       `json:"toConceptId"`
	Type          RelationType `json:"type"`
	Strength      float64      `json:"strength"`
	ContentID     string       `json:"contentId"`
}

// TripleKey is the identity of an edge for strengthen-or-create lookups.
// CO_OCCURS is undirected, so its endpoints are ordered canonically.
func (r *Relationship) TripleKey() string {
	from, to := r.FromConceptID, r.ToConceptID
	if r.Type == RelCoOccurs && to < from {
		from, to = to, from
	}
	return from + "|" + string(r.Type) + "|" + to
}

// ConceptContent links a concept to a content it was mentioned in. The
// explicit join table makes concept<->document membership an index lookup.
type ConceptContent struct {
	Rec
	ConceptID string `json:"conceptId"`
	ContentID string `json:"contentId"`
}

// PairKey is the identity of a concept-content link.
func (c *ConceptContent) PairKey() string {
	return c.ConceptID + "|" + c.ContentID
}

// FoldName normalizes a concept name for matching: trimmed and case-folded.
// The stored Name keeps its first-seen casing for display.
func FoldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
