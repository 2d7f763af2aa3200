package store

import (
	"log/slog"
	"time"
)

// Table names used in snapshots.
const (
	TableContents      = "contents"
	TableAnalyses      = "analyses"
	TableConcepts      = "concepts"
	TableRelationships = "relationships"
	TableLinks         = "concept_contents"
)

// Store bundles the five tables of the engine with their field and index
// registrations, and owns the autosave hook that serializes the whole store
// after every mutation.
type Store struct {
	Contents      *Table[*Content]
	Analyses      *Table[*Analysis]
	Concepts      *Table[*Concept]
	Relationships *Table[*Relationship]
	Links         *Table[*ConceptContent]

	log   *slog.Logger
	now   func() time.Time
	save  func(data []byte)
	muted bool
}

// New creates an empty store. log and now may be nil (discard logger,
// wall clock).
func New(log *slog.Logger, now func() time.Time) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if now == nil {
		now = time.Now
	}
	s := &Store{log: log, now: now}
	s.initTables()
	return s
}

func (s *Store) initTables() {
	contents := NewTable[*Content](TableContents, s.now)
	contents.Key("contentHash", func(c *Content) []string { return []string{c.ContentHash} })
	contents.Key("url", func(c *Content) []string { return []string{c.URL} })
	contents.Key("source", func(c *Content) []string { return []string{c.Source} })
	contents.Key("title", func(c *Content) []string { return []string{c.Title} })
	contents.Key("body", func(c *Content) []string { return []string{c.Body} })
	contents.Index("contentHash")
	contents.Index("url")
	contents.Index("source")
	contents.Order("createdAt", func(a, b *Content) bool { return a.CreatedAt.Before(b.CreatedAt) })
	contents.Order("updatedAt", func(a, b *Content) bool { return a.UpdatedAt.Before(b.UpdatedAt) })
	contents.Order("title", func(a, b *Content) bool { return a.Title < b.Title })

	analyses := NewTable[*Analysis](TableAnalyses, s.now)
	analyses.Key("contentId", func(a *Analysis) []string { return []string{a.ContentID} })
	analyses.Key("tags", func(a *Analysis) []string { return a.Tags })
	analyses.Index("contentId")
	analyses.Order("createdAt", func(a, b *Analysis) bool { return a.CreatedAt.Before(b.CreatedAt) })

	concepts := NewTable[*Concept](TableConcepts, s.now)
	concepts.Key("name", func(c *Concept) []string { return []string{c.Name} })
	concepts.Key("nameFold", func(c *Concept) []string { return []string{FoldName(c.Name)} })
	concepts.Key("type", func(c *Concept) []string { return []string{string(c.Type)} })
	concepts.Key("description", func(c *Concept) []string { return []string{c.Description} })
	concepts.Index("nameFold")
	concepts.Index("type")
	concepts.Order("frequency", func(a, b *Concept) bool { return a.Frequency < b.Frequency })
	concepts.Order("name", func(a, b *Concept) bool { return a.Name < b.Name })
	concepts.Order("createdAt", func(a, b *Concept) bool { return a.CreatedAt.Before(b.CreatedAt) })

	rels := NewTable[*Relationship](TableRelationships, s.now)
	rels.Key("fromConceptId", func(r *Relationship) []string { return []string{r.FromConceptID} })
	rels.Key("toConceptId", func(r *Relationship) []string { return []string{r.ToConceptID} })
	rels.Key("contentId", func(r *Relationship) []string { return []string{r.ContentID} })
	rels.Key("triple", func(r *Relationship) []string { return []string{r.TripleKey()} })
	rels.Index("fromConceptId")
	rels.Index("toConceptId")
	rels.Index("contentId")
	rels.Index("triple")
	rels.Order("createdAt", func(a, b *Relationship) bool { return a.CreatedAt.Before(b.CreatedAt) })

	links := NewTable[*ConceptContent](TableLinks, s.now)
	links.Key("conceptId", func(l *ConceptContent) []string { return []string{l.ConceptID} })
	links.Key("contentId", func(l *ConceptContent) []string { return []string{l.ContentID} })
	links.Key("pair", func(l *ConceptContent) []string { return []string{l.PairKey()} })
	links.Index("conceptId")
	links.Index("contentId")
	links.Index("pair")

	contents.OnMutate(s.autosave)
	analyses.OnMutate(s.autosave)
	concepts.OnMutate(s.autosave)
	rels.OnMutate(s.autosave)
	links.OnMutate(s.autosave)

	s.Contents = contents
	s.Analyses = analyses
	s.Concepts = concepts
	s.Relationships = rels
	s.Links = links
}

// SetAutosave installs the sink that receives the serialized snapshot after
// every mutation. A nil sink disables autosave.
func (s *Store) SetAutosave(sink func(data []byte)) {
	s.save = sink
}

// autosave serializes the whole store and hands it to the sink. Failures
// degrade durability only: they are logged, never surfaced to the mutation.
func (s *Store) autosave() {
	if s.save == nil || s.muted {
		return
	}
	data, err := s.Snapshot()
	if err != nil {
		s.log.Error("snapshot serialization failed", "error", err)
		return
	}
	s.save(data)
}

// Counts reports the row count per table, keyed by table name.
func (s *Store) Counts() map[string]int {
	return map[string]int{
		TableContents:      s.Contents.Len(),
		TableAnalyses:      s.Analyses.Len(),
		TableConcepts:      s.Concepts.Len(),
		TableRelationships: s.Relationships.Len(),
		TableLinks:         s.Links.Len(),
	}
}
