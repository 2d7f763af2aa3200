// Package ingest provides idempotent document ingestion for cognate: hash
// deduplicated content creation, analysis storage and cascading deletes.
package ingest

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shearline/cognate/pkg/graph"
	"github.com/shearline/cognate/pkg/store"
)

// ErrContentNotFound indicates an analysis was submitted for a content id
// that does not exist. This is a caller precondition violation and is
// surfaced loudly rather than creating a dangling analysis.
var ErrContentNotFound = errors.New("content not found")

// ErrAnalysisExists indicates the content already has its one analysis.
var ErrAnalysisExists = errors.New("analysis already exists for content")

// AnalysisInput is the analysis producer's output for one document.
type AnalysisInput struct {
	Summary    store.Summary    `json:"summary"`
	Entities   []store.Entity   `json:"entities"`
	Relations  []graph.Relation `json:"relationships"`
	Tags       []string         `json:"tags"`
	Priority   store.Priority   `json:"priority"`
	Confidence float64          `json:"confidence"`
}

// Repository ingests documents into the store and hands entity, tag and
// relationship data to the graph builder.
type Repository struct {
	store *store.Store
	graph *graph.Builder
	log   *slog.Logger
}

// NewRepository creates a repository over the store and builder. log may be
// nil.
func NewRepository(s *store.Store, b *graph.Builder, log *slog.Logger) *Repository {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Repository{store: s, graph: b, log: log}
}

// HashBody computes the deterministic dedup hash of a document body:
// SHA-256 over the whitespace-trimmed text, hex encoded.
func HashBody(body string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(body)))
	return fmt.Sprintf("%x", sum)
}

// CreateContent stores a document unless an identical body was ingested
// before. On a hash hit the existing id is returned unchanged with
// created=false; no new row is written and this is not an error. The URL is
// normalized before storage.
func (r *Repository) CreateContent(ctx context.Context, title, url, body, source string) (id string, created bool) {
	hash := HashBody(body)
	if hits := r.store.Contents.ByIndex("contentHash", hash); len(hits) > 0 {
		r.log.Debug("duplicate content skipped", "contentId", hits[0].ID, "source", source)
		return hits[0].ID, false
	}
	content := &store.Content{
		Title:       strings.TrimSpace(title),
		URL:         NormalizeURL(url),
		Body:        body,
		Source:      source,
		ContentHash: hash,
	}
	id = r.store.Contents.Insert(content)
	r.log.Info("content created", "contentId", id, "source", source)
	return id, true
}

// FindByURL resolves a raw URL through normalization and returns the
// content stored at that location, if any. This is the secondary dedup
// signal, independent of the body hash.
func (r *Repository) FindByURL(raw string) (*store.Content, bool) {
	hits := r.store.Contents.ByIndex("url", NormalizeURL(raw))
	if len(hits) == 0 {
		return nil, false
	}
	return hits[0], true
}

// CreateAnalysis stores the analysis for a content, delegating concept
// upserts and relationship creation to the graph builder first. Missing
// content is ErrContentNotFound; a second analysis for the same content is
// ErrAnalysisExists. Confidence is clamped to [0,1] and an unknown priority
// defaults to read.
func (r *Repository) CreateAnalysis(ctx context.Context, contentID string, in AnalysisInput) (*store.Analysis, error) {
	if _, ok := r.store.Contents.Get(contentID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrContentNotFound, contentID)
	}
	if hits := r.store.Analyses.ByIndex("contentId", contentID); len(hits) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrAnalysisExists, contentID)
	}

	conceptIDs := r.graph.IngestDocument(contentID, in.Entities, in.Tags, in.Relations)

	analysis := &store.Analysis{
		ContentID:  contentID,
		Summary:    in.Summary,
		Entities:   in.Entities,
		Tags:       in.Tags,
		ConceptIDs: conceptIDs,
		Priority:   in.Priority,
		Confidence: clamp01(in.Confidence),
	}
	if !analysis.Priority.Valid() {
		analysis.Priority = store.PriorityRead
	}
	r.store.Analyses.Insert(analysis)
	r.log.Info("analysis created", "contentId", contentID, "concepts", len(conceptIDs))
	return analysis, nil
}

// DeleteContent removes a content and cascades to its analysis, the
// relationships it originated and its concept-content links. Concepts stay:
// other documents may still reference them, and frequency decay is an
// explicit maintenance action. Reports whether the content existed.
func (r *Repository) DeleteContent(ctx context.Context, id string) bool {
	if _, ok := r.store.Contents.Get(id); !ok {
		return false
	}
	for _, a := range r.store.Analyses.ByIndex("contentId", id) {
		r.store.Analyses.Delete(a.ID)
	}
	for _, rel := range r.store.Relationships.ByIndex("contentId", id) {
		r.store.Relationships.Delete(rel.ID)
	}
	for _, link := range r.store.Links.ByIndex("contentId", id) {
		r.store.Links.Delete(link.ID)
	}
	r.store.Contents.Delete(id)
	r.log.Info("content deleted", "contentId", id)
	return true
}

// ListContents returns contents newest first with offset-then-limit
// pagination, for list views at the presentation boundary.
func (r *Repository) ListContents(limit, offset int) []*store.Content {
	return r.store.Contents.List(store.Query{
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   limit,
		Offset:  offset,
	})
}

// ListWithAnalyses returns contents newest first, each joined with its
// analysis. Contents without an analysis yet carry Ok=false.
func (r *Repository) ListWithAnalyses(limit, offset int) []store.Joined[*store.Content, *store.Analysis] {
	contents := r.ListContents(limit, offset)
	return store.Join(contents, func(c *store.Content) string { return c.ID }, r.store.Analyses, "contentId")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
