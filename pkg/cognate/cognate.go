// Package cognate wires the indexed store, ingestion repositories and
// graph query engine into one handle. The engine is constructed once at
// process start and passed by reference; there is no package-level store.
package cognate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shearline/cognate/pkg/graph"
	"github.com/shearline/cognate/pkg/ingest"
	"github.com/shearline/cognate/pkg/metrics"
	"github.com/shearline/cognate/pkg/persist"
	"github.com/shearline/cognate/pkg/search"
	"github.com/shearline/cognate/pkg/store"
)

// DefaultBlobKey is the key the whole store is persisted under when the
// config does not name one.
const DefaultBlobKey = "cognate"

// Config holds configuration for the engine.
type Config struct {
	// Path is the directory for the default file-backed blob store.
	// Ignored when Blob is set. Empty Path with no Blob runs in-memory.
	Path string

	// Blob overrides the durable location for snapshots.
	Blob persist.BlobStore

	// Key addresses this logical store inside the blob location.
	Key string

	// Logger for structured logging (default: slog.Default()).
	Logger *slog.Logger

	// Metrics collector (default: no-op).
	Metrics metrics.Collector

	// Clock is injectable for tests (default: time.Now).
	Clock func() time.Time
}

// Engine is the main entry point. All operations are safe for concurrent
// use: the core is single-writer by design, so one coarse lock serializes
// whole operations.
type Engine struct {
	mu sync.RWMutex

	store   *store.Store
	builder *graph.Builder
	repo    *ingest.Repository
	query   *search.Engine
	blob    persist.BlobStore
	key     string
	log     *slog.Logger
	metrics metrics.Collector
	clock   func() time.Time
}

// New creates an engine, loading a prior snapshot from the durable
// location if one exists. A missing or corrupt blob never fails startup:
// the engine starts empty and the corruption is logged.
func New(cfg Config) (*Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoopCollector()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Key == "" {
		cfg.Key = DefaultBlobKey
	}

	blob := cfg.Blob
	if blob == nil {
		if cfg.Path == "" {
			blob = persist.NewMemStore()
		} else {
			fs, err := persist.NewFileStore(cfg.Path)
			if err != nil {
				return nil, err
			}
			blob = fs
		}
	}

	st := store.New(cfg.Logger, cfg.Clock)
	e := &Engine{
		store:   st,
		blob:    blob,
		key:     cfg.Key,
		log:     cfg.Logger,
		metrics: cfg.Metrics,
		clock:   cfg.Clock,
	}
	e.builder = graph.NewBuilder(st)
	e.repo = ingest.NewRepository(st, e.builder, cfg.Logger)
	e.query = search.NewEngine(st, cfg.Clock)

	e.loadSnapshot()
	st.SetAutosave(e.persistSnapshot)

	return e, nil
}

// loadSnapshot pulls the prior blob into the store. Absence and corruption
// both degrade to an empty store.
func (e *Engine) loadSnapshot() {
	ctx := context.Background()
	data, err := e.blob.Get(ctx, e.key)
	if err != nil {
		e.log.Warn("snapshot load failed, starting empty", "key", e.key, "error", err)
		return
	}
	if data == nil {
		return
	}
	if err := e.store.Restore(data); err != nil {
		e.log.Error("snapshot corrupt, starting empty", "key", e.key, "error", err)
	}
}

// persistSnapshot is the store's autosave sink: every mutation hands the
// serialized store here. Failure degrades durability only; the in-memory
// mutation has already succeeded.
func (e *Engine) persistSnapshot(data []byte) {
	ctx := context.Background()
	start := e.clock()
	err := e.blob.Set(ctx, e.key, data)
	elapsed := e.clock().Sub(start).Milliseconds()
	if err != nil {
		e.log.Error("snapshot persistence failed", "key", e.key, "error", err)
		e.metrics.RecordPersist(ctx, "error", elapsed)
		e.metrics.RecordError(ctx, "persist", ErrTypePersistence)
		return
	}
	e.metrics.RecordPersist(ctx, "ok", elapsed)
	for table, count := range e.store.Counts() {
		e.metrics.SetTableRows(ctx, table, int64(count))
	}
}

// finish records one operation's metrics.
func (e *Engine) finish(ctx context.Context, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		e.metrics.RecordError(ctx, op, ClassifyError(err))
	}
	e.metrics.RecordOperation(ctx, op, status, e.clock().Sub(start).Milliseconds())
}

// CreateContent ingests a document, deduplicating by body hash. On a
// duplicate the existing content id is returned with created=false.
func (e *Engine) CreateContent(ctx context.Context, title, url, body, source string) (id string, created bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.finish(ctx, "create_content", e.clock(), nil)
	return e.repo.CreateContent(ctx, title, url, body, source)
}

// CreateAnalysis stores the analysis for a content and updates the concept
// graph. Missing content is a precondition violation, not a silent no-op.
func (e *Engine) CreateAnalysis(ctx context.Context, contentID string, in ingest.AnalysisInput) (*store.Analysis, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := e.clock()
	analysis, err := e.repo.CreateAnalysis(ctx, contentID, in)
	e.finish(ctx, "create_analysis", start, err)
	return analysis, err
}

// Document is one analysis-producer result: the raw document plus its
// analysis, ingestable in one call.
type Document struct {
	Title    string              `json:"title"`
	URL      string              `json:"url"`
	Body     string              `json:"body"`
	Source   string              `json:"source"`
	Analysis ingest.AnalysisInput `json:"analysis"`
}

// Ingest creates the content and, when the content is new, its analysis.
// Re-ingesting a known body returns the existing id without error or a
// second analysis (the dedup contract).
func (e *Engine) Ingest(ctx context.Context, doc Document) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := e.clock()
	id, created := e.repo.CreateContent(ctx, doc.Title, doc.URL, doc.Body, doc.Source)
	if !created {
		e.finish(ctx, "ingest", start, nil)
		return id, nil
	}
	_, err := e.repo.CreateAnalysis(ctx, id, doc.Analysis)
	e.finish(ctx, "ingest", start, err)
	return id, err
}

// DeleteContent removes a content and cascades to its analysis, its
// relationships and its concept-content links. Reports whether the content
// existed.
func (e *Engine) DeleteContent(ctx context.Context, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.finish(ctx, "delete_content", e.clock(), nil)
	return e.repo.DeleteContent(ctx, id)
}

// FindByURL resolves a raw URL through normalization to the content stored
// at that location.
func (e *Engine) FindByURL(raw string) (*store.Content, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.repo.FindByURL(raw)
}

// ListContents returns contents newest first with offset-then-limit
// pagination.
func (e *Engine) ListContents(limit, offset int) []*store.Content {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.repo.ListContents(limit, offset)
}

// ListWithAnalyses returns contents newest first joined with their
// analyses.
func (e *Engine) ListWithAnalyses(limit, offset int) []store.Joined[*store.Content, *store.Analysis] {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.repo.ListWithAnalyses(limit, offset)
}

// ConceptGraph builds the abstraction-filtered graph view for display.
func (e *Engine) ConceptGraph(ctx context.Context, level int, query string) search.Graph {
	e.mu.RLock()
	defer e.mu.RUnlock()
	defer e.finish(ctx, "concept_graph", e.clock(), nil)
	return e.query.ConceptGraph(level, query)
}

// TrendingConcepts returns the top concepts by mention-rate growth within
// the timeframe window.
func (e *Engine) TrendingConcepts(ctx context.Context, tf search.Timeframe, topN int) []search.TrendingConcept {
	e.mu.RLock()
	defer e.mu.RUnlock()
	defer e.finish(ctx, "trending", e.clock(), nil)
	return e.query.TrendingConcepts(tf, topN)
}

// Backup serializes the whole store in the snapshot format for export.
func (e *Engine) Backup(ctx context.Context) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	start := e.clock()
	data, err := e.store.Snapshot()
	e.finish(ctx, "backup", start, err)
	return data, err
}

// Restore replaces all tables from a snapshot blob and writes it through
// to the durable location. A corrupt blob fails atomically: the prior
// in-memory state is untouched.
func (e *Engine) Restore(ctx context.Context, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := e.clock()
	err := e.store.Restore(data)
	e.finish(ctx, "restore", start, err)
	return err
}

// Counts reports the row count per table.
func (e *Engine) Counts() map[string]int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Counts()
}

// Close releases the durable location.
func (e *Engine) Close() error {
	return e.blob.Close()
}
