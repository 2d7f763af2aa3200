package cognate

import (
	"context"

	"github.com/shearline/cognate/pkg/store"
)

// MaintainOptions selects maintenance sweeps. DryRun reports what would
// change without mutating anything.
type MaintainOptions struct {
	// PruneOrphanEdges removes relationships whose endpoints no longer
	// exist as concepts.
	PruneOrphanEdges bool

	// RecountFrequencies re-derives each concept's frequency from its
	// surviving concept-content links. Deletes never decrement frequency
	// inline; this sweep is the explicit decay mechanism.
	RecountFrequencies bool

	DryRun bool
}

// MaintainResult reports what a maintenance run changed (or, under DryRun,
// would change).
type MaintainResult struct {
	EdgesPruned       int
	ConceptsRecounted int
}

// Maintain runs the selected sweeps over the store.
func (e *Engine) Maintain(ctx context.Context, opts MaintainOptions) (MaintainResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := e.clock()

	var result MaintainResult

	if opts.PruneOrphanEdges {
		for _, rel := range e.store.Relationships.All() {
			_, fromOK := e.store.Concepts.Get(rel.FromConceptID)
			_, toOK := e.store.Concepts.Get(rel.ToConceptID)
			if fromOK && toOK {
				continue
			}
			result.EdgesPruned++
			if !opts.DryRun {
				e.store.Relationships.Delete(rel.ID)
			}
		}
	}

	if opts.RecountFrequencies {
		for _, c := range e.store.Concepts.All() {
			actual := len(e.store.Links.ByIndex("conceptId", c.ID))
			if actual == c.Frequency {
				continue
			}
			result.ConceptsRecounted++
			if !opts.DryRun {
				e.store.Concepts.Update(c.ID, func(cc *store.Concept) {
					cc.Frequency = actual
				})
			}
		}
	}

	e.log.Info("maintenance completed",
		"edgesPruned", result.EdgesPruned,
		"conceptsRecounted", result.ConceptsRecounted,
		"dryRun", opts.DryRun,
	)
	e.finish(ctx, "maintain", start, nil)
	return result, nil
}
