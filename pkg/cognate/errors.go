package cognate

import (
	"errors"
	"strings"

	"github.com/shearline/cognate/pkg/ingest"
	"github.com/shearline/cognate/pkg/store"
)

// Sentinel errors re-exported from the component packages.
var (
	// ErrContentNotFound is a precondition violation: an analysis was
	// submitted for a content id that does not exist.
	ErrContentNotFound = ingest.ErrContentNotFound

	// ErrAnalysisExists guards the one-analysis-per-content invariant.
	ErrAnalysisExists = ingest.ErrAnalysisExists

	// ErrCorruptSnapshot indicates an undecodable restore blob. Restore
	// fails atomically on it.
	ErrCorruptSnapshot = store.ErrCorruptSnapshot
)

// Error type constants for classification in metric labels.
const (
	ErrTypePrecondition = "precondition"
	ErrTypeCorrupt      = "corrupt"
	ErrTypePersistence  = "persistence"
	ErrTypeValidation   = "validation"
	ErrTypeUnknown      = "unknown"
)

// ClassifyError inspects an error and returns its type classification.
// This groups errors by category in metrics; it is intentionally narrower
// than a catch-everything taxonomy so "no data" and "an error occurred"
// stay distinguishable.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrContentNotFound) || errors.Is(err, ErrAnalysisExists) {
		return ErrTypePrecondition
	}
	if errors.Is(err, ErrCorruptSnapshot) {
		return ErrTypeCorrupt
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "blob") ||
		strings.Contains(errStr, "database") ||
		strings.Contains(errStr, "sql") ||
		strings.Contains(errStr, "permission denied") ||
		strings.Contains(errStr, "no space left") {
		return ErrTypePersistence
	}
	if strings.Contains(errStr, "invalid") ||
		strings.Contains(errStr, "required") ||
		strings.Contains(errStr, "cannot be empty") {
		return ErrTypeValidation
	}

	return ErrTypeUnknown
}
