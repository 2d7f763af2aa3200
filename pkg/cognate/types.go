package cognate

import (
	"github.com/shearline/cognate/pkg/graph"
	"github.com/shearline/cognate/pkg/ingest"
	"github.com/shearline/cognate/pkg/search"
	"github.com/shearline/cognate/pkg/store"
)

// Type re-exports for caller convenience

// Content is re-exported from the store package.
type Content = store.Content

// Analysis is re-exported from the store package.
type Analysis = store.Analysis

// Concept is re-exported from the store package.
type Concept = store.Concept

// Relationship is re-exported from the store package.
type Relationship = store.Relationship

// Entity is re-exported from the store package.
type Entity = store.Entity

// Summary is re-exported from the store package.
type Summary = store.Summary

// AnalysisInput is re-exported from the ingest package.
type AnalysisInput = ingest.AnalysisInput

// Relation is re-exported from the graph package.
type Relation = graph.Relation

// Graph is re-exported from the search package.
type Graph = search.Graph

// Timeframe is re-exported from the search package.
type Timeframe = search.Timeframe

// TrendingConcept is re-exported from the search package.
type TrendingConcept = search.TrendingConcept

// Timeframe constants re-exported from the search package.
const (
	TimeframeWeekly    = search.TimeframeWeekly
	TimeframeMonthly   = search.TimeframeMonthly
	TimeframeQuarterly = search.TimeframeQuarterly
)

// Priority constants re-exported from the store package.
const (
	PrioritySkim     = store.PrioritySkim
	PriorityRead     = store.PriorityRead
	PriorityDeepDive = store.PriorityDeepDive
)
