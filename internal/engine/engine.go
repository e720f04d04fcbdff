// Package engine abstracts the database backends that produce execution
// plans. PostgreSQL is fully implemented; MySQL and SQLite expose real
// connection handling but fail fast on plan operations.
package engine

import (
	"context"

	"github.com/sqltrace/sqltrace/internal/model"
)

// EngineType identifies a supported database engine.
type EngineType string

const (
	PostgreSQL EngineType = "PostgreSQL"
	MySQL      EngineType = "MySQL"
	SQLite     EngineType = "SQLite"
)

// Feature enumerates capabilities that differ between engines.
type Feature string

const (
	FeatureDetailedExecutionPlan  Feature = "DetailedExecutionPlan"
	FeatureActualRowCounts        Feature = "ActualRowCounts"
	FeatureCostEstimation         Feature = "CostEstimation"
	FeatureIndexSuggestions       Feature = "IndexSuggestions"
	FeatureQueryOptimizationHints Feature = "QueryOptimizationHints"
	FeatureParallelExecution      Feature = "ParallelExecution"
	FeaturePartitionedTables      Feature = "PartitionedTables"
)

// AllFeatures lists every known capability.
var AllFeatures = []Feature{
	FeatureDetailedExecutionPlan,
	FeatureActualRowCounts,
	FeatureCostEstimation,
	FeatureIndexSuggestions,
	FeatureQueryOptimizationHints,
	FeatureParallelExecution,
	FeaturePartitionedTables,
}

// DatabaseInfo describes a live connection and its capabilities.
type DatabaseInfo struct {
	EngineType       EngineType `json:"engine_type"`
	Version          string     `json:"version"`
	ConnectionStatus string     `json:"connection_status"`
	Features         []Feature  `json:"features_supported"`
}

// QueryCategory groups sample queries for display.
type QueryCategory string

const (
	CategoryBasicSelect QueryCategory = "BasicSelect"
	CategoryJoin        QueryCategory = "Join"
	CategoryAggregation QueryCategory = "Aggregation"
	CategorySubquery    QueryCategory = "Subquery"
	CategoryCTE         QueryCategory = "CTE"
	CategoryWindow      QueryCategory = "Window"
	CategoryPerformance QueryCategory = "Performance"
)

// SampleQuery is a curated demonstration query for one engine.
type SampleQuery struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Query       string        `json:"query"`
	Category    QueryCategory `json:"category"`
}

// Engine is the capability interface implemented once per database engine.
// Implementations must be safe for concurrent use.
type Engine interface {
	// EngineType reports which engine this is.
	EngineType() EngineType
	// TestConnection verifies the backend is reachable.
	TestConnection(ctx context.Context) error
	// ExplainQuery executes the query under EXPLAIN and returns the parsed
	// execution plan.
	ExplainQuery(ctx context.Context, query string) (*model.ExecutionPlan, error)
	// ValidateQuery checks the query against the backend without running it.
	ValidateQuery(ctx context.Context, query string) error
	// VersionInfo reports the backend version and supported capabilities.
	VersionInfo(ctx context.Context) (*DatabaseInfo, error)
	// SampleQueries returns demonstration queries for this engine.
	SampleQueries() []SampleQuery
	// SupportsFeature reports whether the engine supports a capability.
	SupportsFeature(Feature) bool
	// Close releases the underlying connections.
	Close()
}
