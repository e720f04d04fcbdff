package engine

import (
	"context"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sqltrace/sqltrace/internal/model"
	"github.com/sqltrace/sqltrace/internal/parser"
)

// Postgres runs queries against a PostgreSQL backend through a pgx pool.
type Postgres struct {
	pool   *pgxpool.Pool
	logger log.Logger
}

// NewPostgres opens a connection pool against connString.
func NewPostgres(ctx context.Context, connString string, logger log.Logger) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, &ConfigError{Msg: fmt.Sprintf("parse postgres connection string: %v", err)}
	}
	cfg.MaxConns = 5
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, &ConnectionError{Engine: PostgreSQL, Err: err}
	}
	return &Postgres{pool: pool, logger: logger}, nil
}

func (p *Postgres) EngineType() EngineType { return PostgreSQL }

func (p *Postgres) TestConnection(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return &ConnectionError{Engine: PostgreSQL, Err: err}
	}
	return nil
}

// ExplainQuery executes the query under EXPLAIN ANALYZE and parses the JSON
// plan output. The query is actually run against the database.
func (p *Postgres) ExplainQuery(ctx context.Context, query string) (*model.ExecutionPlan, error) {
	sql := "EXPLAIN (ANALYZE, BUFFERS, FORMAT JSON) " + query
	var payload []byte
	if err := p.pool.QueryRow(ctx, sql).Scan(&payload); err != nil {
		return nil, &QueryError{Engine: PostgreSQL, Err: err}
	}
	plan, err := parser.ParseBytes(payload)
	if err != nil {
		return nil, err
	}
	level.Debug(p.logger).Log(
		"msg", "explain executed",
		"execution_time_ms", plan.ExecutionTime,
		"nodes", plan.Root.NodeCount(),
	)
	return plan, nil
}

// ValidateQuery plans the query without executing it. A plain EXPLAIN
// catches syntax errors and missing relations.
func (p *Postgres) ValidateQuery(ctx context.Context, query string) error {
	var line string
	if err := p.pool.QueryRow(ctx, "EXPLAIN "+query).Scan(&line); err != nil {
		return &QueryError{Engine: PostgreSQL, Err: err}
	}
	return nil
}

func (p *Postgres) VersionInfo(ctx context.Context) (*DatabaseInfo, error) {
	var version string
	if err := p.pool.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return nil, &ConnectionError{Engine: PostgreSQL, Err: err}
	}
	return &DatabaseInfo{
		EngineType:       PostgreSQL,
		Version:          version,
		ConnectionStatus: "Connected",
		Features:         supportedFeatures(p),
	}, nil
}

func (p *Postgres) SampleQueries() []SampleQuery { return postgresSamples }

func (p *Postgres) SupportsFeature(Feature) bool { return true }

func (p *Postgres) Close() { p.pool.Close() }

func supportedFeatures(e Engine) []Feature {
	var out []Feature
	for _, f := range AllFeatures {
		if e.SupportsFeature(f) {
			out = append(out, f)
		}
	}
	return out
}
