package engine

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-kit/log"
	_ "modernc.org/sqlite"

	"github.com/sqltrace/sqltrace/internal/model"
)

// SQLiteEngine holds a SQLite database file. Like MySQL, plan operations
// are not implemented; EXPLAIN QUERY PLAN output has no JSON form.
type SQLiteEngine struct {
	db     *sql.DB
	logger log.Logger
}

var sqliteFeatures = map[Feature]bool{
	FeatureDetailedExecutionPlan: true,
}

// NewSQLite opens the database file named by connString. A sqlite://
// scheme prefix is accepted and stripped.
func NewSQLite(connString string, logger log.Logger) (*SQLiteEngine, error) {
	path := strings.TrimPrefix(connString, "sqlite://")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &ConfigError{Msg: "open sqlite database: " + err.Error()}
	}
	return &SQLiteEngine{db: db, logger: logger}, nil
}

// NewSQLiteFromDB wraps an existing handle. Used by tests.
func NewSQLiteFromDB(db *sql.DB, logger log.Logger) *SQLiteEngine {
	return &SQLiteEngine{db: db, logger: logger}
}

func (s *SQLiteEngine) EngineType() EngineType { return SQLite }

func (s *SQLiteEngine) TestConnection(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &ConnectionError{Engine: SQLite, Err: err}
	}
	return nil
}

func (s *SQLiteEngine) ExplainQuery(ctx context.Context, query string) (*model.ExecutionPlan, error) {
	return nil, notImplementedf(SQLite, "explain")
}

func (s *SQLiteEngine) ValidateQuery(ctx context.Context, query string) error {
	return notImplementedf(SQLite, "validate")
}

func (s *SQLiteEngine) VersionInfo(ctx context.Context) (*DatabaseInfo, error) {
	var version string
	if err := s.db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		return nil, &ConnectionError{Engine: SQLite, Err: err}
	}
	return &DatabaseInfo{
		EngineType:       SQLite,
		Version:          "SQLite " + version,
		ConnectionStatus: "Connected",
		Features:         supportedFeatures(s),
	}, nil
}

func (s *SQLiteEngine) SampleQueries() []SampleQuery { return sqliteSamples }

func (s *SQLiteEngine) SupportsFeature(f Feature) bool { return sqliteFeatures[f] }

func (s *SQLiteEngine) Close() { _ = s.db.Close() }
