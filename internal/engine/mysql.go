package engine

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-kit/log"
	_ "github.com/go-sql-driver/mysql"

	"github.com/sqltrace/sqltrace/internal/model"
)

// MySQLEngine holds a live MySQL connection. Connection handling and
// version reporting are real; plan operations are not implemented yet
// because MySQL's EXPLAIN output needs its own parser.
type MySQLEngine struct {
	db     *sql.DB
	logger log.Logger
}

var mysqlFeatures = map[Feature]bool{
	FeatureDetailedExecutionPlan:  true,
	FeatureCostEstimation:         true,
	FeatureQueryOptimizationHints: true,
	FeaturePartitionedTables:      true,
}

// NewMySQL opens a MySQL connection. The mysql:// scheme prefix is
// accepted and stripped; the remainder must be a go-sql-driver DSN.
func NewMySQL(connString string, logger log.Logger) (*MySQLEngine, error) {
	dsn := strings.TrimPrefix(connString, "mysql://")
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, &ConfigError{Msg: "parse mysql dsn: " + err.Error()}
	}
	db.SetMaxOpenConns(5)
	return &MySQLEngine{db: db, logger: logger}, nil
}

// NewMySQLFromDB wraps an existing handle. Used by tests.
func NewMySQLFromDB(db *sql.DB, logger log.Logger) *MySQLEngine {
	return &MySQLEngine{db: db, logger: logger}
}

func (m *MySQLEngine) EngineType() EngineType { return MySQL }

func (m *MySQLEngine) TestConnection(ctx context.Context) error {
	if err := m.db.PingContext(ctx); err != nil {
		return &ConnectionError{Engine: MySQL, Err: err}
	}
	return nil
}

func (m *MySQLEngine) ExplainQuery(ctx context.Context, query string) (*model.ExecutionPlan, error) {
	return nil, notImplementedf(MySQL, "explain")
}

func (m *MySQLEngine) ValidateQuery(ctx context.Context, query string) error {
	return notImplementedf(MySQL, "validate")
}

func (m *MySQLEngine) VersionInfo(ctx context.Context) (*DatabaseInfo, error) {
	var version string
	if err := m.db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
		return nil, &ConnectionError{Engine: MySQL, Err: err}
	}
	return &DatabaseInfo{
		EngineType:       MySQL,
		Version:          version,
		ConnectionStatus: "Connected",
		Features:         supportedFeatures(m),
	}, nil
}

func (m *MySQLEngine) SampleQueries() []SampleQuery { return mysqlSamples }

func (m *MySQLEngine) SupportsFeature(f Feature) bool { return mysqlFeatures[f] }

func (m *MySQLEngine) Close() { _ = m.db.Close() }
