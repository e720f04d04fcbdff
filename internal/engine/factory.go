package engine

import (
	"context"
	"strings"

	"github.com/go-kit/log"
)

// Detect infers the engine type from a connection string. PostgreSQL and
// MySQL use URL schemes; SQLite accepts a scheme or a bare file path.
func Detect(connString string) (EngineType, error) {
	s := strings.TrimSpace(connString)
	switch {
	case strings.HasPrefix(s, "postgres://"), strings.HasPrefix(s, "postgresql://"):
		return PostgreSQL, nil
	case strings.HasPrefix(s, "mysql://"):
		return MySQL, nil
	case strings.HasPrefix(s, "sqlite://"),
		strings.HasSuffix(s, ".db"),
		strings.HasSuffix(s, ".sqlite"):
		return SQLite, nil
	}
	return "", &ConfigError{Msg: "unrecognized connection string: expected postgres://, mysql://, sqlite://, or a .db/.sqlite path"}
}

// New connects to the backend named by connString and returns the matching
// engine implementation.
func New(ctx context.Context, connString string, logger log.Logger) (Engine, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	typ, err := Detect(connString)
	if err != nil {
		return nil, err
	}
	switch typ {
	case PostgreSQL:
		return NewPostgres(ctx, connString, logger)
	case MySQL:
		return NewMySQL(connString, logger)
	default:
		return NewSQLite(connString, logger)
	}
}
