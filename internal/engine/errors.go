package engine

import (
	"errors"
	"fmt"
)

// ErrNotImplemented marks an operation a stub engine cannot perform yet.
var ErrNotImplemented = errors.New("not implemented")

// ConnectionError wraps a failure to reach or authenticate against a backend.
type ConnectionError struct {
	Engine EngineType
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s connection: %v", e.Engine, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError wraps a failure executing a query against a live backend.
type QueryError struct {
	Engine EngineType
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s query: %v", e.Engine, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// ConfigError reports a connection string that no engine accepts.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

func notImplementedf(engine EngineType, op string) error {
	return fmt.Errorf("%s %s: %w", engine, op, ErrNotImplemented)
}
