// Package validator checks query text before it is sent anywhere near a
// database. Parsing locally keeps obvious mistakes, and anything that is
// not a single SELECT, out of EXPLAIN ANALYZE, which really executes the
// statement it is given.
package validator

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v5"
)

// ValidationError reports a query rejected before reaching the database.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "validate query: " + e.Msg }

// ValidateSelect parses the query with the PostgreSQL grammar and accepts
// only a single SELECT statement.
func ValidateSelect(query string) error {
	if strings.TrimSpace(query) == "" {
		return &ValidationError{Msg: "query is empty"}
	}
	result, err := pg_query.Parse(query)
	if err != nil {
		return &ValidationError{Msg: fmt.Sprintf("syntax error: %v", err)}
	}
	if len(result.Stmts) == 0 {
		return &ValidationError{Msg: "query contains no statements"}
	}
	if len(result.Stmts) > 1 {
		return &ValidationError{Msg: "multiple statements are not allowed"}
	}
	if result.Stmts[0].Stmt.GetSelectStmt() == nil {
		return &ValidationError{Msg: "only SELECT statements can be analyzed"}
	}
	return nil
}
