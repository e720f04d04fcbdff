package parser

import "fmt"

// ParseError reports malformed EXPLAIN JSON. It is always surfaced to the
// caller, never silently recovered.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("explain json: %s: %v", e.Msg, e.Err)
	}
	return "explain json: " + e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErrorf(err error, format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// DatabaseError reports an explicit "error" field embedded in the EXPLAIN
// payload. The document itself was well-formed; the failure happened on the
// database side.
type DatabaseError struct {
	Message string
}

func (e *DatabaseError) Error() string {
	return "database error: " + e.Message
}
