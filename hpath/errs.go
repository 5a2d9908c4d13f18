package hpath

import (
	"errors"
	"fmt"
)

// ErrQueryType marks a query clause applied to a value its operation
// cannot classify, such as an ordering comparison against a mapping.
// Check recovers from it locally by reporting a non-match.
var ErrQueryType = errors.New("query type mismatch")

// SyntaxError reports a malformed path expression. Parsing is total for
// well-formed input; a SyntaxError is fatal for the expression, never
// retried.
type SyntaxError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("path syntax error at offset %d in %q: %s", e.Offset, e.Input, e.Msg)
}

func syntaxErr(input string, offset int, format string, args ...any) error {
	return &SyntaxError{Input: input, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
