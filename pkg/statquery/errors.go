package statquery

import (
	"errors"
	"fmt"
	"strings"
)

// Evaluation failures. Each kind is a distinct sentinel so callers can decide
// per kind whether to abort or skip a record (errors.Is).
var (
	// ErrFieldNotFound is reported when a dump has no field with the
	// requested name and no default was configured.
	ErrFieldNotFound = errors.New("field not found")

	// ErrDivisionByZero is reported by Div nodes and by harmonic means fed
	// a zero value.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNegativeRoot is reported by geometric means when the running
	// product turns negative.
	ErrNegativeRoot = errors.New("root of negative value")

	// ErrBadOperand is reported by Box for operands that are neither a
	// Node, a string, nor a number.
	ErrBadOperand = errors.New("operand is not a node, string or number")
)

// BuildError collects everything that went wrong while translating
// expression text into a node tree. It is always produced before any
// evaluation happens.
type BuildError struct {
	Expr     string
	Messages []string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build error in %q: %s", e.Expr, strings.Join(e.Messages, "; "))
}

func newBuildError(expr string, messages ...string) *BuildError {
	return &BuildError{Expr: expr, Messages: messages}
}
