package query

import (
	"fmt"
	"strings"
)

// InvariantError reports a defect in the engine or in a query body, never bad user input.
type InvariantError struct {
	Op     string
	Detail string
	Stack  []string // active query chain, outermost first
}

func (e *InvariantError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "query invariant violated: %s: %s", e.Op, e.Detail)
	if len(e.Stack) > 0 {
		sb.WriteString(" (active: ")
		sb.WriteString(strings.Join(e.Stack, " -> "))
		sb.WriteString(")")
	}
	return sb.String()
}

func violate(op, detail string, chain *activeLink) {
	panic(&InvariantError{Op: op, Detail: detail, Stack: chain.labels()})
}
