package tree

import (
	"errors"
	"fmt"
	"strings"
)

// Reasons a load can be rejected
const (
	ReasonUnresolvedParent = "unresolved parent"
	ReasonCycle            = "cycle"
	ReasonDuplicateID      = "duplicate id"
	ReasonMissingID        = "missing id"
)

// MalformedInputError rejects a whole load attempt. The store keeps its
// previous forest when a load fails with this error.
type MalformedInputError struct {
	Reason string
	ID     string   // offending node
	Ref    string   // unresolved parent reference, if any
	Cycle  []string // members of the detected cycle, if any
}

func (e *MalformedInputError) Error() string {
	switch e.Reason {
	case ReasonUnresolvedParent:
		return fmt.Sprintf("malformed input: %s %q referenced by %q", e.Reason, e.Ref, e.ID)
	case ReasonCycle:
		return fmt.Sprintf("malformed input: %s through %q [%s]", e.Reason, e.ID, strings.Join(e.Cycle, " -> "))
	default:
		return fmt.Sprintf("malformed input: %s %q", e.Reason, e.ID)
	}
}

// IsMalformed reports whether err is or wraps a MalformedInputError
func IsMalformed(err error) bool {
	var m *MalformedInputError
	return errors.As(err, &m)
}
