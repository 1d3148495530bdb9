package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	HypothesisID ID
	RunID        ID
)

func (id HypothesisID) String() string { return ID(id).String() }
func (id RunID) String() string        { return ID(id).String() }

// NewRunID creates a run identifier grouping the decisions of one call or batch.
func NewRunID() RunID {
	return RunID(NewID())
}

// ParseHypothesisID parses a string into HypothesisID
func ParseHypothesisID(s string) (HypothesisID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("hypothesis ID cannot be empty")
	}
	return HypothesisID(s), nil
}

// NodeID identifies one node of a probabilistic value graph. Memoized samples
// are keyed by it, so two nodes never share a memo entry.
type NodeID uuid.UUID

// NewNodeID allocates a fresh node identity.
func NewNodeID() NodeID {
	return NodeID(uuid.New())
}

func (id NodeID) String() string { return uuid.UUID(id).String() }
