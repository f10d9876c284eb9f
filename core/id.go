package core

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewID generates a new random UUID for a database entity.
func NewID() uuid.UUID {
	return uuid.New()
}

// ParseID parses s into a UUID. Unlike uuid.MustParse it never panics:
// malformed input is a typed parse error the caller has to handle.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

// NewMessageID generates a fallback message ID for inbound emails that
// arrive without one. ULIDs sort by arrival time, which keeps the
// dedupe index cheap to scan.
func NewMessageID() string {
	return fmt.Sprintf("generated-%s", ulid.Make().String())
}
