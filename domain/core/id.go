package core

import (
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

// ParseID validates s as a UUID and returns it as an ID.
func ParseID(s string) (ID, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return ID(id.String()), true
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// SessionID identifies one browser session.
type SessionID ID

func NewSessionID() SessionID { return SessionID(NewID()) }

func (id SessionID) String() string { return string(id) }
