package id

import "github.com/google/uuid"

// Generator creates opaque identifiers for refresh cycles and notifications.
type Generator interface {
	New() string
}

type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}
