package diagram

import "github.com/google/uuid"

// NewID generates a unique identifier for elements and connections.
func NewID() string {
	return uuid.NewString()
}
