package core

import "github.com/google/uuid"

// GenerateID returns a new opaque entity identifier.
func GenerateID() string {
	return uuid.NewString()
}
