package id

import "github.com/google/uuid"

// GenerateID creates a unique identifier for interviews and their turns.
func GenerateID() string {
	return uuid.NewString()
}
