package pkg

import "github.com/google/uuid"

// GenerateClientID - generates a new unique token for an accepted connection.
func GenerateClientID() string {
	return uuid.NewString()
}
