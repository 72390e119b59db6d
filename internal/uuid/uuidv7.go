// Package uuid generates and validates the time-ordered identifiers used as
// primary keys for every persisted record.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a new UUIDv7 string. UUIDv7 is time-ordered, so ids sort in
// creation order, which keeps the flat-file store and the SQL store listing
// holdings the same way.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fallback to standard UUIDv4 if the clock/random source fails
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates and canonicalizes a UUID string.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
