package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New generates a new UUIDv7 string.
//
// Values returned by a single process are strictly increasing: the 12 bits
// after the millisecond timestamp carry a sub-millisecond sequence that the
// generator bumps whenever two calls land on the same clock reading. Sorting
// ids lexically therefore sorts rows by creation order.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Only reachable when the random source fails.
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
