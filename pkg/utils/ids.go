package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID returns a new UUID string. Used for job, route, and stop ids.
func GenerateID() string {
	return uuid.New().String()
}

// ShortID compacts an id to its first 8 hex characters.
// Route codes embed job ids this way to stay dispatcher-readable.
//
// Example:
//   - Input: "0193b2ea-6a3f-4c21-9d5d-8f2a1b3c4d5e"
//   - Output: "0193b2ea"
func ShortID(id string) string {
	compact := strings.ReplaceAll(id, "-", "")
	if len(compact) <= 8 {
		return compact
	}
	return compact[:8]
}
