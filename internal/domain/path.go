package domain

import "strings"

// splitPath splits a dotted property path into segments, tolerating a
// leading dot ("." prefix is how the platform writes bound references).
func splitPath(ref string) []string {
	trimmed := strings.TrimPrefix(ref, ".")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, ".")
}
