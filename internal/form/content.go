package form

import "casedesk/internal/domain"

// ValueKey returns the key a field's edited value is stored under in the
// flat value map: its reference path, falling back to its field id.
func ValueKey(f domain.FieldDefinition) string {
	if f.Reference != "" {
		return f.Reference
	}
	return f.FieldID
}

// BuildContent converts the flat edited value map into the nested write
// payload. Only editable fields contribute: read-only and disabled fields
// are never echoed back. Each field's reference path is split on '.'
// (leading separator ignored) and intermediate objects are created as
// needed; a missing value writes an empty string.
func BuildContent(fields []domain.FieldDefinition, values map[string]string) map[string]any {
	content := make(map[string]any)
	for _, f := range fields {
		if !f.Editable() {
			continue
		}
		segs := f.PathSegments()
		if len(segs) == 0 {
			continue
		}
		cur := content
		for _, seg := range segs[:len(segs)-1] {
			next, ok := cur[seg].(map[string]any)
			if !ok {
				next = make(map[string]any)
				cur[seg] = next
			}
			cur = next
		}
		cur[segs[len(segs)-1]] = values[ValueKey(f)]
	}
	return content
}
