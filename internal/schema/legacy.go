package schema

import (
	"sort"
	"strings"

	"casedesk/internal/domain"
)

// legacyControls maps the older flat-shape control identifiers onto input
// widgets. Unknown identifiers fall back to free text.
var legacyControls = map[string]domain.ControlType{
	"pxTextInput":    domain.ControlText,
	"pxTextArea":     domain.ControlTextArea,
	"pxDropdown":     domain.ControlDropdown,
	"pxCheckbox":     domain.ControlCheckbox,
	"pxRadioButtons": domain.ControlRadio,
	"pxDateTime":     domain.ControlDateTime,
	"pxNumber":       domain.ControlDecimal,
	"pxInteger":      domain.ControlInteger,
	"pxCurrency":     domain.ControlCurrency,
	"pxEmail":        domain.ControlEmail,
	"pxPhone":        domain.ControlPhone,
	"pxURL":          domain.ControlURL,
	"pxAutoComplete": domain.ControlAutoComplete,
}

// resolveLegacy hunts the raw response for nodes carrying a direct field
// identifier. Used when the richer view-catalogue shape is entirely absent.
func resolveLegacy(raw map[string]any) []domain.FieldDefinition {
	var out []domain.FieldDefinition
	seen := make(map[string]bool)
	huntLegacy(raw, seen, &out)
	return out
}

func huntLegacy(v any, seen map[string]bool, out *[]domain.FieldDefinition) {
	switch t := v.(type) {
	case map[string]any:
		if id, ok := t["fieldID"].(string); ok && id != "" {
			if f, ok := legacyField(id, t); ok && !seen[fieldKey(f)] {
				seen[fieldKey(f)] = true
				*out = append(*out, f)
			}
			return
		}
		// Sorted keys keep hunt order deterministic.
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			huntLegacy(t[k], seen, out)
		}
	case []any:
		for _, item := range t {
			huntLegacy(item, seen, out)
		}
	}
}

func fieldKey(f domain.FieldDefinition) string {
	if f.Reference != "" {
		return f.Reference
	}
	return f.FieldID
}

func legacyField(id string, node map[string]any) (domain.FieldDefinition, bool) {
	f := domain.FieldDefinition{
		FieldID:   id,
		Label:     legacyString(node, "label", "name"),
		Value:     legacyString(node, "value"),
		Type:      legacyString(node, "type"),
		Reference: legacyString(node, "reference"),
		Required:  truthy(node["required"]),
		ReadOnly:  truthy(node["readOnly"]),
		Disabled:  truthy(node["disabled"]),
		Control:   legacyControl(node),
		GroupName: DefaultGroup,
	}
	if f.Label == "" {
		f.Label = id
	}
	if opts, ok := node["options"].([]any); ok {
		for _, o := range opts {
			m, ok := o.(map[string]any)
			if !ok {
				continue
			}
			key := stringify(m["key"])
			value := stringify(m["value"])
			if value == "" {
				value = key
			}
			if key != "" {
				f.Options = append(f.Options, domain.FieldOption{Key: key, Value: value})
			}
		}
	}
	return f, true
}

func legacyControl(node map[string]any) domain.ControlType {
	var kind string
	if control, ok := node["control"].(map[string]any); ok {
		kind = stringify(control["type"])
	}
	if kind == "" {
		kind = stringify(node["type"])
	}
	if c, ok := legacyControls[kind]; ok {
		return c
	}
	switch strings.ToLower(kind) {
	case "boolean", "truefalse":
		return domain.ControlCheckbox
	case "date":
		return domain.ControlDate
	}
	return domain.ControlText
}

func legacyString(node map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringify(node[k]); s != "" {
			return s
		}
	}
	return ""
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true") || t == "1"
	case float64:
		return t != 0
	}
	return false
}
