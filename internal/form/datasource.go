package form

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"casedesk/internal/domain"
)

// DataPageFetcher fetches the records of a named data source.
type DataPageFetcher interface {
	GetDataPage(ctx context.Context, dataPageID string, params map[string]string) ([]map[string]any, error)
}

// DataSourceResolver populates option lists for reference-typed fields.
type DataSourceResolver struct {
	fetcher DataPageFetcher
}

// NewDataSourceResolver creates a resolver backed by the given fetcher.
func NewDataSourceResolver(fetcher DataPageFetcher) *DataSourceResolver {
	return &DataSourceResolver{fetcher: fetcher}
}

// Resolve fills in options for every field that names a datasource and has
// none yet, mutating the field list in place. Fields sharing a datasource
// name share a single fetch. A failed or empty fetch leaves its group's
// fields untouched (they degrade to free-text inputs); other groups
// proceed. Re-invoking on an already-populated list is a no-op.
func (r *DataSourceResolver) Resolve(ctx context.Context, fields []domain.FieldDefinition) {
	groups := make(map[string][]int)
	var order []string
	for i := range fields {
		f := &fields[i]
		if f.DataSource == nil || f.DataSource.Name == "" || len(f.Options) > 0 {
			continue
		}
		name := f.DataSource.Name
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], i)
	}

	for _, name := range order {
		records, err := r.fetcher.GetDataPage(ctx, name, nil)
		if err != nil || len(records) == 0 {
			continue
		}
		for _, i := range groups[name] {
			f := &fields[i]
			textField := f.DataSource.TextField
			if textField == "" {
				textField = inferTextField(records[0])
			}
			opts := buildOptions(records, f.DataSource.KeyField, textField)
			if len(opts) == 0 {
				continue
			}
			f.Options = opts
			f.Control = domain.ControlDropdown
		}
	}
}

// inferTextField picks the display property for option labels: the first
// record property holding a non-empty string whose name does not carry the
// platform's two-letter system prefix.
func inferTextField(record map[string]any) string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if isSystemProperty(k) {
			continue
		}
		if s, ok := record[k].(string); ok && s != "" {
			return k
		}
	}
	return ""
}

func isSystemProperty(name string) bool {
	for _, prefix := range []string{"px", "py", "pz"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func buildOptions(records []map[string]any, keyField, textField string) []domain.FieldOption {
	opts := make([]domain.FieldOption, 0, len(records))
	for _, rec := range records {
		text := stringify(rec[textField])
		key := stringify(rec[keyField])
		if key == "" {
			key = text
		}
		if key == "" {
			continue
		}
		value := text
		if value == "" {
			value = key
		}
		opts = append(opts, domain.FieldOption{Key: key, Value: value})
	}
	return opts
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
