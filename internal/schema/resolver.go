package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"casedesk/internal/domain"
)

// DefaultGroup is the section name for fields discovered outside any
// group/region container.
const DefaultGroup = "General"

// wrapperViewName is the catalogue entry that wraps navigation chrome
// rather than form data; the fallback sweep skips it.
const wrapperViewName = "pyCaseInformation"

// defaultOptionKeyField is the record property used as option key when a
// datasource directive does not name one.
const defaultOptionKeyField = "pyGUID"

// componentControls is the fixed vocabulary of leaf field components the
// platform emits, mapped to their input widgets.
var componentControls = map[string]domain.ControlType{
	"TextInput":    domain.ControlText,
	"TextArea":     domain.ControlTextArea,
	"Dropdown":     domain.ControlDropdown,
	"Checkbox":     domain.ControlCheckbox,
	"RadioButtons": domain.ControlRadio,
	"Date":         domain.ControlDate,
	"DateTime":     domain.ControlDateTime,
	"Integer":      domain.ControlInteger,
	"Decimal":      domain.ControlDecimal,
	"Currency":     domain.ControlCurrency,
	"Email":        domain.ControlEmail,
	"Phone":        domain.ControlPhone,
	"URL":          domain.ControlURL,
	"AutoComplete": domain.ControlAutoComplete,
	"RichText":     domain.ControlRichText,
}

var containerTypes = map[string]bool{
	"view":   true,
	"group":  true,
	"region": true,
	"layout": true,
}

// Resolve interprets a response's view schema into an ordered, flat list of
// field definitions. Traversal is depth-first from the root; each field's
// reference path appears at most once per pass. When the root yields no
// fields, every top-level catalogue view is swept once; when the richer
// schema shape is absent entirely, the legacy flat shape is hunted instead.
func Resolve(cat Catalogue) []domain.FieldDefinition {
	if cat.Root == nil && len(cat.Views) == 0 {
		return resolveLegacy(cat.Raw)
	}

	r := &resolver{
		views:   cat.Views,
		fields:  cat.Fields,
		content: cat.Content,
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
	}

	if cat.Root != nil {
		r.walk(*cat.Root, DefaultGroup)
	}

	if len(r.out) == 0 {
		r.sweepCatalogue()
	}

	return r.out
}

type resolver struct {
	views   map[string][]ViewNode
	fields  map[string][]FieldMeta
	content map[string]any
	visited map[string]bool
	seen    map[string]bool
	out     []domain.FieldDefinition
}

func (r *resolver) walk(node ViewNode, group string) {
	if isReference(node) {
		r.walkReference(node, group)
		return
	}
	if _, ok := componentControls[node.Type]; ok {
		r.addField(node, group)
		return
	}
	// Containers override the section name for everything beneath them;
	// unrecognized shapes are traversed transparently.
	next := group
	if containerTypes[strings.ToLower(node.Type)] {
		if name := containerGroupName(node); name != "" {
			next = name
		}
	}
	for _, child := range node.Children {
		r.walk(child, next)
	}
}

func isReference(node ViewNode) bool {
	return strings.EqualFold(node.Type, "reference") &&
		(node.Config.Type == "" || strings.EqualFold(node.Config.Type, "view"))
}

// walkReference resolves a view-reference node against the catalogue. A
// visited set keyed by resolved view name keeps self- and mutually-
// referencing schemas from recursing forever.
func (r *resolver) walkReference(node ViewNode, group string) {
	name := r.resolveViewName(node.Config.Name)
	if name == "" || r.visited[name] {
		return
	}
	defs, ok := r.views[name]
	if !ok {
		return
	}
	r.visited[name] = true
	for _, def := range defs {
		r.walk(def, group)
	}
}

// resolveViewName turns a view-reference name into an actual catalogue key.
// Names carrying a property-reference expression are resolved against the
// current content object.
func (r *resolver) resolveViewName(name string) string {
	name = strings.TrimSpace(name)
	if path := propertyPath(name); path != "" {
		v, ok := contentValue(r.content, path)
		if !ok {
			return ""
		}
		return strings.TrimSpace(stringify(v))
	}
	return name
}

// sweepCatalogue traverses every top-level view once, merging whatever
// fields they produce. Runs only when the root traversal came up empty.
func (r *resolver) sweepCatalogue() {
	names := make([]string, 0, len(r.views))
	for name := range r.views {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if name == wrapperViewName || r.visited[name] {
			continue
		}
		r.visited[name] = true
		for _, def := range r.views[name] {
			r.walk(def, DefaultGroup)
		}
	}
}

func (r *resolver) addField(node ViewNode, group string) {
	path := propertyPath(node.Config.Value)
	if path == "" || r.seen[path] {
		return
	}
	prop := lastSegment(path)
	meta := r.lookupMeta(path, prop)

	f := domain.FieldDefinition{
		FieldID:   prop,
		Label:     fieldLabel(node.Config.Label, meta, prop),
		Reference: path,
		Required:  node.Config.Required.Bool(),
		ReadOnly:  node.Config.ReadOnly.Bool(),
		Disabled:  node.Config.Disabled.Bool(),
		Control:   componentControls[node.Type],
		Type:      node.Type,
		GroupName: group,
	}
	if v, ok := contentValue(r.content, path); ok {
		f.Value = stringify(v)
	}
	if meta != nil {
		if meta.Type != "" {
			f.Type = meta.Type
		}
		f.MaxLength = meta.MaxLength
	}
	for _, opt := range node.Config.Options {
		value := opt.Value
		if value == "" {
			value = opt.Key
		}
		f.Options = append(f.Options, domain.FieldOption{Key: opt.Key, Value: value})
	}
	f.DataSource = dataSourceFor(node.Config, meta)

	r.seen[path] = true
	r.out = append(r.out, f)
}

// lookupMeta finds field metadata by property name, trying the bare
// property first and then the full reference path.
func (r *resolver) lookupMeta(path, prop string) *FieldMeta {
	for _, key := range []string{prop, strings.TrimPrefix(path, ".")} {
		if metas, ok := r.fields[key]; ok && len(metas) > 0 {
			return &metas[0]
		}
	}
	return nil
}

// fieldLabel resolves a display label: literal config label, else the
// metadata label when the config label is a platform reference expression
// or absent, else the property name.
func fieldLabel(label string, meta *FieldMeta, prop string) string {
	label = strings.TrimSpace(label)
	if label != "" && !isRefExpression(label) {
		return label
	}
	if meta != nil && meta.Label != "" {
		return meta.Label
	}
	return prop
}

// dataSourceFor detects a reference data-source need from an inline
// directive or from the metadata's retrieval-type flag.
func dataSourceFor(cfg NodeConfig, meta *FieldMeta) *domain.DataSourceRef {
	if cfg.DataSource != nil && cfg.DataSource.Name != "" {
		return specToRef(cfg.DataSource)
	}
	if meta == nil {
		return nil
	}
	if meta.DataSource != nil && meta.DataSource.Name != "" {
		return specToRef(meta.DataSource)
	}
	if strings.EqualFold(meta.DataRetrievalType, "refer") && meta.DisplayAs != "" {
		return &domain.DataSourceRef{Name: cleanDataSourceName(meta.DisplayAs), KeyField: defaultOptionKeyField}
	}
	return nil
}

func specToRef(spec *DataSourceSpec) *domain.DataSourceRef {
	key := spec.Fields.Key
	if key == "" {
		key = defaultOptionKeyField
	}
	return &domain.DataSourceRef{
		Name:      cleanDataSourceName(spec.Name),
		KeyField:  key,
		TextField: spec.Fields.Text,
	}
}

// cleanDataSourceName strips directive syntax from a datasource name:
// an "@D " alias prefix and a ".pxResults" suffix.
func cleanDataSourceName(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "@") {
		if i := strings.Index(name, " "); i >= 0 {
			name = strings.TrimSpace(name[i+1:])
		}
	}
	return strings.TrimSuffix(name, ".pxResults")
}

// ── expression and content helpers ──────────────────────────────────────────

// propertyPath extracts the dotted property path from a binding expression:
// either a leading-dot path or an "@TAG .path" platform expression.
func propertyPath(expr string) string {
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "@") {
		i := strings.Index(expr, " ")
		if i < 0 {
			return ""
		}
		expr = strings.TrimSpace(expr[i+1:])
	}
	if !strings.HasPrefix(expr, ".") {
		return ""
	}
	return expr
}

func isRefExpression(s string) bool {
	return strings.HasPrefix(s, "@") || strings.HasPrefix(s, ".")
}

func lastSegment(path string) string {
	segs := strings.Split(strings.TrimPrefix(path, "."), ".")
	return segs[len(segs)-1]
}

// contentValue walks a dotted path through the nested content object.
func contentValue(content map[string]any, path string) (any, bool) {
	if content == nil {
		return nil, false
	}
	var cur any = content
	for _, seg := range strings.Split(strings.TrimPrefix(path, "."), ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
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

// containerGroupName picks the section name a container contributes:
// heading, title, or label when present, else its cleaned view name.
func containerGroupName(node ViewNode) string {
	for _, s := range []string{node.Config.Heading, node.Config.Title, node.Config.Label} {
		if s = strings.TrimSpace(s); s != "" && !isRefExpression(s) {
			return s
		}
	}
	name := node.Config.Name
	if name == "" {
		name = node.Name
	}
	return humanizeName(name)
}

// humanizeName turns an internal view name into a readable section title:
// strips the two-letter system prefix and splits camel case.
func humanizeName(name string) string {
	name = strings.TrimSpace(name)
	for _, prefix := range []string{"px", "py", "pz"} {
		if len(name) > 2 && strings.HasPrefix(name, prefix) && unicode.IsUpper(rune(name[2])) {
			name = name[2:]
			break
		}
	}
	var b strings.Builder
	var prev rune
	for i, r := range name {
		if r == '_' {
			b.WriteByte(' ')
			prev = ' '
			continue
		}
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.TrimSpace(b.String())
}
