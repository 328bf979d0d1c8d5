package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedSchema indicates the server response carried a view schema
// whose shape could not be parsed into the typed tree.
var ErrMalformedSchema = errors.New("malformed view schema")

// ViewNode is one node of the server-supplied UI schema tree: a leaf field
// component, a group/region container, or a view reference.
type ViewNode struct {
	Type     string
	Name     string
	Config   NodeConfig
	Children []ViewNode
}

func (n *ViewNode) UnmarshalJSON(b []byte) error {
	var shadow struct {
		Type     string          `json:"type"`
		Name     string          `json:"name"`
		Config   json.RawMessage `json:"config"`
		Children json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(b, &shadow); err != nil {
		return fmt.Errorf("%w: node: %v", ErrMalformedSchema, err)
	}
	n.Type = shadow.Type
	n.Name = shadow.Name
	if present(shadow.Config) {
		if err := json.Unmarshal(shadow.Config, &n.Config); err != nil {
			return fmt.Errorf("%w: config: %v", ErrMalformedSchema, err)
		}
	}
	if present(shadow.Children) {
		if err := json.Unmarshal(shadow.Children, &n.Children); err != nil {
			return fmt.Errorf("%w: children: %v", ErrMalformedSchema, err)
		}
	}
	return nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// NodeConfig carries the recognized configuration keys of a schema node.
// Unknown keys are ignored.
type NodeConfig struct {
	Type       string          `json:"type"`
	Name       string          `json:"name"`
	Value      string          `json:"value"`
	Label      string          `json:"label"`
	Heading    string          `json:"heading"`
	Title      string          `json:"title"`
	Required   FlexBool        `json:"required"`
	ReadOnly   FlexBool        `json:"readOnly"`
	Disabled   FlexBool        `json:"disabled"`
	DisplayAs  string          `json:"displayAs"`
	DataSource *DataSourceSpec `json:"datasource"`
	Options    []OptionSpec    `json:"options"`
}

// OptionSpec is one inline option record on a selection component.
type OptionSpec struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FlexBool decodes boolean-ish JSON: true/false, "true"/"false", 0/1.
// Anything unrecognized (including platform expressions) decodes to false.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch s {
	case "true":
		*f = true
		return nil
	case "false", "null":
		*f = false
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return fmt.Errorf("%w: flag: %v", ErrMalformedSchema, err)
		}
		v, err := strconv.ParseBool(strings.TrimSpace(str))
		*f = FlexBool(err == nil && v)
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		*f = n != 0
		return nil
	}
	*f = false
	return nil
}

// Bool returns the decoded value.
func (f FlexBool) Bool() bool { return bool(f) }

// DataSourceSpec is a datasource directive on a component or field
// metadata entry. The platform emits either a bare name string or an
// object naming the source and its key/text record properties.
type DataSourceSpec struct {
	Name   string
	Fields struct {
		Key  string
		Text string
	}
}

func (d *DataSourceSpec) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return fmt.Errorf("%w: datasource: %v", ErrMalformedSchema, err)
		}
		d.Name = name
		return nil
	}
	var shadow struct {
		Name   string `json:"name"`
		Fields struct {
			Key  string `json:"key"`
			Text string `json:"text"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(b, &shadow); err != nil {
		return fmt.Errorf("%w: datasource: %v", ErrMalformedSchema, err)
	}
	d.Name = shadow.Name
	d.Fields.Key = shadow.Fields.Key
	d.Fields.Text = shadow.Fields.Text
	return nil
}

// FieldMeta is the out-of-band metadata the platform publishes per property
// name alongside the view tree.
type FieldMeta struct {
	Type              string          `json:"type"`
	Label             string          `json:"label"`
	MaxLength         int             `json:"maxLength"`
	DisplayAs         string          `json:"displayAs"`
	DataRetrievalType string          `json:"dataRetrievalType"`
	DataSource        *DataSourceSpec `json:"datasource"`
}

// Catalogue bundles everything a resolution pass needs: the named-view
// catalogue, the per-property field metadata, the root node, the current
// content object for property-reference expressions, and the raw response
// for the legacy-shape fallback.
type Catalogue struct {
	Views   map[string][]ViewNode
	Fields  map[string][]FieldMeta
	Root    *ViewNode
	Content map[string]any
	Raw     map[string]any
}
