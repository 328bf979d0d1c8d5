package domain

// ControlType identifies the input widget a field should render as.
type ControlType string

const (
	ControlText         ControlType = "text"
	ControlTextArea     ControlType = "textarea"
	ControlDropdown     ControlType = "dropdown"
	ControlCheckbox     ControlType = "checkbox"
	ControlRadio        ControlType = "radio"
	ControlDate         ControlType = "date"
	ControlDateTime     ControlType = "datetime"
	ControlInteger      ControlType = "integer"
	ControlDecimal      ControlType = "decimal"
	ControlCurrency     ControlType = "currency"
	ControlEmail        ControlType = "email"
	ControlPhone        ControlType = "phone"
	ControlURL          ControlType = "url"
	ControlAutoComplete ControlType = "autocomplete"
	ControlRichText     ControlType = "richtext"
)

// FieldOption is one selectable choice for a dropdown/radio field.
type FieldOption struct {
	Key   string
	Value string
}

// DataSourceRef identifies a named data page supplying options for a field,
// and which record properties provide the option key and label.
type DataSourceRef struct {
	Name      string
	KeyField  string
	TextField string
}

// FieldDefinition is one renderable form field produced by resolving a
// server-supplied view tree. Reference (or FieldID when Reference is empty)
// is unique within a single resolution pass.
type FieldDefinition struct {
	FieldID    string
	Label      string
	Value      string
	Type       string
	Required   bool
	ReadOnly   bool
	Disabled   bool
	Reference  string // dotted property path, e.g. ".Customer.FirstName"
	MaxLength  int
	Control    ControlType
	Options    []FieldOption
	DataSource *DataSourceRef
	GroupName  string
}

// Editable reports whether the field's value should be included in a
// submission payload.
func (f FieldDefinition) Editable() bool {
	return !f.ReadOnly && !f.Disabled
}

// PathSegments splits the field's reference path on '.', ignoring a leading
// separator. Falls back to FieldID when no reference is set.
func (f FieldDefinition) PathSegments() []string {
	ref := f.Reference
	if ref == "" {
		ref = f.FieldID
	}
	return splitPath(ref)
}
