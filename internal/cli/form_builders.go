package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"casedesk/internal/domain"
	"casedesk/internal/form"
)

// newFormValues allocates the flat value map backing a dynamic form, seeded
// with each field's current value. Only editable fields get an entry.
func newFormValues(fields []domain.FieldDefinition) map[string]*string {
	values := make(map[string]*string)
	for _, f := range fields {
		if !f.Editable() {
			continue
		}
		v := f.Value
		values[form.ValueKey(f)] = &v
	}
	return values
}

// collectFormValues flattens the pointer map into the plain map the content
// builder consumes.
func collectFormValues(values map[string]*string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}

// buildAssignmentForm turns resolved field definitions into a huh form,
// one group per distinct group name in first-seen order. Read-only fields
// render as notes so their values stay visible without being editable.
func buildAssignmentForm(fields []domain.FieldDefinition, values map[string]*string) *huh.Form {
	var (
		order  []string
		byName = make(map[string][]huh.Field)
	)
	for _, f := range fields {
		name := f.GroupName
		if _, ok := byName[name]; !ok {
			order = append(order, name)
		}
		byName[name] = append(byName[name], buildField(f, values))
	}

	groups := make([]*huh.Group, 0, len(order))
	for _, name := range order {
		g := huh.NewGroup(byName[name]...)
		if name != "" {
			g = g.Title(name)
		}
		groups = append(groups, g)
	}
	return huh.NewForm(groups...).WithTheme(casedeskHuhTheme()).WithShowHelp(false)
}

// buildField maps one field definition onto a huh widget by control type.
func buildField(f domain.FieldDefinition, values map[string]*string) huh.Field {
	label := f.Label
	if label == "" {
		label = f.FieldID
	}

	if !f.Editable() {
		display := f.Value
		if display == "" {
			display = "--"
		}
		return huh.NewNote().Title(label).Description(display)
	}

	ptr := values[form.ValueKey(f)]

	switch f.Control {
	case domain.ControlDropdown, domain.ControlRadio, domain.ControlAutoComplete:
		if len(f.Options) > 0 {
			opts := make([]huh.Option[string], 0, len(f.Options))
			for _, o := range f.Options {
				opts = append(opts, huh.NewOption(o.Value, o.Key))
			}
			s := huh.NewSelect[string]().Title(label).Options(opts...).Value(ptr)
			if f.Required {
				s = s.Validate(validateRequiredSelect)
			}
			return s
		}
		// No options resolved: degrade to free text.
		return textInput(f, label, ptr)

	case domain.ControlCheckbox:
		return huh.NewSelect[string]().Title(label).
			Options(huh.NewOption("Yes", "true"), huh.NewOption("No", "false")).
			Value(ptr)

	case domain.ControlTextArea, domain.ControlRichText:
		t := huh.NewText().Title(label).Value(ptr)
		if f.MaxLength > 0 {
			t = t.CharLimit(f.MaxLength)
		}
		return t

	default:
		return textInput(f, label, ptr)
	}
}

func textInput(f domain.FieldDefinition, label string, ptr *string) huh.Field {
	in := huh.NewInput().Title(label).Value(ptr)
	if f.MaxLength > 0 {
		in = in.CharLimit(f.MaxLength)
	}
	if ph := placeholderFor(f.Control); ph != "" {
		in = in.Placeholder(ph)
	}
	in = in.Validate(validatorFor(f))
	return in
}

func placeholderFor(control domain.ControlType) string {
	switch control {
	case domain.ControlDate:
		return "2026-06-30"
	case domain.ControlDateTime:
		return "2026-06-30T12:00:00Z"
	case domain.ControlEmail:
		return "name@example.com"
	case domain.ControlPhone:
		return "+1 555 0100"
	case domain.ControlURL:
		return "https://"
	case domain.ControlCurrency, domain.ControlDecimal:
		return "0.00"
	case domain.ControlInteger:
		return "0"
	}
	return ""
}

// validatorFor combines required-ness with a type check for the control.
func validatorFor(f domain.FieldDefinition) func(string) error {
	required := f.Required
	control := f.Control
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if required {
				return fmt.Errorf("required")
			}
			return nil
		}
		switch control {
		case domain.ControlDate:
			if _, err := time.Parse("2006-01-02", s); err != nil {
				return fmt.Errorf("use YYYY-MM-DD")
			}
		case domain.ControlDateTime:
			if _, err := time.Parse(time.RFC3339, s); err != nil {
				return fmt.Errorf("use RFC3339, e.g. 2026-06-30T12:00:00Z")
			}
		case domain.ControlInteger:
			if _, err := strconv.Atoi(s); err != nil {
				return fmt.Errorf("must be a whole number")
			}
		case domain.ControlDecimal, domain.ControlCurrency:
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				return fmt.Errorf("must be a number")
			}
		case domain.ControlEmail:
			if !strings.Contains(s, "@") {
				return fmt.Errorf("must be an email address")
			}
		}
		return nil
	}
}

func validateRequiredSelect(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}
