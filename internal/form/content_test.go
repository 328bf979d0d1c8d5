package form

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"casedesk/internal/domain"
)

func TestBuildContent_NestedPaths(t *testing.T) {
	fields := []domain.FieldDefinition{
		{FieldID: "FirstName", Reference: ".Customer.FirstName"},
		{FieldID: "LastName", Reference: ".Customer.LastName"},
		{FieldID: "Amount", Reference: ".LoanAmount"},
	}
	values := map[string]string{
		".Customer.FirstName": "Pat",
		".Customer.LastName":  "Lee",
		".LoanAmount":         "2500",
	}

	content := BuildContent(fields, values)
	assert.Equal(t, map[string]any{
		"Customer": map[string]any{
			"FirstName": "Pat",
			"LastName":  "Lee",
		},
		"LoanAmount": "2500",
	}, content)
}

func TestBuildContent_SkipsNonEditable(t *testing.T) {
	fields := []domain.FieldDefinition{
		{FieldID: "Status", Reference: ".Status", ReadOnly: true},
		{FieldID: "Owner", Reference: ".Owner", Disabled: true},
		{FieldID: "Note", Reference: ".Note"},
	}
	values := map[string]string{
		".Status": "should not appear",
		".Owner":  "should not appear",
		".Note":   "kept",
	}

	content := BuildContent(fields, values)
	assert.Equal(t, map[string]any{"Note": "kept"}, content)
}

func TestBuildContent_MissingValueWritesEmptyString(t *testing.T) {
	fields := []domain.FieldDefinition{{FieldID: "Note", Reference: ".Note"}}

	content := BuildContent(fields, nil)
	assert.Equal(t, map[string]any{"Note": ""}, content)
}

func TestBuildContent_FieldIDFallback(t *testing.T) {
	fields := []domain.FieldDefinition{{FieldID: "pyLabel"}}

	content := BuildContent(fields, map[string]string{"pyLabel": "Renamed"})
	assert.Equal(t, map[string]any{"pyLabel": "Renamed"}, content)
}

func TestValueKey(t *testing.T) {
	assert.Equal(t, ".A.B", ValueKey(domain.FieldDefinition{FieldID: "B", Reference: ".A.B"}))
	assert.Equal(t, "B", ValueKey(domain.FieldDefinition{FieldID: "B"}))
}
