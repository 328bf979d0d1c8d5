package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedesk/internal/domain"
)

func TestNewFormValues_SeedsEditableFields(t *testing.T) {
	fields := []domain.FieldDefinition{
		{FieldID: "Note", Reference: ".Note", Value: "draft"},
		{FieldID: "Status", Reference: ".Status", Value: "Open", ReadOnly: true},
	}

	values := newFormValues(fields)
	require.Len(t, values, 1)
	require.NotNil(t, values[".Note"])
	assert.Equal(t, "draft", *values[".Note"])
	assert.NotContains(t, values, ".Status")
}

func TestCollectFormValues(t *testing.T) {
	a, b := "one", ""
	out := collectFormValues(map[string]*string{".A": &a, ".B": &b, ".C": nil})
	assert.Equal(t, map[string]string{".A": "one", ".B": ""}, out)
}

func TestBuildAssignmentForm_ValuesSurviveRebuild(t *testing.T) {
	fields := []domain.FieldDefinition{
		{FieldID: "Income", Reference: ".Income", GroupName: "Financials"},
		{FieldID: "Note", Reference: ".Note", GroupName: "General"},
	}
	values := newFormValues(fields)
	form1 := buildAssignmentForm(fields, values)
	require.NotNil(t, form1)

	// Simulate typed input, then a rebuild after option resolution.
	*values[".Income"] = "85000"
	form2 := buildAssignmentForm(fields, values)
	require.NotNil(t, form2)
	assert.Equal(t, "85000", *values[".Income"])
}

func TestValidatorFor(t *testing.T) {
	required := validatorFor(domain.FieldDefinition{Required: true})
	assert.Error(t, required(""))
	assert.Error(t, required("   "))
	assert.NoError(t, required("x"))

	optional := validatorFor(domain.FieldDefinition{})
	assert.NoError(t, optional(""))

	date := validatorFor(domain.FieldDefinition{Control: domain.ControlDate})
	assert.NoError(t, date("2026-06-30"))
	assert.Error(t, date("30/06/2026"))

	datetime := validatorFor(domain.FieldDefinition{Control: domain.ControlDateTime})
	assert.NoError(t, datetime("2026-06-30T12:00:00Z"))
	assert.Error(t, datetime("noon"))

	integer := validatorFor(domain.FieldDefinition{Control: domain.ControlInteger})
	assert.NoError(t, integer("42"))
	assert.Error(t, integer("4.2"))

	currency := validatorFor(domain.FieldDefinition{Control: domain.ControlCurrency})
	assert.NoError(t, currency("2500.50"))
	assert.Error(t, currency("lots"))

	email := validatorFor(domain.FieldDefinition{Control: domain.ControlEmail})
	assert.NoError(t, email("pat@acme.example"))
	assert.Error(t, email("pat.acme.example"))
}

func TestValidateRequiredSelect(t *testing.T) {
	assert.Error(t, validateRequiredSelect(""))
	assert.NoError(t, validateRequiredSelect("b1"))
}
