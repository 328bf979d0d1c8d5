package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formResponse = `{
	"uiResources": {
		"root": {"type": "view", "children": [
			{"type": "reference", "config": {"type": "view", "name": "VerifyIncome"}}
		]},
		"resources": {
			"views": {
				"VerifyIncome": [
					{"type": "TextInput", "config": {"value": ".AnnualIncome", "label": "Annual Income"}}
				]
			},
			"fields": {
				"AnnualIncome": [{"type": "Currency", "label": "Annual Income"}]
			}
		},
		"navigation": {
			"steps": [
				{"ID": "S1", "name": "Income", "visited_status": "current"},
				{"ID": "S2", "name": "Review", "visited_status": "future"}
			]
		},
		"actionButtons": {"main": [{"name": "Submit", "jsAction": "finishAssignment"}]}
	},
	"data": {
		"caseInfo": {
			"ID": "CASE-100",
			"name": "Loan Request",
			"status": "Open",
			"content": {"AnnualIncome": "85000"},
			"assignments": [
				{"ID": "ASSIGN-1", "name": "Verify Income", "actions": [
					{"ID": "Verify", "name": "Verify", "links": {"submit": {"href": "/assignments/ASSIGN-1/actions/Verify"}}}
				]}
			]
		}
	}
}`

func TestEnvelope_UnmarshalKeepsRaw(t *testing.T) {
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(formResponse), &env))

	require.NotNil(t, env.UIResources)
	require.NotNil(t, env.UIResources.Root)
	assert.Len(t, env.UIResources.Resources.Views["VerifyIncome"], 1)
	require.NotNil(t, env.UIResources.Navigation)
	assert.Len(t, env.UIResources.Navigation.Steps, 2)

	// Raw carries the full response for the legacy-shape fallback.
	require.NotNil(t, env.Raw)
	assert.Contains(t, env.Raw, "uiResources")
	assert.Contains(t, env.Raw, "data")
}

func TestEnvelope_CatalogueAssembly(t *testing.T) {
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(formResponse), &env))

	cat := env.Catalogue()
	require.NotNil(t, cat.Root)
	assert.Contains(t, cat.Views, "VerifyIncome")
	assert.Contains(t, cat.Fields, "AnnualIncome")
	assert.Equal(t, "85000", cat.Content["AnnualIncome"])
}

func TestEnvelope_NextAssignment(t *testing.T) {
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(formResponse), &env))

	next := env.NextAssignment()
	require.NotNil(t, next)
	assert.Equal(t, "ASSIGN-1", next.ID)
	require.Len(t, next.Actions, 1)
	assert.Equal(t, "/assignments/ASSIGN-1/actions/Verify", next.Actions[0].Links.Href("submit"))

	var empty Envelope
	require.NoError(t, json.Unmarshal([]byte(`{"data": {"caseInfo": {"ID": "CASE-1"}}}`), &empty))
	assert.Nil(t, empty.NextAssignment())
}
