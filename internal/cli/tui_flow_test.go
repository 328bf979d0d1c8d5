package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedesk/internal/teatest"
)

// TestTUI_WorklistToResolution drives the primary workflow end to end:
// worklist → open assignment → fill the action form → submit → resolved
// case detail, all against an httptest platform.
func TestTUI_WorklistToResolution(t *testing.T) {
	app := newTestApp(t, platformHandler(t), true)
	d := teatest.New(t, newAppModel(app), teatest.WithSize(100, 32))
	d.DrainInit()

	// Worklist home screen with the pending assignment.
	out := d.View()
	assert.Contains(t, out, "Verify Income")
	assert.Contains(t, out, "CASE-1")
	assert.Contains(t, out, "Worklist")

	// Open it: the machine hydrates and the action form renders.
	d.PressEnter()
	out = d.View()
	assert.Contains(t, out, "Annual Income")
	assert.Contains(t, out, "Confirm the stated income")

	// Fill the single field and submit.
	d.Type("85000")
	d.PressEnter()

	// The case resolved, landing on its detail screen.
	out = d.View()
	assert.Contains(t, out, "Loan Request")
	assert.Contains(t, out, "Resolved-Completed")
	assert.Contains(t, out, "Case resolved")

	// Resolution recorded the case as recently opened.
	recent, err := app.Recent.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "CASE-1", recent[0].CaseID)
}

func TestTUI_LoginFlow(t *testing.T) {
	app := newTestApp(t, platformHandler(t), false)
	d := teatest.New(t, newAppModel(app), teatest.WithSize(100, 32))
	d.DrainInit()

	out := d.View()
	assert.Contains(t, out, "Sign In")
	assert.Contains(t, out, "Operator ID")

	d.Type("op1@acme")
	d.PressEnter()
	d.Type("s3cret")
	d.PressEnter()

	// The password grant succeeded and the home screen replaced the form.
	assert.True(t, app.Session.Authenticated())
	out = d.View()
	assert.Contains(t, out, "Worklist")
	assert.Contains(t, out, "Verify Income")
	assert.Contains(t, out, "Pat Lee")
}

func TestTUI_EscReturnsToWorklist(t *testing.T) {
	app := newTestApp(t, platformHandler(t), true)
	d := teatest.New(t, newAppModel(app), teatest.WithSize(100, 32))
	d.DrainInit()

	d.PressEnter()
	assert.Contains(t, d.View(), "Annual Income")

	d.PressEsc()
	out := d.View()
	assert.Contains(t, out, "Verify Income")
	assert.NotContains(t, out, "Annual Income")
}

func TestTUI_QuitFromWorklist(t *testing.T) {
	app := newTestApp(t, platformHandler(t), true)
	d := teatest.New(t, newAppModel(app), teatest.WithSize(100, 32))
	d.DrainInit()

	d.PressKey('q')
	assert.True(t, d.Quitting)
}
