package cli

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns captured output.
func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestWorklistCmd(t *testing.T) {
	app := newTestApp(t, platformHandler(t), true)

	out, err := execute(t, app, "worklist")
	require.NoError(t, err)
	assert.Contains(t, out, "Assignment")
	assert.Contains(t, out, "Verify Income")
	assert.Contains(t, out, "CASE-1")
}

func TestWorklistCmd_Empty(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]any{"pxResults": []map[string]any{}, "pxResultCount": 0})
	}), true)

	out, err := execute(t, app, "worklist")
	require.NoError(t, err)
	assert.Contains(t, out, "No assignments waiting.")
}

func TestCaseTypesCmd(t *testing.T) {
	app := newTestApp(t, platformHandler(t), true)

	out, err := execute(t, app, "casetypes")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme-Lending-Work-Loan")
	assert.Contains(t, out, "Consumer loan request")
}

func TestCreateCmd(t *testing.T) {
	app := newTestApp(t, platformHandler(t), true)

	out, err := execute(t, app, "create", "Acme-Lending-Work-Loan", "--set", "Amount=2500")
	require.NoError(t, err)
	assert.Contains(t, out, "Created")
	assert.Contains(t, out, "CASE-2")
	assert.Contains(t, out, "Next assignment: A-9")
}

func TestCreateCmd_RejectsBadSetFlag(t *testing.T) {
	app := newTestApp(t, platformHandler(t), true)

	_, err := execute(t, app, "create", "Acme-Lending-Work-Loan", "--set", "Amount")
	require.Error(t, err)
}

func TestLoginCmd(t *testing.T) {
	app := newTestApp(t, platformHandler(t), false)

	out, err := execute(t, app, "login", "-u", "op1@acme", "-p", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Pat Lee (Lending:Managers)")
	assert.True(t, app.Session.Authenticated())
}

func TestLoginCmd_RequiresCredentialFlags(t *testing.T) {
	app := newTestApp(t, platformHandler(t), false)

	_, err := execute(t, app, "login")
	require.Error(t, err)
}

func TestWhoamiCmd(t *testing.T) {
	app := newTestApp(t, platformHandler(t), true)

	out, err := execute(t, app, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Pat Lee")
	assert.Contains(t, out, "op1@acme")
	assert.Contains(t, out, "Lending:Managers")
}

func TestWhoamiCmd_SignedOut(t *testing.T) {
	app := newTestApp(t, platformHandler(t), false)

	out, err := execute(t, app, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in.")
}

func TestLogoutCmd(t *testing.T) {
	app := newTestApp(t, platformHandler(t), true)

	out, err := execute(t, app, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")
	assert.False(t, app.Session.Authenticated())
}

func TestRootCmd_NonInteractiveShowsHelp(t *testing.T) {
	app := newTestApp(t, platformHandler(t), true)
	app.IsInteractive = func() bool { return false }

	out, err := execute(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "Terminal workbench for case management")
}
