package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"casedesk/internal/cli/formatter"
)

// loginDoneMsg reports the result of an authentication attempt.
type loginDoneMsg struct {
	err error
}

// loginView collects credentials and signs the operator in.
type loginView struct {
	state      *SharedState
	form       *huh.Form
	username   string
	password   string
	submitting bool
	err        error
}

func newLoginView(state *SharedState) *loginView {
	v := &loginView{state: state}
	v.form = v.buildForm()
	return v
}

func (v *loginView) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Operator ID").
				Value(&v.username).
				Validate(validateNotBlank),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&v.password).
				Validate(validateNotBlank),
		),
	).WithTheme(casedeskHuhTheme()).WithShowHelp(false)
}

func (v *loginView) ID() ViewID    { return ViewLogin }
func (v *loginView) Title() string { return "Sign In" }

func (v *loginView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sign in")),
		key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (v *loginView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *loginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(loginDoneMsg); ok {
		v.submitting = false
		if done.err != nil {
			v.err = done.err
			v.password = ""
			v.form = v.buildForm()
			return v, v.form.Init()
		}
		return v, replaceView(newWorklistView(v.state))
	}

	if v.submitting {
		return v, nil
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted {
		v.submitting = true
		v.err = nil
		return v, tea.Batch(cmd, v.signIn())
	}
	return v, cmd
}

func (v *loginView) signIn() tea.Cmd {
	app := v.state.App
	username, password := v.username, v.password
	return func() tea.Msg {
		ctx := context.Background()
		tokens, err := app.Client.Login(ctx, username, password)
		if err != nil {
			return loginDoneMsg{err: err}
		}
		app.Session.SetTokens(ctx, tokens)

		// The operator record is display-only; a failed fetch does not
		// block the session.
		if op, err := app.Client.OperatorInfo(ctx); err == nil {
			app.Session.SetOperator(ctx, op)
		}
		return loginDoneMsg{}
	}
}

func (v *loginView) View() string {
	var b strings.Builder
	b.WriteString("\n  " + formatter.Header("Sign In") + "\n\n")
	if v.submitting {
		b.WriteString("  " + formatter.Dim("Signing in...") + "\n")
		return b.String()
	}
	if v.err != nil {
		b.WriteString("  " + formatter.StyleRed.Render("Sign-in failed: "+v.err.Error()) + "\n\n")
	}
	b.WriteString(v.form.View())
	return b.String()
}

func validateNotBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}
