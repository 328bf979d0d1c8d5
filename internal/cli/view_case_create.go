package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"casedesk/internal/cli/formatter"
	"casedesk/internal/domain"
)

var errNoCaseTypes = errors.New("no case types available to create")

// caseTypesLoadedMsg carries the creatable case types.
type caseTypesLoadedMsg struct {
	types []domain.CaseType
	err   error
}

// caseCreatedMsg carries the result of case creation.
type caseCreatedMsg struct {
	created domain.Case
	err     error
}

// caseCreateView asks for a case type and starts a new case. When the
// create response names a first assignment the view routes straight into
// its workflow.
type caseCreateView struct {
	state    *SharedState
	form     *huh.Form
	typeID   string
	loading  bool
	creating bool
	err      error
}

func newCaseCreateView(state *SharedState) *caseCreateView {
	return &caseCreateView{state: state, loading: true}
}

func (v *caseCreateView) ID() ViewID    { return ViewCaseCreate }
func (v *caseCreateView) Title() string { return "New Case" }

func (v *caseCreateView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (v *caseCreateView) Init() tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		types, err := app.Client.CaseTypes(context.Background())
		return caseTypesLoadedMsg{types: types, err: err}
	}
}

func (v *caseCreateView) create() tea.Cmd {
	app := v.state.App
	typeID := v.typeID
	return func() tea.Msg {
		created, err := app.Client.CreateCase(context.Background(), typeID, nil)
		return caseCreatedMsg{created: created, err: err}
	}
}

func (v *caseCreateView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case caseTypesLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		if len(msg.types) == 0 {
			v.err = errNoCaseTypes
			return v, nil
		}
		opts := make([]huh.Option[string], 0, len(msg.types))
		for _, t := range msg.types {
			label := t.Name
			if t.Description != "" {
				label += " - " + t.Description
			}
			opts = append(opts, huh.NewOption(label, t.ID))
		}
		v.form = huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().Title("Case Type").Options(opts...).Value(&v.typeID),
			),
		).WithTheme(casedeskHuhTheme()).WithShowHelp(false)
		return v, v.form.Init()

	case caseCreatedMsg:
		v.creating = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		created := msg.created
		v.state.SetActiveCase(created.ID, created.Name)
		if created.NextAssignmentID != "" {
			return v, tea.Batch(
				replaceView(newAssignmentView(v.state, created.NextAssignmentID, nil)),
				refreshViews(),
			)
		}
		return v, tea.Batch(
			replaceView(newCaseDetailView(v.state, created.ID)),
			refreshViews(),
		)

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return v, popView()
		}
	}

	if v.loading || v.creating || v.form == nil {
		return v, nil
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State == huh.StateCompleted {
		v.creating = true
		return v, tea.Batch(cmd, v.create())
	}
	return v, cmd
}

func (v *caseCreateView) View() string {
	var b strings.Builder
	b.WriteString("\n  " + formatter.Header("New Case") + "\n\n")
	switch {
	case v.loading:
		b.WriteString("  " + formatter.Dim("Loading case types..."))
	case v.creating:
		b.WriteString("  " + formatter.Dim("Creating case..."))
	case v.err != nil:
		b.WriteString("  " + formatter.StyleRed.Render("Error: "+v.err.Error()))
	case v.form != nil:
		b.WriteString(v.form.View())
	}
	return b.String()
}
