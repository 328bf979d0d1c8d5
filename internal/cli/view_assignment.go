package cli

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"casedesk/internal/api"
	"casedesk/internal/cli/formatter"
	"casedesk/internal/domain"
	"casedesk/internal/workflow"
)

// Assignment view messages. Each carries the machine's generation token so
// results that complete after the user navigated away are dropped.
type assignmentLoadedMsg struct {
	gen string
}

type optionsResolvedMsg struct {
	gen string
}

type submitDoneMsg struct {
	gen     string
	outcome workflow.Outcome
	err     error
}

// assignmentView drives one assignment through its workflow: hydrate,
// render the dynamic form, submit, and follow the flow to wherever it
// routes next.
type assignmentView struct {
	state   *SharedState
	machine *workflow.Machine
	carried *api.Envelope

	form   *huh.Form
	values map[string]*string

	loading    bool
	submitting bool
	submitErr  error
}

// newAssignmentView opens an assignment. carried may hold a response from
// the previous screen (e.g. case creation) to seed hydration.
func newAssignmentView(state *SharedState, assignmentID string, carried *api.Envelope) *assignmentView {
	m := workflow.NewMachine(state.App.Client, state.App.Client)
	v := &assignmentView{
		state:   state,
		machine: m,
		carried: carried,
		loading: true,
	}
	v.state.SetActiveAssignment(assignmentID, "")
	return v
}

func (v *assignmentView) ID() ViewID { return ViewAssignment }

func (v *assignmentView) Title() string {
	if name := v.machine.Page().AssignmentName; name != "" {
		return name
	}
	return "Assignment"
}

func (v *assignmentView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next/submit")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (v *assignmentView) Init() tea.Cmd {
	id := v.state.ActiveAssignmentID
	carried := v.carried
	v.carried = nil
	m := v.machine
	return func() tea.Msg {
		m.Load(context.Background(), id, carried)
		return assignmentLoadedMsg{gen: m.Generation()}
	}
}

func (v *assignmentView) resolveOptions() tea.Cmd {
	m := v.machine
	return func() tea.Msg {
		m.ResolveDataSources(context.Background())
		return optionsResolvedMsg{gen: m.Generation()}
	}
}

func (v *assignmentView) submit() tea.Cmd {
	m := v.machine
	values := collectFormValues(v.values)
	return func() tea.Msg {
		outcome, err := m.Submit(context.Background(), values)
		return submitDoneMsg{gen: m.Generation(), outcome: outcome, err: err}
	}
}

// rebuildForm recreates the huh form from the machine's current fields,
// reusing the value map so typed input survives option resolution.
func (v *assignmentView) rebuildForm(reseed bool) tea.Cmd {
	fields := v.machine.Fields()
	if len(fields) == 0 {
		v.form = nil
		return nil
	}
	if reseed || v.values == nil {
		v.values = newFormValues(fields)
	}
	v.form = buildAssignmentForm(fields, v.values)
	return v.form.Init()
}

func (v *assignmentView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case assignmentLoadedMsg:
		if msg.gen != v.machine.Generation() {
			return v, nil
		}
		v.loading = false
		page := v.machine.Page()
		v.state.SetActiveCase(page.CaseID, page.CaseName)
		v.state.SetActiveAssignment(page.AssignmentID, page.AssignmentName)
		initCmd := v.rebuildForm(true)
		return v, tea.Batch(initCmd, v.resolveOptions())

	case optionsResolvedMsg:
		if msg.gen != v.machine.Generation() || v.submitting {
			return v, nil
		}
		return v, v.rebuildForm(false)

	case submitDoneMsg:
		if msg.gen != v.machine.Generation() {
			return v, nil
		}
		v.submitting = false
		if msg.err != nil {
			// Keep the edited values so the operator can correct and retry.
			v.submitErr = msg.err
			return v, v.rebuildForm(false)
		}
		v.submitErr = nil
		return v, v.handleOutcome(msg.outcome)

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return v, popView()
		}
	}

	if v.loading || v.submitting || v.form == nil {
		return v, nil
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State == huh.StateCompleted {
		v.submitting = true
		return v, tea.Batch(cmd, v.submit())
	}
	return v, cmd
}

func (v *assignmentView) handleOutcome(outcome workflow.Outcome) tea.Cmd {
	page := v.machine.Page()
	switch outcome.Kind {
	case workflow.OutcomeCaseResolved:
		v.touchRecent(outcome.CaseID, page.CaseName, page.Status)
		return tea.Batch(
			replaceView(newCaseDetailView(v.state, outcome.CaseID)),
			refreshViews(),
		)
	default:
		// Same or different assignment: the machine already re-hydrated
		// against the submit response, so just rebuild the form.
		v.state.SetActiveCase(page.CaseID, page.CaseName)
		v.state.SetActiveAssignment(page.AssignmentID, page.AssignmentName)
		return tea.Batch(v.rebuildForm(true), v.resolveOptions())
	}
}

func (v *assignmentView) touchRecent(caseID, caseName, status string) {
	if v.state.App.Recent == nil || caseID == "" {
		return
	}
	_ = v.state.App.Recent.Touch(context.Background(), domain.RecentCase{
		CaseID:   caseID,
		CaseName: caseName,
		Status:   status,
		OpenedAt: time.Now().UTC(),
	})
}

func (v *assignmentView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading assignment...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(v.renderSummary())

	if v.submitting {
		b.WriteString("\n  " + formatter.Dim("Submitting...") + "\n")
		return b.String()
	}
	if v.submitErr != nil {
		b.WriteString("\n  " + formatter.StyleRed.Render("Submit failed: "+v.submitErr.Error()) + "\n")
	}

	if v.form != nil {
		b.WriteString("\n")
		b.WriteString(v.form.View())
	} else {
		b.WriteString("\n  " + formatter.Dim("No form is available for this step; showing current state.") + "\n")
		b.WriteString(v.renderReadOnly())
	}
	return b.String()
}

func (v *assignmentView) renderSummary() string {
	page := v.machine.Page()
	var b strings.Builder

	title := page.AssignmentName
	if title == "" {
		title = page.AssignmentID
	}
	b.WriteString("  " + formatter.Bold(title))
	if page.CaseID != "" {
		b.WriteString("  " + formatter.TruncID(page.CaseID))
	}
	if page.Status != "" {
		b.WriteString("  " + formatter.StatusPill(page.Status))
	}
	if page.Urgency != "" {
		b.WriteString("  " + formatter.UrgencyBadge(page.Urgency))
	}
	b.WriteString("\n")

	if rail := formatter.StageRail(page.Stages); rail != "" {
		b.WriteString("  " + rail + "\n")
	}
	if len(page.Steps) > 0 {
		parts := make([]string, 0, len(page.Steps))
		for _, s := range page.Steps {
			parts = append(parts, formatter.StepIndicator(s, false))
		}
		b.WriteString("  " + strings.Join(parts, formatter.Dim(" → ")) + "\n")
	}
	if page.Instructions != "" {
		b.WriteString("  " + formatter.Dim(page.Instructions) + "\n")
	}
	return b.String()
}

func (v *assignmentView) renderReadOnly() string {
	page := v.machine.Page()
	var pairs [][2]string
	if page.StageLabel != "" {
		pairs = append(pairs, [2]string{"Stage", page.StageLabel})
	}
	if page.Owner != "" {
		pairs = append(pairs, [2]string{"Owner", page.Owner})
	}
	if page.CreateTime != "" {
		pairs = append(pairs, [2]string{"Created", formatter.PlatformTime(page.CreateTime)})
	}
	if page.UpdateTime != "" {
		pairs = append(pairs, [2]string{"Updated", formatter.PlatformTime(page.UpdateTime)})
	}
	for _, a := range page.Actions {
		pairs = append(pairs, [2]string{"Action", a.Name})
	}
	if len(pairs) == 0 {
		return ""
	}
	return "\n" + indent(formatter.RenderKV(pairs), "  ")
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
