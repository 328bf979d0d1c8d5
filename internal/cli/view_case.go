package cli

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"casedesk/internal/cli/formatter"
	"casedesk/internal/domain"
)

// caseLoadedMsg signals that case detail data has been loaded.
type caseLoadedMsg struct {
	caseID  string
	detail  domain.Case
	history []domain.CaseHistoryEntry
	err     error
}

// caseDetailView shows a case's record and audit trail.
type caseDetailView struct {
	state   *SharedState
	caseID  string
	detail  domain.Case
	history []domain.CaseHistoryEntry
	loading bool
	err     error
}

func newCaseDetailView(state *SharedState, caseID string) *caseDetailView {
	return &caseDetailView{state: state, caseID: caseID, loading: true}
}

func (v *caseDetailView) ID() ViewID { return ViewCaseDetail }

func (v *caseDetailView) Title() string {
	if v.detail.Name != "" {
		return v.detail.Name
	}
	return "Case"
}

func (v *caseDetailView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit label")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *caseDetailView) Init() tea.Cmd {
	return v.load()
}

func (v *caseDetailView) load() tea.Cmd {
	app := v.state.App
	caseID := v.caseID
	return func() tea.Msg {
		ctx := context.Background()
		detail, err := app.Client.GetCase(ctx, caseID)
		if err != nil {
			return caseLoadedMsg{caseID: caseID, err: err}
		}
		// History is best-effort chrome.
		history, _ := app.Client.CaseHistory(ctx, caseID)

		if app.Recent != nil {
			_ = app.Recent.Touch(ctx, domain.RecentCase{
				CaseID:   detail.ID,
				CaseName: detail.Name,
				Status:   detail.Status,
				OpenedAt: time.Now().UTC(),
			})
		}
		return caseLoadedMsg{caseID: caseID, detail: detail, history: history}
	}
}

func (v *caseDetailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case caseLoadedMsg:
		if msg.caseID != v.caseID {
			return v, nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		v.detail = msg.detail
		v.history = msg.history
		v.state.SetActiveCase(v.detail.ID, v.detail.Name)
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			v.loading = true
			return v, v.load()
		case "e":
			if !v.loading && v.err == nil {
				return v, pushView(v.editLabelWizard())
			}
		}
	}
	return v, nil
}

// editLabelWizard renames the case through a conditional save. The write
// carries the stored entity tag, so a concurrent edit surfaces as a
// submission error instead of silently overwriting.
func (v *caseDetailView) editLabelWizard() View {
	label := v.detail.Name
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Case Label").
				Value(&label).
				Validate(validateNotBlank),
		),
	).WithTheme(casedeskHuhTheme()).WithShowHelp(false)

	app := v.state.App
	caseID := v.caseID
	return newWizardView(v.state, "Edit Case", form, func() tea.Cmd {
		return func() tea.Msg {
			detail, err := app.Client.UpdateCase(context.Background(), caseID,
				map[string]any{"pyLabel": label})
			return caseLoadedMsg{caseID: caseID, detail: detail, err: err}
		}
	})
}

func (v *caseDetailView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading case...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}

	var b strings.Builder
	b.WriteString("\n  " + formatter.Bold(v.detail.Name) + "  " + formatter.TruncID(v.detail.ID) + "\n\n")

	pairs := [][2]string{
		{"Status", formatter.StatusPill(v.detail.Status)},
		{"Stage", orDash(v.detail.Stage)},
		{"Urgency", formatter.UrgencyBadge(v.detail.Urgency)},
		{"Owner", orDash(v.detail.Owner)},
		{"Created", formatter.PlatformTime(v.detail.CreateTime) + formatter.Dim(" by ") + orDash(v.detail.CreatedBy)},
		{"Updated", formatter.PlatformTime(v.detail.UpdateTime) + formatter.Dim(" by ") + orDash(v.detail.LastUpdatedBy)},
	}
	b.WriteString(indent(formatter.RenderKV(pairs), "  "))

	if len(v.history) > 0 {
		b.WriteString("\n  " + formatter.Header("History") + "\n")
		rows := make([][]string, 0, len(v.history))
		for _, h := range v.history {
			rows = append(rows, []string{
				formatter.PlatformTime(h.PerformedDateTime),
				h.Performer,
				h.Message,
			})
		}
		b.WriteString(indent(formatter.RenderTable([]string{"When", "Who", "What"}, rows), "  "))
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return formatter.Dim("--")
	}
	return s
}
