package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"casedesk/internal/cli/formatter"
	"casedesk/internal/domain"
)

// worklistLoadedMsg signals that worklist data has been loaded.
type worklistLoadedMsg struct {
	items  []domain.Assignment
	recent []domain.RecentCase
	err    error
}

// worklistView is the home screen: the operator's pending assignments plus
// recently opened cases.
type worklistView struct {
	state   *SharedState
	items   []domain.Assignment
	recent  []domain.RecentCase
	cursor  int
	loading bool
	err     error
}

func newWorklistView(state *SharedState) *worklistView {
	return &worklistView{state: state, loading: true}
}

func (v *worklistView) ID() ViewID    { return ViewWorklist }
func (v *worklistView) Title() string { return "Worklist" }

func (v *worklistView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new case")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "customer search")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *worklistView) Init() tea.Cmd {
	return v.load()
}

func (v *worklistView) load() tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		ctx := context.Background()
		items, err := app.Client.Worklist(ctx)
		if err != nil {
			return worklistLoadedMsg{err: err}
		}
		var recent []domain.RecentCase
		if app.Recent != nil {
			recent, _ = app.Recent.ListRecent(ctx, 5)
		}
		return worklistLoadedMsg{items: items, recent: recent}
	}
}

func (v *worklistView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case worklistLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		v.items = msg.items
		v.recent = msg.recent
		if v.cursor >= len(v.items) {
			v.cursor = 0
		}
		return v, nil

	case refreshViewMsg:
		v.loading = true
		return v, v.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.items)-1 {
				v.cursor++
			}
		case "enter":
			if v.cursor < len(v.items) {
				item := v.items[v.cursor]
				v.state.SetActiveCase(item.CaseID, "")
				v.state.SetActiveAssignment(item.ID, item.Name)
				return v, pushView(newAssignmentView(v.state, item.ID, nil))
			}
		case "n":
			return v, pushView(newCaseCreateView(v.state))
		case "s":
			return v, pushView(newCustomerSearchView(v.state))
		case "r":
			v.loading = true
			return v, v.load()
		}
	}
	return v, nil
}

func (v *worklistView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading worklist...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}

	var b strings.Builder
	b.WriteString("\n")

	if len(v.items) == 0 {
		b.WriteString("  " + formatter.Dim("No assignments waiting.") + "\n")
	}
	for i, item := range v.items {
		cursor := "  "
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
		}
		line := fmt.Sprintf("%s%s  %s  %s  %s",
			cursor,
			formatter.UrgencyBadge(item.Urgency),
			formatter.Bold(item.Name),
			formatter.TruncID(item.CaseID),
			formatter.StatusPill(item.Status),
		)
		if item.Instructions != "" {
			line += "  " + formatter.Dim(item.Instructions)
		}
		b.WriteString(line + "\n")
	}

	if len(v.recent) > 0 {
		b.WriteString("\n  " + formatter.Header("Recent Cases") + "\n")
		for _, rc := range v.recent {
			b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
				formatter.TruncID(rc.CaseID),
				rc.CaseName,
				formatter.Dim(formatter.HumanTimestamp(rc.OpenedAt)),
			))
		}
	}

	return b.String()
}
