package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"casedesk/internal/cli/formatter"
	"casedesk/internal/domain"
)

// customerResultsMsg carries customer search results.
type customerResultsMsg struct {
	query     string
	customers []domain.Customer
	err       error
}

// accountsLoadedMsg carries a customer's accounts.
type accountsLoadedMsg struct {
	customerID string
	accounts   []domain.Account
	err        error
}

// transactionsLoadedMsg carries an account's transactions.
type transactionsLoadedMsg struct {
	accountID    string
	transactions []domain.Transaction
	err          error
}

// customerSearchView searches the customer directory and drills into
// accounts and transactions.
type customerSearchView struct {
	state *SharedState
	input textinput.Model

	customers []domain.Customer
	cursor    int
	searching bool
	query     string

	// Expanded customer context
	expandedID   string
	accounts     []domain.Account
	accountIdx   int
	transactions map[string][]domain.Transaction

	err error
}

func newCustomerSearchView(state *SharedState) *customerSearchView {
	in := textinput.New()
	in.Placeholder = "name, email, or customer id"
	in.Prompt = formatter.StyleHeader.Render("search> ")
	in.Focus()
	return &customerSearchView{
		state:        state,
		input:        in,
		transactions: make(map[string][]domain.Transaction),
	}
}

func (v *customerSearchView) ID() ViewID    { return ViewCustomerSearch }
func (v *customerSearchView) Title() string { return "Customers" }

func (v *customerSearchView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search/expand")),
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next account")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (v *customerSearchView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *customerSearchView) search(query string) tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		customers, err := app.Client.SearchCustomers(context.Background(), query)
		return customerResultsMsg{query: query, customers: customers, err: err}
	}
}

func (v *customerSearchView) loadAccounts(customerID string) tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		accounts, err := app.Client.AccountList(context.Background(), customerID)
		return accountsLoadedMsg{customerID: customerID, accounts: accounts, err: err}
	}
}

func (v *customerSearchView) loadTransactions(accountID string) tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		txns, err := app.Client.TransactionHistory(context.Background(), accountID, "", "")
		return transactionsLoadedMsg{accountID: accountID, transactions: txns, err: err}
	}
}

func (v *customerSearchView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case customerResultsMsg:
		if msg.query != v.query {
			return v, nil
		}
		v.searching = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		v.customers = msg.customers
		v.cursor = 0
		v.expandedID = ""
		v.accounts = nil
		return v, nil

	case accountsLoadedMsg:
		if msg.customerID != v.expandedID {
			return v, nil
		}
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.accounts = msg.accounts
		v.accountIdx = 0
		if len(v.accounts) > 0 {
			return v, v.loadTransactions(v.accounts[0].AccountID)
		}
		return v, nil

	case transactionsLoadedMsg:
		if msg.err == nil {
			v.transactions[msg.accountID] = msg.transactions
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return v, popView()
		case tea.KeyEnter:
			if q := strings.TrimSpace(v.input.Value()); q != "" && q != v.query {
				v.query = q
				v.searching = true
				return v, v.search(q)
			}
			if v.cursor < len(v.customers) {
				c := v.customers[v.cursor]
				if v.expandedID == c.CustomerID {
					v.expandedID = ""
					v.accounts = nil
					return v, nil
				}
				v.expandedID = c.CustomerID
				v.accounts = nil
				return v, v.loadAccounts(c.CustomerID)
			}
			return v, nil
		case tea.KeyUp:
			if v.cursor > 0 {
				v.cursor--
			}
			return v, nil
		case tea.KeyDown:
			if v.cursor < len(v.customers)-1 {
				v.cursor++
			}
			return v, nil
		case tea.KeyTab:
			if len(v.accounts) > 1 {
				v.accountIdx = (v.accountIdx + 1) % len(v.accounts)
				acct := v.accounts[v.accountIdx]
				if _, ok := v.transactions[acct.AccountID]; !ok {
					return v, v.loadTransactions(acct.AccountID)
				}
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *customerSearchView) View() string {
	var b strings.Builder
	b.WriteString("\n  " + v.input.View() + "\n\n")

	switch {
	case v.searching:
		b.WriteString("  " + formatter.Dim("Searching..."))
		return b.String()
	case v.err != nil:
		b.WriteString("  " + formatter.StyleRed.Render("Error: "+v.err.Error()))
		return b.String()
	case v.query != "" && len(v.customers) == 0:
		b.WriteString("  " + formatter.Dim("No customers match."))
		return b.String()
	}

	for i, c := range v.customers {
		cursor := "  "
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
		}
		name := c.FullName
		if name == "" {
			name = strings.TrimSpace(c.FirstName + " " + c.LastName)
		}
		b.WriteString(fmt.Sprintf("%s%s  %s  %s  %s\n",
			cursor, formatter.Bold(name), formatter.Dim(c.CustomerID),
			formatter.Dim(c.Email), formatter.StylePurple.Render(c.Segment)))

		if c.CustomerID == v.expandedID {
			b.WriteString(v.renderAccounts())
		}
	}
	return b.String()
}

func (v *customerSearchView) renderAccounts() string {
	if v.accounts == nil {
		return "      " + formatter.Dim("Loading accounts...") + "\n"
	}
	if len(v.accounts) == 0 {
		return "      " + formatter.Dim("No accounts.") + "\n"
	}

	var b strings.Builder
	for i, a := range v.accounts {
		marker := "○"
		if i == v.accountIdx {
			marker = "●"
		}
		b.WriteString(fmt.Sprintf("      %s %s %s  %s  %s\n",
			formatter.Dim(marker),
			a.AccountType, formatter.Dim(a.AccountNumber),
			formatter.Amount(a.Balance, a.Currency),
			formatter.StatusPill(a.Status)))
	}

	acct := v.accounts[v.accountIdx]
	txns, ok := v.transactions[acct.AccountID]
	if !ok {
		b.WriteString("      " + formatter.Dim("Loading transactions...") + "\n")
		return b.String()
	}
	if len(txns) == 0 {
		b.WriteString("      " + formatter.Dim("No transactions.") + "\n")
		return b.String()
	}
	limit := len(txns)
	if limit > 5 {
		limit = 5
	}
	for _, t := range txns[:limit] {
		b.WriteString(fmt.Sprintf("        %s  %s  %s\n",
			formatter.Dim(t.Date), t.Description, formatter.Amount(t.Amount, "")))
	}
	return b.String()
}
