package workflow

import (
	"context"

	"github.com/google/uuid"

	"casedesk/internal/api"
	"casedesk/internal/domain"
	"casedesk/internal/form"
	"casedesk/internal/schema"
)

// fallbackActionID is tried when an assignment advertises no actions and
// carries no open link.
const fallbackActionID = "pyDefault"

// Phase tracks how far the assignment page has progressed through its
// loading sequence.
type Phase int

const (
	PhaseColdStart Phase = iota
	PhaseHydrated
	PhaseEnriched
	PhaseFieldsReady
	PhaseSubmitted
)

// OutcomeKind classifies where a successful submission landed.
type OutcomeKind int

const (
	// OutcomeCaseResolved means the case has no further open assignments.
	OutcomeCaseResolved OutcomeKind = iota
	// OutcomeSameAssignment means the flow advanced to the next step of
	// the same assignment.
	OutcomeSameAssignment
	// OutcomeDifferentAssignment means the flow routed to a new
	// assignment, picked up without a fresh navigation.
	OutcomeDifferentAssignment
)

// Outcome describes the result of a successful submission.
type Outcome struct {
	Kind         OutcomeKind
	CaseID       string
	AssignmentID string
}

// Client is the transport surface the machine drives.
type Client interface {
	GetAssignment(ctx context.Context, assignmentID string) (*api.AssignmentDetail, error)
	OpenAssignmentAction(ctx context.Context, assignmentID, actionID string) (*api.Envelope, error)
	OpenByHref(ctx context.Context, href string) (*api.Envelope, error)
	SubmitByHref(ctx context.Context, href string, content map[string]any) (*api.Envelope, error)
	PerformAction(ctx context.Context, assignmentID, actionID string, content map[string]any) (*api.Envelope, error)
}

// Machine drives one assignment through hydrate, enrich, field
// resolution, and submission. One machine serves one navigation; its
// generation token lets callers discard results that complete after the
// user has moved on.
type Machine struct {
	client     Client
	datasource *form.DataSourceResolver
	generation string

	phase  Phase
	page   PageState
	fields []domain.FieldDefinition
}

// NewMachine creates a machine for a single assignment navigation.
func NewMachine(client Client, fetcher form.DataPageFetcher) *Machine {
	return &Machine{
		client:     client,
		datasource: form.NewDataSourceResolver(fetcher),
		generation: uuid.NewString(),
	}
}

// Generation identifies this navigation; messages tagged with a stale
// generation are dropped by the caller.
func (m *Machine) Generation() string { return m.generation }

// Phase returns the current loading phase.
func (m *Machine) Phase() Phase { return m.phase }

// Page returns the assignment page state.
func (m *Machine) Page() *PageState { return &m.page }

// Fields returns the resolved form fields, nil until resolution succeeds.
func (m *Machine) Fields() []domain.FieldDefinition { return m.fields }

// FieldsAvailable reports whether the form can be edited. When false the
// screen falls back to a read-only rendering of the page state.
func (m *Machine) FieldsAvailable() bool { return len(m.fields) > 0 }

// Load drives the page from cold start as far as it can get. A response
// carried over from the previous screen seeds hydration and saves a round
// trip; enrichment and field fetches that fail are swallowed, leaving the
// page at whatever phase it reached.
func (m *Machine) Load(ctx context.Context, assignmentID string, carried *api.Envelope) {
	m.page = PageState{AssignmentID: assignmentID}
	m.fields = nil
	m.phase = PhaseColdStart

	if carried != nil {
		m.hydrate(carried)
	}
	m.phase = PhaseHydrated

	if detail, err := m.client.GetAssignment(ctx, m.page.AssignmentID); err == nil {
		m.page.merge(detail)
		m.phase = PhaseEnriched
	}

	if len(m.fields) == 0 {
		m.fetchActionView(ctx)
	}
	if len(m.fields) > 0 {
		m.phase = PhaseFieldsReady
	}
}

// ResolveDataSources populates option lists for reference fields. Safe to
// call repeatedly; already-populated fields are left alone.
func (m *Machine) ResolveDataSources(ctx context.Context) {
	m.datasource.Resolve(ctx, m.fields)
}

// Submit builds the nested payload from the edited values and performs
// the assignment's first action. On failure the page keeps its state so
// the user can correct and retry. On success the returned outcome says
// whether the case resolved, the same assignment advanced a step, or a
// different assignment took over; in the latter two cases the machine has
// already re-hydrated against the submit response.
func (m *Machine) Submit(ctx context.Context, values map[string]string) (Outcome, error) {
	content := form.BuildContent(m.fields, values)
	action := m.firstAction()

	var (
		env *api.Envelope
		err error
	)
	if action.SubmitHref != "" {
		env, err = m.client.SubmitByHref(ctx, action.SubmitHref, content)
	} else {
		env, err = m.client.PerformAction(ctx, m.page.AssignmentID, action.ID, content)
	}
	if err != nil {
		return Outcome{}, err
	}

	caseID := m.page.CaseID
	if info := env.CaseInfo(); info != nil && info.ID != "" {
		caseID = info.ID
	}

	next := env.NextAssignment()
	if next == nil || next.ID == "" {
		m.phase = PhaseSubmitted
		return Outcome{Kind: OutcomeCaseResolved, CaseID: caseID}, nil
	}

	kind := OutcomeSameAssignment
	if next.ID != m.page.AssignmentID {
		kind = OutcomeDifferentAssignment
	}

	m.page = PageState{AssignmentID: next.ID}
	m.fields = nil
	m.hydrate(env)
	if len(m.fields) == 0 {
		m.fetchActionView(ctx)
	}
	m.phase = PhaseHydrated
	if len(m.fields) > 0 {
		m.phase = PhaseFieldsReady
	}
	return Outcome{Kind: kind, CaseID: caseID, AssignmentID: next.ID}, nil
}

// hydrate folds a form response into the page and resolves its view tree.
func (m *Machine) hydrate(env *api.Envelope) {
	m.page.applyCaseInfo(env.CaseInfo())
	if env.UIResources != nil {
		m.page.applyUIResources(env.UIResources)
	}
	if fields := schema.Resolve(env.Catalogue()); len(fields) > 0 {
		m.fields = fields
	}
}

// fetchActionView opens the first action's form view to obtain fields a
// prior response did not carry. Failures are swallowed; the page then
// renders read-only.
func (m *Machine) fetchActionView(ctx context.Context) {
	action := m.firstAction()

	var (
		env *api.Envelope
		err error
	)
	if action.OpenHref != "" {
		env, err = m.client.OpenByHref(ctx, action.OpenHref)
	} else {
		env, err = m.client.OpenAssignmentAction(ctx, m.page.AssignmentID, action.ID)
	}
	if err != nil || env == nil {
		return
	}
	m.hydrate(env)
}

func (m *Machine) firstAction() domain.ActionInfo {
	if len(m.page.Actions) > 0 {
		return m.page.Actions[0]
	}
	return domain.ActionInfo{ID: fallbackActionID}
}
