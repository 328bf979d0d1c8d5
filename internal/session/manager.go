package session

import (
	"context"
	"net/url"
	"regexp"
	"sync"

	"casedesk/internal/domain"
)

// Store persists the session-scoped token and operator records across runs.
type Store interface {
	Load(ctx context.Context) (*domain.AuthTokens, *domain.Operator, error)
	Save(ctx context.Context, tokens *domain.AuthTokens, operator *domain.Operator) error
	Clear(ctx context.Context) error
}

// RefreshFunc performs a refresh-token grant and returns the new tokens.
type RefreshFunc func(ctx context.Context, refreshToken string) (domain.AuthTokens, error)

type refreshResult struct {
	tokens domain.AuthTokens
	err    error
}

// Manager owns all process-wide session state: the credential record, the
// operator record, the version-token (ETag) store, and the single-flight
// refresh gate with its waiter queue. All mutation goes through the mutex,
// so concurrent request goroutines observing a 401 coordinate on exactly
// one refresh call.
type Manager struct {
	mu       sync.Mutex
	tokens   *domain.AuthTokens
	operator *domain.Operator
	etags    map[string]string

	refreshing bool
	waiters    []chan refreshResult

	store Store
}

// NewManager creates a Manager. store may be nil for in-memory-only sessions.
func NewManager(store Store) *Manager {
	return &Manager{
		etags: make(map[string]string),
		store: store,
	}
}

// Restore loads a persisted session, if any. Missing state is not an error.
func (m *Manager) Restore(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	tokens, operator, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.tokens = tokens
	m.operator = operator
	m.mu.Unlock()
	return nil
}

// Tokens returns a copy of the current credential record.
func (m *Manager) Tokens() (domain.AuthTokens, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens == nil {
		return domain.AuthTokens{}, false
	}
	return *m.tokens, true
}

// SetTokens installs a new credential record and persists it.
func (m *Manager) SetTokens(ctx context.Context, tokens domain.AuthTokens) {
	m.mu.Lock()
	t := tokens
	m.tokens = &t
	operator := m.operator
	m.mu.Unlock()
	m.persist(ctx, &t, operator)
}

// Operator returns the authenticated operator record, if known.
func (m *Manager) Operator() (domain.Operator, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.operator == nil {
		return domain.Operator{}, false
	}
	return *m.operator, true
}

// SetOperator installs the operator record and persists it.
func (m *Manager) SetOperator(ctx context.Context, operator domain.Operator) {
	m.mu.Lock()
	o := operator
	m.operator = &o
	tokens := m.tokens
	m.mu.Unlock()
	m.persist(ctx, tokens, &o)
}

// Authenticated reports whether a credential record is present.
func (m *Manager) Authenticated() bool {
	_, ok := m.Tokens()
	return ok
}

// Clear wipes all session state: tokens, operator, version tokens, and the
// persisted record. Called on logout and on refresh failure.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	m.tokens = nil
	m.operator = nil
	m.etags = make(map[string]string)
	m.mu.Unlock()
	if m.store != nil {
		_ = m.store.Clear(ctx)
	}
}

func (m *Manager) persist(ctx context.Context, tokens *domain.AuthTokens, operator *domain.Operator) {
	if m.store == nil {
		return
	}
	_ = m.store.Save(ctx, tokens, operator)
}

// ── version-token store ─────────────────────────────────────────────────────

var assignmentResourceRE = regexp.MustCompile(`/assignments/[^/]+`)

// ResourceKey derives the version-token cache key for a request URL: the
// decoded /assignments/{id} path prefix. Encoded and literal forms of the
// same id ("Case-123%20Work-1" vs "Case-123 Work-1") yield the same key.
func ResourceKey(rawURL string) (string, bool) {
	decoded := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		decoded = u.Path
	} else if d, err := url.PathUnescape(rawURL); err == nil {
		decoded = d
	}
	key := assignmentResourceRE.FindString(decoded)
	return key, key != ""
}

// VersionToken returns the latest known version token for the resource a
// URL addresses.
func (m *Manager) VersionToken(rawURL string) (string, bool) {
	key, ok := ResourceKey(rawURL)
	if !ok {
		return "", false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	etag, ok := m.etags[key]
	return etag, ok
}

// StoreVersionToken records a version token captured from a successful
// response for use by subsequent conditional writes to the same resource.
func (m *Manager) StoreVersionToken(rawURL, etag string) {
	key, ok := ResourceKey(rawURL)
	if !ok || etag == "" {
		return
	}
	m.mu.Lock()
	m.etags[key] = etag
	m.mu.Unlock()
}

// ── single-flight refresh ───────────────────────────────────────────────────

// Refresh runs the refresh-token grant with single-flight discipline. The
// first caller performs the grant; callers arriving while it is in flight
// queue up and are released in arrival order with the same result. On
// success the new tokens are installed and persisted; on failure the whole
// session is cleared.
func (m *Manager) Refresh(ctx context.Context, do RefreshFunc) (domain.AuthTokens, error) {
	m.mu.Lock()
	if m.refreshing {
		ch := make(chan refreshResult, 1)
		m.waiters = append(m.waiters, ch)
		m.mu.Unlock()
		select {
		case res := <-ch:
			return res.tokens, res.err
		case <-ctx.Done():
			return domain.AuthTokens{}, ctx.Err()
		}
	}
	var refreshToken string
	if m.tokens != nil {
		refreshToken = m.tokens.RefreshToken
	}
	m.refreshing = true
	m.mu.Unlock()

	var res refreshResult
	if refreshToken == "" {
		res.err = ErrNoRefreshToken
	} else {
		res.tokens, res.err = do(ctx, refreshToken)
	}

	m.mu.Lock()
	m.refreshing = false
	waiters := m.waiters
	m.waiters = nil
	if res.err == nil {
		t := res.tokens
		m.tokens = &t
	}
	operator := m.operator
	m.mu.Unlock()

	if res.err == nil {
		m.persist(ctx, &res.tokens, operator)
	} else {
		m.Clear(ctx)
	}

	for _, ch := range waiters {
		ch <- res
	}
	return res.tokens, res.err
}
