package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedesk/internal/config"
	"casedesk/internal/domain"
	"casedesk/internal/session"
)

func testConfig(serverURL string) config.Config {
	cfg := config.DefaultConfig()
	cfg.ServerURL = serverURL
	cfg.OAuth.ClientID = "test-client"
	return cfg
}

// newTestClient wires a client and session manager against an httptest
// server, pre-authenticated with a bearer token.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Manager, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	manager := session.NewManager(nil)
	manager.SetTokens(context.Background(), domain.AuthTokens{
		AccessToken:  "tok-1",
		RefreshToken: "ref-1",
		TokenType:    "Bearer",
	})
	client := NewClient(testConfig(srv.URL), manager, nil)
	return client, manager, srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_WorklistCarriesAuthorization(t *testing.T) {
	var gotAuth, gotPath string
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		writeJSON(w, map[string]any{
			"pxResults": []map[string]any{
				{"ID": "ASSIGN-1", "caseID": "CASE-1", "name": "Verify", "urgency": "10"},
				{"ID": "ASSIGN-2", "caseID": "CASE-2", "name": "Approve", "urgency": "30"},
			},
			"pxResultCount": 2,
		})
	}))

	items, err := client.Worklist(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "/prweb/api/application/v2/assignments", gotPath)
	require.Len(t, items, 2)
	assert.Equal(t, "ASSIGN-1", items[0].ID)
	assert.Equal(t, "Approve", items[1].Name)
}

func TestClient_VersionTokenRoundTrip(t *testing.T) {
	var ifMatch atomic.Value
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("ETag", `"v1"`)
			writeJSON(w, map[string]any{"ID": "A-1"})
		case http.MethodPatch:
			ifMatch.Store(r.Header.Get("If-Match"))
			w.Header().Set("ETag", `"v2"`)
			writeJSON(w, map[string]any{})
		}
	}))
	ctx := context.Background()

	_, err := client.GetAssignment(ctx, "A-1")
	require.NoError(t, err)

	_, err = client.PerformAction(ctx, "A-1", "Verify", map[string]any{"Note": "ok"})
	require.NoError(t, err)
	assert.Equal(t, `"v1"`, ifMatch.Load())

	// The write's response rotated the token for the next write.
	etag, ok := client.Session().VersionToken(client.url("/assignments/A-1"))
	require.True(t, ok)
	assert.Equal(t, `"v2"`, etag)
}

func TestClient_RefreshAndReplayOn401(t *testing.T) {
	var apiCalls, tokenCalls atomic.Int32
	var replayAuth atomic.Value
	client, manager, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/prweb/PRRestService/oauth2/v1/token" {
			tokenCalls.Add(1)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
			assert.Equal(t, "ref-1", r.FormValue("refresh_token"))
			writeJSON(w, map[string]any{
				"access_token":  "tok-2",
				"refresh_token": "ref-2",
				"token_type":    "Bearer",
				"expires_in":    3600,
			})
			return
		}
		apiCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer tok-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		replayAuth.Store(r.Header.Get("Authorization"))
		writeJSON(w, map[string]any{"pxResults": []map[string]any{}})
	}))

	_, err := client.Worklist(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), apiCalls.Load())
	assert.Equal(t, int32(1), tokenCalls.Load())
	assert.Equal(t, "Bearer tok-2", replayAuth.Load())

	tokens, ok := manager.Tokens()
	require.True(t, ok)
	assert.Equal(t, "tok-2", tokens.AccessToken)
	assert.Equal(t, "ref-2", tokens.RefreshToken)
}

func TestClient_Concurrent401sShareOneRefresh(t *testing.T) {
	var tokenCalls, rejected atomic.Int32
	bothRejected := make(chan struct{})

	client, manager, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/prweb/PRRestService/oauth2/v1/token" {
			tokenCalls.Add(1)
			// Keep the grant in flight long enough for the second caller
			// to queue behind it.
			time.Sleep(20 * time.Millisecond)
			writeJSON(w, map[string]any{
				"access_token":  "tok-2",
				"refresh_token": "ref-2",
				"token_type":    "Bearer",
				"expires_in":    3600,
			})
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok-2" {
			// Hold each stale request until both have arrived, so the two
			// 401s are truly concurrent when the refreshes race.
			if rejected.Add(1) == 2 {
				close(bothRejected)
			}
			<-bothRejected
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/prweb/api/application/v2/assignments/")
		writeJSON(w, map[string]any{"ID": id, "caseID": "CASE-1"})
	}))

	ids := []string{"A-1", "A-2"}
	details := make([]*AssignmentDetail, len(ids))
	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			details[i], errs[i] = client.GetAssignment(context.Background(), id)
		}()
	}
	wg.Wait()

	// One grant served both replays.
	assert.Equal(t, int32(1), tokenCalls.Load())
	assert.Equal(t, int32(2), rejected.Load())
	for i, id := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, id, details[i].ID)
	}

	tokens, ok := manager.Tokens()
	require.True(t, ok)
	assert.Equal(t, "tok-2", tokens.AccessToken)
	assert.Equal(t, "ref-2", tokens.RefreshToken)
}

func TestClient_RefreshFailureExpiresSession(t *testing.T) {
	client, manager, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/prweb/PRRestService/oauth2/v1/token" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.Worklist(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.False(t, manager.Authenticated())
}

func TestClient_BasicSession401IsTerminal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	manager := session.NewManager(nil)
	manager.SetTokens(context.Background(), domain.AuthTokens{AccessToken: "Y3JlZA==", TokenType: "Basic"})
	client := NewClient(testConfig(srv.URL), manager, nil)

	_, err := client.Worklist(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	// No refresh protocol, no replay.
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ErrorStatusSurfacesAPIError(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"errors":[{"message":"stale assignment"}]}`))
	}))

	_, err := client.GetCase(context.Background(), "CASE-1")
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "stale assignment")
}

func TestLogin_BasicEncodesCredential(t *testing.T) {
	cfg := testConfig("https://unused.example")
	cfg.AuthType = config.AuthBasic
	client := NewClient(cfg, session.NewManager(nil), nil)

	tokens, err := client.Login(context.Background(), "operator@acme", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Basic", tokens.TokenType)

	decoded, err := base64.StdEncoding.DecodeString(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "operator@acme:s3cret", string(decoded))
	assert.Empty(t, tokens.RefreshToken)
}

func TestLogin_PasswordGrant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prweb/PRRestService/oauth2/v1/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.FormValue("grant_type"))
		assert.Equal(t, "operator@acme", r.FormValue("username"))
		assert.Equal(t, "test-client", r.FormValue("client_id"))
		writeJSON(w, map[string]any{
			"access_token":  "tok-1",
			"refresh_token": "ref-1",
			"expires_in":    1800,
		})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(testConfig(srv.URL), session.NewManager(nil), nil)
	tokens, err := client.Login(context.Background(), "operator@acme", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tokens.AccessToken)
	// Token type defaults when the endpoint omits it.
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.False(t, tokens.ExpiresAt.IsZero())
}

func TestOperatorInfo_NamingGenerations(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prweb/api/application/v2/authenticate", r.URL.Path)
		writeJSON(w, map[string]any{
			"pyUserIdentifier": "op1@acme",
			"pyUserName":       "Pat Lee",
			"pyAccessGroup":    "Lending:Managers",
			"pyRoles":          []string{"Lending:Manager"},
		})
	}))

	op, err := client.OperatorInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "op1@acme", op.OperatorID)
	assert.Equal(t, "Pat Lee", op.Name)
	assert.Equal(t, "Lending:Managers", op.AccessGroup)
	assert.Equal(t, []string{"Lending:Manager"}, op.Roles)
}
