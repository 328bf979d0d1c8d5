package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"casedesk/internal/api"
	"casedesk/internal/config"
	"casedesk/internal/domain"
	"casedesk/internal/repository"
	"casedesk/internal/session"
	"casedesk/internal/testutil"
)

const apiBase = "/prweb/api/application/v2"

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// newTestApp wires an App against an httptest platform, with the session
// persisted to an in-memory database.
func newTestApp(t *testing.T, handler http.Handler, authenticated bool) *App {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.ServerURL = srv.URL
	cfg.OAuth.ClientID = "test-client"

	db := testutil.NewTestDB(t)
	manager := session.NewManager(repository.NewSQLiteSessionStore(db))
	if authenticated {
		manager.SetTokens(context.Background(), domain.AuthTokens{
			AccessToken: "tok-1", RefreshToken: "ref-1", TokenType: "Bearer",
		})
		manager.SetOperator(context.Background(), domain.Operator{
			OperatorID: "op1@acme", Name: "Pat Lee", AccessGroup: "Lending:Managers",
		})
	}

	return &App{
		Config:        cfg,
		Client:        api.NewClient(cfg, manager, nil),
		Session:       manager,
		Recent:        repository.NewSQLiteRecentCaseRepo(db),
		IsInteractive: func() bool { return true },
	}
}

// platformHandler serves a one-assignment loan scenario: a worklist entry,
// its action form, and the resolving submit.
func platformHandler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /prweb/PRRestService/oauth2/v1/token", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]any{
			"access_token":  "tok-1",
			"refresh_token": "ref-1",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	})
	mux.HandleFunc("GET "+apiBase+"/authenticate", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]any{
			"pyUserIdentifier": "op1@acme",
			"pyUserName":       "Pat Lee",
			"pyAccessGroup":    "Lending:Managers",
		})
	})
	mux.HandleFunc("GET "+apiBase+"/assignments", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]any{
			"pxResults": []map[string]any{{
				"ID":         "A-1",
				"caseID":     "CASE-1",
				"name":       "Verify Income",
				"status":     "Open",
				"urgency":    "25",
				"createTime": "2026-03-01T09:00:00.000Z",
			}},
			"pxResultCount": 1,
		})
	})
	mux.HandleFunc("GET "+apiBase+"/assignments/A-1", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]any{
			"ID":           "A-1",
			"caseID":       "CASE-1",
			"name":         "Verify Income",
			"instructions": "Confirm the stated income",
			"status":       "Open",
			"urgency":      "25",
			"actions":      []map[string]any{{"ID": "Verify", "name": "Verify"}},
		})
	})
	mux.HandleFunc("GET "+apiBase+"/assignments/A-1/actions/Verify", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"v1"`)
		respondJSON(w, map[string]any{
			"uiResources": map[string]any{
				"root": map[string]any{
					"type": "view",
					"children": []map[string]any{{
						"type":   "TextInput",
						"config": map[string]any{"value": ".AnnualIncome", "label": "Annual Income"},
					}},
				},
			},
			"data": map[string]any{"caseInfo": map[string]any{
				"ID":     "CASE-1",
				"name":   "Loan Request",
				"status": "Open",
				"assignments": []map[string]any{{
					"ID":   "A-1",
					"name": "Verify Income",
					"actions": []map[string]any{{
						"ID":    "Verify",
						"name":  "Verify",
						"links": map[string]any{"submit": map[string]any{"href": "/assignments/A-1/actions/Verify"}},
					}},
				}},
			}},
		})
	})
	mux.HandleFunc("PATCH "+apiBase+"/assignments/A-1/actions/Verify", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Content map[string]any `json:"content"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Content["AnnualIncome"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":[{"message":"AnnualIncome is required"}]}`))
			return
		}
		respondJSON(w, map[string]any{
			"data": map[string]any{"caseInfo": map[string]any{
				"ID":          "CASE-1",
				"name":        "Loan Request",
				"status":      "Resolved-Completed",
				"assignments": []map[string]any{},
			}},
		})
	})
	mux.HandleFunc("GET "+apiBase+"/cases/CASE-1", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]any{
			"ID":     "CASE-1",
			"name":   "Loan Request",
			"status": "Resolved-Completed",
			"stage":  "Resolution",
			"owner":  "op1@acme",
		})
	})
	mux.HandleFunc("GET "+apiBase+"/cases/CASE-1/history", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]any{
			"pxResults": []map[string]any{{
				"performer":         "Pat Lee",
				"performedDateTime": "2026-03-01T09:05:00.000Z",
				"message":           "Case resolved",
			}},
			"pxResultCount": 1,
		})
	})
	mux.HandleFunc("POST "+apiBase+"/cases", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			CaseTypeID string         `json:"caseTypeID"`
			Content    map[string]any `json:"content"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.CaseTypeID == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":[{"message":"caseTypeID is required"}]}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		respondJSON(w, map[string]any{
			"ID":               "CASE-2",
			"caseTypeID":       body.CaseTypeID,
			"status":           "New",
			"nextAssignmentID": "A-9",
		})
	})
	mux.HandleFunc("GET "+apiBase+"/casetypes", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]any{
			"pxResults": []map[string]any{{
				"ID":          "Acme-Lending-Work-Loan",
				"name":        "Loan",
				"description": "Consumer loan request",
			}},
			"pxResultCount": 1,
		})
	})

	return mux
}
