package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CASEDESK_SERVER_URL", "https://pega.acme.example")
	t.Setenv("CASEDESK_AUTH_TYPE", "basic")
	t.Setenv("CASEDESK_TIMEOUT_MS", "5000")
	t.Setenv("CASEDESK_LOG_CALLS", "true")
	t.Setenv("CASEDESK_DB", "/tmp/casedesk-test.db")

	cfg := LoadConfig()
	assert.Equal(t, "https://pega.acme.example", cfg.ServerURL)
	assert.Equal(t, AuthBasic, cfg.AuthType)
	assert.Equal(t, 5000, cfg.TimeoutMs)
	assert.True(t, cfg.LogCalls)
	assert.Equal(t, "/tmp/casedesk-test.db", cfg.DBPath)
	// Defaults survive for unset values.
	assert.Equal(t, "/prweb", cfg.ContextRoot)
	assert.Equal(t, "v2", cfg.APIVersion)
}

func TestLoadConfig_BadTimeoutKeepsDefault(t *testing.T) {
	t.Setenv("CASEDESK_TIMEOUT_MS", "soon")
	cfg := LoadConfig()
	assert.Equal(t, 30000, cfg.TimeoutMs)
}

func TestBaseAPIURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ServerURL = "https://pega.acme.example/"
	assert.Equal(t, "https://pega.acme.example/prweb/api/application/v2", cfg.BaseAPIURL())
}

func TestTokenURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ServerURL = "https://pega.acme.example"
	assert.Equal(t,
		"https://pega.acme.example/prweb/PRRestService/oauth2/v1/token",
		cfg.TokenURL())

	cfg.OAuth.TokenEndpoint = "https://idp.acme.example/oauth2/token"
	assert.Equal(t, "https://idp.acme.example/oauth2/token", cfg.TokenURL())
}
