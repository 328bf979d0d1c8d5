package config

import (
	"os"
	"strconv"
	"strings"
)

// AuthType selects the authentication mode for the platform connection.
type AuthType string

const (
	AuthOAuth2 AuthType = "oauth2"
	AuthBasic  AuthType = "basic"
)

// OAuthConfig holds the OAuth2 client settings for the token endpoint.
type OAuthConfig struct {
	ClientID      string
	ClientSecret  string
	TokenEndpoint string
	Scope         string
}

// Config holds all settings for connecting to the case-management platform.
type Config struct {
	ServerURL   string
	ContextRoot string
	APIVersion  string
	AuthType    AuthType
	OAuth       OAuthConfig
	TimeoutMs   int
	LogCalls    bool
	DBPath      string
}

// DefaultConfig returns a Config with sensible defaults. ServerURL and the
// OAuth client credentials have no defaults and must come from the
// environment.
func DefaultConfig() Config {
	return Config{
		ContextRoot: "/prweb",
		APIVersion:  "v2",
		AuthType:    AuthOAuth2,
		OAuth: OAuthConfig{
			TokenEndpoint: "/PRRestService/oauth2/v1/token",
		},
		TimeoutMs: 30000,
	}
}

// LoadConfig reads configuration from CASEDESK_* environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("CASEDESK_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("CASEDESK_CONTEXT_ROOT"); v != "" {
		cfg.ContextRoot = v
	}
	if v := os.Getenv("CASEDESK_API_VERSION"); v != "" {
		cfg.APIVersion = v
	}
	if v := os.Getenv("CASEDESK_AUTH_TYPE"); v == string(AuthBasic) {
		cfg.AuthType = AuthBasic
	}
	if v := os.Getenv("CASEDESK_OAUTH_CLIENT_ID"); v != "" {
		cfg.OAuth.ClientID = v
	}
	if v := os.Getenv("CASEDESK_OAUTH_CLIENT_SECRET"); v != "" {
		cfg.OAuth.ClientSecret = v
	}
	if v := os.Getenv("CASEDESK_OAUTH_TOKEN_ENDPOINT"); v != "" {
		cfg.OAuth.TokenEndpoint = v
	}
	if v := os.Getenv("CASEDESK_OAUTH_SCOPE"); v != "" {
		cfg.OAuth.Scope = v
	}
	if v := os.Getenv("CASEDESK_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("CASEDESK_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CASEDESK_DB"); v != "" {
		cfg.DBPath = v
	}

	return cfg
}

// BaseAPIURL joins the server URL, context root, and API version into the
// application API base, e.g. https://host/prweb/api/application/v2.
func (c Config) BaseAPIURL() string {
	base := strings.TrimRight(strings.TrimSpace(c.ServerURL), "/")
	root := strings.TrimRight(strings.TrimSpace(c.ContextRoot), "/")
	return base + root + "/api/application/" + c.APIVersion
}

// TokenURL returns the absolute OAuth2 token endpoint. An endpoint that is
// already absolute is used verbatim.
func (c Config) TokenURL() string {
	ep := c.OAuth.TokenEndpoint
	if strings.HasPrefix(ep, "http://") || strings.HasPrefix(ep, "https://") {
		return ep
	}
	base := strings.TrimRight(strings.TrimSpace(c.ServerURL), "/")
	root := strings.TrimRight(strings.TrimSpace(c.ContextRoot), "/")
	if !strings.HasPrefix(ep, "/") {
		ep = "/" + ep
	}
	return base + root + ep
}
