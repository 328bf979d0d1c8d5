package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"casedesk/internal/config"
	"casedesk/internal/domain"
)

// tokenResponse is the JSON body returned by the OAuth2 token endpoint.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// Login authenticates the operator. Under basic auth the credential is a
// base64 pair with no refresh protocol; under OAuth2 it is a
// resource-owner password grant against the configured token endpoint.
// The caller installs the returned tokens into the session manager.
func (c *Client) Login(ctx context.Context, username, password string) (domain.AuthTokens, error) {
	if c.cfg.AuthType == config.AuthBasic {
		encoded := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		return domain.AuthTokens{AccessToken: encoded, TokenType: "Basic"}, nil
	}

	form := url.Values{
		"grant_type":    {"password"},
		"client_id":     {c.cfg.OAuth.ClientID},
		"client_secret": {c.cfg.OAuth.ClientSecret},
		"username":      {username},
		"password":      {password},
	}
	if c.cfg.OAuth.Scope != "" {
		form.Set("scope", c.cfg.OAuth.Scope)
	}
	return c.tokenGrant(ctx, form)
}

// refreshGrant performs the refresh-token grant. Passed to the session
// manager's single-flight Refresh so concurrent 401s share one call.
func (c *Client) refreshGrant(ctx context.Context, refreshToken string) (domain.AuthTokens, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {c.cfg.OAuth.ClientID},
	}
	tokens, err := c.tokenGrant(ctx, form)
	if err != nil {
		return domain.AuthTokens{}, err
	}
	// The platform may omit the refresh token on rotation-less grants.
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refreshToken
	}
	return tokens, nil
}

// tokenGrant posts a form-encoded grant to the token endpoint. This goes
// around do(): token calls are unauthenticated and never retried.
func (c *Client) tokenGrant(ctx context.Context, form url.Values) (domain.AuthTokens, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return domain.AuthTokens{}, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.AuthTokens{}, fmt.Errorf("requesting token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.AuthTokens{}, fmt.Errorf("reading token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.AuthTokens{}, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return domain.AuthTokens{}, fmt.Errorf("decoding token response: %w", err)
	}
	tokenType := tr.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return domain.AuthTokens{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		TokenType:    tokenType,
		ExpiresIn:    tr.ExpiresIn,
		ExpiresAt:    time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}

// operatorDTO tolerates both naming generations of the authenticate
// endpoint.
type operatorDTO struct {
	OperatorID     string   `json:"operatorID"`
	UserIdentifier string   `json:"pyUserIdentifier"`
	OperatorName   string   `json:"operatorName"`
	UserName       string   `json:"pyUserName"`
	Label          string   `json:"pyLabel"`
	Email          string   `json:"pyEmail"`
	AccessGroup    string   `json:"pyAccessGroup"`
	Roles          []string `json:"pyRoles"`
}

// OperatorInfo fetches the authenticated operator's record.
func (c *Client) OperatorInfo(ctx context.Context) (domain.Operator, error) {
	var dto operatorDTO
	if err := c.get(ctx, "/authenticate", &dto); err != nil {
		return domain.Operator{}, err
	}
	op := domain.Operator{
		OperatorID:  coalesce(dto.OperatorID, dto.UserIdentifier),
		Name:        coalesce(dto.OperatorName, dto.UserName, dto.Label),
		Email:       dto.Email,
		AccessGroup: dto.AccessGroup,
		Roles:       dto.Roles,
	}
	return op, nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
