package domain

import "time"

// AuthTokens is the session-scoped credential record.
// Basic-auth sessions carry the base64 credential in AccessToken with
// TokenType "Basic" and no refresh token.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
	ExpiresAt    time.Time
}

// Bearer reports whether the token participates in the refresh protocol.
func (t AuthTokens) Bearer() bool {
	return t.TokenType != "Basic" && t.RefreshToken != ""
}

// Operator is the authenticated platform user.
type Operator struct {
	OperatorID  string
	Name        string
	Email       string
	AccessGroup string
	Roles       []string
}
