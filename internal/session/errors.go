package session

import "errors"

// ErrNoRefreshToken indicates a refresh was requested but the current
// session has no refresh token (basic auth, or never logged in).
var ErrNoRefreshToken = errors.New("no refresh token in session")
