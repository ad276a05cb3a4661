// Package session holds the authenticated identity and token pair for the
// kiosk. The store is constructed explicitly and injected into the HTTP
// client and orchestrator; there is no package-level singleton. Only
// identity, tokens, and the authenticated flag persist across restarts.
package session

import (
	"context"
	"sync"

	"github.com/facelogix/kiosk/internal/api"
)

// Identity is the authenticated principal.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	OrgID  string `json:"org_id"`
}

// Tokens is the access/refresh token pair.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthAPI is the slice of the backend client the store needs. Implemented
// by api.Client.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*api.RefreshResponse, error)
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
}

// Store mediates login, logout, and silent token refresh, and persists the
// minimal subset of state that survives a restart.
type Store struct {
	auth AuthAPI
	path string // state file path; empty disables persistence

	mu       sync.Mutex
	identity *Identity
	tokens   *Tokens
	loading  bool
	lastErr  error
}

// NewStore creates a store backed by the state file at path. Previously
// persisted identity and tokens are restored; a corrupt or missing file
// starts the store logged out.
func NewStore(auth AuthAPI, path string) *Store {
	s := &Store{auth: auth, path: path}
	s.restore()
	return s
}

// Login authenticates against the backend. On failure the error is
// recorded and returned to the caller, which decides how to present it.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()

	resp, err := s.auth.Login(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = err
		return err
	}

	s.identity = &Identity{
		UserID: resp.UserID,
		Name:   resp.Name,
		Role:   resp.Role,
		OrgID:  resp.OrgID,
	}
	s.tokens = &Tokens{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
	}
	s.persistLocked()
	return nil
}

// Logout revokes the refresh token with the backend (best effort — a
// revocation failure never blocks logout) and unconditionally clears all
// session state.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	var refreshToken string
	if s.tokens != nil {
		refreshToken = s.tokens.RefreshToken
	}
	s.mu.Unlock()

	if refreshToken != "" {
		// Errors swallowed: logout must never get stuck.
		_ = s.auth.RevokeRefreshToken(ctx, refreshToken)
	}

	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
}

// Refresh exchanges the stored refresh token for a new access token. Any
// failure, including a missing refresh token, clears all session state and
// returns false — callers must treat false as "session ended".
//
// Not reentrant-safe; the HTTP layer serializes refresh calls.
func (s *Store) Refresh(ctx context.Context) bool {
	s.mu.Lock()
	var refreshToken string
	if s.tokens != nil {
		refreshToken = s.tokens.RefreshToken
	}
	s.mu.Unlock()

	if refreshToken == "" {
		s.mu.Lock()
		s.clearLocked()
		s.mu.Unlock()
		return false
	}

	resp, err := s.auth.Refresh(ctx, refreshToken)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		s.clearLocked()
		return false
	}

	if s.tokens == nil {
		// Logged out while the refresh was in flight; do not resurrect.
		return false
	}
	s.tokens.AccessToken = resp.AccessToken
	if resp.TokenType != "" {
		s.tokens.TokenType = resp.TokenType
	}
	s.persistLocked()
	return true
}

// SetTokens replaces the token pair after an out-of-band update. No
// consistency check against the current identity is made.
func (s *Store) SetTokens(t Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = &t
	s.persistLocked()
}

// SetUser replaces the identity after an out-of-band update.
func (s *Store) SetUser(id Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &id
	s.persistLocked()
}

// Authenticated reports whether both an identity and an access token are
// present.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticatedLocked()
}

func (s *Store) authenticatedLocked() bool {
	return s.identity != nil && s.tokens != nil && s.tokens.AccessToken != ""
}

// Identity returns a copy of the current identity, or nil when logged out.
func (s *Store) Identity() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// Tokens returns a copy of the current token pair, or nil when logged out.
func (s *Store) Tokens() *Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens == nil {
		return nil
	}
	t := *s.tokens
	return &t
}

// Loading reports whether a login is in flight. Never persisted.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the most recent login/refresh error. Never persisted.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// AccessToken implements api.TokenSource.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens == nil {
		return ""
	}
	return s.tokens.AccessToken
}

// RefreshAccess implements api.TokenSource.
func (s *Store) RefreshAccess(ctx context.Context) bool {
	return s.Refresh(ctx)
}

// EndSession implements api.TokenSource: the HTTP layer saw a second 401
// after a refresh, so no partial-session state may survive.
func (s *Store) EndSession() {
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
}

// clearLocked wipes identity, tokens, and the persisted file.
func (s *Store) clearLocked() {
	s.identity = nil
	s.tokens = nil
	s.loading = false
	s.removePersisted()
}
