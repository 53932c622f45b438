// Package session is the single source of truth for who is logged in.
// The store is the only writer of the credential pair; every mutation
// writes through to durable storage so a restart reconstructs the last
// known session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/deskd-dev/deskd/internal/api"
)

// User is the authenticated identity.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Result is the outcome of a login or registration attempt. Error is a
// user-facing message, set only when Success is false.
type Result struct {
	Success bool
	Error   string
}

// Store holds the current session. User and token are set and cleared
// together: the session is either fully authenticated or fully
// anonymous.
type Store struct {
	mu      sync.RWMutex
	user    *User
	token   string
	loading bool

	client  *api.Client
	storage Storage
	logger  zerolog.Logger
}

// New creates an empty session store backed by the given storage.
// SetClient must be called before any network operation.
func New(storage Storage, logger zerolog.Logger) *Store {
	return &Store{
		storage: storage,
		logger:  logger,
	}
}

// SetClient wires the API client used for the auth endpoints. The
// client in turn reads the token back from this store per request.
func (s *Store) SetClient(client *api.Client) {
	s.client = client
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUser returns the authenticated identity, or nil when anonymous.
func (s *Store) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsLoading reports whether a login or registration call is in flight.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// beginAuth marks an auth call in flight. A second concurrent login or
// registration is rejected instead of racing on the credential pair.
func (s *Store) beginAuth() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return false
	}
	s.loading = true
	return true
}

// Login exchanges credentials for a session. On failure the session is
// left untouched and the result carries the backend's message, or
// "Login failed" when it gave none.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	if !s.beginAuth() {
		return Result{Success: false, Error: "Another sign-in is already in progress"}
	}

	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.endAuth()
		return Result{Success: false, Error: api.Message(err, "Login failed")}
	}

	return s.establish(resp.Token, resp.User)
}

// Register creates an account and signs in. An empty role defaults to
// "user".
func (s *Store) Register(ctx context.Context, name, email, password string, role Role) Result {
	if role == "" {
		role = RoleUser
	}

	if !s.beginAuth() {
		return Result{Success: false, Error: "Another sign-in is already in progress"}
	}

	resp, err := s.client.Register(ctx, name, email, password, string(role))
	if err != nil {
		s.endAuth()
		return Result{Success: false, Error: api.Message(err, "Registration failed")}
	}

	return s.establish(resp.Token, resp.User)
}

func (s *Store) endAuth() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// establish stores a fresh session from an auth endpoint response.
func (s *Store) establish(token string, payload api.UserPayload) Result {
	role, err := ParseRole(payload.Role)
	if err != nil {
		s.endAuth()
		s.logger.Error().Err(err).Msg("Backend returned an unknown role")
		return Result{Success: false, Error: "Login failed"}
	}

	s.mu.Lock()
	s.user = &User{
		ID:    payload.ID,
		Name:  payload.Name,
		Email: payload.Email,
		Role:  role,
	}
	s.token = token
	s.loading = false
	s.persistLocked()
	s.mu.Unlock()

	return Result{Success: true}
}

// Logout clears the session. Idempotent: logging out while anonymous
// leaves state unchanged and still clears any stale persisted record.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	if err := s.storage.Clear(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to clear persisted session")
	}
	s.mu.Unlock()
}

// RefreshToken rotates the token using the current session. The
// identity is unchanged on success. Any failure is fatal for the
// session: the store logs out and returns false.
func (s *Store) RefreshToken(ctx context.Context) bool {
	resp, err := s.client.Refresh(ctx)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Token refresh failed, logging out")
		s.Logout()
		return false
	}

	s.mu.Lock()
	s.token = resp.Token
	s.persistLocked()
	s.mu.Unlock()

	return true
}

// InitializeAuth rehydrates the session from durable storage at
// startup. No network call is made; a stale token is discovered lazily
// by the next authenticated request. Idempotent.
func (s *Store) InitializeAuth() error {
	state, err := s.storage.Load()
	if err != nil {
		return err
	}

	// The credential pair only comes back whole. A half record or an
	// unknown role is treated as anonymous.
	if state.User == nil || state.Token == "" || !state.User.Role.Valid() {
		return nil
	}

	s.mu.Lock()
	s.user = state.User
	s.token = state.Token
	s.mu.Unlock()

	return nil
}

// TokenExpiry reports the current token's expiration claim, when the
// token is a JWT carrying one. Display only: the claim is read without
// signature verification and validity is still the server's call.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}

// persistLocked writes the current state through to storage. Callers
// hold the write lock, so memory and disk never diverge.
func (s *Store) persistLocked() {
	state := &State{User: s.user, Token: s.token}
	if err := s.storage.Save(state); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist session")
	}
}
