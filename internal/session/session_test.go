package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskd-dev/deskd/internal/api"
)

// newTestStore wires a store against a mock backend, with the session
// record in a temp directory.
func newTestStore(t *testing.T, handler http.Handler) (*Store, *FileStorage, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	storage := NewFileStorageAt(filepath.Join(t.TempDir(), "session.json"))
	store := New(storage, zerolog.Nop())
	client := api.New(srv.URL, store, api.NotifierFunc(func(string) {}), zerolog.Nop())
	store.SetClient(client)

	return store, storage, srv
}

// authBackend answers the auth endpoints with fixed payloads.
func authBackend(t *testing.T, requests *atomic.Int64) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Email != "a@x.com" || req.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Invalid email or password"}`))
			return
		}

		w.Write([]byte(`{"token":"t1","user":{"id":1,"name":"A","email":"a@x.com","role":"agent"}}`))
	})
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		var req api.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Write([]byte(`{"token":"t2","user":{"id":2,"name":"` + req.Name + `","email":"` + req.Email + `","role":"` + req.Role + `"}}`))
	})
	return mux
}

func TestLogin_Success(t *testing.T) {
	var requests atomic.Int64
	store, storage, _ := newTestStore(t, authBackend(t, &requests))

	result := store.Login(context.Background(), "a@x.com", "secret1")
	require.True(t, result.Success)
	assert.Empty(t, result.Error)

	user := store.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "A", user.Name)
	assert.Equal(t, RoleAgent, user.Role)
	assert.Equal(t, "t1", store.Token())
	assert.False(t, store.IsLoading())

	// Persisted record matches the in-memory state exactly
	state, err := storage.Load()
	require.NoError(t, err)
	require.NotNil(t, state.User)
	assert.Equal(t, *user, *state.User)
	assert.Equal(t, "t1", state.Token)
}

func TestLogin_AttachesTokenToSubsequentCalls(t *testing.T) {
	var requests atomic.Int64
	var gotAuth string

	mux := http.NewServeMux()
	mux.Handle("/auth/", authBackend(t, &requests))
	mux.HandleFunc("/tickets", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"tickets":[]}`))
	})

	store, _, srv := newTestStore(t, mux)
	client := api.New(srv.URL, store, api.NotifierFunc(func(string) {}), zerolog.Nop())
	store.SetClient(client)

	result := store.Login(context.Background(), "a@x.com", "secret1")
	require.True(t, result.Success)

	_, err := client.ListTickets(context.Background(), api.TicketFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer t1", gotAuth)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	var requests atomic.Int64
	store, storage, _ := newTestStore(t, authBackend(t, &requests))

	for i := 0; i < 3; i++ {
		result := store.Login(context.Background(), "a@x.com", "wrong")
		require.False(t, result.Success)
		assert.Equal(t, "Invalid email or password", result.Error)
		assert.Nil(t, store.CurrentUser())
		assert.Empty(t, store.Token())
		assert.False(t, store.IsLoading())
	}

	state, err := storage.Load()
	require.NoError(t, err)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Token)
}

func TestLogin_FallbackMessageWhenBackendGivesNone(t *testing.T) {
	store, _, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	result := store.Login(context.Background(), "a@x.com", "secret1")
	require.False(t, result.Success)
	assert.Equal(t, "Login failed", result.Error)
}

func TestLogin_RejectsConcurrentAttempt(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})

	store, _, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		w.Write([]byte(`{"token":"t1","user":{"id":1,"name":"A","email":"a@x.com","role":"agent"}}`))
	}))

	done := make(chan Result, 1)
	go func() {
		done <- store.Login(context.Background(), "a@x.com", "secret1")
	}()

	<-arrived
	assert.True(t, store.IsLoading())

	second := store.Login(context.Background(), "a@x.com", "secret1")
	require.False(t, second.Success)
	assert.Contains(t, second.Error, "already in progress")

	close(release)
	first := <-done
	assert.True(t, first.Success)
	assert.Equal(t, "t1", store.Token())
}

func TestRegister_DefaultsRoleToUser(t *testing.T) {
	var requests atomic.Int64
	store, _, _ := newTestStore(t, authBackend(t, &requests))

	result := store.Register(context.Background(), "B", "b@x.com", "secret2", "")
	require.True(t, result.Success)

	user := store.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, RoleUser, user.Role)
	assert.Equal(t, "t2", store.Token())
}

func TestRegister_FallbackMessage(t *testing.T) {
	store, _, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	result := store.Register(context.Background(), "B", "b@x.com", "secret2", RoleUser)
	require.False(t, result.Success)
	assert.Equal(t, "Registration failed", result.Error)
}

func TestLogin_RejectsUnknownRoleFromBackend(t *testing.T) {
	store, storage, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"t1","user":{"id":1,"name":"A","email":"a@x.com","role":"superuser"}}`))
	}))

	result := store.Login(context.Background(), "a@x.com", "secret1")
	require.False(t, result.Success)
	assert.Nil(t, store.CurrentUser())
	assert.Empty(t, store.Token())

	state, err := storage.Load()
	require.NoError(t, err)
	assert.Nil(t, state.User)
}

func TestLogout_Idempotent(t *testing.T) {
	var requests atomic.Int64
	store, storage, _ := newTestStore(t, authBackend(t, &requests))

	result := store.Login(context.Background(), "a@x.com", "secret1")
	require.True(t, result.Success)

	store.Logout()
	assert.Nil(t, store.CurrentUser())
	assert.Empty(t, store.Token())

	// Logging out while already anonymous changes nothing
	store.Logout()
	assert.Nil(t, store.CurrentUser())
	assert.Empty(t, store.Token())

	state, err := storage.Load()
	require.NoError(t, err)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Token)
}

func TestInitializeAuth_RoundTrip(t *testing.T) {
	var requests atomic.Int64
	store, storage, srv := newTestStore(t, authBackend(t, &requests))

	result := store.Login(context.Background(), "a@x.com", "secret1")
	require.True(t, result.Success)
	networkCalls := requests.Load()

	// A fresh store over the same storage reproduces the session
	// without touching the network.
	fresh := New(storage, zerolog.Nop())
	fresh.SetClient(api.New(srv.URL, fresh, api.NotifierFunc(func(string) {}), zerolog.Nop()))
	require.NoError(t, fresh.InitializeAuth())

	assert.Equal(t, networkCalls, requests.Load())
	assert.Equal(t, "t1", fresh.Token())

	user := fresh.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, *store.CurrentUser(), *user)
}

func TestInitializeAuth_DiscardsHalfRecords(t *testing.T) {
	tests := []struct {
		name  string
		state State
	}{
		{"token without user", State{Token: "t1"}},
		{"user without token", State{User: &User{ID: 1, Name: "A", Role: RoleAgent}}},
		{"unknown persisted role", State{User: &User{ID: 1, Name: "A", Role: "root"}, Token: "t1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewFileStorageAt(filepath.Join(t.TempDir(), "session.json"))
			require.NoError(t, storage.Save(&tt.state))

			store := New(storage, zerolog.Nop())
			require.NoError(t, store.InitializeAuth())

			assert.Nil(t, store.CurrentUser())
			assert.Empty(t, store.Token())
		})
	}
}

func TestRefreshToken_ReplacesTokenOnly(t *testing.T) {
	var requests atomic.Int64
	mux := http.NewServeMux()
	mux.Handle("/auth/login", authBackend(t, &requests))
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"t9"}`))
	})

	store, storage, _ := newTestStore(t, mux)
	require.True(t, store.Login(context.Background(), "a@x.com", "secret1").Success)
	before := *store.CurrentUser()

	require.True(t, store.RefreshToken(context.Background()))

	assert.Equal(t, "t9", store.Token())
	assert.Equal(t, before, *store.CurrentUser())

	state, err := storage.Load()
	require.NoError(t, err)
	assert.Equal(t, "t9", state.Token)
	assert.Equal(t, before, *state.User)
}

func TestRefreshToken_FailureLogsOut(t *testing.T) {
	var requests atomic.Int64
	mux := http.NewServeMux()
	mux.Handle("/auth/login", authBackend(t, &requests))
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	store, storage, _ := newTestStore(t, mux)
	require.True(t, store.Login(context.Background(), "a@x.com", "secret1").Success)

	assert.False(t, store.RefreshToken(context.Background()))
	assert.Nil(t, store.CurrentUser())
	assert.Empty(t, store.Token())

	state, err := storage.Load()
	require.NoError(t, err)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Token)
}
