package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/deskd-dev/deskd/internal/api"
	"github.com/deskd-dev/deskd/internal/cli/userconfig"
	"github.com/deskd-dev/deskd/internal/logger"
	"github.com/deskd-dev/deskd/internal/routes"
	"github.com/deskd-dev/deskd/internal/session"
)

// appContext wires the session store, API client and route guard for
// one command invocation.
type appContext struct {
	cfg    *userconfig.UserConfig
	store  *session.Store
	client *api.Client
	guard  *routes.Guard
}

// stderrNotify is the CLI's transient-notification channel: failure
// messages surfaced by the request pipeline land on stderr.
func stderrNotify(message string) {
	fmt.Fprintf(os.Stderr, "✗ %s\n", message)
}

// newAppContext loads the user config, rehydrates the persisted
// session and wires the client. No network call is made here.
func newAppContext() (*appContext, error) {
	cfg, err := userconfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("API URL is not configured. Run 'deskd use <url>' first")
	}

	var storage session.Storage
	if cfg.TokenStorage == userconfig.StorageKeyring {
		storage, err = session.NewKeyringStorage()
	} else {
		storage, err = session.NewFileStorage()
	}
	if err != nil {
		return nil, err
	}

	log := logger.GetLogger()
	store := session.New(storage, log)
	client := api.New(cfg.APIURL, store, api.NotifierFunc(stderrNotify), log)
	store.SetClient(client)

	if err := store.InitializeAuth(); err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	return &appContext{
		cfg:    cfg,
		store:  store,
		client: client,
		guard:  routes.New(routes.AppRoutes),
	}, nil
}

// requireView runs the route guard for the view a command maps to.
// The redirect-to-login outcome becomes a "run 'deskd login'" error,
// the denied outcome keeps its user-facing message.
func (a *appContext) requireView(path string) error {
	decision := a.guard.Decide(a.store.CurrentUser(), path)
	switch decision.Kind {
	case routes.Allow, routes.RedirectHome:
		return nil
	case routes.RedirectLogin:
		return fmt.Errorf("not signed in. Run 'deskd login' first")
	case routes.Deny:
		return errors.New(decision.Message)
	}
	return nil
}
