// Package routes decides view reachability from the current session.
// The guard holds no state of its own: every navigation is a fresh
// decision over what the session store reports.
package routes

import (
	"strings"

	"github.com/deskd-dev/deskd/internal/session"
)

// Well-known paths.
const (
	PathHome     = "/"
	PathLogin    = "/login"
	PathRegister = "/register"
)

// DeniedMessage is shown when an authenticated user lacks the role for
// a view.
const DeniedMessage = "You don't have permission to access this page."

// Kind is the outcome of a navigation decision.
type Kind int

const (
	// Allow renders the requested view.
	Allow Kind = iota
	// RedirectLogin sends an anonymous user to the login view.
	RedirectLogin
	// RedirectHome sends an authenticated user away from login/register
	// and from unknown paths.
	RedirectHome
	// Deny renders an explicit access-denied state, not a redirect.
	Deny
)

// Decision is the result of one navigation check.
type Decision struct {
	Kind Kind
	// Target is the redirect destination for the redirect kinds.
	Target string
	// Message is the user-facing denial message for Deny.
	Message string
}

// Route is one guarded view. An empty AllowedRoles list means any
// authenticated role may enter.
type Route struct {
	Pattern      string
	AllowedRoles []session.Role
}

// AppRoutes is the application's route table.
var AppRoutes = []Route{
	{Pattern: "/"},
	{Pattern: "/tickets"},
	{Pattern: "/tickets/new"},
	{Pattern: "/tickets/:id"},
	{Pattern: "/kb", AllowedRoles: []session.Role{session.RoleAdmin, session.RoleAgent}},
	{Pattern: "/settings", AllowedRoles: []session.Role{session.RoleAdmin}},
}

// Guard evaluates navigations against a route table.
type Guard struct {
	routes []Route
}

// New creates a guard over the given route table.
func New(routes []Route) *Guard {
	return &Guard{routes: routes}
}

// Decide returns the navigation decision for the requested path given
// the current user (nil means anonymous).
func (g *Guard) Decide(user *session.User, path string) Decision {
	authPage := path == PathLogin || path == PathRegister

	if user == nil {
		if authPage {
			return Decision{Kind: Allow}
		}
		return Decision{Kind: RedirectLogin, Target: PathLogin}
	}

	if authPage {
		return Decision{Kind: RedirectHome, Target: PathHome}
	}

	route, ok := g.match(path)
	if !ok {
		// SPA wildcard: unknown paths land on home.
		return Decision{Kind: RedirectHome, Target: PathHome}
	}

	if len(route.AllowedRoles) == 0 {
		return Decision{Kind: Allow}
	}

	for _, role := range route.AllowedRoles {
		// Fail closed: an unknown user role never matches.
		if user.Role.Valid() && user.Role == role {
			return Decision{Kind: Allow}
		}
	}

	return Decision{Kind: Deny, Message: DeniedMessage}
}

// match finds the route whose pattern covers the path. Patterns are
// literal segments except ":param", which matches any single segment.
func (g *Guard) match(path string) (Route, bool) {
	pathSegs := splitPath(path)

	for _, route := range g.routes {
		patternSegs := splitPath(route.Pattern)
		if len(patternSegs) != len(pathSegs) {
			continue
		}

		matched := true
		for i, seg := range patternSegs {
			if strings.HasPrefix(seg, ":") {
				continue
			}
			if seg != pathSegs[i] {
				matched = false
				break
			}
		}
		if matched {
			return route, true
		}
	}

	return Route{}, false
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
