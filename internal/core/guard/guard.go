// Package guard decides, per navigation, whether a page may render or the
// request must be redirected. Decisions are pure functions of the session
// and the requested path so they stay testable without any transport.
package guard

import "github.com/dearecho/dearecho-api/internal/core/domain"

// Navigable paths.
const (
	PathLanding = "/"
	PathAuth    = "/auth"
	PathMood    = "/mood"
	PathLetter  = "/letter"
	PathJournal = "/journal"
)

// Action is the outcome of a guard evaluation.
type Action int

const (
	// Allow renders the requested page.
	Allow Action = iota
	// Redirect replaces the navigation with Target, carrying Origin so a
	// later login can restore it. Replacing semantics: no back-button loop
	// into the guarded page.
	Redirect
	// Hold defers the decision: the session is still rehydrating and
	// redirecting now would flicker before the persisted session arrives.
	Hold
	// NotFound is produced for paths outside the route table.
	NotFound
)

// Decision is ephemeral, recomputed on every navigation.
type Decision struct {
	Action Action
	Target string
	Origin string
}

var routes = map[string]bool{ // path -> requires authentication
	PathLanding: false,
	PathAuth:    false,
	PathMood:    true,
	PathLetter:  true,
	PathJournal: true,
}

// Protected reports whether path is forward-guarded.
func Protected(path string) bool {
	return routes[path]
}

// Known reports whether path is in the route table.
func Known(path string) bool {
	_, ok := routes[path]
	return ok
}

// SafeOrigin returns origin if it is a known path, else the default landing
// path. Keeps redirect targets inside the route table.
func SafeOrigin(origin string) string {
	if Known(origin) {
		return origin
	}
	return PathLanding
}

// Evaluate runs the guard appropriate for path. origin is the path captured
// by a prior forward-guard redirect, if any; only the reverse guard uses it.
// Guards never decide while the session is initializing.
func Evaluate(s domain.Session, path, origin string) Decision {
	if !Known(path) {
		return Decision{Action: NotFound}
	}
	if s.Initializing {
		return Decision{Action: Hold}
	}
	if path == PathAuth {
		return Reverse(s, path, origin)
	}
	return Forward(s, path)
}

// Forward protects pages that require a session: anonymous navigation is
// redirected to the auth page with the requested path as origin.
func Forward(s domain.Session, path string) Decision {
	if s.Initializing {
		return Decision{Action: Hold}
	}
	if !Protected(path) || s.Authenticated {
		return Decision{Action: Allow}
	}
	return Decision{Action: Redirect, Target: PathAuth, Origin: path}
}

// Reverse keeps authenticated users off the auth page, bouncing them to the
// origin captured by a prior forward-guard redirect, or the landing page.
func Reverse(s domain.Session, path string, origin string) Decision {
	if s.Initializing {
		return Decision{Action: Hold}
	}
	if !s.Authenticated {
		return Decision{Action: Allow}
	}
	return Decision{Action: Redirect, Target: SafeOrigin(origin), Origin: origin}
}
