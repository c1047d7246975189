package middleware

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/dearecho/dearecho-api/internal/api/metrics"
	"github.com/dearecho/dearecho-api/internal/core/guard"
	"github.com/dearecho/dearecho-api/internal/core/ports"
)

// OriginParam carries the path a forward-guard redirect came from, so a
// later login can restore it.
const OriginParam = "from"

// Guard evaluates the route guards for every page navigation. Decisions are
// recomputed per request from a fresh session snapshot; nothing is memoized
// across navigations since auth state changes asynchronously.
func Guard(sessions ports.SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := sessions.Snapshot()
			if !sess.Valid() {
				// Store/guard wiring invariant broken; this is a programming
				// error, not a request problem. Fail loudly.
				panic(fmt.Sprintf("guard: invalid session state %+v", sess))
			}

			path := c.Path()
			decision := guard.Evaluate(sess, path, c.QueryParam(OriginParam))
			metrics.GuardDecisionsTotal.WithLabelValues(guardName(path), decisionName(decision)).Inc()

			switch decision.Action {
			case guard.Allow:
				return next(c)

			case guard.Hold:
				// Session still rehydrating: no redirect yet, or the user
				// would flicker through /auth before the persisted session
				// is confirmed.
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "initializing"})

			case guard.Redirect:
				target := decision.Target
				if target == guard.PathAuth && decision.Origin != "" {
					target += "?" + OriginParam + "=" + url.QueryEscape(decision.Origin)
				}
				// 303 gives replace semantics: no back-button loop into the
				// guarded page.
				return c.Redirect(http.StatusSeeOther, target)

			default:
				return echo.NewHTTPError(http.StatusNotFound, "page not found")
			}
		}
	}
}

func guardName(path string) string {
	if path == guard.PathAuth {
		return "reverse"
	}
	return "forward"
}

func decisionName(d guard.Decision) string {
	switch d.Action {
	case guard.Allow:
		return "allow"
	case guard.Redirect:
		return "redirect"
	case guard.Hold:
		return "hold"
	default:
		return "not_found"
	}
}
