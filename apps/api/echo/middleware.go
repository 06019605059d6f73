package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduverse/lms/core"
	"github.com/eduverse/lms/core/nav"
	"github.com/eduverse/lms/core/user"
)

// sessionMiddleware extracts and verifies the JWT when one is present. It
// never rejects: public routes stay reachable and the gate decides the rest.
func sessionMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if raw, ok := extractToken(ctx); ok {
				if claims, err := parseToken(conf, raw); err == nil {
					ctx.Set(contextClaimsKey, claims)
				}
			}
			return next(ctx)
		}
	}
}

// gateMiddleware authorizes the request path against the route table. Both
// anonymous and wrong-role denials redirect to the login route, matching the
// navigation semantics of the web client.
func gateMiddleware(table *nav.Table) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, ok := contextSessionUser(ctx)

			res := table.Resolve(ctx.Request().URL.Path, usr, ok)
			if !res.Decision.Allowed() {
				return ctx.Redirect(http.StatusSeeOther, res.Redirect)
			}

			ctx.Set(contextMatchKey, res.Match)
			return next(ctx)
		}
	}
}

// requireAuth guards JSON endpoints; unauthenticated calls get a 401 rather
// than a redirect.
func requireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if _, err := getContextClaims(ctx); err != nil {
				return errUnauthorized
			}
			return next(ctx)
		}
	}
}

// roleMiddleware guards JSON endpoints by role set.
func roleMiddleware(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errUnauthorized
			}
			for _, role := range roles {
				if claims.Role == string(role) {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func adminMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(user.RoleAdmin)
}

func contextSessionUser(ctx echo.Context) (user.User, bool) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, false
	}
	return claims.sessionUser(), true
}
