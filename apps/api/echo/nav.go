package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduverse/lms/core/nav"
)

type (
	resolveResponse struct {
		Matched  bool              `json:"matched"`
		Screen   string            `json:"screen,omitempty"`
		Params   map[string]string `json:"params,omitempty"`
		Decision string            `json:"decision"`
		Redirect string            `json:"redirect,omitempty"`
	}

	menuResponse struct {
		Role  string               `json:"role"`
		Items []nav.ActiveMenuItem `json:"items"`
	}
)

// registerNavAPI exposes the navigation core to clients: route resolution,
// the role menu and the ambiguous dashboard redirect.
func registerNavAPI(app *echo.Echo, table *nav.Table) {
	app.GET("/v1/nav/resolve", func(ctx echo.Context) error {
		usr, ok := contextSessionUser(ctx)
		res := table.Resolve(ctx.QueryParam("path"), usr, ok)

		resp := resolveResponse{
			Matched:  res.Matched,
			Decision: res.Decision.String(),
			Redirect: res.Redirect,
		}
		if res.Matched {
			resp.Screen = res.Match.Route.Screen
			resp.Params = res.Match.Params
		}
		return ctx.JSON(http.StatusOK, resp)
	})

	app.GET("/v1/nav/menu", func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errUnauthorized
		}
		usr := claims.sessionUser()
		items := nav.Activate(nav.MenuFor(usr.Role), ctx.QueryParam("path"))
		return ctx.JSON(http.StatusOK, menuResponse{Role: string(usr.Role), Items: items})
	})

	// /dashboard resolves to the role landing page; no session lands on login
	app.GET(nav.DashboardPath, func(ctx echo.Context) error {
		usr, ok := contextSessionUser(ctx)
		return ctx.Redirect(http.StatusSeeOther, nav.LandingRedirect(usr, ok))
	})
}
