package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduverse/lms/core"
	"github.com/eduverse/lms/core/live"
	"github.com/eduverse/lms/core/user"
)

type liveApi struct {
	deps *ServerDeps
}

func registerLiveAPI(g *echo.Group, deps *ServerDeps) {
	api := liveApi{deps: deps}

	lg := g.Group("/live-sessions", requireAuth())
	lg.POST("", api.schedule, roleMiddleware(user.RoleTeacher))
	lg.GET("", api.query)
	lg.GET("/:id", api.retrieve)
	lg.POST("/:id/start", api.start, roleMiddleware(user.RoleTeacher))
	lg.POST("/:id/end", api.end, roleMiddleware(user.RoleTeacher))

	lg.POST("/:id/join", api.join)
	lg.POST("/:id/leave", api.leave)
	lg.GET("/:id/roster", api.roster)
	lg.PUT("/:id/media", api.setMedia)
}

func (api *liveApi) schedule(ctx echo.Context) error {
	var data live.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errUnauthorized
	}
	ses, err := api.deps.LiveSvc.Schedule(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "scheduling session")
	}
	return ctx.JSON(http.StatusCreated, ses)
}

func (api *liveApi) query(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errUnauthorized
	}

	var sessions []live.Session
	if claims.IsTeacher {
		sessions, err = api.deps.LiveSvc.Upcoming(rctx, claims.Subject)
	} else {
		// students see the sessions of their classes
		classes, cerr := api.deps.CourseSvc.ClassesByStudent(rctx, claims.Subject)
		if cerr != nil {
			return errors.Wrap(cerr, "querying classes")
		}
		ids := make([]string, 0, len(classes))
		for _, cls := range classes {
			ids = append(ids, cls.ID)
		}
		sessions, err = api.deps.LiveSvc.ForClasses(rctx, ids...)
	}
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	if sessions == nil {
		sessions = []live.Session{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *liveApi) retrieve(ctx echo.Context) error {
	ses, err := api.deps.LiveSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == live.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting session")
	}
	return ctx.JSON(http.StatusOK, ses)
}

func (api *liveApi) start(ctx echo.Context) error {
	if err := api.checkHost(ctx); err != nil {
		return err
	}

	ses, err := api.deps.LiveSvc.Start(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == live.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "starting session")
	}
	return ctx.JSON(http.StatusOK, ses)
}

func (api *liveApi) end(ctx echo.Context) error {
	if err := api.checkHost(ctx); err != nil {
		return err
	}

	var data EndSessionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EndSessionRequest")
	}

	ses, err := api.deps.LiveSvc.End(ctx.Request().Context(), ctx.Param("id"), data.RecordingKey)
	if err != nil {
		if errors.Cause(err) == live.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "ending session")
	}
	return ctx.JSON(http.StatusOK, ses)
}

// checkHost hides sessions hosted by other teachers; only the host can start
// or end their session.
func (api *liveApi) checkHost(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errUnauthorized
	}

	ses, err := api.deps.LiveSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == live.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting session")
	}
	if ses.HostID != claims.Subject {
		return errHttpNotFound
	}
	return nil
}

func (api *liveApi) join(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errUnauthorized
	}

	p, err := api.deps.LiveSvc.Join(ctx.Request().Context(), ctx.Param("id"), usr)
	if err != nil {
		switch errors.Cause(err) {
		case live.ErrNotFound:
			return errHttpNotFound
		case live.ErrNotLive:
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "joining session")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *liveApi) leave(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errUnauthorized
	}
	if err = api.deps.LiveSvc.Leave(ctx.Request().Context(), ctx.Param("id"), claims.Subject); err != nil {
		return errors.Wrap(err, "leaving session")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *liveApi) roster(ctx echo.Context) error {
	roster, err := api.deps.LiveSvc.Roster(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing roster")
	}
	if roster == nil {
		roster = []live.Participant{}
	}
	return ctx.JSON(http.StatusOK, roster)
}

func (api *liveApi) setMedia(ctx echo.Context) error {
	var data live.MediaState
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MediaState")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errUnauthorized
	}
	p, err := api.deps.LiveSvc.SetMedia(ctx.Request().Context(), ctx.Param("id"), claims.Subject, data)
	if err != nil {
		if errors.Cause(err) == live.ErrNotInRoom {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating media state")
	}
	return ctx.JSON(http.StatusOK, p)
}

type EndSessionRequest struct {
	RecordingKey string `json:"recording_key"`
}
