package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduverse/lms/core/assignment"
	"github.com/eduverse/lms/core/course"
	"github.com/eduverse/lms/core/nav"
)

// screenPayload is the view model every dashboard screen renders from.
type screenPayload struct {
	Screen string            `json:"screen"`
	Params map[string]string `json:"params,omitempty"`
	Data   interface{}       `json:"data,omitempty"`
}

type screenApi struct {
	deps *ServerDeps
}

// registerScreens binds a handler to every route in the table. The table and
// echo share the ":param" pattern syntax, so patterns register as-is; guarded
// screens sit behind the gate, which redirects every denial to the login route.
func registerScreens(app *echo.Echo, table *nav.Table, deps *ServerDeps) {
	api := screenApi{deps: deps}
	gate := gateMiddleware(table)

	for _, rt := range table.Routes() {
		if rt.Pattern == nav.DashboardPath { // handled by the nav API
			continue
		}
		handler := api.handlerFor(rt.Screen)
		if rt.Public() {
			app.GET(rt.Pattern, handler)
		} else {
			app.GET(rt.Pattern, handler, gate)
		}
	}
}

// handlerFor picks the data loader for a screen. Screens without a loader
// render from the navigation payload alone.
func (api *screenApi) handlerFor(screen string) echo.HandlerFunc {
	loaders := map[string]func(echo.Context) (interface{}, error){
		"admin.home":      api.adminHome,
		"admin.schools":   api.adminSchools,
		"admin.users":     api.adminUsers,
		"admin.analytics": api.adminHome,

		"teacher.home":              api.teacherHome,
		"teacher.classes":           api.teacherClasses,
		"teacher.class_assignments": api.teacherClassAssignments,
		"teacher.grading":           api.teacherGrading,
		"teacher.analytics":         api.teacherHome,
		"teacher.live_sessions":     api.teacherLiveSessions,
		"teacher.recordings":        api.teacherRecordings,
		"teacher.meeting":           api.teacherMeeting,

		"student.home":        api.studentHome,
		"student.courses":     api.studentCourses,
		"student.course":      api.studentCourse,
		"student.assignments": api.studentAssignments,
		"student.progress":    api.studentProgress,

		"school.home":        api.schoolHome,
		"school.departments": api.schoolHome,
	}
	loader := loaders[screen]

	return func(ctx echo.Context) error {
		payload := screenPayload{Screen: screen}
		if m, ok := ctx.Get(contextMatchKey).(nav.Match); ok {
			payload.Params = m.Params
		}
		if loader != nil {
			data, err := loader(ctx)
			if err != nil {
				return err
			}
			payload.Data = data
		}
		return ctx.JSON(http.StatusOK, payload)
	}
}

// Screen data loaders

func (api *screenApi) adminHome(ctx echo.Context) (interface{}, error) {
	sum, err := api.deps.AnalyticsSvc.AdminSummary(ctx.Request().Context())
	if err != nil {
		return nil, errors.Wrap(err, "loading admin summary")
	}
	return sum, nil
}

func (api *screenApi) adminSchools(ctx echo.Context) (interface{}, error) {
	return api.deps.SchoolSvc.QueryAll(ctx.Request().Context())
}

func (api *screenApi) adminUsers(ctx echo.Context) (interface{}, error) {
	return api.deps.UserSvc.QueryAll(ctx.Request().Context())
}

func (api *screenApi) teacherHome(ctx echo.Context) (interface{}, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, err
	}
	sum, err := api.deps.AnalyticsSvc.TeacherSummary(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return nil, errors.Wrap(err, "loading teacher summary")
	}
	return sum, nil
}

func (api *screenApi) teacherClasses(ctx echo.Context) (interface{}, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, err
	}
	return api.deps.CourseSvc.ClassesByTeacher(ctx.Request().Context(), claims.Subject)
}

func (api *screenApi) teacherClassAssignments(ctx echo.Context) (interface{}, error) {
	return api.deps.AssignmentSvc.ByClass(ctx.Request().Context(), ctx.Param("classId"))
}

func (api *screenApi) teacherGrading(ctx echo.Context) (interface{}, error) {
	rctx := ctx.Request().Context()
	asg, err := api.deps.AssignmentSvc.GetByID(rctx, ctx.Param("assignmentId"))
	if err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return nil, errHttpNotFound
		}
		return nil, err
	}
	subs, err := api.deps.AssignmentSvc.Submissions(rctx, asg.ID)
	if err != nil {
		return nil, err
	}
	return echo.Map{"assignment": asg, "submissions": subs}, nil
}

func (api *screenApi) teacherLiveSessions(ctx echo.Context) (interface{}, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, err
	}
	return api.deps.LiveSvc.Upcoming(ctx.Request().Context(), claims.Subject)
}

func (api *screenApi) teacherRecordings(ctx echo.Context) (interface{}, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, err
	}
	return api.deps.LiveSvc.Recordings(ctx.Request().Context(), claims.Subject)
}

func (api *screenApi) teacherMeeting(ctx echo.Context) (interface{}, error) {
	rctx := ctx.Request().Context()
	ses, err := api.deps.LiveSvc.GetByID(rctx, ctx.Param("sessionId"))
	if err != nil {
		return nil, errHttpNotFound
	}
	roster, err := api.deps.LiveSvc.Roster(rctx, ses.ID)
	if err != nil {
		return nil, err
	}
	return echo.Map{"session": ses, "roster": roster}, nil
}

func (api *screenApi) studentHome(ctx echo.Context) (interface{}, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, err
	}
	sum, err := api.deps.AnalyticsSvc.StudentSummary(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return nil, errors.Wrap(err, "loading student summary")
	}
	return sum, nil
}

func (api *screenApi) studentCourses(ctx echo.Context) (interface{}, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, err
	}
	return api.deps.CourseSvc.ForStudent(ctx.Request().Context(), claims.Subject)
}

func (api *screenApi) studentCourse(ctx echo.Context) (interface{}, error) {
	crs, err := api.deps.CourseSvc.GetByID(ctx.Request().Context(), ctx.Param("courseId"))
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return nil, errHttpNotFound
		}
		return nil, err
	}
	return crs, nil
}

func (api *screenApi) studentAssignments(ctx echo.Context) (interface{}, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, err
	}
	return api.deps.AssignmentSvc.SubmissionsByStudent(ctx.Request().Context(), claims.Subject)
}

func (api *screenApi) studentProgress(ctx echo.Context) (interface{}, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, err
	}
	return api.deps.CourseSvc.ProgressFor(ctx.Request().Context(), claims.Subject)
}

func (api *screenApi) schoolHome(ctx echo.Context) (interface{}, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, err
	}
	sch, err := api.deps.SchoolSvc.GetByCode(ctx.Request().Context(), claims.Code)
	if err != nil {
		return nil, nil // school record not provisioned yet
	}
	return sch, nil
}
