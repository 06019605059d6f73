package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduverse/lms/core"
	"github.com/eduverse/lms/core/course"
	"github.com/eduverse/lms/core/user"
)

type courseApi struct {
	deps *ServerDeps
}

func registerCourseAPI(g *echo.Group, deps *ServerDeps) {
	api := courseApi{deps: deps}

	cg := g.Group("/courses", requireAuth())
	cg.POST("", api.create, roleMiddleware(user.RoleTeacher))
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.DELETE("/:id", api.destroy, roleMiddleware(user.RoleAdmin, user.RoleTeacher))
	cg.POST("/:id/enroll", api.enroll, roleMiddleware(user.RoleStudent))
	cg.PUT("/:id/progress", api.recordProgress, roleMiddleware(user.RoleStudent))

	kg := g.Group("/classes", requireAuth())
	kg.POST("", api.createClass, roleMiddleware(user.RoleTeacher))
	kg.GET("", api.queryClasses, roleMiddleware(user.RoleTeacher))
	kg.GET("/:id", api.retrieveClass)
	kg.POST("/join", api.joinClass, roleMiddleware(user.RoleStudent))
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errUnauthorized
	}
	crs, err := api.deps.CourseSvc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) query(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errUnauthorized
	}

	var courses []course.Course
	switch user.Role(claims.Role) {
	case user.RoleTeacher:
		courses, err = api.deps.CourseSvc.ByTeacher(rctx, claims.Subject)
	case user.RoleStudent:
		courses, err = api.deps.CourseSvc.ForStudent(rctx, claims.Subject)
	default:
		courses, err = api.deps.CourseSvc.QueryAll(rctx)
	}
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.deps.CourseSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting course")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	if err := api.deps.CourseSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) enroll(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errUnauthorized
	}

	enr, err := api.deps.CourseSvc.Enroll(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		switch errors.Cause(err) {
		case course.ErrNotFound:
			return errHttpNotFound
		case course.ErrAlreadyEnrolled:
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "enrolling")
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *courseApi) recordProgress(ctx echo.Context) error {
	var data ProgressRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProgressRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errUnauthorized
	}
	enr, err := api.deps.CourseSvc.RecordProgress(ctx.Request().Context(), course.Enrollment{
		StudentID: claims.Subject,
		CourseID:  ctx.Param("id"),
		Progress:  data.Progress,
		Grade:     data.Grade,
	})
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "recording progress")
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *courseApi) createClass(ctx echo.Context) error {
	var data course.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errUnauthorized
	}
	cls, err := api.deps.CourseSvc.CreateClass(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *courseApi) queryClasses(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errUnauthorized
	}
	classes, err := api.deps.CourseSvc.ClassesByTeacher(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []course.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *courseApi) retrieveClass(ctx echo.Context) error {
	cls, err := api.deps.CourseSvc.GetClass(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrClassNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting class")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *courseApi) joinClass(ctx echo.Context) error {
	var data JoinClassRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to JoinClassRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errUnauthorized
	}
	cls, err := api.deps.CourseSvc.JoinClass(ctx.Request().Context(), claims.Subject, data.JoinCode)
	if err != nil {
		switch errors.Cause(err) {
		case course.ErrClassNotFound:
			return core.NewValidationError(nil, core.FieldError{Field: "join_code", Error: "unknown join code"})
		case course.ErrAlreadyInClass:
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "joining class")
	}
	return ctx.JSON(http.StatusOK, cls)
}

type (
	ProgressRequest struct {
		Progress int    `json:"progress" validate:"min=0,max=100"`
		Grade    string `json:"grade"`
	}

	JoinClassRequest struct {
		JoinCode string `json:"join_code" validate:"required"`
	}
)

func (pr *ProgressRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(pr)
}

func (jr *JoinClassRequest) Validate(validate *validator.Validate) error {
	jr.JoinCode = core.CleanString(jr.JoinCode)
	return validate.Struct(jr)
}
