package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduverse/lms/core/school"
	"github.com/eduverse/lms/core/user"
)

type schoolApi struct {
	deps *ServerDeps
}

func registerSchoolAPI(g *echo.Group, deps *ServerDeps) {
	api := schoolApi{deps: deps}

	sg := g.Group("/schools", requireAuth())
	sg.POST("", api.create, adminMiddleware())
	sg.GET("", api.query, adminMiddleware())
	sg.DELETE("/:id", api.destroy, adminMiddleware())
	sg.GET("/:id", api.retrieve, roleMiddleware(user.RoleAdmin, user.RoleSchool))
	sg.POST("/:id/departments", api.addDepartment, roleMiddleware(user.RoleAdmin, user.RoleSchool))
}

func (api *schoolApi) create(ctx echo.Context) error {
	var data school.NewSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchool")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	sch, err := api.deps.SchoolSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating school")
	}
	return ctx.JSON(http.StatusCreated, sch)
}

func (api *schoolApi) query(ctx echo.Context) error {
	schools, err := api.deps.SchoolSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying schools")
	}
	if schools == nil {
		schools = []school.School{}
	}
	return ctx.JSON(http.StatusOK, schools)
}

func (api *schoolApi) retrieve(ctx echo.Context) error {
	sch, err := api.getOwnSchool(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) addDepartment(ctx echo.Context) error {
	if _, err := api.getOwnSchool(ctx); err != nil {
		return err
	}

	var data school.NewDepartment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDepartment")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	sch, err := api.deps.SchoolSvc.AddDepartment(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "adding department")
	}
	return ctx.JSON(http.StatusCreated, sch)
}

// getOwnSchool resolves the :id school. Admins reach any school; school
// admins only the one matching their access code, others are hidden.
func (api *schoolApi) getOwnSchool(ctx echo.Context) (school.School, error) {
	sch, err := api.deps.SchoolSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return school.School{}, errHttpNotFound
		}
		return school.School{}, errors.Wrap(err, "getting school")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return school.School{}, errUnauthorized
	}
	if !claims.IsAdmin && sch.Code != claims.Code {
		return school.School{}, errHttpNotFound
	}
	return sch, nil
}

func (api *schoolApi) destroy(ctx echo.Context) error {
	if err := api.deps.SchoolSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting school")
	}
	return ctx.NoContent(http.StatusNoContent)
}
