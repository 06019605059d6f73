package echoapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduverse/lms/core"
	"github.com/eduverse/lms/core/assignment"
	"github.com/eduverse/lms/core/user"
)

type assignmentApi struct {
	deps *ServerDeps
}

func registerAssignmentAPI(g *echo.Group, deps *ServerDeps) {
	api := assignmentApi{deps: deps}

	ag := g.Group("/assignments", requireAuth())
	ag.POST("", api.create, roleMiddleware(user.RoleTeacher))
	ag.GET("/:id", api.retrieve)
	ag.POST("/:id/publish", api.publish, roleMiddleware(user.RoleTeacher))
	ag.POST("/:id/close", api.close, roleMiddleware(user.RoleTeacher))
	ag.DELETE("/:id", api.destroy, roleMiddleware(user.RoleTeacher))

	ag.POST("/:id/submissions", api.submit, roleMiddleware(user.RoleStudent))
	ag.GET("/:id/submissions", api.submissions, roleMiddleware(user.RoleTeacher))

	sg := g.Group("/submissions", requireAuth())
	sg.POST("/:id/grade", api.grade, roleMiddleware(user.RoleTeacher))
	sg.GET("/:id/attachment", api.attachment)
}

func (api *assignmentApi) create(ctx echo.Context) error {
	var data CreateAssignmentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CreateAssignmentRequest")
	}
	if err := data.NewAssignment.Validate(api.deps.Validate); err != nil {
		return err
	}
	if data.ClassID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "class_id", Error: "class_id is required"})
	}

	asg, err := api.deps.AssignmentSvc.Create(ctx.Request().Context(), data.ClassID, data.NewAssignment)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	asg, err := api.deps.AssignmentSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting assignment")
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) publish(ctx echo.Context) error {
	asg, err := api.deps.AssignmentSvc.Publish(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "publishing assignment")
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) close(ctx echo.Context) error {
	asg, err := api.deps.AssignmentSvc.Close(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "closing assignment")
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	if err := api.deps.AssignmentSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// submit accepts a multipart form: "content" text plus an optional "file"
// attachment streamed to the blob store.
func (api *assignmentApi) submit(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errUnauthorized
	}

	ns := assignment.NewSubmission{Content: ctx.FormValue("content")}

	var attachment io.Reader
	var size int64
	if fh, err := ctx.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "opening attachment")
		}
		defer f.Close()
		attachment = f
		size = fh.Size
		ns.AttachmentName = fh.Filename
	}
	if err = ns.Validate(api.deps.Validate); err != nil {
		return err
	}

	sub, err := api.deps.AssignmentSvc.Submit(ctx.Request().Context(), ctx.Param("id"), claims.Subject, ns, attachment, size)
	if err != nil {
		switch errors.Cause(err) {
		case assignment.ErrNotFound:
			return errHttpNotFound
		case assignment.ErrNotPublished, assignment.ErrAlreadySubmitted:
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "submitting assignment")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *assignmentApi) submissions(ctx echo.Context) error {
	subs, err := api.deps.AssignmentSvc.Submissions(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []assignment.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *assignmentApi) grade(ctx echo.Context) error {
	var data assignment.GradeInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeInput")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	sub, err := api.deps.AssignmentSvc.Grade(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == assignment.ErrSubmissionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "grading submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *assignmentApi) attachment(ctx echo.Context) error {
	rc, err := api.deps.AssignmentSvc.Attachment(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == assignment.ErrSubmissionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting attachment")
	}
	defer rc.Close()
	return ctx.Stream(http.StatusOK, "application/octet-stream", rc)
}

type CreateAssignmentRequest struct {
	ClassID string `json:"class_id"`
	assignment.NewAssignment
}
