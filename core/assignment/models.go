package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/eduverse/lms/core"
)

// Assignment lifecycle
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusClosed    Status = "closed"
)

// Submission standing
type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionLate      SubmissionStatus = "late"
	SubmissionGraded    SubmissionStatus = "graded"
)

type (
	Assignment struct {
		ID          string    `json:"id"`
		ClassID     string    `json:"class_id"`
		Title       string    `json:"title"`
		Description string    `json:"description,omitempty"`
		Points      int       `json:"points"`
		DueDate     time.Time `json:"due_date"` // UTC
		Status      Status    `json:"status"`
		CreatedAt   time.Time `json:"created_at"` // UTC
		UpdatedAt   time.Time `json:"updated_at"` // UTC
	}

	Submission struct {
		ID            string           `json:"id"`
		AssignmentID  string           `json:"assignment_id"`
		StudentID     string           `json:"student_id"`
		Content       string           `json:"content,omitempty"`
		AttachmentKey string           `json:"attachment_key,omitempty"`
		Status        SubmissionStatus `json:"status"`
		Grade         *int             `json:"grade,omitempty"`
		Feedback      string           `json:"feedback,omitempty"`
		SubmittedAt   time.Time        `json:"submitted_at"`          // UTC
		GradedAt      time.Time        `json:"graded_at,omitempty"`   // UTC; zero until graded
	}
)

// NewAssignment contains information needed to create an Assignment.
type NewAssignment struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Points      int       `json:"points" validate:"required,min=1"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	Publish     bool      `json:"publish"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	return validate.Struct(na)
}

// NewSubmission is a student's answer; the attachment, if any, is streamed
// to the blob store separately.
type NewSubmission struct {
	Content        string `json:"content"`
	AttachmentName string `json:"attachment_name"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.Content = core.CleanString(ns.Content)
	ns.AttachmentName = core.CleanString(ns.AttachmentName)
	return validate.Struct(ns)
}

// GradeInput is what the grading screen submits.
type GradeInput struct {
	Points   int    `json:"points" validate:"min=0"`
	Feedback string `json:"feedback"`
}

func (g *GradeInput) Validate(validate *validator.Validate) error {
	g.Feedback = core.CleanString(g.Feedback)
	return validate.Struct(g)
}
