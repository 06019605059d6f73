package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/eduverse/lms/core"
)

type (
	Course struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Subject     string `json:"subject"`
		Description string `json:"description,omitempty"`
		TeacherID   string `json:"teacher_id"`

		Modules []Module `json:"modules,omitempty"`

		EnrolledCount int       `json:"enrolled_count"`
		CreatedAt     time.Time `json:"created_at"` // UTC
		UpdatedAt     time.Time `json:"updated_at"` // UTC
	}

	Module struct {
		ID      string   `json:"id"`
		Title   string   `json:"title"`
		Lessons []Lesson `json:"lessons,omitempty"`
	}

	Lesson struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		DurationMin int    `json:"duration_min"`
	}

	// Class is a teacher's group of students; students enter with the
	// class join code.
	Class struct {
		ID         string   `json:"id"`
		Name       string   `json:"name"`
		Subject    string   `json:"subject"`
		Schedule   string   `json:"schedule,omitempty"`
		TeacherID  string   `json:"teacher_id"`
		JoinCode   string   `json:"join_code"`
		StudentIDs []string `json:"student_ids"`

		CreatedAt time.Time `json:"created_at"` // UTC
	}

	// Enrollment tracks a student's standing in a course.
	Enrollment struct {
		StudentID string `json:"student_id"`
		CourseID  string `json:"course_id"`
		// Progress is percent complete, 0-100.
		Progress   int       `json:"progress"`
		Grade      string    `json:"grade,omitempty"`
		EnrolledAt time.Time `json:"enrolled_at"` // UTC
	}
)

// NewCourse contains information needed by the course creator wizard.
type NewCourse struct {
	Title       string      `json:"title" validate:"required"`
	Subject     string      `json:"subject" validate:"required"`
	Description string      `json:"description"`
	Modules     []NewModule `json:"modules" validate:"dive"`
}

type NewModule struct {
	Title   string      `json:"title" validate:"required"`
	Lessons []NewLesson `json:"lessons" validate:"dive"`
}

type NewLesson struct {
	Title       string `json:"title" validate:"required"`
	DurationMin int    `json:"duration_min" validate:"omitempty,min=1"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Subject = core.CleanString(nc.Subject)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

type NewClass struct {
	Name     string `json:"name" validate:"required"`
	Subject  string `json:"subject" validate:"required"`
	Schedule string `json:"schedule"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Subject = core.CleanString(nc.Subject)
	nc.Schedule = core.CleanString(nc.Schedule)
	return validate.Struct(nc)
}
