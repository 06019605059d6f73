package school

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/eduverse/lms/core"
)

type (
	School struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Code    string `json:"code"`
		Address string `json:"address,omitempty"`

		Departments []Department `json:"departments"`

		TeacherCount int       `json:"teacher_count"`
		StudentCount int       `json:"student_count"`
		CreatedAt    time.Time `json:"created_at"` // UTC
		UpdatedAt    time.Time `json:"updated_at"` // UTC
	}

	Department struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Head         string `json:"head,omitempty"`
		TeacherCount int    `json:"teacher_count"`
		StudentCount int    `json:"student_count"`
	}
)

// NewSchool contains information needed to register a new School.
type NewSchool struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`

	// Code is the school admin's access code; server-set, never bound from
	// requests. Generated when empty.
	Code string `json:"-"`
}

func (ns *NewSchool) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Address = core.CleanString(ns.Address)
	return validate.Struct(ns)
}

type NewDepartment struct {
	Name string `json:"name" validate:"required"`
	Head string `json:"head"`
}

func (nd *NewDepartment) Validate(validate *validator.Validate) error {
	nd.Name = core.CleanString(nd.Name)
	nd.Head = core.CleanString(nd.Head)
	return validate.Struct(nd)
}
