package course

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound        = errors.New("course not found")
	ErrClassNotFound   = errors.New("class not found")
	ErrAlreadyEnrolled = errors.New("student already enrolled")
	ErrAlreadyInClass  = errors.New("student already in class")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		QueryAllCourses(ctx context.Context) ([]Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		CoursesByTeacher(ctx context.Context, teacherID string) ([]Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCoursesByID(ctx context.Context, ids ...string) error

		CreateClass(ctx context.Context, cls Class) (Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
		GetClassByJoinCode(ctx context.Context, code string) (Class, error)
		ClassesByTeacher(ctx context.Context, teacherID string) ([]Class, error)
		ClassesByStudent(ctx context.Context, studentID string) ([]Class, error)
		UpdateClass(ctx context.Context, cls Class) (Class, error)

		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		EnrollmentsByStudent(ctx context.Context, studentID string) ([]Enrollment, error)
		EnrollmentsByCourse(ctx context.Context, courseID string) ([]Enrollment, error)
		UpdateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, teacherID string, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		ID:          uuid.New().String(),
		Title:       nc.Title,
		Subject:     nc.Subject,
		Description: nc.Description,
		TeacherID:   teacherID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, nm := range nc.Modules {
		mod := Module{ID: uuid.New().String(), Title: nm.Title}
		for _, nl := range nm.Lessons {
			mod.Lessons = append(mod.Lessons, Lesson{
				ID:          uuid.New().String(),
				Title:       nl.Title,
				DurationMin: nl.DurationMin,
			})
		}
		crs.Modules = append(crs.Modules, mod)
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *Service) ByTeacher(ctx context.Context, teacherID string) ([]Course, error) {
	return svc.repo.CoursesByTeacher(ctx, teacherID)
}

// ForStudent lists the courses a student is enrolled in.
func (svc *Service) ForStudent(ctx context.Context, studentID string) ([]Course, error) {
	enrs, err := svc.repo.EnrollmentsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	courses := make([]Course, 0, len(enrs))
	for _, enr := range enrs {
		crs, err := svc.repo.GetCourseByID(ctx, enr.CourseID)
		if err != nil {
			if errors.Cause(err) == ErrNotFound {
				continue
			}
			return nil, err
		}
		courses = append(courses, crs)
	}
	return courses, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCoursesByID(ctx, ids...)
}

func (svc *Service) Enroll(ctx context.Context, studentID, courseID string) (Enrollment, error) {
	enrs, err := svc.repo.EnrollmentsByStudent(ctx, studentID)
	if err != nil {
		return Enrollment{}, err
	}
	for _, enr := range enrs {
		if enr.CourseID == courseID {
			return Enrollment{}, ErrAlreadyEnrolled
		}
	}

	crs, err := svc.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return Enrollment{}, err
	}
	crs.EnrolledCount++
	if _, err = svc.repo.UpdateCourse(ctx, crs); err != nil {
		return Enrollment{}, err
	}

	return svc.repo.CreateEnrollment(ctx, Enrollment{
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: time.Now().UTC(),
	})
}

func (svc *Service) ProgressFor(ctx context.Context, studentID string) ([]Enrollment, error) {
	return svc.repo.EnrollmentsByStudent(ctx, studentID)
}

func (svc *Service) RecordProgress(ctx context.Context, enr Enrollment) (Enrollment, error) {
	return svc.repo.UpdateEnrollment(ctx, enr)
}

// Classes

func (svc *Service) CreateClass(ctx context.Context, teacherID string, nc NewClass) (Class, error) {
	cls := Class{
		ID:        uuid.New().String(),
		Name:      nc.Name,
		Subject:   nc.Subject,
		Schedule:  nc.Schedule,
		TeacherID: teacherID,
		JoinCode:  "CLS-" + strings.ToUpper(uuid.New().String()[:6]),
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateClass(ctx, cls)
}

func (svc *Service) GetClass(ctx context.Context, id string) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *Service) ClassesByTeacher(ctx context.Context, teacherID string) ([]Class, error) {
	return svc.repo.ClassesByTeacher(ctx, teacherID)
}

func (svc *Service) ClassesByStudent(ctx context.Context, studentID string) ([]Class, error) {
	return svc.repo.ClassesByStudent(ctx, studentID)
}

// JoinClass adds a student to the class matching the join code.
func (svc *Service) JoinClass(ctx context.Context, studentID, joinCode string) (Class, error) {
	cls, err := svc.repo.GetClassByJoinCode(ctx, strings.ToUpper(strings.TrimSpace(joinCode)))
	if err != nil {
		return Class{}, err
	}
	for _, id := range cls.StudentIDs {
		if id == studentID {
			return Class{}, ErrAlreadyInClass
		}
	}
	cls.StudentIDs = append(cls.StudentIDs, studentID)
	return svc.repo.UpdateClass(ctx, cls)
}
