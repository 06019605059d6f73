package dummydb

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/eduverse/lms/core/assignment"
	"github.com/eduverse/lms/core/course"
	"github.com/eduverse/lms/core/live"
	"github.com/eduverse/lms/core/school"
	"github.com/eduverse/lms/core/user"
)

// Seed loads a small demo dataset: one user per role, the school admin's
// school, a class with two students, a published course, an assignment with
// one submission and a scheduled live session. Every account's password is
// "Demo-pass1".
func Seed(ctx context.Context, db *DB) error {
	now := time.Now().UTC()

	users := []user.User{
		{ID: "u-admin", FirstName: "Ada", LastName: "Okafor", Email: "admin@eduverse.test", Role: user.RoleAdmin},
		{ID: "u-teacher", FirstName: "John", LastName: "Doe", Email: "teacher@eduverse.test", Role: user.RoleTeacher, Code: "TECH123"},
		{ID: "u-student", FirstName: "Sam", LastName: "Mwangi", Email: "student@eduverse.test", Role: user.RoleStudent},
		{ID: "u-student2", FirstName: "Lena", LastName: "Haddad", Email: "student2@eduverse.test", Role: user.RoleStudent},
		{ID: "u-school", FirstName: "Greenfield", LastName: "Academy", Email: "school@eduverse.test", Role: user.RoleSchool, Code: "SCH-4F9B2A"},
	}
	userRepo := NewUserRepository(db)
	for _, usr := range users {
		usr.IsActive = true
		usr.CreatedAt, usr.UpdatedAt = now, now
		if err := usr.SetPassword("Demo-pass1"); err != nil {
			return errors.Wrap(err, "hashing seed password")
		}
		if _, err := userRepo.CreateUser(ctx, usr); err != nil {
			return err
		}
	}

	// the school record shares the school admin's access code
	schoolRepo := NewSchoolRepository(db)
	if _, err := schoolRepo.CreateSchool(ctx, school.School{
		ID:   "sch-greenfield",
		Name: "Greenfield Academy",
		Code: "SCH-4F9B2A",
		Departments: []school.Department{
			{ID: "dep-math", Name: "Mathematics", Head: "John Doe", TeacherCount: 1, StudentCount: 2},
			{ID: "dep-sci", Name: "Sciences"},
		},
		TeacherCount: 1,
		StudentCount: 2,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return err
	}

	courseRepo := NewCourseRepository(db)
	cls := course.Class{
		ID:         "cls-algebra",
		Name:       "Algebra II",
		Subject:    "Mathematics",
		Schedule:   "Mon/Wed 10:00",
		TeacherID:  "u-teacher",
		JoinCode:   "CLS-ALG101",
		StudentIDs: []string{"u-student", "u-student2"},
		CreatedAt:  now,
	}
	if _, err := courseRepo.CreateClass(ctx, cls); err != nil {
		return err
	}

	crs := course.Course{
		ID:          "crs-linear",
		Title:       "Linear Equations",
		Subject:     "Mathematics",
		Description: "Solving and graphing linear equations.",
		TeacherID:   "u-teacher",
		Modules: []course.Module{
			{ID: "mod-1", Title: "Foundations", Lessons: []course.Lesson{
				{ID: "les-1", Title: "Slope and intercept", DurationMin: 25},
				{ID: "les-2", Title: "Point-slope form", DurationMin: 30},
			}},
		},
		EnrolledCount: 1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := courseRepo.CreateCourse(ctx, crs); err != nil {
		return err
	}
	if _, err := courseRepo.CreateEnrollment(ctx, course.Enrollment{
		StudentID:  "u-student",
		CourseID:   "crs-linear",
		Progress:   40,
		EnrolledAt: now,
	}); err != nil {
		return err
	}

	asgRepo := NewAssignmentRepository(db)
	asg := assignment.Assignment{
		ID:        "asg-worksheet",
		ClassID:   "cls-algebra",
		Title:     "Worksheet 3",
		Points:    20,
		DueDate:   now.Add(72 * time.Hour),
		Status:    assignment.StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := asgRepo.CreateAssignment(ctx, asg); err != nil {
		return err
	}
	if _, err := asgRepo.CreateSubmission(ctx, assignment.Submission{
		ID:           "sub-1",
		AssignmentID: "asg-worksheet",
		StudentID:    "u-student",
		Content:      "Answers attached.",
		Status:       assignment.SubmissionSubmitted,
		SubmittedAt:  now,
	}); err != nil {
		return err
	}

	liveRepo := NewLiveRepository(db)
	_, err := liveRepo.CreateSession(ctx, live.Session{
		ID:       "ses-review",
		ClassID:  "cls-algebra",
		Topic:    "Midterm review",
		HostID:   "u-teacher",
		Status:   live.StatusScheduled,
		StartsAt: now.Add(24 * time.Hour),
	})
	return err
}
