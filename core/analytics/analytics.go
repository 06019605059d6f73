// Package analytics aggregates figures for the admin and teacher dashboards.
// It has no storage of its own; everything is derived from the domain services.
package analytics

import (
	"context"

	"github.com/eduverse/lms/core/assignment"
	"github.com/eduverse/lms/core/course"
	"github.com/eduverse/lms/core/school"
	"github.com/eduverse/lms/core/user"
)

type (
	// AdminSummary is the platform-wide headline block.
	AdminSummary struct {
		TotalUsers    int            `json:"total_users"`
		ActiveUsers   int            `json:"active_users"`
		TotalSchools  int            `json:"total_schools"`
		TotalCourses  int            `json:"total_courses"`
		UsersByRole   map[string]int `json:"users_by_role"`
		TotalEnrolled int            `json:"total_enrolled"`
	}

	// TeacherSummary is the per-teacher headline block.
	TeacherSummary struct {
		Classes         int     `json:"classes"`
		Students        int     `json:"students"`
		Courses         int     `json:"courses"`
		OpenAssignments int     `json:"open_assignments"`
		PendingGrading  int     `json:"pending_grading"`
		AverageGrade    float64 `json:"average_grade"`
	}

	// StudentSummary is the per-student headline block.
	StudentSummary struct {
		EnrolledCourses int     `json:"enrolled_courses"`
		AvgProgress     float64 `json:"avg_progress"`
		DueAssignments  int     `json:"due_assignments"`
		GradedCount     int     `json:"graded_count"`
	}

	Service struct {
		users       user.ServiceInterface
		schools     *school.Service
		courses     *course.Service
		assignments *assignment.Service
	}
)

func NewService(
	users user.ServiceInterface, schools *school.Service, courses *course.Service, assignments *assignment.Service,
) *Service {
	return &Service{users: users, schools: schools, courses: courses, assignments: assignments}
}

func (svc *Service) AdminSummary(ctx context.Context) (AdminSummary, error) {
	sum := AdminSummary{UsersByRole: make(map[string]int)}

	users, err := svc.users.QueryAll(ctx)
	if err != nil {
		return AdminSummary{}, err
	}
	sum.TotalUsers = len(users)
	for _, usr := range users {
		if usr.IsActive {
			sum.ActiveUsers++
		}
		sum.UsersByRole[string(usr.Role)]++
	}

	schools, err := svc.schools.QueryAll(ctx)
	if err != nil {
		return AdminSummary{}, err
	}
	sum.TotalSchools = len(schools)

	courses, err := svc.courses.QueryAll(ctx)
	if err != nil {
		return AdminSummary{}, err
	}
	sum.TotalCourses = len(courses)
	for _, crs := range courses {
		sum.TotalEnrolled += crs.EnrolledCount
	}
	return sum, nil
}

func (svc *Service) TeacherSummary(ctx context.Context, teacherID string) (TeacherSummary, error) {
	var sum TeacherSummary

	classes, err := svc.courses.ClassesByTeacher(ctx, teacherID)
	if err != nil {
		return TeacherSummary{}, err
	}
	sum.Classes = len(classes)
	classIDs := make([]string, 0, len(classes))
	for _, cls := range classes {
		sum.Students += len(cls.StudentIDs)
		classIDs = append(classIDs, cls.ID)
	}

	courses, err := svc.courses.ByTeacher(ctx, teacherID)
	if err != nil {
		return TeacherSummary{}, err
	}
	sum.Courses = len(courses)

	asgs, err := svc.assignments.ByClasses(ctx, classIDs...)
	if err != nil {
		return TeacherSummary{}, err
	}
	var gradeSum, gradeCount int
	for _, asg := range asgs {
		if asg.Status == assignment.StatusPublished {
			sum.OpenAssignments++
		}
		subs, err := svc.assignments.Submissions(ctx, asg.ID)
		if err != nil {
			return TeacherSummary{}, err
		}
		for _, sub := range subs {
			if sub.Status == assignment.SubmissionGraded {
				gradeSum += *sub.Grade
				gradeCount++
			} else {
				sum.PendingGrading++
			}
		}
	}
	if gradeCount > 0 {
		sum.AverageGrade = float64(gradeSum) / float64(gradeCount)
	}
	return sum, nil
}

func (svc *Service) StudentSummary(ctx context.Context, studentID string) (StudentSummary, error) {
	var sum StudentSummary

	enrs, err := svc.courses.ProgressFor(ctx, studentID)
	if err != nil {
		return StudentSummary{}, err
	}
	sum.EnrolledCourses = len(enrs)
	var progressSum int
	for _, enr := range enrs {
		progressSum += enr.Progress
	}
	if len(enrs) > 0 {
		sum.AvgProgress = float64(progressSum) / float64(len(enrs))
	}

	subs, err := svc.assignments.SubmissionsByStudent(ctx, studentID)
	if err != nil {
		return StudentSummary{}, err
	}
	for _, sub := range subs {
		if sub.Status == assignment.SubmissionGraded {
			sum.GradedCount++
		} else {
			sum.DueAssignments++
		}
	}
	return sum, nil
}
