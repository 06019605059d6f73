package dummydb

import (
	"context"

	"github.com/eduverse/lms/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course}
}

func (repo *courseRepository) CreateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses(_ context.Context) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		courses = append(courses, *crs)
	}
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(_ context.Context, id string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) CoursesByTeacher(_ context.Context, teacherID string) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var courses []course.Course
	for _, crs := range repo.db.courses {
		if crs.TeacherID == teacherID {
			courses = append(courses, *crs)
		}
	}
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) DeleteCoursesByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.courses, id)
	}
	return nil
}

func (repo *courseRepository) CreateClass(_ context.Context, cls course.Class) (course.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.classes[cls.ID] = &cls
	return cls, nil
}

func (repo *courseRepository) GetClassByID(_ context.Context, id string) (course.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cls, ok := repo.db.classes[id]; ok {
		return *cls, nil
	}
	return course.Class{}, course.ErrClassNotFound
}

func (repo *courseRepository) GetClassByJoinCode(_ context.Context, code string) (course.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, cls := range repo.db.classes {
		if cls.JoinCode == code {
			return *cls, nil
		}
	}
	return course.Class{}, course.ErrClassNotFound
}

func (repo *courseRepository) ClassesByTeacher(_ context.Context, teacherID string) ([]course.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var classes []course.Class
	for _, cls := range repo.db.classes {
		if cls.TeacherID == teacherID {
			classes = append(classes, *cls)
		}
	}
	return classes, nil
}

func (repo *courseRepository) ClassesByStudent(_ context.Context, studentID string) ([]course.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var classes []course.Class
	for _, cls := range repo.db.classes {
		for _, id := range cls.StudentIDs {
			if id == studentID {
				classes = append(classes, *cls)
				break
			}
		}
	}
	return classes, nil
}

func (repo *courseRepository) UpdateClass(_ context.Context, cls course.Class) (course.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.classes[cls.ID]; !ok {
		return course.Class{}, course.ErrClassNotFound
	}
	repo.db.classes[cls.ID] = &cls
	return cls, nil
}

func (repo *courseRepository) CreateEnrollment(_ context.Context, enr course.Enrollment) (course.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.enrollments = append(repo.db.enrollments, &enr)
	return enr, nil
}

func (repo *courseRepository) EnrollmentsByStudent(_ context.Context, studentID string) ([]course.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var enrs []course.Enrollment
	for _, enr := range repo.db.enrollments {
		if enr.StudentID == studentID {
			enrs = append(enrs, *enr)
		}
	}
	return enrs, nil
}

func (repo *courseRepository) EnrollmentsByCourse(_ context.Context, courseID string) ([]course.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var enrs []course.Enrollment
	for _, enr := range repo.db.enrollments {
		if enr.CourseID == courseID {
			enrs = append(enrs, *enr)
		}
	}
	return enrs, nil
}

func (repo *courseRepository) UpdateEnrollment(_ context.Context, enr course.Enrollment) (course.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, cur := range repo.db.enrollments {
		if cur.StudentID == enr.StudentID && cur.CourseID == enr.CourseID {
			repo.db.enrollments[i] = &enr
			return enr, nil
		}
	}
	return course.Enrollment{}, course.ErrNotFound
}
