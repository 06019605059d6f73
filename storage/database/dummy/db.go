package dummydb

import (
	"sync"

	"github.com/eduverse/lms/core/assignment"
	"github.com/eduverse/lms/core/course"
	"github.com/eduverse/lms/core/live"
	"github.com/eduverse/lms/core/school"
	"github.com/eduverse/lms/core/user"
)

type (
	DB struct {
		user       *userTable
		school     *schoolTable
		course     *courseTable
		assignment *assignmentTable
		live       *liveTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	schoolTable struct {
		sync.RWMutex
		table map[string]*school.School
	}

	courseTable struct {
		sync.RWMutex
		courses     map[string]*course.Course
		classes     map[string]*course.Class
		enrollments []*course.Enrollment
	}

	assignmentTable struct {
		sync.RWMutex
		assignments map[string]*assignment.Assignment
		submissions map[string]*assignment.Submission
	}

	liveTable struct {
		sync.RWMutex
		table map[string]*live.Session
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:   &userTable{table: make(map[string]*user.User)},
		school: &schoolTable{table: make(map[string]*school.School)},
		course: &courseTable{
			courses: make(map[string]*course.Course),
			classes: make(map[string]*course.Class),
		},
		assignment: &assignmentTable{
			assignments: make(map[string]*assignment.Assignment),
			submissions: make(map[string]*assignment.Submission),
		},
		live: &liveTable{table: make(map[string]*live.Session)},
	}
	return db, nil
}
