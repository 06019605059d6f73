package nav

import (
	"reflect"
	"testing"

	"github.com/eduverse/lms/core/user"
)

func TestNewTable(t *testing.T) {
	if _, err := NewTable(DefaultRoutes()); err != nil {
		t.Fatalf("NewTable(): %v", err)
	}
	if _, err := NewTable([]Route{{Pattern: "/x", AllowedRoles: []user.Role{"lol"}, Screen: "x"}}); err == nil {
		t.Error("NewTable() accepted an invalid role")
	}
}

func TestTable_Match(t *testing.T) {
	table, err := NewTable(DefaultRoutes())
	if err != nil {
		t.Fatalf("NewTable(): %v", err)
	}

	tests := []struct {
		name       string
		path       string
		wantScreen string
		wantParams map[string]string
		wantMiss   bool
	}{
		{name: "root", path: "/", wantScreen: "landing"},
		{name: "login", path: "/login", wantScreen: "auth.login"},
		{name: "static before param", path: "/dashboard/teacher/courses/create", wantScreen: "teacher.course_creator"},
		{name: "single param", path: "/dashboard/teacher/grading/asg-7", wantScreen: "teacher.grading", wantParams: map[string]string{"assignmentId": "asg-7"}},
		{name: "param mid-path", path: "/dashboard/teacher/classes/cls-1/assignments", wantScreen: "teacher.class_assignments", wantParams: map[string]string{"classId": "cls-1"}},
		{name: "nested param", path: "/dashboard/student/courses/crs-9/discussion", wantScreen: "student.discussion", wantParams: map[string]string{"courseId": "crs-9"}},
		{name: "shorter prefix", path: "/dashboard/student/courses/crs-9", wantScreen: "student.course", wantParams: map[string]string{"courseId": "crs-9"}},
		{name: "unknown path", path: "/lol", wantMiss: true},
		{name: "extra segment", path: "/dashboard/student/progress/extra", wantMiss: true},
		{name: "missing segment", path: "/dashboard/teacher/grading", wantMiss: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := table.Match(tt.path)
			if tt.wantMiss {
				if ok {
					t.Errorf("Match() matched %v, want miss", m.Route.Pattern)
				}
				return
			}
			if !ok {
				t.Fatal("Match() missed")
			}
			if m.Route.Screen != tt.wantScreen {
				t.Errorf("screen = %v, want %v", m.Route.Screen, tt.wantScreen)
			}
			if tt.wantParams != nil && !reflect.DeepEqual(m.Params, tt.wantParams) {
				t.Errorf("params = %v, want %v", m.Params, tt.wantParams)
			}
		})
	}
}

func TestTable_Resolve(t *testing.T) {
	table, err := NewTable(DefaultRoutes())
	if err != nil {
		t.Fatalf("NewTable(): %v", err)
	}

	student := user.User{ID: "1", Email: "s@test.cd", Role: user.RoleStudent}

	tests := []struct {
		name         string
		path         string
		usr          user.User
		ok           bool
		wantDecision Decision
		wantRedirect string
	}{
		{name: "public", path: "/login", wantDecision: DecisionAllow},
		{name: "anonymous on guarded", path: "/dashboard/student", wantDecision: DecisionUnauthenticated, wantRedirect: "/login"},
		{name: "owning role", path: "/dashboard/student", usr: student, ok: true, wantDecision: DecisionAllow},
		{name: "wrong role", path: "/dashboard/admin", usr: student, ok: true, wantDecision: DecisionForbidden, wantRedirect: "/login"},
		{name: "unknown path", path: "/lol/cat", usr: student, ok: true, wantDecision: DecisionNotFound, wantRedirect: "/login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := table.Resolve(tt.path, tt.usr, tt.ok)
			if res.Decision != tt.wantDecision {
				t.Errorf("decision = %v, want %v", res.Decision, tt.wantDecision)
			}
			if res.Redirect != tt.wantRedirect {
				t.Errorf("redirect = %v, want %v", res.Redirect, tt.wantRedirect)
			}
			if allowed := res.Decision.Allowed(); allowed != (res.Redirect == "") {
				t.Error("redirect must be empty exactly when allowed")
			}
		})
	}
}
