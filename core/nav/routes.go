// Package nav implements the navigation core: the static route table, the
// role authorization gate and the dashboard shell menus.
package nav

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/eduverse/lms/core/user"
)

// DashboardPath is the ambiguous landing path resolved per role.
const DashboardPath = "/dashboard"

type (
	// Route maps a path pattern to a screen, guarded by a role set. An
	// empty role set marks a public route. Patterns are literal segments
	// plus named parameters ("/dashboard/student/courses/:courseId").
	Route struct {
		Pattern      string
		AllowedRoles []user.Role
		Screen       string
	}

	// Match is a resolved navigation intent: the winning route plus the
	// parameter bindings extracted from the path. Ephemeral; recomputed on
	// every URL change.
	Match struct {
		Route  Route
		Params map[string]string
	}

	// Resolution is the outcome of routing a path for a given session.
	// Redirect is empty exactly when the screen may render.
	Resolution struct {
		Matched  bool
		Match    Match
		Decision Decision
		Redirect string
	}

	// Table is the static route table. Constructed once at startup,
	// immutable thereafter. First matching route in declaration order wins;
	// overlapping patterns must be declared most-specific-first.
	Table struct {
		routes []Route
	}
)

func (r Route) Public() bool { return len(r.AllowedRoles) == 0 }

// NewTable validates the route set: every guarded route must carry a
// non-empty subset of the role enumeration.
func NewTable(routes []Route) (*Table, error) {
	for _, rt := range routes {
		for _, role := range rt.AllowedRoles {
			if !role.Valid() {
				return nil, errors.Errorf("route %q: invalid role %q", rt.Pattern, role)
			}
		}
	}
	return &Table{routes: routes}, nil
}

func (t *Table) Routes() []Route { return t.routes }

// Match finds the first route whose pattern matches the path. A ":name"
// segment matches any single non-empty path component and binds it.
func (t *Table) Match(path string) (Match, bool) {
	segs := splitPath(path)
	for _, rt := range t.routes {
		if params, ok := matchPattern(rt.Pattern, segs); ok {
			return Match{Route: rt, Params: params}, true
		}
	}
	return Match{}, false
}

// Resolve routes a navigation intent through the table and the gate.
// Unmatched paths redirect to the login route regardless of session.
func (t *Table) Resolve(path string, usr user.User, ok bool) Resolution {
	m, matched := t.Match(path)
	if !matched {
		return Resolution{Decision: DecisionNotFound, Redirect: LoginPath}
	}

	res := Resolution{Matched: true, Match: m}
	res.Decision = Authorize(m.Route.AllowedRoles, usr, ok)
	if !res.Decision.Allowed() {
		res.Redirect = LoginPath
	}
	return res
}

// LandingRedirect resolves the ambiguous /dashboard path: each role maps to
// its landing page, anything else to the login route. The mapping is total.
func LandingRedirect(usr user.User, ok bool) string {
	if !ok || !usr.Role.Valid() {
		return LoginPath
	}
	return usr.Role.LandingPath()
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func matchPattern(pattern string, segs []string) (map[string]string, bool) {
	psegs := splitPath(pattern)
	if len(psegs) != len(segs) {
		return nil, false
	}

	var params map[string]string
	for i, ps := range psegs {
		if strings.HasPrefix(ps, ":") {
			if segs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[ps[1:]] = segs[i]
			continue
		}
		if ps != segs[i] {
			return nil, false
		}
	}
	return params, true
}

// DefaultRoutes is the application's URL space. Screens are identified by
// stable names the HTTP layer binds renderers to.
func DefaultRoutes() []Route {
	admin := []user.Role{user.RoleAdmin}
	teacher := []user.Role{user.RoleTeacher}
	student := []user.Role{user.RoleStudent}
	school := []user.Role{user.RoleSchool}

	return []Route{
		// public
		{Pattern: "/", Screen: "landing"},
		{Pattern: "/login", Screen: "auth.login"},
		{Pattern: "/register", Screen: "auth.register"},
		{Pattern: "/forgot-password", Screen: "auth.forgot_password"},

		// /dashboard resolves to the role landing page
		{Pattern: DashboardPath, AllowedRoles: user.AllRoles, Screen: "dashboard.redirect"},

		// admin
		{Pattern: "/dashboard/admin", AllowedRoles: admin, Screen: "admin.home"},
		{Pattern: "/dashboard/admin/schools", AllowedRoles: admin, Screen: "admin.schools"},
		{Pattern: "/dashboard/admin/users", AllowedRoles: admin, Screen: "admin.users"},
		{Pattern: "/dashboard/admin/settings", AllowedRoles: admin, Screen: "admin.settings"},
		{Pattern: "/dashboard/admin/analytics", AllowedRoles: admin, Screen: "admin.analytics"},

		// teacher
		{Pattern: "/dashboard/teacher", AllowedRoles: teacher, Screen: "teacher.home"},
		{Pattern: "/dashboard/teacher/courses/create", AllowedRoles: teacher, Screen: "teacher.course_creator"},
		{Pattern: "/dashboard/teacher/classes", AllowedRoles: teacher, Screen: "teacher.classes"},
		{Pattern: "/dashboard/teacher/classes/:classId/assignments", AllowedRoles: teacher, Screen: "teacher.class_assignments"},
		{Pattern: "/dashboard/teacher/grading/:assignmentId", AllowedRoles: teacher, Screen: "teacher.grading"},
		{Pattern: "/dashboard/teacher/analytics", AllowedRoles: teacher, Screen: "teacher.analytics"},
		{Pattern: "/dashboard/teacher/live-session", AllowedRoles: teacher, Screen: "teacher.live_sessions"},
		{Pattern: "/dashboard/teacher/live-session/recordings", AllowedRoles: teacher, Screen: "teacher.recordings"},
		{Pattern: "/dashboard/teacher/live-session/meeting/:sessionId", AllowedRoles: teacher, Screen: "teacher.meeting"},

		// student
		{Pattern: "/dashboard/student", AllowedRoles: student, Screen: "student.home"},
		{Pattern: "/dashboard/student/courses", AllowedRoles: student, Screen: "student.courses"},
		{Pattern: "/dashboard/student/courses/:courseId", AllowedRoles: student, Screen: "student.course"},
		{Pattern: "/dashboard/student/courses/:courseId/discussion", AllowedRoles: student, Screen: "student.discussion"},
		{Pattern: "/dashboard/student/assignments", AllowedRoles: student, Screen: "student.assignments"},
		{Pattern: "/dashboard/student/progress", AllowedRoles: student, Screen: "student.progress"},

		// school
		{Pattern: "/dashboard/school", AllowedRoles: school, Screen: "school.home"},
		{Pattern: "/dashboard/school/departments", AllowedRoles: school, Screen: "school.departments"},
	}
}
