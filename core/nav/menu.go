package nav

import (
	"strings"

	"github.com/eduverse/lms/core/user"
)

type (
	// MenuItem is one entry of the dashboard shell's navigation menu.
	// Exact entries highlight only on an exact path match; the rest
	// highlight on any nested sub-route.
	MenuItem struct {
		Label    string     `json:"label"`
		Icon     string     `json:"icon"`
		Path     string     `json:"path"`
		Exact    bool       `json:"-"`
		Children []MenuItem `json:"children,omitempty"`
	}

	// ActiveMenuItem is a MenuItem annotated for the current path. A parent
	// is active when it or any child is; an active parent is expanded.
	ActiveMenuItem struct {
		MenuItem
		Active   bool             `json:"active"`
		Expanded bool             `json:"expanded"`
		Children []ActiveMenuItem `json:"children,omitempty"`
	}
)

// MenuFor returns the ordered menu of a role. The switch is exhaustive over
// the role enumeration; unknown roles get no menu.
func MenuFor(role user.Role) []MenuItem {
	switch role {
	case user.RoleAdmin:
		return []MenuItem{
			{Label: "Dashboard", Icon: "home", Path: "/dashboard/admin", Exact: true},
			{Label: "Schools", Icon: "building-library", Path: "/dashboard/admin/schools"},
			{Label: "Users", Icon: "users", Path: "/dashboard/admin/users"},
			{Label: "Analytics", Icon: "chart-bar", Path: "/dashboard/admin/analytics"},
			{Label: "Settings", Icon: "cog", Path: "/dashboard/admin/settings"},
		}
	case user.RoleTeacher:
		return []MenuItem{
			{Label: "Dashboard", Icon: "home", Path: "/dashboard/teacher", Exact: true},
			{Label: "My Classes", Icon: "users", Path: "/dashboard/teacher/classes"},
			{Label: "Course Creator", Icon: "book-open", Path: "/dashboard/teacher/courses/create"},
			{Label: "Live Sessions", Icon: "video-camera", Path: "/dashboard/teacher/live-session", Children: []MenuItem{
				{Label: "Schedule", Path: "/dashboard/teacher/live-session", Exact: true},
				{Label: "Recordings", Path: "/dashboard/teacher/live-session/recordings"},
			}},
			{Label: "Analytics", Icon: "chart-bar", Path: "/dashboard/teacher/analytics"},
		}
	case user.RoleStudent:
		return []MenuItem{
			{Label: "Dashboard", Icon: "home", Path: "/dashboard/student", Exact: true},
			{Label: "My Courses", Icon: "book-open", Path: "/dashboard/student/courses"},
			{Label: "Assignments", Icon: "clipboard", Path: "/dashboard/student/assignments"},
			{Label: "Progress", Icon: "chart-bar", Path: "/dashboard/student/progress"},
		}
	case user.RoleSchool:
		return []MenuItem{
			{Label: "Dashboard", Icon: "home", Path: "/dashboard/school", Exact: true},
			{Label: "Departments", Icon: "building-office", Path: "/dashboard/school/departments"},
		}
	default:
		return nil
	}
}

// Activate annotates a menu for the current path.
func Activate(items []MenuItem, path string) []ActiveMenuItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]ActiveMenuItem, 0, len(items))
	for _, item := range items {
		out = append(out, activate(item, path))
	}
	return out
}

func activate(item MenuItem, path string) ActiveMenuItem {
	am := ActiveMenuItem{MenuItem: item}
	am.Children = Activate(item.Children, path)

	var childActive bool
	for _, c := range am.Children {
		if c.Active {
			childActive = true
			break
		}
	}

	am.Active = childActive || item.matches(path)
	am.Expanded = childActive
	return am
}

func (m MenuItem) matches(path string) bool {
	if path == m.Path {
		return true
	}
	if m.Exact {
		return false
	}
	return strings.HasPrefix(path, m.Path+"/")
}
