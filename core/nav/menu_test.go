package nav

import (
	"testing"

	"github.com/eduverse/lms/core/user"
)

func TestMenuFor(t *testing.T) {
	for _, role := range user.AllRoles {
		if items := MenuFor(role); len(items) == 0 {
			t.Errorf("MenuFor(%v) returned no items", role)
		}
	}
	if items := MenuFor("lol"); items != nil {
		t.Errorf("MenuFor(unknown) = %v, want nil", items)
	}
}

func TestActivate(t *testing.T) {
	findItem := func(t *testing.T, items []ActiveMenuItem, label string) ActiveMenuItem {
		t.Helper()
		for _, item := range items {
			if item.Label == label {
				return item
			}
		}
		t.Fatalf("item %q not found", label)
		return ActiveMenuItem{}
	}

	t.Run("exact item only highlights on its own path", func(t *testing.T) {
		items := Activate(MenuFor(user.RoleTeacher), "/dashboard/teacher")
		if dash := findItem(t, items, "Dashboard"); !dash.Active {
			t.Error("Dashboard should be active on its own path")
		}

		items = Activate(MenuFor(user.RoleTeacher), "/dashboard/teacher/classes")
		if dash := findItem(t, items, "Dashboard"); dash.Active {
			t.Error("exact Dashboard item should not highlight on a sibling path")
		}
		if cls := findItem(t, items, "My Classes"); !cls.Active {
			t.Error("My Classes should be active")
		}
	})

	t.Run("prefix item highlights on nested sub-routes", func(t *testing.T) {
		items := Activate(MenuFor(user.RoleStudent), "/dashboard/student/courses/crs-9/discussion")
		if crs := findItem(t, items, "My Courses"); !crs.Active {
			t.Error("My Courses should be active on a nested course path")
		}
	})

	t.Run("active child expands its parent", func(t *testing.T) {
		items := Activate(MenuFor(user.RoleTeacher), "/dashboard/teacher/live-session/recordings")
		live := findItem(t, items, "Live Sessions")
		if !live.Active || !live.Expanded {
			t.Errorf("Live Sessions active=%v expanded=%v; want both true", live.Active, live.Expanded)
		}
		if sched := findItem(t, live.Children, "Schedule"); sched.Active {
			t.Error("exact Schedule child should not highlight on the recordings path")
		}
		if rec := findItem(t, live.Children, "Recordings"); !rec.Active {
			t.Error("Recordings child should be active")
		}
	})

	t.Run("parent not expanded without an active child", func(t *testing.T) {
		items := Activate(MenuFor(user.RoleTeacher), "/dashboard/teacher")
		if live := findItem(t, items, "Live Sessions"); live.Expanded {
			t.Error("Live Sessions should stay collapsed")
		}
	})
}
