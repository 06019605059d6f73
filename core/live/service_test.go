package live_test

import (
	"context"
	"testing"
	"time"

	"github.com/eduverse/lms/core/live"
	"github.com/eduverse/lms/core/user"
	dummydb "github.com/eduverse/lms/storage/database/dummy"
	"github.com/eduverse/lms/storage/roster"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func setup(t *testing.T) *live.Service {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	return live.NewService(dummydb.NewLiveRepository(db), roster.NewMemoryStore(), nopLogger{})
}

func schedule(t *testing.T, svc *live.Service, hostID, classID, topic string, startsAt time.Time) live.Session {
	t.Helper()

	ses, err := svc.Schedule(context.Background(), hostID, live.NewSession{
		ClassID:  classID,
		Topic:    topic,
		StartsAt: startsAt,
	})
	if err != nil {
		t.Fatalf("Schedule(): %v", err)
	}
	return ses
}

func TestService_Schedule(t *testing.T) {
	svc := setup(t)

	ses := schedule(t, svc, "tch-1", "cls-1", "Fractions", time.Now().Add(time.Hour))
	if ses.ID == "" || ses.Status != live.StatusScheduled || ses.HostID != "tch-1" {
		t.Errorf("session = %+v", ses)
	}

	got, err := svc.GetByID(context.Background(), ses.ID)
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}
	if got.Topic != "Fractions" {
		t.Errorf("Topic = %q", got.Topic)
	}

	if _, err = svc.GetByID(context.Background(), "lol"); err != live.ErrNotFound {
		t.Errorf("GetByID(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestService_Upcoming(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	now := time.Now()

	later := schedule(t, svc, "tch-1", "cls-1", "Later", now.Add(3*time.Hour))
	sooner := schedule(t, svc, "tch-1", "cls-1", "Sooner", now.Add(time.Hour))
	done := schedule(t, svc, "tch-1", "cls-1", "Done", now.Add(2*time.Hour))
	schedule(t, svc, "tch-2", "cls-9", "Other host", now.Add(time.Hour))

	if _, err := svc.Start(ctx, done.ID); err != nil {
		t.Fatalf("Start(): %v", err)
	}
	if _, err := svc.End(ctx, done.ID, ""); err != nil {
		t.Fatalf("End(): %v", err)
	}

	upcoming, err := svc.Upcoming(ctx, "tch-1")
	if err != nil {
		t.Fatalf("Upcoming(): %v", err)
	}
	if len(upcoming) != 2 {
		t.Fatalf("Upcoming() returned %d sessions, want 2", len(upcoming))
	}
	// soonest first, ended sessions excluded
	if upcoming[0].ID != sooner.ID || upcoming[1].ID != later.ID {
		t.Errorf("order = [%s %s], want [%s %s]", upcoming[0].Topic, upcoming[1].Topic, sooner.Topic, later.Topic)
	}

	visible, err := svc.ForClasses(ctx, "cls-1")
	if err != nil {
		t.Fatalf("ForClasses(): %v", err)
	}
	if len(visible) != 2 {
		t.Errorf("ForClasses() returned %d sessions, want 2", len(visible))
	}
}

func TestService_Roster(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	ses := schedule(t, svc, "tch-1", "cls-1", "Algebra", time.Now())
	student := user.User{ID: "std-1", FirstName: "Jane", LastName: "Doe", Role: user.RoleStudent}

	// joining before the host starts is rejected
	if _, err := svc.Join(ctx, ses.ID, student); err != live.ErrNotLive {
		t.Errorf("Join(scheduled) error = %v, want ErrNotLive", err)
	}

	started, err := svc.Start(ctx, ses.ID)
	if err != nil {
		t.Fatalf("Start(): %v", err)
	}
	if started.Status != live.StatusLive || started.StartedAt.IsZero() {
		t.Errorf("session = %+v", started)
	}

	p, err := svc.Join(ctx, ses.ID, student)
	if err != nil {
		t.Fatalf("Join(): %v", err)
	}
	if p.Name != "Jane Doe" || p.Role != "student" {
		t.Errorf("participant = %+v", p)
	}
	if !p.Media.Mic || !p.Media.Camera || p.Media.Screen {
		t.Errorf("Media = %+v; want mic and camera on, screen off", p.Media)
	}

	p, err = svc.SetMedia(ctx, ses.ID, "std-1", live.MediaState{Camera: true})
	if err != nil {
		t.Fatalf("SetMedia(): %v", err)
	}
	if p.Media.Mic || !p.Media.Camera {
		t.Errorf("Media = %+v; want mic muted, camera on", p.Media)
	}
	if _, err = svc.SetMedia(ctx, ses.ID, "lol", live.MediaState{}); err != live.ErrNotInRoom {
		t.Errorf("SetMedia(stranger) error = %v, want ErrNotInRoom", err)
	}

	attendees, err := svc.Roster(ctx, ses.ID)
	if err != nil {
		t.Fatalf("Roster(): %v", err)
	}
	if len(attendees) != 1 || attendees[0].UserID != "std-1" {
		t.Errorf("roster = %+v", attendees)
	}

	if err = svc.Leave(ctx, ses.ID, "std-1"); err != nil {
		t.Fatalf("Leave(): %v", err)
	}
	if attendees, err = svc.Roster(ctx, ses.ID); err != nil || len(attendees) != 0 {
		t.Errorf("Roster() = %+v, %v; want empty", attendees, err)
	}
}

func TestService_End(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	ses := schedule(t, svc, "tch-1", "cls-1", "Geometry", time.Now())
	if _, err := svc.Start(ctx, ses.ID); err != nil {
		t.Fatalf("Start(): %v", err)
	}
	if _, err := svc.Join(ctx, ses.ID, user.User{ID: "std-1", Role: user.RoleStudent}); err != nil {
		t.Fatalf("Join(): %v", err)
	}

	ended, err := svc.End(ctx, ses.ID, "recordings/ses-1.mp4")
	if err != nil {
		t.Fatalf("End(): %v", err)
	}
	if ended.Status != live.StatusEnded || ended.EndedAt.IsZero() {
		t.Errorf("session = %+v", ended)
	}
	if ended.RecordingKey != "recordings/ses-1.mp4" {
		t.Errorf("RecordingKey = %q", ended.RecordingKey)
	}

	// ending drops the roster
	attendees, err := svc.Roster(ctx, ses.ID)
	if err != nil || len(attendees) != 0 {
		t.Errorf("Roster() = %+v, %v; want empty", attendees, err)
	}
}

func TestService_Recordings(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	recorded := schedule(t, svc, "tch-1", "cls-1", "Recorded", time.Now())
	unrecorded := schedule(t, svc, "tch-1", "cls-1", "Unrecorded", time.Now())
	schedule(t, svc, "tch-1", "cls-1", "Still scheduled", time.Now())

	for _, id := range []string{recorded.ID, unrecorded.ID} {
		if _, err := svc.Start(ctx, id); err != nil {
			t.Fatalf("Start(): %v", err)
		}
	}
	if _, err := svc.End(ctx, recorded.ID, "recordings/rec-1.mp4"); err != nil {
		t.Fatalf("End(): %v", err)
	}
	if _, err := svc.End(ctx, unrecorded.ID, ""); err != nil {
		t.Fatalf("End(): %v", err)
	}

	recs, err := svc.Recordings(ctx, "tch-1")
	if err != nil {
		t.Fatalf("Recordings(): %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("Recordings() returned %d entries, want 1", len(recs))
	}
	rec := recs[0]
	if rec.SessionID != recorded.ID || rec.Key != "recordings/rec-1.mp4" || rec.Topic != "Recorded" {
		t.Errorf("recording = %+v", rec)
	}
	if rec.Duration < 0 {
		t.Errorf("Duration = %v", rec.Duration)
	}
}
