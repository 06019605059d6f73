package assignment_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/eduverse/lms/core"
	"github.com/eduverse/lms/core/assignment"
	"github.com/eduverse/lms/storage/blob"
	dummydb "github.com/eduverse/lms/storage/database/dummy"
)

func setup(t *testing.T) (*assignment.Service, core.BlobStore) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	conf := &core.Config{GradingDelay: time.Millisecond}
	blobs := blob.NewLocalStore(t.TempDir())
	return assignment.NewService(conf, dummydb.NewAssignmentRepository(db), blobs, nil), blobs
}

func TestService_Create(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	due := time.Now().Add(48 * time.Hour)

	draft, err := svc.Create(ctx, "cls-1", assignment.NewAssignment{
		Title:   "Essay",
		Points:  100,
		DueDate: due,
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if draft.Status != assignment.StatusDraft {
		t.Errorf("Status = %v, want draft", draft.Status)
	}
	if draft.ID == "" || draft.ClassID != "cls-1" || draft.Points != 100 {
		t.Errorf("assignment = %+v", draft)
	}
	if !draft.DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", draft.DueDate, due)
	}

	published, err := svc.Create(ctx, "cls-1", assignment.NewAssignment{
		Title:   "Quiz",
		Points:  20,
		DueDate: due,
		Publish: true,
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if published.Status != assignment.StatusPublished {
		t.Errorf("Status = %v, want published", published.Status)
	}

	asgs, err := svc.ByClass(ctx, "cls-1")
	if err != nil {
		t.Fatalf("ByClass(): %v", err)
	}
	if len(asgs) != 2 {
		t.Errorf("ByClass() returned %d assignments, want 2", len(asgs))
	}
}

func TestService_Lifecycle(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	asg, err := svc.Create(ctx, "cls-1", assignment.NewAssignment{
		Title:   "Lab report",
		Points:  50,
		DueDate: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}

	if asg, err = svc.Publish(ctx, asg.ID); err != nil {
		t.Fatalf("Publish(): %v", err)
	}
	if asg.Status != assignment.StatusPublished {
		t.Errorf("Status = %v, want published", asg.Status)
	}

	if asg, err = svc.Close(ctx, asg.ID); err != nil {
		t.Fatalf("Close(): %v", err)
	}
	if asg.Status != assignment.StatusClosed {
		t.Errorf("Status = %v, want closed", asg.Status)
	}

	if _, err = svc.Publish(ctx, "lol"); err != assignment.ErrNotFound {
		t.Errorf("Publish(unknown) error = %v, want ErrNotFound", err)
	}

	if err = svc.Delete(ctx, asg.ID); err != nil {
		t.Fatalf("Delete(): %v", err)
	}
	if _, err = svc.GetByID(ctx, asg.ID); err != assignment.ErrNotFound {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestService_Submit(t *testing.T) {
	svc, blobs := setup(t)
	ctx := context.Background()

	draft, err := svc.Create(ctx, "cls-1", assignment.NewAssignment{
		Title:   "Draft only",
		Points:  10,
		DueDate: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if _, err = svc.Submit(ctx, draft.ID, "std-1", assignment.NewSubmission{Content: "hi"}, nil, 0); err != assignment.ErrNotPublished {
		t.Errorf("Submit(draft) error = %v, want ErrNotPublished", err)
	}

	open, err := svc.Create(ctx, "cls-1", assignment.NewAssignment{
		Title:   "Open",
		Points:  10,
		DueDate: time.Now().Add(time.Hour),
		Publish: true,
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}

	content := []byte("my answer file")
	sub, err := svc.Submit(ctx, open.ID, "std-1", assignment.NewSubmission{
		Content:        "see attachment",
		AttachmentName: "answer.pdf",
	}, bytes.NewReader(content), int64(len(content)))
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}
	if sub.Status != assignment.SubmissionSubmitted {
		t.Errorf("Status = %v, want submitted", sub.Status)
	}
	if sub.AttachmentKey == "" || !strings.HasSuffix(sub.AttachmentKey, "answer.pdf") {
		t.Errorf("AttachmentKey = %q", sub.AttachmentKey)
	}

	// the attachment round-trips through the blob store
	rc, err := blobs.GetObject(ctx, sub.AttachmentKey)
	if err != nil {
		t.Fatalf("GetObject(): %v", err)
	}
	stored, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		t.Fatalf("reading object: %v", err)
	}
	if !bytes.Equal(stored, content) {
		t.Errorf("stored attachment = %q, want %q", stored, content)
	}
	rc, err = svc.Attachment(ctx, sub.ID)
	if err != nil {
		t.Fatalf("Attachment(): %v", err)
	}
	_ = rc.Close()

	if _, err = svc.Submit(ctx, open.ID, "std-1", assignment.NewSubmission{Content: "again"}, nil, 0); err != assignment.ErrAlreadySubmitted {
		t.Errorf("Submit(duplicate) error = %v, want ErrAlreadySubmitted", err)
	}

	// past the due date the submission is marked late
	overdue, err := svc.Create(ctx, "cls-1", assignment.NewAssignment{
		Title:   "Overdue",
		Points:  10,
		DueDate: time.Now().Add(-time.Hour),
		Publish: true,
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	late, err := svc.Submit(ctx, overdue.ID, "std-1", assignment.NewSubmission{Content: "sorry"}, nil, 0)
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}
	if late.Status != assignment.SubmissionLate {
		t.Errorf("Status = %v, want late", late.Status)
	}
	if late.AttachmentKey != "" {
		t.Errorf("AttachmentKey = %q, want empty", late.AttachmentKey)
	}
}

func TestService_Grade(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	asg, err := svc.Create(ctx, "cls-1", assignment.NewAssignment{
		Title:   "Gradable",
		Points:  20,
		DueDate: time.Now().Add(time.Hour),
		Publish: true,
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	sub, err := svc.Submit(ctx, asg.ID, "std-1", assignment.NewSubmission{Content: "done"}, nil, 0)
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}

	if _, err = svc.Grade(ctx, "lol", assignment.GradeInput{Points: 5}); err != assignment.ErrSubmissionNotFound {
		t.Errorf("Grade(unknown) error = %v, want ErrSubmissionNotFound", err)
	}
	if _, err = svc.Grade(ctx, sub.ID, assignment.GradeInput{Points: 25}); err == nil {
		t.Error("Grade() accepted a score above the assignment maximum")
	}

	graded, err := svc.Grade(ctx, sub.ID, assignment.GradeInput{Points: 18, Feedback: "good work"})
	if err != nil {
		t.Fatalf("Grade(): %v", err)
	}
	if graded.Status != assignment.SubmissionGraded {
		t.Errorf("Status = %v, want graded", graded.Status)
	}
	if graded.Grade == nil || *graded.Grade != 18 || graded.Feedback != "good work" {
		t.Errorf("submission = %+v", graded)
	}
	if graded.GradedAt.IsZero() {
		t.Error("GradedAt should be set")
	}
}

func TestService_GradeCancelled(t *testing.T) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	conf := &core.Config{GradingDelay: time.Minute}
	svc := assignment.NewService(conf, dummydb.NewAssignmentRepository(db), blob.NewLocalStore(t.TempDir()), nil)

	asg, err := svc.Create(context.Background(), "cls-1", assignment.NewAssignment{
		Title:   "Slow grade",
		Points:  10,
		DueDate: time.Now().Add(time.Hour),
		Publish: true,
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	sub, err := svc.Submit(context.Background(), asg.ID, "std-1", assignment.NewSubmission{Content: "x"}, nil, 0)
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err = svc.Grade(ctx, sub.ID, assignment.GradeInput{Points: 5}); err != context.Canceled {
		t.Errorf("Grade() error = %v, want context.Canceled", err)
	}

	// the submission stays ungraded
	subs, err := svc.Submissions(context.Background(), asg.ID)
	if err != nil {
		t.Fatalf("Submissions(): %v", err)
	}
	if len(subs) != 1 || subs[0].Status != assignment.SubmissionSubmitted {
		t.Errorf("submissions = %+v; want one still submitted", subs)
	}
}
