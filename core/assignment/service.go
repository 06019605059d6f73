package assignment

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/eduverse/lms/core"
)

var (
	// errors
	ErrNotFound           = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadySubmitted   = errors.New("assignment already submitted")
	ErrNotPublished       = errors.New("assignment not published")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		AssignmentsByClass(ctx context.Context, classID string) ([]Assignment, error)
		AssignmentsByClasses(ctx context.Context, classIDs ...string) ([]Assignment, error)
		UpdateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		DeleteAssignmentsByID(ctx context.Context, ids ...string) error

		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		GetSubmissionByID(ctx context.Context, id string) (Submission, error)
		SubmissionsByAssignment(ctx context.Context, assignmentID string) ([]Submission, error)
		SubmissionsByStudent(ctx context.Context, studentID string) ([]Submission, error)
		UpdateSubmission(ctx context.Context, sub Submission) (Submission, error)
	}

	Service struct {
		conf  *core.Config
		repo  Repository
		blobs core.BlobStore
		log   core.Logger
	}
)

func NewService(conf *core.Config, repo Repository, blobs core.BlobStore, log core.Logger) *Service {
	return &Service{conf: conf, repo: repo, blobs: blobs, log: log}
}

func (svc *Service) Create(ctx context.Context, classID string, na NewAssignment) (Assignment, error) {
	now := time.Now().UTC()
	asg := Assignment{
		ID:          uuid.New().String(),
		ClassID:     classID,
		Title:       na.Title,
		Description: na.Description,
		Points:      na.Points,
		DueDate:     na.DueDate.UTC(),
		Status:      StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if na.Publish {
		asg.Status = StatusPublished
	}
	return svc.repo.CreateAssignment(ctx, asg)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

func (svc *Service) ByClass(ctx context.Context, classID string) ([]Assignment, error) {
	return svc.repo.AssignmentsByClass(ctx, classID)
}

func (svc *Service) ByClasses(ctx context.Context, classIDs ...string) ([]Assignment, error) {
	return svc.repo.AssignmentsByClasses(ctx, classIDs...)
}

func (svc *Service) Publish(ctx context.Context, id string) (Assignment, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	asg.Status = StatusPublished
	asg.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAssignment(ctx, asg)
}

func (svc *Service) Close(ctx context.Context, id string) (Assignment, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	asg.Status = StatusClosed
	asg.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAssignment(ctx, asg)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteAssignmentsByID(ctx, ids...)
}

// Submit records a student's submission. A non-nil attachment is streamed to
// the blob store under a key derived from the assignment and student.
func (svc *Service) Submit(
	ctx context.Context, assignmentID, studentID string, ns NewSubmission, attachment io.Reader, size int64,
) (Submission, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return Submission{}, err
	}
	if asg.Status != StatusPublished {
		return Submission{}, ErrNotPublished
	}

	subs, err := svc.repo.SubmissionsByAssignment(ctx, assignmentID)
	if err != nil {
		return Submission{}, err
	}
	for _, sub := range subs {
		if sub.StudentID == studentID {
			return Submission{}, ErrAlreadySubmitted
		}
	}

	now := time.Now().UTC()
	sub := Submission{
		ID:           uuid.New().String(),
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      ns.Content,
		Status:       SubmissionSubmitted,
		SubmittedAt:  now,
	}
	if now.After(asg.DueDate) {
		sub.Status = SubmissionLate
	}

	if attachment != nil && ns.AttachmentName != "" {
		key := fmt.Sprintf("submissions/%s/%s/%s", assignmentID, studentID, path.Base(ns.AttachmentName))
		if err = svc.blobs.PutObject(ctx, key, attachment, size, "application/octet-stream"); err != nil {
			return Submission{}, errors.Wrap(err, "storing attachment")
		}
		sub.AttachmentKey = key
	}

	return svc.repo.CreateSubmission(ctx, sub)
}

func (svc *Service) Submissions(ctx context.Context, assignmentID string) ([]Submission, error) {
	return svc.repo.SubmissionsByAssignment(ctx, assignmentID)
}

func (svc *Service) SubmissionsByStudent(ctx context.Context, studentID string) ([]Submission, error) {
	return svc.repo.SubmissionsByStudent(ctx, studentID)
}

func (svc *Service) Attachment(ctx context.Context, submissionID string) (io.ReadCloser, error) {
	sub, err := svc.repo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.AttachmentKey == "" {
		return nil, errors.New("submission has no attachment")
	}
	return svc.blobs.GetObject(ctx, sub.AttachmentKey)
}

// Grade scores a submission. Grading runs the external plagiarism scan which
// takes a moment, so the wait honors ctx cancellation.
func (svc *Service) Grade(ctx context.Context, submissionID string, gi GradeInput) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return Submission{}, err
	}
	asg, err := svc.repo.GetAssignmentByID(ctx, sub.AssignmentID)
	if err != nil {
		return Submission{}, err
	}
	if gi.Points > asg.Points {
		return Submission{}, errors.Errorf("grade exceeds %d points", asg.Points)
	}

	select {
	case <-time.After(svc.conf.GradingDelay):
	case <-ctx.Done():
		return Submission{}, ctx.Err()
	}

	grade := gi.Points
	sub.Grade = &grade
	sub.Feedback = gi.Feedback
	sub.Status = SubmissionGraded
	sub.GradedAt = time.Now().UTC()
	return svc.repo.UpdateSubmission(ctx, sub)
}
