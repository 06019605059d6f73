package live

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/eduverse/lms/core"
	"github.com/eduverse/lms/core/user"
)

var (
	// errors
	ErrNotFound  = errors.New("session not found")
	ErrNotLive   = errors.New("session is not live")
	ErrNotInRoom = errors.New("participant not in session")
)

type (
	Repository interface {
		CreateSession(ctx context.Context, ses Session) (Session, error)
		GetSessionByID(ctx context.Context, id string) (Session, error)
		SessionsByHost(ctx context.Context, hostID string) ([]Session, error)
		SessionsByClasses(ctx context.Context, classIDs ...string) ([]Session, error)
		UpdateSession(ctx context.Context, ses Session) (Session, error)
	}

	// RosterStore holds the volatile per-session roster. The Redis
	// implementation lives in storage/roster; tests use the in-memory one.
	RosterStore interface {
		Add(ctx context.Context, sessionID string, p Participant) error
		Remove(ctx context.Context, sessionID, userID string) error
		Get(ctx context.Context, sessionID, userID string) (Participant, error)
		List(ctx context.Context, sessionID string) ([]Participant, error)
		Update(ctx context.Context, sessionID string, p Participant) error
		Clear(ctx context.Context, sessionID string) error
	}

	Service struct {
		repo   Repository
		roster RosterStore
		log    core.Logger
	}
)

func NewService(repo Repository, roster RosterStore, log core.Logger) *Service {
	return &Service{repo: repo, roster: roster, log: log}
}

func (svc *Service) Schedule(ctx context.Context, hostID string, ns NewSession) (Session, error) {
	return svc.repo.CreateSession(ctx, Session{
		ID:       uuid.New().String(),
		ClassID:  ns.ClassID,
		Topic:    ns.Topic,
		HostID:   hostID,
		Status:   StatusScheduled,
		StartsAt: ns.StartsAt.UTC(),
	})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Session, error) {
	return svc.repo.GetSessionByID(ctx, id)
}

// Upcoming lists the host's sessions that have not ended, soonest first.
func (svc *Service) Upcoming(ctx context.Context, hostID string) ([]Session, error) {
	all, err := svc.repo.SessionsByHost(ctx, hostID)
	if err != nil {
		return nil, err
	}
	upcoming := make([]Session, 0, len(all))
	for _, ses := range all {
		if ses.Status != StatusEnded {
			upcoming = append(upcoming, ses)
		}
	}
	sortByStart(upcoming)
	return upcoming, nil
}

// ForClasses lists live and scheduled sessions visible to a student's classes.
func (svc *Service) ForClasses(ctx context.Context, classIDs ...string) ([]Session, error) {
	all, err := svc.repo.SessionsByClasses(ctx, classIDs...)
	if err != nil {
		return nil, err
	}
	visible := make([]Session, 0, len(all))
	for _, ses := range all {
		if ses.Status != StatusEnded {
			visible = append(visible, ses)
		}
	}
	sortByStart(visible)
	return visible, nil
}

func (svc *Service) Start(ctx context.Context, id string) (Session, error) {
	ses, err := svc.repo.GetSessionByID(ctx, id)
	if err != nil {
		return Session{}, err
	}
	ses.Status = StatusLive
	ses.StartedAt = time.Now().UTC()
	return svc.repo.UpdateSession(ctx, ses)
}

// End closes the session and drops its roster. An empty recordingKey means no
// recording was captured.
func (svc *Service) End(ctx context.Context, id, recordingKey string) (Session, error) {
	ses, err := svc.repo.GetSessionByID(ctx, id)
	if err != nil {
		return Session{}, err
	}
	ses.Status = StatusEnded
	ses.EndedAt = time.Now().UTC()
	ses.RecordingKey = recordingKey
	if ses, err = svc.repo.UpdateSession(ctx, ses); err != nil {
		return Session{}, err
	}
	if err = svc.roster.Clear(ctx, id); err != nil {
		svc.log.Warn("clearing roster", "session", id, "err", err)
	}
	return ses, nil
}

// Recordings lists the host's ended sessions that have a recording.
func (svc *Service) Recordings(ctx context.Context, hostID string) ([]Recording, error) {
	all, err := svc.repo.SessionsByHost(ctx, hostID)
	if err != nil {
		return nil, err
	}
	recs := make([]Recording, 0, len(all))
	for _, ses := range all {
		if ses.Status != StatusEnded || ses.RecordingKey == "" {
			continue
		}
		recs = append(recs, Recording{
			SessionID:  ses.ID,
			Topic:      ses.Topic,
			Key:        ses.RecordingKey,
			Duration:   ses.EndedAt.Sub(ses.StartedAt),
			RecordedAt: ses.StartedAt,
		})
	}
	return recs, nil
}

// Join adds a user to a live session's roster. Mic and camera start enabled.
func (svc *Service) Join(ctx context.Context, sessionID string, usr user.User) (Participant, error) {
	ses, err := svc.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return Participant{}, err
	}
	if ses.Status != StatusLive {
		return Participant{}, ErrNotLive
	}
	p := Participant{
		UserID:   usr.ID,
		Name:     usr.FullName(),
		Role:     string(usr.Role),
		Media:    MediaState{Mic: true, Camera: true},
		JoinedAt: time.Now().UTC(),
	}
	if err = svc.roster.Add(ctx, sessionID, p); err != nil {
		return Participant{}, err
	}
	return p, nil
}

func (svc *Service) Leave(ctx context.Context, sessionID, userID string) error {
	return svc.roster.Remove(ctx, sessionID, userID)
}

func (svc *Service) Roster(ctx context.Context, sessionID string) ([]Participant, error) {
	return svc.roster.List(ctx, sessionID)
}

// SetMedia toggles a participant's devices.
func (svc *Service) SetMedia(ctx context.Context, sessionID, userID string, media MediaState) (Participant, error) {
	p, err := svc.roster.Get(ctx, sessionID, userID)
	if err != nil {
		return Participant{}, err
	}
	p.Media = media
	if err = svc.roster.Update(ctx, sessionID, p); err != nil {
		return Participant{}, err
	}
	return p, nil
}

func sortByStart(sessions []Session) {
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].StartsAt.Before(sessions[j].StartsAt) })
}
