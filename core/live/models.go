package live

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/eduverse/lms/core"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusEnded     Status = "ended"
)

type (
	// Session is a scheduled video meeting for a class.
	Session struct {
		ID        string    `json:"id"`
		ClassID   string    `json:"class_id"`
		Topic     string    `json:"topic"`
		HostID    string    `json:"host_id"`
		Status    Status    `json:"status"`
		StartsAt  time.Time `json:"starts_at"` // UTC
		StartedAt time.Time `json:"started_at,omitempty"`
		EndedAt   time.Time `json:"ended_at,omitempty"`

		// RecordingKey is the blob key of the recording, set once the
		// session has ended and a recording was uploaded.
		RecordingKey string `json:"recording_key,omitempty"`
	}

	// Participant is one attendee in a running session's roster.
	Participant struct {
		UserID   string     `json:"user_id"`
		Name     string     `json:"name"`
		Role     string     `json:"role"`
		Media    MediaState `json:"media"`
		JoinedAt time.Time  `json:"joined_at"` // UTC
	}

	// MediaState tracks a participant's local device toggles.
	MediaState struct {
		Mic    bool `json:"mic"`
		Camera bool `json:"camera"`
		Screen bool `json:"screen"`
	}

	// Recording points at a stored session recording.
	Recording struct {
		SessionID  string        `json:"session_id"`
		Topic      string        `json:"topic"`
		Key        string        `json:"key"`
		Duration   time.Duration `json:"duration"`
		RecordedAt time.Time     `json:"recorded_at"` // UTC
	}
)

// NewSession contains information needed to schedule a Session.
type NewSession struct {
	ClassID  string    `json:"class_id" validate:"required"`
	Topic    string    `json:"topic" validate:"required"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
}

func (ns *NewSession) Validate(validate *validator.Validate) error {
	ns.Topic = core.CleanString(ns.Topic)
	return validate.Struct(ns)
}
