package roster

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/eduverse/lms/core"
	"github.com/eduverse/lms/core/live"
)

type redisStore struct {
	client *redis.Client
}

var _ live.RosterStore = (*redisStore)(nil) // interface compliance check

// NewRedisStore keeps each session's roster in a Redis hash keyed by user ID,
// so all API instances see the same room.
func NewRedisStore(ctx context.Context, conf *core.Config) (live.RosterStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "pinging redis")
	}
	return &redisStore{client: client}, nil
}

func rosterKey(sessionID string) string {
	return "roster:" + sessionID
}

func (s *redisStore) Add(ctx context.Context, sessionID string, p live.Participant) error {
	data, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "encoding participant")
	}
	return errors.Wrap(s.client.HSet(ctx, rosterKey(sessionID), p.UserID, data).Err(), "adding participant")
}

func (s *redisStore) Remove(ctx context.Context, sessionID, userID string) error {
	return errors.Wrap(s.client.HDel(ctx, rosterKey(sessionID), userID).Err(), "removing participant")
}

func (s *redisStore) Get(ctx context.Context, sessionID, userID string) (live.Participant, error) {
	data, err := s.client.HGet(ctx, rosterKey(sessionID), userID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return live.Participant{}, live.ErrNotInRoom
		}
		return live.Participant{}, errors.Wrap(err, "getting participant")
	}
	var p live.Participant
	if err = json.Unmarshal(data, &p); err != nil {
		return live.Participant{}, errors.Wrap(err, "decoding participant")
	}
	return p, nil
}

func (s *redisStore) List(ctx context.Context, sessionID string) ([]live.Participant, error) {
	entries, err := s.client.HGetAll(ctx, rosterKey(sessionID)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "listing roster")
	}

	participants := make([]live.Participant, 0, len(entries))
	for _, data := range entries {
		var p live.Participant
		if err = json.Unmarshal([]byte(data), &p); err != nil {
			return nil, errors.Wrap(err, "decoding participant")
		}
		participants = append(participants, p)
	}
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].JoinedAt.Before(participants[j].JoinedAt)
	})
	return participants, nil
}

func (s *redisStore) Update(ctx context.Context, sessionID string, p live.Participant) error {
	exists, err := s.client.HExists(ctx, rosterKey(sessionID), p.UserID).Result()
	if err != nil {
		return errors.Wrap(err, "checking participant")
	}
	if !exists {
		return live.ErrNotInRoom
	}
	return s.Add(ctx, sessionID, p)
}

func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	return errors.Wrap(s.client.Del(ctx, rosterKey(sessionID)).Err(), "clearing roster")
}
