package dummydb

import (
	"context"

	"github.com/eduverse/lms/core/live"
)

type liveRepository struct {
	db *liveTable
}

var _ live.Repository = (*liveRepository)(nil) // interface compliance check

func NewLiveRepository(db *DB) live.Repository {
	return &liveRepository{db: db.live}
}

func (repo *liveRepository) CreateSession(_ context.Context, ses live.Session) (live.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[ses.ID] = &ses
	return ses, nil
}

func (repo *liveRepository) GetSessionByID(_ context.Context, id string) (live.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ses, ok := repo.db.table[id]; ok {
		return *ses, nil
	}
	return live.Session{}, live.ErrNotFound
}

func (repo *liveRepository) SessionsByHost(_ context.Context, hostID string) ([]live.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var sessions []live.Session
	for _, ses := range repo.db.table {
		if ses.HostID == hostID {
			sessions = append(sessions, *ses)
		}
	}
	return sessions, nil
}

func (repo *liveRepository) SessionsByClasses(_ context.Context, classIDs ...string) ([]live.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	wanted := make(map[string]bool, len(classIDs))
	for _, id := range classIDs {
		wanted[id] = true
	}

	var sessions []live.Session
	for _, ses := range repo.db.table {
		if wanted[ses.ClassID] {
			sessions = append(sessions, *ses)
		}
	}
	return sessions, nil
}

func (repo *liveRepository) UpdateSession(_ context.Context, ses live.Session) (live.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[ses.ID]; !ok {
		return live.Session{}, live.ErrNotFound
	}
	repo.db.table[ses.ID] = &ses
	return ses, nil
}
