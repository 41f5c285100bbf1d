package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/findtutor/core/request"
)

type requestRepository struct {
	db *DB
}

var _ request.Repository = (*requestRepository)(nil)

func NewRequestRepository(db *DB) *requestRepository {
	return &requestRepository{db: db}
}

func (repo *requestRepository) CreateRequest(ctx context.Context, req request.Request) (request.Request, error) {
	tbl := repo.db.requests
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	tbl.pk++
	req.ID = tbl.pk
	tbl.t[req.ID] = &req
	return req, nil
}

func (repo *requestRepository) GetRequestByID(ctx context.Context, id int) (request.Request, error) {
	tbl := repo.db.requests
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	if req, ok := tbl.t[id]; ok {
		return *req, nil
	}
	return request.Request{}, request.ErrNotFound
}

func (repo *requestRepository) FilterRequests(ctx context.Context, filter request.QueryFilter) ([]request.Request, error) {
	tbl := repo.db.requests
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	reqs := make([]request.Request, 0, len(tbl.t))
	for _, req := range tbl.t {
		if filter.StudentID > 0 && req.StudentID != filter.StudentID {
			continue
		}
		if filter.TeacherID > 0 && req.TeacherID != filter.TeacherID {
			continue
		}
		reqs = append(reqs, *req)
	}
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].CreatedAt.Equal(reqs[j].CreatedAt) {
			return reqs[i].ID < reqs[j].ID
		}
		return reqs[i].CreatedAt.Before(reqs[j].CreatedAt)
	})
	return reqs, nil
}

// UpdateRequestStatus mimics the server contract: an already-seen
// idempotency key replays the stored result instead of re-applying, and a
// non-pending request rejects further transitions.
func (repo *requestRepository) UpdateRequestStatus(ctx context.Context, id int, status request.Status, idemKey string) (request.Request, error) {
	tbl := repo.db.requests
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	if seenID, ok := tbl.seen[idemKey]; ok && seenID == id {
		return *tbl.t[id], nil
	}
	req, ok := tbl.t[id]
	if !ok {
		return request.Request{}, request.ErrNotFound
	}
	if !request.CanTransition(req.Status, status) {
		return request.Request{}, request.ErrInvalidTransition
	}
	req.Status = status
	if idemKey != "" {
		tbl.seen[idemKey] = id
	}
	return *req, nil
}
