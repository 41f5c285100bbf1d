package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/friendsofgo/errors"

	"github.com/trezcool/findtutor/core/request"
)

type requestRepository struct {
	client *Client
}

var _ request.Repository = (*requestRepository)(nil)

func NewRequestRepository(client *Client) *requestRepository {
	return &requestRepository{client: client}
}

func (repo *requestRepository) CreateRequest(ctx context.Context, req request.Request) (request.Request, error) {
	var created request.Request
	if err := repo.client.send(ctx, http.MethodPost, "/requests", req, &created); err != nil {
		return request.Request{}, errors.Wrap(err, "creating request")
	}
	return created, nil
}

func (repo *requestRepository) GetRequestByID(ctx context.Context, id int) (request.Request, error) {
	var req request.Request
	if err := repo.client.get(ctx, fmt.Sprintf("/requests/%d", id), nil, &req); err != nil {
		if IsNotFound(err) {
			return request.Request{}, request.ErrNotFound
		}
		return request.Request{}, errors.Wrap(err, "fetching request")
	}
	return req, nil
}

func (repo *requestRepository) FilterRequests(ctx context.Context, filter request.QueryFilter) ([]request.Request, error) {
	q := make(url.Values)
	if filter.StudentID > 0 {
		q.Set("student_id", strconv.Itoa(filter.StudentID))
	}
	if filter.TeacherID > 0 {
		q.Set("teacher_id", strconv.Itoa(filter.TeacherID))
	}

	var reqs []request.Request
	if err := repo.client.get(ctx, "/requests", q, &reqs); err != nil {
		return nil, errors.Wrap(err, "listing requests")
	}
	return reqs, nil
}

// UpdateRequestStatus hits the canonical transition endpoint. All status
// changes go through here, student cancels included; requests are never
// DELETEd.
func (repo *requestRepository) UpdateRequestStatus(ctx context.Context, id int, status request.Status, idemKey string) (request.Request, error) {
	var updated request.Request
	path := fmt.Sprintf("/requests/%d/status", id)
	body := map[string]string{"status": string(status)}
	headers := http.Header{"Idempotency-Key": []string{idemKey}}
	if err := repo.client.send(ctx, http.MethodPatch, path, body, &updated, headers); err != nil {
		if IsNotFound(err) {
			return request.Request{}, request.ErrNotFound
		}
		return request.Request{}, errors.Wrap(err, "updating request status")
	}
	return updated, nil
}
