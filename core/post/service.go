package post

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/findtutor/core/request"
)

var ErrNotFound = errors.New("post not found")

type (
	Repository interface {
		QueryAllPosts(ctx context.Context) ([]StudentPost, error)
		GetPostByID(ctx context.Context, id int) (StudentPost, error)
		CreatePost(ctx context.Context, p StudentPost) (StudentPost, error)
	}

	// RequestCreator decouples the board from the lifecycle service;
	// responding to a post is just a request creation.
	RequestCreator interface {
		Create(ctx context.Context, nr request.NewRequest) (request.Request, error)
	}

	Service struct {
		repo     Repository
		requests RequestCreator
	}
)

func NewService(repo Repository, requests RequestCreator) *Service {
	return &Service{repo: repo, requests: requests}
}

func (svc *Service) QueryAll(ctx context.Context) ([]StudentPost, error) {
	return svc.repo.QueryAllPosts(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (StudentPost, error) {
	return svc.repo.GetPostByID(ctx, id)
}

// Create publishes a post for a student (profile id, not user id).
func (svc *Service) Create(ctx context.Context, studentID int, np NewPost) (StudentPost, error) {
	if err := np.Validate(); err != nil {
		return StudentPost{}, err
	}
	p := StudentPost{
		StudentID:   studentID,
		SubjectID:   np.SubjectID,
		Grade:       np.Grade,
		Description: np.Description,
		Budget:      np.Budget,
		Contact:     np.Contact,
		Location:    np.Location,
		CreatedAt:   time.Now().UTC(),
	}
	created, err := svc.repo.CreatePost(ctx, p)
	if err != nil {
		return StudentPost{}, pkgerrors.Wrap(err, "creating post")
	}
	return created, nil
}

// Respond turns a teacher's reply into a pending Request against the
// post's student, seeded with the post's subject, location and budget.
func (svc *Service) Respond(ctx context.Context, teacherID, postID int, resp Response) (request.Request, error) {
	if err := resp.Validate(); err != nil {
		return request.Request{}, err
	}
	p, err := svc.repo.GetPostByID(ctx, postID)
	if err != nil {
		return request.Request{}, pkgerrors.Wrap(err, "finding post")
	}

	nr := request.NewRequest{
		StudentID: p.StudentID,
		TeacherID: teacherID,
		SubjectID: p.SubjectID,
		Message:   resp.Message,
		Budget:    resp.Budget,
		Location:  resp.Location,
	}
	if !nr.Budget.Valid {
		nr.Budget = budgetFromDisplay(p.Budget)
	}
	if !nr.Location.Valid && p.Location != "" {
		nr.Location = null.StringFrom(p.Location)
	}
	return svc.requests.Create(ctx, nr)
}

// budgetFromDisplay extracts the numeric part of a display budget
// such as "LKR 1500/hr".
func budgetFromDisplay(s string) null.Float64 {
	var b strings.Builder
	var seen bool
	for _, r := range s {
		if (r >= '0' && r <= '9') || (seen && r == '.') {
			seen = true
			b.WriteRune(r)
		} else if seen {
			break
		}
	}
	if !seen {
		return null.Float64{}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return null.Float64{}
	}
	return null.Float64From(f)
}
