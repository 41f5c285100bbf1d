package request

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/findtutor/core"
	"github.com/trezcool/findtutor/core/profile"
)

var (
	ErrNotFound = errors.New("request not found")
	// ErrInvalidTransition guards the lifecycle client-side: an illegal
	// transition is never sent to the API.
	ErrInvalidTransition = errors.New("request is no longer pending")
	ErrInvalidFilter     = errors.New("requests must be listed for exactly one party")
)

type (
	Repository interface {
		CreateRequest(ctx context.Context, req Request) (Request, error)
		GetRequestByID(ctx context.Context, id int) (Request, error)
		// FilterRequests returns the full result set for one party,
		// ordered by creation time; the API does not paginate.
		FilterRequests(ctx context.Context, filter QueryFilter) ([]Request, error)
		// UpdateRequestStatus hits the canonical transition endpoint
		// (PATCH /requests/{id}/status). idemKey lets the server detect an
		// accidental re-send of the same transition.
		UpdateRequestStatus(ctx context.Context, id int, status Status, idemKey string) (Request, error)
	}

	// PartyDirectory resolves the two parties of a request for notifications.
	PartyDirectory interface {
		TeacherByID(ctx context.Context, teacherID int) (profile.Teacher, error)
		StudentByID(ctx context.Context, studentID int) (profile.Student, error)
	}

	Service struct {
		repo    Repository
		parties PartyDirectory
		mailSvc core.EmailService
		logger  core.Logger
	}
)

func NewService(repo Repository, parties PartyDirectory, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{repo: repo, parties: parties, mailSvc: mailSvc, logger: logger}
}

// Create opens a new request. The status is always pending regardless of
// which side created it.
func (svc *Service) Create(ctx context.Context, nr NewRequest) (Request, error) {
	if err := nr.Validate(); err != nil {
		return Request{}, err
	}
	req := Request{
		StudentID: nr.StudentID,
		TeacherID: nr.TeacherID,
		SubjectID: nr.SubjectID,
		ClassID:   nr.ClassID,
		Message:   nr.Message,
		Budget:    nr.Budget,
		Location:  nr.Location,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	created, err := svc.repo.CreateRequest(ctx, req)
	if err != nil {
		return Request{}, pkgerrors.Wrap(err, "creating request")
	}
	svc.notifyTeacher(ctx, created)
	return created, nil
}

// Query lists all requests visible to one party.
func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Request, error) {
	if !filter.IsValid() {
		return nil, ErrInvalidFilter
	}
	reqs, err := svc.repo.FilterRequests(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "filtering requests")
	}
	return reqs, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (Request, error) {
	return svc.repo.GetRequestByID(ctx, id)
}

// Accept is the teacher-side transition pending -> accepted.
func (svc *Service) Accept(ctx context.Context, id int) (Request, error) {
	req, err := svc.transition(ctx, id, StatusAccepted)
	if err != nil {
		return Request{}, err
	}
	svc.notifyStudent(ctx, req)
	return req, nil
}

// Decline is the teacher-side transition pending -> declined.
func (svc *Service) Decline(ctx context.Context, id int) (Request, error) {
	req, err := svc.transition(ctx, id, StatusDeclined)
	if err != nil {
		return Request{}, err
	}
	svc.notifyStudent(ctx, req)
	return req, nil
}

// Cancel is the student-side withdrawal of a pending request. It is the
// same canonical transition as Decline, through the same endpoint; the
// request is kept (declined), never deleted.
func (svc *Service) Cancel(ctx context.Context, id int) (Request, error) {
	return svc.transition(ctx, id, StatusDeclined)
}

func (svc *Service) transition(ctx context.Context, id int, to Status) (Request, error) {
	req, err := svc.repo.GetRequestByID(ctx, id)
	if err != nil {
		return Request{}, pkgerrors.Wrap(err, "finding request")
	}
	if !CanTransition(req.Status, to) {
		return Request{}, ErrInvalidTransition
	}
	// the server's final value wins; a stale concurrent transition is the
	// server's to reject, we only pass an idempotency key along
	updated, err := svc.repo.UpdateRequestStatus(ctx, id, to, uuid.New().String())
	if err != nil {
		return Request{}, pkgerrors.Wrapf(err, "transitioning request to %s", to)
	}
	return updated, nil
}

func (svc *Service) notifyTeacher(ctx context.Context, req Request) {
	t, err := svc.parties.TeacherByID(ctx, req.TeacherID)
	if err != nil || t.Email == "" {
		svc.logger.Warn(fmt.Sprintf("request %d: teacher %d not notified", req.ID, req.TeacherID), err)
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: t.Name, Address: t.Email}},
		Subject:      "New tutoring request",
		TemplateName: "request-created",
		TemplateData: req,
	})
}

func (svc *Service) notifyStudent(ctx context.Context, req Request) {
	s, err := svc.parties.StudentByID(ctx, req.StudentID)
	if err != nil || s.Email == "" {
		svc.logger.Warn(fmt.Sprintf("request %d: student %d not notified", req.ID, req.StudentID), err)
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: s.Name, Address: s.Email}},
		Subject:      fmt.Sprintf("Your tutoring request was %s", req.Status),
		TemplateName: "request-decided",
		TemplateData: req,
	})
}
