package search

import (
	"context"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/findtutor/core"
	"github.com/trezcool/findtutor/core/profile"
)

// Query is a conjunctive teacher filter: a teacher matches iff it matches
// every set criterion. An empty query matches all teachers.
type Query struct {
	Subject  string   `query:"subject"`
	Location string   `query:"location"`
	MaxPrice *float64 `query:"max_price"` // inclusive ceiling on hourly_rate
	Text     string   `query:"q"`         // matches name, bio or education
}

func (q *Query) Clean() {
	q.Subject = core.CleanString(q.Subject)
	q.Location = core.CleanString(q.Location)
	q.Text = core.CleanString(q.Text)
}

func (q Query) IsEmpty() bool {
	return q.Subject == "" && q.Location == "" && q.MaxPrice == nil && q.Text == ""
}

// Matches applies the predicate to one teacher. Text matching is
// case-insensitive substring containment.
func (q Query) Matches(t profile.Teacher) bool {
	if q.Subject != "" && !containsFold(t.Subject, q.Subject) {
		return false
	}
	if q.Location != "" && !containsFold(t.Location, q.Location) {
		return false
	}
	if q.MaxPrice != nil && t.HourlyRate > *q.MaxPrice {
		return false
	}
	if q.Text != "" &&
		!containsFold(t.Name, q.Text) &&
		!containsFold(t.Bio, q.Text) &&
		!containsFold(t.Education, q.Text) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

type (
	TeacherSource interface {
		QueryAllTeachers(ctx context.Context) ([]profile.Teacher, error)
	}

	// Service filters teachers entirely client-side over a cached snapshot
	// of the full list: no API round-trip per search. The snapshot refreshes
	// at most once per refresh interval (the old UI debounced at 500ms) and
	// is dropped explicitly on manual refresh or profile mutation.
	Service struct {
		source       TeacherSource
		refreshEvery time.Duration

		mu        sync.RWMutex
		snapshot  []profile.Teacher
		fetchedAt time.Time
	}
)

func NewService(source TeacherSource, refreshEvery time.Duration) *Service {
	return &Service{source: source, refreshEvery: refreshEvery}
}

// Search applies the conjunctive filter over the cached snapshot.
func (svc *Service) Search(ctx context.Context, q Query) ([]profile.Teacher, error) {
	q.Clean()
	teachers, err := svc.teachers(ctx)
	if err != nil {
		return nil, err
	}
	if q.IsEmpty() {
		return teachers, nil
	}

	matches := make([]profile.Teacher, 0, len(teachers))
	for _, t := range teachers {
		if q.Matches(t) {
			matches = append(matches, t)
		}
	}
	return matches, nil
}

// Refresh drops the snapshot unless it was fetched within the refresh
// interval; back-to-back refreshes do not cause request storms.
func (svc *Service) Refresh() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if time.Since(svc.fetchedAt) < svc.refreshEvery {
		return
	}
	svc.snapshot = nil
}

// Invalidate unconditionally drops the snapshot (profile mutation, logout).
func (svc *Service) Invalidate() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.snapshot = nil
}

func (svc *Service) teachers(ctx context.Context) ([]profile.Teacher, error) {
	svc.mu.RLock()
	snap := svc.snapshot
	svc.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	teachers, err := svc.source.QueryAllTeachers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "fetching teacher snapshot")
	}
	svc.mu.Lock()
	svc.snapshot = teachers
	svc.fetchedAt = time.Now()
	svc.mu.Unlock()
	return teachers, nil
}
