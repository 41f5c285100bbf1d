package post

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/findtutor/core/request"
)

type fakeRepo struct {
	pk    int
	posts map[int]StudentPost
}

func newFakeRepo() *fakeRepo { return &fakeRepo{posts: make(map[int]StudentPost)} }

func (r *fakeRepo) QueryAllPosts(context.Context) ([]StudentPost, error) {
	var out []StudentPost
	for _, p := range r.posts {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRepo) GetPostByID(_ context.Context, id int) (StudentPost, error) {
	if p, ok := r.posts[id]; ok {
		return p, nil
	}
	return StudentPost{}, ErrNotFound
}

func (r *fakeRepo) CreatePost(_ context.Context, p StudentPost) (StudentPost, error) {
	r.pk++
	p.ID = r.pk
	r.posts[p.ID] = p
	return p, nil
}

// captureCreator records the request a response turns into.
type captureCreator struct {
	created []request.NewRequest
}

func (c *captureCreator) Create(_ context.Context, nr request.NewRequest) (request.Request, error) {
	c.created = append(c.created, nr)
	return request.Request{ID: len(c.created), Status: request.StatusPending, CreatedAt: time.Now().UTC()}, nil
}

func validNewPost() NewPost {
	return NewPost{
		SubjectID:   3,
		Grade:       "A/L",
		Description: "Need help with combined maths",
		Budget:      "LKR 1500/hr",
		Contact:     "joe@test.cd",
		Location:    "Colombo",
	}
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), &captureCreator{})

	t.Run("publishes for the student", func(t *testing.T) {
		p, err := svc.Create(ctx, 7, validNewPost())
		require.NoError(t, err)
		assert.Equal(t, 7, p.StudentID)
		assert.False(t, p.CreatedAt.IsZero())
	})

	t.Run("unknown grade is rejected", func(t *testing.T) {
		np := validNewPost()
		np.Grade = "Grade 13"
		_, err := svc.Create(ctx, 7, np)
		assert.Error(t, err)
	})

	t.Run("contact must be an email", func(t *testing.T) {
		np := validNewPost()
		np.Contact = "call me"
		_, err := svc.Create(ctx, 7, np)
		assert.Error(t, err)
	})
}

func TestServiceRespond(t *testing.T) {
	ctx := context.Background()

	t.Run("response is seeded from the post", func(t *testing.T) {
		repo := newFakeRepo()
		creator := &captureCreator{}
		svc := NewService(repo, creator)

		p, err := svc.Create(ctx, 7, validNewPost())
		require.NoError(t, err)

		req, err := svc.Respond(ctx, 4, p.ID, Response{Message: "I can help"})
		require.NoError(t, err)
		assert.Equal(t, request.StatusPending, req.Status)

		require.Len(t, creator.created, 1)
		nr := creator.created[0]
		assert.Equal(t, 7, nr.StudentID)
		assert.Equal(t, 4, nr.TeacherID)
		assert.Equal(t, 3, nr.SubjectID)
		// the display budget's numeric part becomes the request budget
		assert.Equal(t, null.Float64From(1500), nr.Budget)
		assert.Equal(t, null.StringFrom("Colombo"), nr.Location)
	})

	t.Run("explicit terms win over the post's", func(t *testing.T) {
		repo := newFakeRepo()
		creator := &captureCreator{}
		svc := NewService(repo, creator)

		p, err := svc.Create(ctx, 7, validNewPost())
		require.NoError(t, err)

		_, err = svc.Respond(ctx, 4, p.ID, Response{
			Message:  "My usual terms",
			Budget:   null.Float64From(2000),
			Location: null.StringFrom("Online"),
		})
		require.NoError(t, err)

		nr := creator.created[0]
		assert.Equal(t, null.Float64From(2000), nr.Budget)
		assert.Equal(t, null.StringFrom("Online"), nr.Location)
	})

	t.Run("unknown post", func(t *testing.T) {
		svc := NewService(newFakeRepo(), &captureCreator{})
		_, err := svc.Respond(ctx, 4, 404, Response{Message: "hi"})
		assert.Error(t, err)
	})
}

func TestBudgetFromDisplay(t *testing.T) {
	tests := []struct {
		in   string
		want null.Float64
	}{
		{"LKR 1500/hr", null.Float64From(1500)},
		{"1500", null.Float64From(1500)},
		{"Rs. 2500.50 per hour", null.Float64From(2500.50)},
		{"negotiable", null.Float64{}},
		{"", null.Float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, budgetFromDisplay(tt.in))
		})
	}
}
