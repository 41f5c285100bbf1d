package echoweb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/findtutor/core"
	"github.com/trezcool/findtutor/core/classes"
	"github.com/trezcool/findtutor/core/post"
	"github.com/trezcool/findtutor/core/profile"
	"github.com/trezcool/findtutor/core/request"
	"github.com/trezcool/findtutor/core/search"
	"github.com/trezcool/findtutor/core/user"
	emailsvc "github.com/trezcool/findtutor/services/email"
	inmemdb "github.com/trezcool/findtutor/storage/apiclient/inmem"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type testApp struct {
	server Server
	db     *inmemdb.DB

	requestRepo request.Repository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := inmemdb.Open()
	require.NoError(t, err)

	profileRepo := inmemdb.NewProfileRepository(db)
	requestRepo := inmemdb.NewRequestRepository(db)

	// seed one teacher and one student account
	profileRepo.CreateTeacher(profile.Teacher{
		UserID: 10, Name: "Mr Banza", Email: "banza@test.cd",
		Subject: "Mathematics", HourlyRate: 2000, YearsExperience: 5, Location: "Colombo",
	})
	profileRepo.CreateStudent(profile.Student{
		UserID: 20, Name: "Joe", Email: "joe@test.cd",
		EducationLevel: "A/L", Location: "Colombo",
	})

	logger := nopLogger{}
	mailSvc := emailsvc.NewConsoleServiceMock()

	usrSvc := user.NewService(inmemdb.NewUserRepository(db))
	profileSvc := profile.NewService(profileRepo)
	searchSvc := search.NewService(profileRepo, core.Conf.Search.RefreshInterval)
	requestSvc := request.NewService(requestRepo, profileSvc, mailSvc, logger)
	classSvc := classes.NewService(inmemdb.NewClassRepository(db))
	postSvc := post.NewService(inmemdb.NewPostRepository(db), requestSvc)
	profileSvc.OnInvalidate(searchSvc.Invalidate)

	srv := NewServer(ServerDeps{
		Conf:           core.Conf,
		Logger:         logger,
		SessionStore:   NewSessionStore(core.Conf),
		UserSvc:        usrSvc,
		ProfileSvc:     profileSvc,
		RequestSvc:     requestSvc,
		ClassSvc:       classSvc,
		PostSvc:        postSvc,
		SearchSvc:      searchSvc,
		DisableReqLogs: true,
	})
	return &testApp{server: srv, db: db, requestRepo: requestRepo}
}

func (app *testApp) do(method, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

// signIn opens a session and returns the session cookie to replay.
func (app *testApp) signIn(t *testing.T, email, role string) []*http.Cookie {
	t.Helper()
	rec := app.do(http.MethodPost, "/signin", url.Values{"email": {email}, "role": {role}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))

	// the handler saves the session more than once; the last write wins
	cookies := rec.Result().Cookies()
	for i := len(cookies) - 1; i >= 0; i-- {
		if cookies[i].Name == sessionName {
			return cookies[i : i+1]
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestAuth(t *testing.T) {
	app := newTestApp(t)

	t.Run("anonymous visitors are sent to sign in", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/dashboard", nil, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/signin", rec.Header().Get("Location"))
	})

	t.Run("unknown account", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/signin", url.Values{"email": {"nobody@test.cd"}, "role": {"teacher"}}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("role must match the account", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/signin", url.Values{"email": {"banza@test.cd"}, "role": {"student"}}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid role is a validation error", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/signin", url.Values{"email": {"banza@test.cd"}, "role": {"admin"}}, nil)
		// validation failures flash and bounce back
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})

	t.Run("teacher dashboard", func(t *testing.T) {
		cookies := app.signIn(t, "banza@test.cd", "teacher")
		rec := app.do(http.MethodGet, "/dashboard", nil, cookies)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Teacher Dashboard")
		assert.Contains(t, rec.Body.String(), "My Classes")
	})

	t.Run("student dashboard", func(t *testing.T) {
		cookies := app.signIn(t, "joe@test.cd", "student")
		rec := app.do(http.MethodGet, "/dashboard", nil, cookies)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Student Dashboard")
		assert.Contains(t, rec.Body.String(), "Find a teacher")
	})

	t.Run("sign out clears the session", func(t *testing.T) {
		cookies := app.signIn(t, "joe@test.cd", "student")
		rec := app.do(http.MethodPost, "/signout", nil, cookies)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/signin", rec.Header().Get("Location"))
	})
}

func TestRequestLifecycle(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	student := app.signIn(t, "joe@test.cd", "student")
	teacher := app.signIn(t, "banza@test.cd", "teacher")

	form := url.Values{
		"teacher_id": {"1"},
		"subject_id": {"3"},
		"message":    {"Need help with calculus"},
		"budget":     {"1500"},
	}

	t.Run("student opens a request", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/requests", form, student)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/requests", rec.Header().Get("Location"))

		req, err := app.requestRepo.GetRequestByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, request.StatusPending, req.Status)
		assert.Equal(t, 1, req.StudentID)
		assert.Equal(t, 1, req.TeacherID)
	})

	t.Run("both parties see it", func(t *testing.T) {
		for _, cookies := range [][]*http.Cookie{student, teacher} {
			rec := app.do(http.MethodGet, "/requests", nil, cookies)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "Need help with calculus")
			assert.Contains(t, rec.Body.String(), "pending")
		}
	})

	t.Run("students cannot accept", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/requests/1/accept", nil, student)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("teacher accepts", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/requests/1/accept", nil, teacher)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		req, err := app.requestRepo.GetRequestByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, request.StatusAccepted, req.Status)
	})

	t.Run("terminal requests stay put", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/requests/1/decline", nil, teacher)
		// the illegal transition flashes and bounces back
		assert.Equal(t, http.StatusSeeOther, rec.Code)

		req, err := app.requestRepo.GetRequestByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, request.StatusAccepted, req.Status)
	})

	t.Run("student can cancel a pending request", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/requests", form, student)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		rec = app.do(http.MethodPost, "/requests/2/cancel", nil, student)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		// the request is kept, as declined
		req, err := app.requestRepo.GetRequestByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, request.StatusDeclined, req.Status)
	})
}

func TestSearchPage(t *testing.T) {
	app := newTestApp(t)
	cookies := app.signIn(t, "joe@test.cd", "student")

	t.Run("lists teachers", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/teachers", nil, cookies)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Mr Banza")
	})

	t.Run("filters apply", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/teachers?max_price=1000", nil, cookies)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "Mr Banza")
	})
}

func TestClassesPages(t *testing.T) {
	app := newTestApp(t)
	teacher := app.signIn(t, "banza@test.cd", "teacher")
	student := app.signIn(t, "joe@test.cd", "student")

	t.Run("students have no classes page", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/classes", nil, student)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("teacher manages classes", func(t *testing.T) {
		form := url.Values{
			"title":      {"A/L Combined Maths"},
			"subject_id": {"3"},
			"price":      {"2000"},
			"location":   {"Colombo"},
			"is_online":  {"true"},
		}
		rec := app.do(http.MethodPost, "/classes", form, teacher)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		rec = app.do(http.MethodGet, "/classes", nil, teacher)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "A/L Combined Maths")

		rec = app.do(http.MethodPost, "/classes/1/delete", nil, teacher)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		rec = app.do(http.MethodGet, "/classes", nil, teacher)
		assert.NotContains(t, rec.Body.String(), "A/L Combined Maths")
	})
}

func TestPostsBoard(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	student := app.signIn(t, "joe@test.cd", "student")
	teacher := app.signIn(t, "banza@test.cd", "teacher")

	t.Run("student publishes a post", func(t *testing.T) {
		form := url.Values{
			"subject_id":  {"3"},
			"grade":       {"A/L"},
			"description": {"Need a combined maths tutor"},
			"budget":      {"LKR 1500/hr"},
			"contact":     {"joe@test.cd"},
			"location":    {"Colombo"},
		}
		rec := app.do(http.MethodPost, "/posts", form, student)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		rec = app.do(http.MethodGet, "/posts", nil, student)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Need a combined maths tutor")
	})

	t.Run("teacher response becomes a pending request", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/posts/1/respond", url.Values{"message": {"I can help"}}, teacher)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		reqs, err := app.requestRepo.FilterRequests(ctx, request.QueryFilter{TeacherID: 1})
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Equal(t, request.StatusPending, reqs[0].Status)
		assert.Equal(t, 1, reqs[0].StudentID)
		// the post's budget seeds the request
		assert.Equal(t, 1500.0, reqs[0].Budget.Float64)
	})

	t.Run("teachers cannot publish posts", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/posts", url.Values{"description": {"x"}}, teacher)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestProfilePages(t *testing.T) {
	app := newTestApp(t)
	teacher := app.signIn(t, "banza@test.cd", "teacher")
	student := app.signIn(t, "joe@test.cd", "student")

	t.Run("own profile edit form", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/profile", nil, teacher)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Mathematics")
	})

	t.Run("teacher updates own profile", func(t *testing.T) {
		form := url.Values{
			"subject":          {"Physics"},
			"years_experience": {"6 years"},
			"hourly_rate":      {"LKR 2200"},
			"location":         {"Kandy"},
			"bio":              {"Now teaching physics"},
		}
		rec := app.do(http.MethodPost, "/profile", form, teacher)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		rec = app.do(http.MethodGet, "/profile", nil, teacher)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Physics")
		assert.Contains(t, rec.Body.String(), "Kandy")
	})

	t.Run("public profile page", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/profiles/1", nil, student)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Mr Banza")
		// students get the request form on a teacher profile
		assert.Contains(t, rec.Body.String(), "Request tutoring")
	})

	t.Run("missing profile id is a 404", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/profiles/404", nil, student)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("incomplete profile blocks requests", func(t *testing.T) {
		// wipe the student's profile out from under the session
		app.db.Reset()
		rec := app.do(http.MethodPost, "/requests", url.Values{
			"teacher_id": {"1"}, "subject_id": {"3"}, "message": {"hi"},
		}, student)
		// profile.ErrNotResolved flashes and bounces back
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}
