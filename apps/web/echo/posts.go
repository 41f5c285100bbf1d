package echoweb

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/findtutor/core/post"
)

func (s *server) listPosts(ctx echo.Context) error {
	posts, err := s.postSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "posts", s.newViewData(ctx, posts))
}

func (s *server) createPost(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	studentID, err := s.profileSvc.ResolveOwnID(reqCtx, ctxUser(ctx))
	if err != nil {
		return err
	}
	data := new(post.NewPost)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if _, err = s.postSvc.Create(reqCtx, studentID, *data); err != nil {
		return err
	}
	s.addFlash(ctx, flashSuccess, "Post published.")
	return ctx.Redirect(http.StatusSeeOther, "/posts")
}

// respondToPost turns the teacher's reply into a regular pending request
// against the post's student.
func (s *server) respondToPost(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return post.ErrNotFound
	}
	reqCtx := ctx.Request().Context()
	teacherID, err := s.profileSvc.ResolveOwnID(reqCtx, ctxUser(ctx))
	if err != nil {
		return err
	}
	resp := post.Response{
		Message:  ctx.FormValue("message"),
		Budget:   optFloatForm(ctx, "budget"),
		Location: optStringForm(ctx, "location"),
	}
	if _, err = s.postSvc.Respond(reqCtx, teacherID, id, resp); err != nil {
		return err
	}
	s.addFlash(ctx, flashSuccess, "Response sent. The student has been notified.")
	return ctx.Redirect(http.StatusSeeOther, "/posts")
}
