package apiclient

import (
	"context"
	"net/http"

	"github.com/friendsofgo/errors"

	"github.com/trezcool/findtutor/core/post"
)

type postRepository struct {
	client *Client
}

var _ post.Repository = (*postRepository)(nil)

func NewPostRepository(client *Client) *postRepository {
	return &postRepository{client: client}
}

func (repo *postRepository) QueryAllPosts(ctx context.Context) ([]post.StudentPost, error) {
	var posts []post.StudentPost
	if err := repo.client.get(ctx, "/student-posts", nil, &posts); err != nil {
		return nil, errors.Wrap(err, "listing posts")
	}
	return posts, nil
}

// GetPostByID scans the board listing; the API only exposes the collection.
func (repo *postRepository) GetPostByID(ctx context.Context, id int) (post.StudentPost, error) {
	posts, err := repo.QueryAllPosts(ctx)
	if err != nil {
		return post.StudentPost{}, err
	}
	for _, p := range posts {
		if p.ID == id {
			return p, nil
		}
	}
	return post.StudentPost{}, post.ErrNotFound
}

func (repo *postRepository) CreatePost(ctx context.Context, p post.StudentPost) (post.StudentPost, error) {
	var created post.StudentPost
	if err := repo.client.send(ctx, http.MethodPost, "/student-posts", p, &created); err != nil {
		return post.StudentPost{}, errors.Wrap(err, "creating post")
	}
	return created, nil
}
