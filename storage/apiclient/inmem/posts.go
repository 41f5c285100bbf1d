package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/findtutor/core/post"
)

type postRepository struct {
	db *DB
}

var _ post.Repository = (*postRepository)(nil)

func NewPostRepository(db *DB) *postRepository {
	return &postRepository{db: db}
}

func (repo *postRepository) QueryAllPosts(ctx context.Context) ([]post.StudentPost, error) {
	tbl := repo.db.posts
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	posts := make([]post.StudentPost, 0, len(tbl.t))
	for _, p := range tbl.t {
		posts = append(posts, *p)
	}
	// newest first, like the board renders them
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (repo *postRepository) GetPostByID(ctx context.Context, id int) (post.StudentPost, error) {
	tbl := repo.db.posts
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	if p, ok := tbl.t[id]; ok {
		return *p, nil
	}
	return post.StudentPost{}, post.ErrNotFound
}

func (repo *postRepository) CreatePost(ctx context.Context, p post.StudentPost) (post.StudentPost, error) {
	tbl := repo.db.posts
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	tbl.pk++
	p.ID = tbl.pk
	tbl.t[p.ID] = &p
	return p, nil
}
