package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnect/internal/models"
)

// memoryPosts backs a postRepoStub with an in-memory feed.
func memoryPosts() *postRepoStub {
	var mu sync.Mutex
	posts := map[uint]*models.Post{}
	var nextPost, nextLike uint

	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, p *models.Post) error {
		mu.Lock()
		defer mu.Unlock()
		nextPost++
		p.ID = nextPost
		cp := *p
		cp.Likes = []models.Like{}
		posts[p.ID] = &cp
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		mu.Lock()
		defer mu.Unlock()
		p, ok := posts[id]
		if !ok {
			return nil, models.NewNotFoundError("Post not found")
		}
		cp := *p
		cp.Likes = append([]models.Like{}, p.Likes...)
		return &cp, nil
	}
	repo.deleteFn = func(_ context.Context, id uint) error {
		mu.Lock()
		defer mu.Unlock()
		if _, ok := posts[id]; !ok {
			return models.NewNotFoundError("Post not found")
		}
		delete(posts, id)
		return nil
	}
	repo.addLikeFn = func(_ context.Context, l *models.Like) error {
		mu.Lock()
		defer mu.Unlock()
		p := posts[l.PostID]
		for _, existing := range p.Likes {
			if existing.UserID == l.UserID {
				return models.NewConflictError("Post already liked")
			}
		}
		nextLike++
		l.ID = nextLike
		p.Likes = append([]models.Like{*l}, p.Likes...)
		return nil
	}
	repo.listLikesFn = func(_ context.Context, postID uint) ([]models.Like, error) {
		mu.Lock()
		defer mu.Unlock()
		return append([]models.Like{}, posts[postID].Likes...), nil
	}
	return repo
}

func authorRepo() *userRepoStub {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		switch id {
		case 1:
			return &models.User{ID: 1, Name: "Ada", Avatar: "https://avatar/ada"}, nil
		case 2:
			return &models.User{ID: 2, Name: "Bob", Avatar: "https://avatar/bob"}, nil
		}
		return nil, models.NewNotFoundError("User not found")
	}
	return users
}

func TestPostService_Create(t *testing.T) {
	t.Parallel()

	svc := NewPostService(memoryPosts(), authorRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, CreatePostInput{Text: "   "})
	assertValidationError(t, err)

	_, err = svc.Create(ctx, 1, CreatePostInput{Text: "<script>alert(1)</script>"})
	assertValidationError(t, err)

	post, err := svc.Create(ctx, 1, CreatePostInput{Text: " Hello <b>world</b> "})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", post.Text)
	assert.Equal(t, "Ada", post.Name)
	assert.Equal(t, "https://avatar/ada", post.Avatar)
	assert.Equal(t, uint(1), post.UserID)
	assert.NotNil(t, post.Likes)

	_, err = svc.Create(ctx, 42, CreatePostInput{Text: "ghost"})
	assertCode(t, err, models.CodeNotFound)
}

func TestPostService_Delete_OnlyAuthor(t *testing.T) {
	t.Parallel()

	svc := NewPostService(memoryPosts(), authorRepo())
	ctx := context.Background()

	post, err := svc.Create(ctx, 1, CreatePostInput{Text: "mine"})
	require.NoError(t, err)

	err = svc.Delete(ctx, 2, post.ID)
	appErr := assertCode(t, err, models.CodeForbidden)
	assert.Equal(t, "User not authorized", appErr.Message)

	_, err = svc.Get(ctx, post.ID)
	require.NoError(t, err, "post must survive a rejected delete")

	require.NoError(t, svc.Delete(ctx, 1, post.ID))
	_, err = svc.Get(ctx, post.ID)
	assertCode(t, err, models.CodeNotFound)

	err = svc.Delete(ctx, 1, post.ID)
	assertCode(t, err, models.CodeNotFound)
}

func TestPostService_Like(t *testing.T) {
	t.Parallel()

	svc := NewPostService(memoryPosts(), authorRepo())
	ctx := context.Background()

	post, err := svc.Create(ctx, 1, CreatePostInput{Text: "like me"})
	require.NoError(t, err)

	likes, err := svc.Like(ctx, 2, post.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, uint(2), likes[0].UserID)

	likes, err = svc.Like(ctx, 1, post.ID)
	require.NoError(t, err)
	require.Len(t, likes, 2)
	assert.Equal(t, uint(1), likes[0].UserID, "newest like first")

	_, err = svc.Like(ctx, 2, post.ID)
	appErr := assertCode(t, err, models.CodeConflict)
	assert.Equal(t, "Post already liked", appErr.Message)

	got, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, got.Likes, 2, "a rejected like leaves the list unchanged")

	_, err = svc.Like(ctx, 2, 999)
	assertCode(t, err, models.CodeNotFound)
}

func TestPostService_Like_RaceHitsUniqueIndex(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Post, error) {
		return &models.Post{ID: 5, UserID: 1, Likes: []models.Like{}}, nil
	}
	repo.addLikeFn = func(context.Context, *models.Like) error {
		return models.NewConflictError("Post already liked")
	}
	svc := NewPostService(repo, authorRepo())

	_, err := svc.Like(context.Background(), 2, 5)
	assertCode(t, err, models.CodeConflict)
}

func TestPostService_List(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.listFn = func(context.Context) ([]models.Post, error) {
		return []models.Post{{ID: 2}, {ID: 1}}, nil
	}
	svc := NewPostService(repo, authorRepo())

	posts, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}
