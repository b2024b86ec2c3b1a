package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnect/internal/models"
)

func TestPostRepository_ListQueryShape(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" ORDER BY created_at DESC,id DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "text"}).AddRow(2, 1, "second"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "likes" WHERE "likes"."post_id" = $1 ORDER BY created_at DESC,id DESC`)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id"}))

	posts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.NotNil(t, posts[0].Likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "ada", "ada@example.com")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, offset := range []time.Duration{time.Hour, 0, 2 * time.Hour, time.Hour} {
		p := &models.Post{UserID: author.ID, Text: string(rune('a' + i)), CreatedAt: base.Add(offset)}
		require.NoError(t, repo.Create(ctx, p))
	}

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 4)
	for i := 1; i < len(posts); i++ {
		prev, cur := posts[i-1], posts[i]
		assert.False(t, cur.CreatedAt.After(prev.CreatedAt), "posts out of order at %d", i)
		if cur.CreatedAt.Equal(prev.CreatedAt) {
			assert.Greater(t, prev.ID, cur.ID)
		}
	}
	assert.Equal(t, "c", posts[0].Text)
	assert.Equal(t, "b", posts[3].Text)
}

func TestPostRepository_Likes(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "ada", "ada@example.com")
	fan := createUser(t, db, "bob", "bob@example.com")
	post := &models.Post{UserID: author.ID, Text: "hello", Name: author.Name, Avatar: author.Avatar}
	require.NoError(t, repo.Create(ctx, post))
	assert.NotNil(t, post.Likes)

	require.NoError(t, repo.AddLike(ctx, &models.Like{PostID: post.ID, UserID: author.ID}))
	require.NoError(t, repo.AddLike(ctx, &models.Like{PostID: post.ID, UserID: fan.ID}))

	err := repo.AddLike(ctx, &models.Like{PostID: post.ID, UserID: fan.ID})
	assert.True(t, models.IsCode(err, models.CodeConflict), "got %v", err)

	likes, err := repo.ListLikes(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, likes, 2)
	assert.Equal(t, fan.ID, likes[0].UserID)
	assert.Equal(t, author.ID, likes[1].UserID)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, got.Likes, 2)
	assert.Equal(t, fan.ID, got.Likes[0].UserID)
}

func TestPostRepository_Delete(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "ada", "ada@example.com")
	post := &models.Post{UserID: author.ID, Text: "bye"}
	require.NoError(t, repo.Create(ctx, post))
	require.NoError(t, repo.AddLike(ctx, &models.Like{PostID: post.ID, UserID: author.ID}))

	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	likes, err := repo.ListLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)

	assert.True(t, models.IsCode(repo.Delete(ctx, post.ID), models.CodeNotFound))
}
