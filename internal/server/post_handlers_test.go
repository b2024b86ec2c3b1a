package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnect/internal/models"
)

func TestPosts(t *testing.T) {
	s, app := newTestServer(t)
	ada := register(t, app, "Ada", "ada@example.com")
	bob := register(t, app, "Bob", "bob@example.com")
	adaID := s.issuer.Verify(ada).UserID
	bobID := s.issuer.Verify(bob).UserID

	resp := call(t, app, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.Status, "the feed is protected")

	resp = call(t, app, http.MethodPost, "/api/posts", ada, map[string]string{"text": "  "})
	require.Equal(t, http.StatusBadRequest, resp.Status)

	var ids []uint
	for _, text := range []string{"first", "second <i>post</i>", "third"} {
		resp = call(t, app, http.MethodPost, "/api/posts", ada, map[string]string{"text": text})
		require.Equal(t, http.StatusCreated, resp.Status, "body: %s", resp.Body)
		var p models.Post
		resp.decode(t, &p)
		assert.Equal(t, adaID, p.UserID)
		assert.Equal(t, "Ada", p.Name)
		assert.Contains(t, p.Avatar, "gravatar.com")
		assert.NotNil(t, p.Likes)
		ids = append(ids, p.ID)
	}

	t.Run("feed is newest first", func(t *testing.T) {
		resp := call(t, app, http.MethodGet, "/api/posts", bob, nil)
		require.Equal(t, http.StatusOK, resp.Status)
		var posts []models.Post
		resp.decode(t, &posts)
		require.Len(t, posts, 3)
		assert.Equal(t, []uint{ids[2], ids[1], ids[0]}, []uint{posts[0].ID, posts[1].ID, posts[2].ID})
		assert.Equal(t, "second post", posts[1].Text)
		for i := 1; i < len(posts); i++ {
			assert.False(t, posts[i].CreatedAt.After(posts[i-1].CreatedAt))
		}
	})

	t.Run("get", func(t *testing.T) {
		resp := call(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", ids[0]), bob, nil)
		require.Equal(t, http.StatusOK, resp.Status)

		for _, path := range []string{"/api/posts/abc", "/api/posts/9999"} {
			resp := call(t, app, http.MethodGet, path, bob, nil)
			require.Equal(t, http.StatusNotFound, resp.Status, path)
			var body models.ErrorResponse
			resp.decode(t, &body)
			assert.Equal(t, "Post not found", body.Error)
		}
	})

	t.Run("like once", func(t *testing.T) {
		path := fmt.Sprintf("/api/posts/like/%d", ids[0])

		resp := call(t, app, http.MethodPut, path, bob, nil)
		require.Equal(t, http.StatusOK, resp.Status, "body: %s", resp.Body)
		var likes []models.Like
		resp.decode(t, &likes)
		require.Len(t, likes, 1)
		assert.Equal(t, bobID, likes[0].UserID)

		resp = call(t, app, http.MethodPut, path, ada, nil)
		require.Equal(t, http.StatusOK, resp.Status)
		resp.decode(t, &likes)
		require.Len(t, likes, 2)
		assert.Equal(t, adaID, likes[0].UserID, "newest like first")

		resp = call(t, app, http.MethodPut, path, bob, nil)
		require.Equal(t, http.StatusBadRequest, resp.Status)
		var body models.ErrorResponse
		resp.decode(t, &body)
		assert.Equal(t, "Post already liked", body.Error)

		resp = call(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", ids[0]), bob, nil)
		var post models.Post
		resp.decode(t, &post)
		assert.Len(t, post.Likes, 2, "a rejected like leaves the list unchanged")

		resp = call(t, app, http.MethodPut, "/api/posts/like/9999", bob, nil)
		assert.Equal(t, http.StatusNotFound, resp.Status)
	})

	t.Run("only the author deletes", func(t *testing.T) {
		path := fmt.Sprintf("/api/posts/%d", ids[0])

		resp := call(t, app, http.MethodDelete, path, bob, nil)
		require.Equal(t, http.StatusForbidden, resp.Status)
		var body models.ErrorResponse
		resp.decode(t, &body)
		assert.Equal(t, "User not authorized", body.Error)

		resp = call(t, app, http.MethodGet, path, bob, nil)
		require.Equal(t, http.StatusOK, resp.Status, "post survives a rejected delete")

		resp = call(t, app, http.MethodDelete, path, ada, nil)
		require.Equal(t, http.StatusOK, resp.Status)
		var msg MessageResponse
		resp.decode(t, &msg)
		assert.Equal(t, "Post removed", msg.Msg)

		resp = call(t, app, http.MethodDelete, path, ada, nil)
		assert.Equal(t, http.StatusNotFound, resp.Status)
	})
}

func TestCreatePost_StoresTextAsWritten(t *testing.T) {
	_, app := newTestServer(t)
	token := register(t, app, "Ada", "ada@example.com")

	for _, text := range []string{
		"Tom & Jerry",
		"if a < b && b > c",
		`he said "hi"`,
		"it's",
	} {
		resp := call(t, app, http.MethodPost, "/api/posts", token, map[string]string{"text": text})
		require.Equal(t, http.StatusCreated, resp.Status, "body: %s", resp.Body)
		var created models.Post
		resp.decode(t, &created)
		assert.Equal(t, text, created.Text)

		resp = call(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", created.ID), token, nil)
		require.Equal(t, http.StatusOK, resp.Status)
		var stored models.Post
		resp.decode(t, &stored)
		assert.Equal(t, text, stored.Text)
	}
}
