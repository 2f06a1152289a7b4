package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"studygram/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// withUserID simulates the AuthRequired middleware for handler tests.
func withUserID(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

// expectGetPost wires the repository calls GetPost makes when decorating a single post.
func expectGetPost(m *serverMocks, post *models.Post, currentUserID uint) {
	m.posts.On("GetByID", mock.Anything, post.ID).Return(post, nil)
	m.users.On("GetByID", mock.Anything, post.UserID).Return(
		&models.User{ID: post.UserID, Email: "ada.lovelace@example.com"}, nil)
	m.modules.On("GetByID", mock.Anything, post.ModuleID).Return(
		&models.Module{ID: post.ModuleID, Name: "Algorithms", Code: "CS201"}, nil)
	m.posts.On("CountLikes", mock.Anything, post.ID).Return(0, nil)
	m.posts.On("CountCommentsByPosts", mock.Anything, []uint{post.ID}).Return(map[uint]int{}, nil)
	if currentUserID != 0 {
		m.posts.On("LikedPostIDs", mock.Anything, currentUserID, []uint{post.ID}).Return(map[uint]bool{}, nil)
	}
	m.files.On("ListByPost", mock.Anything, post.ID).Return([]models.File{}, nil)
}

func TestGetPosts(t *testing.T) {
	app := fiber.New()
	s, m := newTestServer(t)
	app.Get("/posts", s.GetPosts)

	posts := []models.Post{
		{ID: 1, Title: "Lecture notes week 1", UserID: 1, ModuleID: 2},
		{ID: 2, Title: "Exam summary", UserID: 2, ModuleID: 2},
	}
	m.posts.On("List", mock.Anything, uint(2), "", 20, 0).Return(posts, nil)
	m.posts.On("CountLikesByPosts", mock.Anything, []uint{1, 2}).Return(map[uint]int{1: 3}, nil)
	m.posts.On("CountCommentsByPosts", mock.Anything, []uint{1, 2}).Return(map[uint]int{2: 1}, nil)
	m.files.On("ListByPosts", mock.Anything, []uint{1, 2}).Return(map[uint][]models.File{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/posts?module=2", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got []models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].LikesCount)
	assert.Equal(t, 1, got[1].CommentsCount)
	// Anonymous browsing never calls LikedPostIDs.
	m.posts.AssertNotCalled(t, "LikedPostIDs", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPosts_InvalidSort(t *testing.T) {
	app := fiber.New()
	s, _ := newTestServer(t)
	app.Get("/posts", s.GetPosts)

	req := httptest.NewRequest(http.MethodGet, "/posts?sort=controversial", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPost_NotFound(t *testing.T) {
	app := fiber.New()
	s, m := newTestServer(t)
	app.Get("/posts/:id", s.GetPost)

	m.posts.On("GetByID", mock.Anything, uint(99)).Return(nil, models.NewNotFoundError("Post", 99))

	req := httptest.NewRequest(http.MethodGet, "/posts/99", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func newMultipartRequest(t *testing.T, method, target string, fields map[string]string, fileNames ...string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, name := range fileNames {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("file content"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestCreatePost(t *testing.T) {
	app := fiber.New()
	s, m := newTestServer(t)
	app.Post("/posts", withUserID(9), s.CreatePost)

	m.modules.On("GetByID", mock.Anything, uint(2)).Return(
		&models.Module{ID: 2, Name: "Algorithms", Code: "CS201"}, nil)
	m.posts.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Post).ID = 5
	}).Return(nil)
	m.files.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	expectGetPost(m, &models.Post{ID: 5, Title: "Lecture notes", UserID: 9, ModuleID: 2}, 9)

	req := newMultipartRequest(t, http.MethodPost, "/posts",
		map[string]string{"title": "Lecture notes", "module_id": "2"}, "notes.pdf")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var got models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, uint(5), got.ID)
	assert.Equal(t, "ada.lovelace", got.User.Username)
}

func TestCreatePost_MissingTitle(t *testing.T) {
	app := fiber.New()
	s, _ := newTestServer(t)
	app.Post("/posts", withUserID(9), s.CreatePost)

	req := newMultipartRequest(t, http.MethodPost, "/posts",
		map[string]string{"module_id": "2"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreatePost_UnknownModule(t *testing.T) {
	app := fiber.New()
	s, m := newTestServer(t)
	app.Post("/posts", withUserID(9), s.CreatePost)

	m.modules.On("GetByID", mock.Anything, uint(42)).Return(nil, models.NewNotFoundError("Module", 42))

	req := newMultipartRequest(t, http.MethodPost, "/posts",
		map[string]string{"title": "Notes", "module_id": "42"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLikePost_Toggle(t *testing.T) {
	app := fiber.New()
	s, m := newTestServer(t)
	app.Post("/posts/:id/like", withUserID(4), s.LikePost)

	post := &models.Post{ID: 10, Title: "Notes", UserID: 1, ModuleID: 2}
	m.posts.On("Like", mock.Anything, uint(4), uint(10)).Return(true, nil)
	expectGetPost(m, post, 4)

	req := httptest.NewRequest(http.MethodPost, "/posts/10/like", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	m.posts.AssertNotCalled(t, "Unlike", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeletePost_NonOwnerForbidden(t *testing.T) {
	app := fiber.New()
	s, m := newTestServer(t)
	app.Delete("/posts/:id", withUserID(4), s.DeletePost)

	m.posts.On("GetByID", mock.Anything, uint(10)).Return(
		&models.Post{ID: 10, UserID: 1}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/posts/10", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	m.posts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeletePost_Owner(t *testing.T) {
	app := fiber.New()
	s, m := newTestServer(t)
	app.Delete("/posts/:id", withUserID(1), s.DeletePost)

	m.posts.On("GetByID", mock.Anything, uint(10)).Return(
		&models.Post{ID: 10, UserID: 1}, nil)
	m.files.On("ListByPost", mock.Anything, uint(10)).Return([]models.File{}, nil)
	m.posts.On("Delete", mock.Anything, uint(10)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/posts/10", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
