package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testAdminToken = "test-admin-token"

type testServer struct {
	app       *fiber.App
	srv       *Server
	db        *gorm.DB
	uploadDir string
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	uploadDir := t.TempDir()
	backend, err := storage.NewLocalBackend(uploadDir)
	require.NoError(t, err)
	files := storage.NewHandler(backend, storage.Limits{
		Image:    1 << 20,
		Music:    1 << 20,
		Document: 1 << 20,
	}, slog.Default(), nil)

	cfg := &config.Config{
		Port:       "8080",
		AdminToken: testAdminToken,
		JWTSecret:  "0123456789abcdef0123456789abcdef",
	}

	srv := NewServerWithDeps(cfg, db, nil, files, slog.Default())
	app := fiber.New()
	srv.SetupRoutes(app)

	return &testServer{app: app, srv: srv, db: db, uploadDir: uploadDir}
}

func (ts *testServer) request(t *testing.T, method, path string, body interface{}, admin bool) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+testAdminToken)
	}

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func multipartRequest(t *testing.T, method, path, field, filename string, content []byte, admin bool) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if admin {
		req.Header.Set("Authorization", "Bearer "+testAdminToken)
	}
	return req
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.request(t, http.MethodPost, "/api/admin/categories", fiber.Map{"name": "Tech"}, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCategoryLifecycle(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.request(t, http.MethodPost, "/api/admin/categories", fiber.Map{"name": "Tech"}, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var category models.Category
	decode(t, resp, &category)
	assert.Equal(t, "Tech", category.Name)

	// Duplicate names conflict.
	resp = ts.request(t, http.MethodPost, "/api/admin/categories", fiber.Map{"name": "Tech"}, true)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Create a published post in the category; deletion must now conflict.
	resp = ts.request(t, http.MethodPost, "/api/admin/posts", fiber.Map{
		"title":       "Intro",
		"content":     "body",
		"category_id": category.ID,
		"status":      models.PostStatusPublished,
	}, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post models.PostWithDetails
	decode(t, resp, &post)

	resp = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/admin/categories/%d", category.ID), nil, true)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Soft-delete the post, then the category delete goes through.
	resp = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/admin/posts/%d", post.ID), nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/admin/categories/%d", category.ID), nil, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.request(t, http.MethodGet, fmt.Sprintf("/api/categories/%d", category.ID), nil, false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostLifecycle(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.request(t, http.MethodPost, "/api/admin/tags", fiber.Map{"name": "golang"}, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var tag models.Tag
	decode(t, resp, &tag)

	resp = ts.request(t, http.MethodPost, "/api/admin/posts", fiber.Map{
		"title":   "Hello",
		"content": "World",
		"status":  models.PostStatusPublished,
		"tag_ids": []uint{tag.ID},
	}, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post models.PostWithDetails
	decode(t, resp, &post)
	require.Len(t, post.Tags, 1)

	// Public read includes the tag.
	resp = ts.request(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Partial update changes only the title.
	resp = ts.request(t, http.MethodPut, fmt.Sprintf("/api/admin/posts/%d", post.ID), fiber.Map{
		"title": "Hello again",
	}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.PostWithDetails
	decode(t, resp, &updated)
	assert.Equal(t, "Hello again", updated.Title)
	assert.Equal(t, "World", updated.Content)

	// Soft delete hides the post from public reads.
	resp = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/admin/posts/%d", post.ID), nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.request(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), nil, false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// A second delete is 404, not a silent success.
	resp = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/admin/posts/%d", post.ID), nil, true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPublicListShowsOnlyPublished(t *testing.T) {
	ts := setupTestServer(t)

	for _, status := range []models.PostStatus{
		models.PostStatusDraft,
		models.PostStatusPublished,
		models.PostStatusPrivate,
	} {
		resp := ts.request(t, http.MethodPost, "/api/admin/posts", fiber.Map{
			"title":   "post",
			"content": "body",
			"status":  status,
		}, true)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := ts.request(t, http.MethodGet, "/api/posts", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Posts []models.PostWithDetails `json:"posts"`
		Total int64                    `json:"total"`
	}
	decode(t, resp, &page)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, models.PostStatusPublished, page.Posts[0].Status)

	// Admin listing sees everything.
	resp = ts.request(t, http.MethodGet, "/api/admin/posts", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &page)
	assert.EqualValues(t, 3, page.Total)
}

func TestUpdatePostCoverReplacesFile(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.request(t, http.MethodPost, "/api/admin/posts", fiber.Map{
		"title":   "Covered",
		"content": "body",
		"status":  models.PostStatusPublished,
	}, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post models.PostWithDetails
	decode(t, resp, &post)

	upload := func() string {
		req := multipartRequest(t, http.MethodPut,
			fmt.Sprintf("/api/admin/posts/%d/cover", post.ID),
			"cover", "photo.png", []byte("image bytes"), true)
		resp, err := ts.app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out struct {
			CoverURL string `json:"cover_url"`
		}
		decode(t, resp, &out)
		return out.CoverURL
	}

	first := upload()
	require.True(t, strings.HasPrefix(first, "/uploads/covers/"))
	firstPath := filepath.Join(ts.uploadDir, strings.TrimPrefix(first, "/uploads/"))
	_, err := os.Stat(firstPath)
	require.NoError(t, err)

	second := upload()
	assert.NotEqual(t, first, second)

	// The old cover file is gone, the new one exists.
	_, err = os.Stat(firstPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(ts.uploadDir, strings.TrimPrefix(second, "/uploads/")))
	assert.NoError(t, err)
}

func TestUploadRejectsWrongExtension(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.request(t, http.MethodPost, "/api/admin/posts", fiber.Map{
		"title":   "Covered",
		"content": "body",
	}, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post models.PostWithDetails
	decode(t, resp, &post)

	req := multipartRequest(t, http.MethodPut,
		fmt.Sprintf("/api/admin/posts/%d/cover", post.ID),
		"cover", "malware.exe", []byte("nope"), true)
	got, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, got.StatusCode)
}

func TestChatFallbackWithoutAPIKey(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.request(t, http.MethodPost, "/api/chat/", fiber.Map{"message": "hello"}, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		SessionID string             `json:"session_id"`
		Message   models.ChatMessage `json:"message"`
	}
	decode(t, resp, &result)
	require.NotEmpty(t, result.SessionID)
	assert.NotEmpty(t, result.Message.Content)

	// History returns both sides of the exchange.
	resp = ts.request(t, http.MethodGet, "/api/chat/"+result.SessionID+"/history", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	decode(t, resp, &history)
	assert.Len(t, history.Messages, 2)
}

func TestAboutUpdate(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.request(t, http.MethodPut, "/api/admin/about", fiber.Map{"title": "About me"}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.request(t, http.MethodGet, "/api/about", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var about models.About
	decode(t, resp, &about)
	assert.Equal(t, "About me", about.Title)
}

func TestDashboardCounts(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.request(t, http.MethodPost, "/api/admin/posts", fiber.Map{
		"title":   "one",
		"content": "body",
		"status":  models.PostStatusPublished,
	}, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.request(t, http.MethodGet, "/api/admin/dashboard", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dash struct {
		Posts struct {
			Total     int64 `json:"total"`
			Published int64 `json:"published"`
		} `json:"posts"`
	}
	decode(t, resp, &dash)
	assert.EqualValues(t, 1, dash.Posts.Total)
	assert.EqualValues(t, 1, dash.Posts.Published)
}
