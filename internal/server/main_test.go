package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"devconnect/internal/config"
	"devconnect/internal/database"
	"devconnect/internal/middleware"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:           "test",
		Port:          "0",
		JWTSecret:     "test-secret",
		JWTIssuer:     "devconnect-api",
		JWTAudience:   "devconnect-client",
		TokenTTLHours: 1,
	}
}

// newTestServer wires a Server over a fresh SQLite file.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")+"?_foreign_keys=on"),
		&gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	s, err := NewServerWithDeps(testConfig(), db, nil)
	require.NoError(t, err)
	return s, s.App()
}

type apiResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

func (r apiResponse) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, dst), "body: %s", r.Body)
}

// call performs a request against app, sending body as JSON when non-nil.
func call(t *testing.T, app *fiber.App, method, path, token string, body any) apiResponse {
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
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return apiResponse{Status: resp.StatusCode, Header: resp.Header, Body: raw}
}

// register creates an account and returns its credential.
func register(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/users", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.Status, "body: %s", resp.Body)

	var out TokenResponse
	resp.decode(t, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}
