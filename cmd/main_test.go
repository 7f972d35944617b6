package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/siahsang/forum/internal/database/dbtest"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()

	var cfg config
	cfg.env = "testing"
	cfg.db.queryTimeout = 5 * time.Second
	cfg.jwt.secret = "test-secret"
	cfg.jwt.ttl = time.Hour
	cfg.bcryptCost = bcrypt.MinCost
	cfg.uploadDir = t.TempDir()
	cfg.cors.trustedOrigins = []string{"*"}

	app, err := newApplication(cfg, dbtest.DiscardLogger(), dbtest.Open(t))
	require.NoError(t, err)
	return app
}

func doRequest(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			payload.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&payload).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

type authBody struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// register creates a user and returns its id and token.
func register(t *testing.T, handler http.Handler, username string) (int64, string) {
	t.Helper()

	rec := doRequest(t, handler, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "pa55word!",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode[authBody](t, rec)
	require.NotEmpty(t, body.Token)
	return body.User.ID, body.Token
}

func createCategoryRequest(t *testing.T, handler http.Handler, token, name string) int64 {
	t.Helper()

	rec := doRequest(t, handler, http.MethodPost, "/api/categories", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.ID
}

func createPostRequest(t *testing.T, handler http.Handler, token string, categoryID int64, title string) int64 {
	t.Helper()

	rec := doRequest(t, handler, http.MethodPost, "/api/posts", token, map[string]any{
		"title":       title,
		"content":     "details about " + title,
		"category_id": categoryID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.ID
}

func urlf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
