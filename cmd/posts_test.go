package main

import (
	"net/http"
	"testing"

	"github.com/siahsang/forum/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForumScenario(t *testing.T) {
	handler := newTestApplication(t).routes()
	aliceID, aliceToken := register(t, handler, "alice")
	_, bobToken := register(t, handler, "bob")

	rec := doRequest(t, handler, http.MethodPost, "/api/categories", aliceToken, map[string]string{"name": "General?"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	category := decode[models.Category](t, rec)
	assert.Equal(t, "general", category.Slug)

	rec = doRequest(t, handler, http.MethodPost, "/api/posts", aliceToken, map[string]any{
		"title":       "How does X work?",
		"content":     "I would like to understand X.",
		"category_id": category.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decode[models.Post](t, rec)
	require.NotNil(t, post.Author)
	assert.Equal(t, aliceID, post.Author.ID)

	rec = doRequest(t, handler, http.MethodPut, urlf("/api/posts/%d", post.ID), bobToken, map[string]string{"title": "Hijacked?"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, kindForbidden, decode[errorBody](t, rec).Error)

	rec = doRequest(t, handler, http.MethodPut, urlf("/api/posts/%d", post.ID), aliceToken, map[string]string{"title": "How does X work now?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Post](t, rec)
	assert.Equal(t, "How does X work now?", updated.Title)
	assert.Equal(t, "I would like to understand X.", updated.Content)
	assert.Equal(t, aliceID, updated.Author.ID)
	assert.Contains(t, rec.Body.String(), `"comments": []`)
}

func TestCreatePostValidation(t *testing.T) {
	handler := newTestApplication(t).routes()
	_, token := register(t, handler, "alice")
	generalID := createCategoryRequest(t, handler, token, "General")
	introID := createCategoryRequest(t, handler, token, "Introductions")

	rec := doRequest(t, handler, http.MethodPost, "/api/posts", token, map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decode[errorBody](t, rec)
	assert.Equal(t, kindValidation, errBody.Error)
	assert.Contains(t, errBody.Details, "title")
	assert.Contains(t, errBody.Details, "content")
	assert.Contains(t, errBody.Details, "category_id")

	rec = doRequest(t, handler, http.MethodPost, "/api/posts", token, map[string]any{
		"title": "A statement", "content": "c", "category_id": generalID,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Details, "title")

	rec = doRequest(t, handler, http.MethodPost, "/api/posts", token, map[string]any{
		"title": "Hello everyone", "content": "c", "category_id": introID,
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestPostReadEndpoints(t *testing.T) {
	handler := newTestApplication(t).routes()
	_, aliceToken := register(t, handler, "alice")
	_, bobToken := register(t, handler, "bob")
	categoryID := createCategoryRequest(t, handler, aliceToken, "Tech Talk")
	older := createPostRequest(t, handler, aliceToken, categoryID, "Go or Rust?")
	newer := createPostRequest(t, handler, bobToken, categoryID, "Tabs or spaces?")

	rec := doRequest(t, handler, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	posts := decode[[]models.Post](t, rec)
	require.Len(t, posts, 2)
	assert.Equal(t, newer, posts[0].ID)
	assert.Equal(t, "bob", posts[0].Author.Username)
	assert.Equal(t, older, posts[1].ID)

	rec = doRequest(t, handler, http.MethodPost, urlf("/api/comments/post/%d", older), bobToken, map[string]string{"content": "Go, obviously"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, handler, http.MethodGet, urlf("/api/posts/%d", older), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	post := decode[models.Post](t, rec)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "Go, obviously", post.Comments[0].Content)
	assert.Equal(t, "bob", post.Comments[0].Author.Username)

	rec = doRequest(t, handler, http.MethodGet, "/api/posts/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/api/posts/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeletePost(t *testing.T) {
	handler := newTestApplication(t).routes()
	_, aliceToken := register(t, handler, "alice")
	_, bobToken := register(t, handler, "bob")
	categoryID := createCategoryRequest(t, handler, aliceToken, "General")
	postID := createPostRequest(t, handler, aliceToken, categoryID, "Why?")

	rec := doRequest(t, handler, http.MethodDelete, urlf("/api/posts/%d", postID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, handler, http.MethodDelete, urlf("/api/posts/%d", postID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, handler, http.MethodDelete, urlf("/api/posts/%d", postID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post deleted", decode[map[string]string](t, rec)["message"])

	rec = doRequest(t, handler, http.MethodGet, urlf("/api/posts/%d", postID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostFormPayloads(t *testing.T) {
	handler := newTestApplication(t).routes()
	_, token := register(t, handler, "alice")
	generalID := createCategoryRequest(t, handler, token, "General")
	introID := createCategoryRequest(t, handler, token, "Introductions")

	rec := doRequest(t, handler, http.MethodPost, "/api/posts", token, map[string]any{
		"title": "Why?", "content": "c", "category_id": generalID, "isIntroduction": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, handler, http.MethodPost, "/api/posts", token, map[string]any{
		"title": "How?", "content": "c", "category_id": urlf("%d", generalID), "isIntroduction": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decode[models.Post](t, rec)
	assert.Equal(t, generalID, post.CategoryID)

	// The client flag never overrides the category rule.
	rec = doRequest(t, handler, http.MethodPost, "/api/posts", token, map[string]any{
		"title": "Hello", "content": "c", "category_id": urlf("%d", generalID), "isIntroduction": true,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Details, "title")

	rec = doRequest(t, handler, http.MethodPost, "/api/posts", token, map[string]any{
		"title": "Hello", "content": "c", "category_id": "", "isIntroduction": true,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Details, "category_id")

	rec = doRequest(t, handler, http.MethodPost, "/api/posts", token, map[string]any{
		"title": "Why?", "content": "c", "category_id": "general",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Message, "incorrect JSON type")

	rec = doRequest(t, handler, http.MethodPut, urlf("/api/posts/%d", post.ID), token, map[string]any{
		"title": "Hello there", "content": "c", "category_id": urlf("%d", introID), "isIntroduction": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, introID, decode[models.Post](t, rec).CategoryID)
}
