package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/siahsang/forum/internal/auth"
	"github.com/siahsang/forum/internal/database/dbtest"
	"github.com/siahsang/forum/internal/imaging"
	"github.com/siahsang/forum/internal/validator"
	"github.com/siahsang/forum/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImageStore struct {
	mu      sync.Mutex
	saveErr error
	saved   []string
	removed []string
}

func (f *fakeImageStore) SaveProfileImage(_ context.Context, userID int64, encoded string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return "", f.saveErr
	}
	path := imaging.PublicPrefix + "/profiles/" + encoded + ".jpg"
	f.saved = append(f.saved, path)
	return path, nil
}

func (f *fakeImageStore) Remove(publicPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, publicPath)
	return nil
}

// newTestCore returns a Core over a fresh database whose clock moves one second per reading.
func newTestCore(t *testing.T) (*Core, *fakeImageStore) {
	t.Helper()

	db := dbtest.Open(t)
	images := &fakeImageStore{}
	c := NewCore(dbtest.DiscardLogger(), db.SQLTemplate(5*time.Second), db.Session(), images)

	var mu sync.Mutex
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	})
	return c, images
}

func createUser(t *testing.T, c *Core, username string) *auth.Identity {
	t.Helper()

	user := &auth.User{Username: username, Email: username + "@example.com", Password: []byte("hash")}
	require.NoError(t, c.CreateUser(context.Background(), user))
	return &auth.Identity{UserID: user.ID, Username: user.Username}
}

func createCategory(t *testing.T, c *Core, name string) *models.Category {
	t.Helper()

	category, err := c.CreateCategory(context.Background(), models.NewCategory{Name: name})
	require.NoError(t, err)
	return category
}

func createPost(t *testing.T, c *Core, actor *auth.Identity, categoryID int64, title string) *models.Post {
	t.Helper()

	post, err := c.CreatePost(context.Background(), actor, models.NewPost{
		Title:      title,
		Content:    "body of " + title,
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return post
}

func ptr[T any](v T) *T {
	return &v
}

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()

	var vErr *validator.Error
	require.True(t, errors.As(err, &vErr), "expected validation error, got %v", err)
	assert.Contains(t, vErr.Fields, field)
}
