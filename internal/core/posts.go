package core

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/forum/internal/auth"
	"github.com/siahsang/forum/internal/utils/databaseutils"
	"github.com/siahsang/forum/internal/validator"
	"github.com/siahsang/forum/models"
)

const (
	maxTitleLength   = 255
	maxContentLength = 50000
)

const postColumns = `id, title, content, author_id, category_id, created_at, updated_at`

func scanPost(rows *sql.Rows) (*models.Post, error) {
	var post = &models.Post{}
	if err := rows.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.AuthorID,
		&post.CategoryID,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return post, nil
}

// ListPosts returns every post, newest first, with its author.
func (c *Core) ListPosts(ctx context.Context) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC`

	posts, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanPost)
	if err != nil {
		return nil, storeError("list posts", err)
	}
	if err := c.attachPostAuthors(ctx, posts, false); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost returns a post with its author and its comments, oldest first.
func (c *Core) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	post, err := c.getPostRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.attachPostAuthors(ctx, []*models.Post{post}, false); err != nil {
		return nil, err
	}

	comments, err := c.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Comments = comments
	return post, nil
}

func (c *Core) getPostRow(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`

	post, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanPost, id)
	if err != nil {
		return nil, storeError("get post", err)
	}
	return post, nil
}

// CreatePost stores a new post authored by actor.
func (c *Core) CreatePost(ctx context.Context, actor *auth.Identity, input models.NewPost) (*models.Post, error) {
	v := validator.New()
	v.CheckNotBlank(input.Title, "title", "must be provided")
	v.CheckMaxLength(input.Title, maxTitleLength, "title")
	v.CheckNotBlank(input.Content, "content", "must be provided")
	v.CheckMaxLength(input.Content, maxContentLength, "content")
	v.Check(input.CategoryID > 0, "category_id", "must be provided")
	if !v.IsValid() {
		return nil, xerrors.New(v.Err())
	}

	post, err := databaseutils.DoTransactionally(ctx, c.session, func(txCtx context.Context) (*models.Post, error) {
		category, err := c.getCategoryByID(txCtx, input.CategoryID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, xerrors.New(validator.NewError("category_id", "category does not exist"))
			}
			return nil, err
		}

		checkQuestionTitle(v, input.Title, category.Slug)
		if err := v.Err(); err != nil {
			return nil, xerrors.New(err)
		}

		now := c.now()
		post := &models.Post{
			Title:      strings.TrimSpace(input.Title),
			Content:    input.Content,
			AuthorID:   actor.UserID,
			CategoryID: category.ID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		query := `
			INSERT INTO posts (title, content, author_id, category_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id
		`
		args := []any{post.Title, post.Content, post.AuthorID, post.CategoryID, post.CreatedAt, post.UpdatedAt}
		post.ID, err = databaseutils.ExecuteSingleQuery(c.sqlTemplate, txCtx, query, scanID, args...)
		if err != nil {
			return nil, storeError("create post", err)
		}
		return post, nil
	})
	if err != nil {
		return nil, err
	}

	if err := c.attachPostAuthors(ctx, []*models.Post{post}, false); err != nil {
		return nil, err
	}

	c.log.Info("Post created", slog.Int64("post_id", post.ID), slog.Int64("author_id", post.AuthorID))
	return post, nil
}

// UpdatePost applies the fields present in patch to a post owned by actor.
func (c *Core) UpdatePost(ctx context.Context, actor *auth.Identity, id int64, patch models.PostPatch) (*models.Post, error) {
	err := c.session.DoTransactionally(ctx, func(txCtx context.Context) error {
		post, err := c.getPostRow(txCtx, id)
		if err != nil {
			return err
		}
		if post.AuthorID != actor.UserID {
			return xerrors.New(ErrForbidden)
		}

		v := validator.New()
		if patch.Title != nil {
			v.CheckNotBlank(*patch.Title, "title", "must not be empty")
			v.CheckMaxLength(*patch.Title, maxTitleLength, "title")
			post.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Content != nil {
			v.CheckNotBlank(*patch.Content, "content", "must not be empty")
			v.CheckMaxLength(*patch.Content, maxContentLength, "content")
			post.Content = *patch.Content
		}
		if patch.CategoryID != nil {
			v.Check(*patch.CategoryID > 0, "category_id", "must be a positive integer")
		}
		if !v.IsValid() {
			return xerrors.New(v.Err())
		}

		if patch.CategoryID != nil {
			post.CategoryID = *patch.CategoryID
		}
		if patch.Title != nil || patch.CategoryID != nil {
			category, err := c.getCategoryByID(txCtx, post.CategoryID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return xerrors.New(validator.NewError("category_id", "category does not exist"))
				}
				return err
			}
			checkQuestionTitle(v, post.Title, category.Slug)
			if err := v.Err(); err != nil {
				return xerrors.New(err)
			}
		}

		query := `
			UPDATE posts
			SET title = ?, content = ?, category_id = ?, updated_at = ?
			WHERE id = ?
		`
		if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, query, post.Title, post.Content, post.CategoryID, c.now(), post.ID); err != nil {
			return storeError("update post", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("Post updated", slog.Int64("post_id", id))
	return c.GetPost(ctx, id)
}

// DeletePost removes a post owned by actor together with its comments.
func (c *Core) DeletePost(ctx context.Context, actor *auth.Identity, id int64) error {
	err := c.session.DoTransactionally(ctx, func(txCtx context.Context) error {
		post, err := c.getPostRow(txCtx, id)
		if err != nil {
			return err
		}
		if post.AuthorID != actor.UserID {
			return xerrors.New(ErrForbidden)
		}

		if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, `DELETE FROM comments WHERE post_id = ?`, id); err != nil {
			return storeError("delete post comments", err)
		}
		if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
			return storeError("delete post", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.log.Info("Post deleted", slog.Int64("post_id", id))
	return nil
}
