package core

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/forum/internal/auth"
	"github.com/siahsang/forum/internal/utils/databaseutils"
	"github.com/siahsang/forum/internal/validator"
	"github.com/siahsang/forum/models"
)

const maxCommentLength = 10000

const commentColumns = `id, content, author_id, post_id, created_at`

func scanComment(rows *sql.Rows) (*models.Comment, error) {
	var comment = &models.Comment{}
	if err := rows.Scan(
		&comment.ID,
		&comment.Content,
		&comment.AuthorID,
		&comment.PostID,
		&comment.CreatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return comment, nil
}

func checkCommentContent(v *validator.Validator, content string) {
	v.CheckNotBlank(content, "content", "must not be empty")
	v.CheckMaxLength(strings.TrimSpace(content), maxCommentLength, "content")
}

// ListComments returns the comments of a post, oldest first. An unknown post has no comments.
func (c *Core) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = ? ORDER BY created_at ASC, id ASC`

	comments, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanComment, postID)
	if err != nil {
		return nil, storeError("list comments", err)
	}
	if err := c.attachCommentAuthors(ctx, comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Core) getCommentRow(ctx context.Context, id int64) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = ?`

	comment, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanComment, id)
	if err != nil {
		return nil, storeError("get comment", err)
	}
	return comment, nil
}

// CreateComment adds a comment by actor to an existing post.
func (c *Core) CreateComment(ctx context.Context, actor *auth.Identity, postID int64, content string) (*models.Comment, error) {
	v := validator.New()
	checkCommentContent(v, content)
	if err := v.Err(); err != nil {
		return nil, xerrors.New(err)
	}

	comment, err := databaseutils.DoTransactionally(ctx, c.session, func(txCtx context.Context) (*models.Comment, error) {
		if _, err := c.getPostRow(txCtx, postID); err != nil {
			return nil, err
		}

		comment := &models.Comment{
			Content:   strings.TrimSpace(content),
			AuthorID:  actor.UserID,
			PostID:    postID,
			CreatedAt: c.now(),
		}
		query := `
			INSERT INTO comments (content, author_id, post_id, created_at)
			VALUES (?, ?, ?, ?)
			RETURNING id
		`
		id, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, txCtx, query, scanID,
			comment.Content, comment.AuthorID, comment.PostID, comment.CreatedAt)
		if err != nil {
			return nil, storeError("create comment", err)
		}
		comment.ID = id
		return comment, nil
	})
	if err != nil {
		return nil, err
	}

	if err := c.attachCommentAuthors(ctx, []*models.Comment{comment}); err != nil {
		return nil, err
	}

	c.log.Info("Comment created", slog.Int64("comment_id", comment.ID), slog.Int64("post_id", postID))
	return comment, nil
}

// UpdateComment replaces the content of a comment owned by actor when patch carries one.
func (c *Core) UpdateComment(ctx context.Context, actor *auth.Identity, id int64, patch models.CommentPatch) (*models.Comment, error) {
	comment, err := databaseutils.DoTransactionally(ctx, c.session, func(txCtx context.Context) (*models.Comment, error) {
		comment, err := c.getCommentRow(txCtx, id)
		if err != nil {
			return nil, err
		}
		if comment.AuthorID != actor.UserID {
			return nil, xerrors.New(ErrForbidden)
		}
		if patch.Content == nil {
			return comment, nil
		}

		v := validator.New()
		checkCommentContent(v, *patch.Content)
		if err := v.Err(); err != nil {
			return nil, xerrors.New(err)
		}

		comment.Content = strings.TrimSpace(*patch.Content)
		if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, `UPDATE comments SET content = ? WHERE id = ?`, comment.Content, comment.ID); err != nil {
			return nil, storeError("update comment", err)
		}
		return comment, nil
	})
	if err != nil {
		return nil, err
	}

	if err := c.attachCommentAuthors(ctx, []*models.Comment{comment}); err != nil {
		return nil, err
	}

	c.log.Info("Comment updated", slog.Int64("comment_id", id))
	return comment, nil
}

// DeleteComment removes a comment owned by actor.
func (c *Core) DeleteComment(ctx context.Context, actor *auth.Identity, id int64) error {
	err := c.session.DoTransactionally(ctx, func(txCtx context.Context) error {
		comment, err := c.getCommentRow(txCtx, id)
		if err != nil {
			return err
		}
		if comment.AuthorID != actor.UserID {
			return xerrors.New(ErrForbidden)
		}
		if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, `DELETE FROM comments WHERE id = ?`, id); err != nil {
			return storeError("delete comment", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.log.Info("Comment deleted", slog.Int64("comment_id", id))
	return nil
}
