package core

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/forum/internal/utils/databaseutils"
	"github.com/siahsang/forum/internal/validator"
	"github.com/siahsang/forum/models"
)

const (
	maxCategoryNameLength        = 100
	maxCategoryDescriptionLength = 1000
)

const categoryColumns = `id, name, slug, description, created_at, updated_at`

func scanCategory(rows *sql.Rows) (*models.Category, error) {
	var category = &models.Category{}
	if err := rows.Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return category, nil
}

func checkCategoryName(v *validator.Validator, name string) {
	v.CheckNotBlank(name, "name", "must be provided")
	v.CheckMaxLength(name, maxCategoryNameLength, "name")
	v.Check(Slugify(name) != "", "name", "must contain at least one letter or digit")
}

// ListCategories returns every category ordered by name with its post count.
func (c *Core) ListCategories(ctx context.Context) ([]*models.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.description, c.created_at, c.updated_at, COUNT(p.id)
		FROM categories c
		LEFT JOIN posts p ON p.category_id = c.id
		GROUP BY c.id, c.name, c.slug, c.description, c.created_at, c.updated_at
		ORDER BY c.name ASC
	`
	categories, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (*models.Category, error) {
		var category = &models.Category{}
		var postCount int64
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Slug,
			&category.Description,
			&category.CreatedAt,
			&category.UpdatedAt,
			&postCount,
		); err != nil {
			return nil, xerrors.New(err)
		}
		category.PostCount = &postCount
		return category, nil
	})
	if err != nil {
		return nil, storeError("list categories", err)
	}
	return categories, nil
}

// GetCategoryBySlug returns a category with its posts, newest first.
func (c *Core) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := c.getCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + postColumns + ` FROM posts WHERE category_id = ? ORDER BY created_at DESC, id DESC`
	posts, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanPost, category.ID)
	if err != nil {
		return nil, storeError("list category posts", err)
	}
	if err := c.attachPostAuthors(ctx, posts, true); err != nil {
		return nil, err
	}

	category.Posts = posts
	return category, nil
}

func (c *Core) getCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = ?`

	category, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanCategory, slug)
	if err != nil {
		return nil, storeError("get category by slug", err)
	}
	return category, nil
}

func (c *Core) getCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`

	category, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanCategory, id)
	if err != nil {
		return nil, storeError("get category by id", err)
	}
	return category, nil
}

// CreateCategory stores a category whose slug is derived from its name.
func (c *Core) CreateCategory(ctx context.Context, input models.NewCategory) (*models.Category, error) {
	v := validator.New()
	checkCategoryName(v, input.Name)
	if input.Description != nil {
		v.CheckMaxLength(*input.Description, maxCategoryDescriptionLength, "description")
	}
	if err := v.Err(); err != nil {
		return nil, xerrors.New(err)
	}

	now := c.now()
	category := &models.Category{
		Name:      strings.TrimSpace(input.Name),
		Slug:      Slugify(input.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Description != nil {
		category.Description = optionalText(*input.Description)
	}

	query := `
		INSERT INTO categories (name, slug, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`
	id, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanID,
		category.Name, category.Slug, category.Description, category.CreatedAt, category.UpdatedAt)
	if err != nil {
		return nil, storeError("create category", err)
	}
	category.ID = id

	c.log.Info("Category created", slog.Int64("category_id", category.ID), slog.String("slug", category.Slug))
	return category, nil
}

// UpdateCategory applies the fields present in patch. The slug follows the name.
func (c *Core) UpdateCategory(ctx context.Context, id int64, patch models.CategoryPatch) (*models.Category, error) {
	category, err := databaseutils.DoTransactionally(ctx, c.session, func(txCtx context.Context) (*models.Category, error) {
		category, err := c.getCategoryByID(txCtx, id)
		if err != nil {
			return nil, err
		}

		v := validator.New()
		if patch.Name != nil {
			checkCategoryName(v, *patch.Name)
		}
		if patch.Description != nil {
			v.CheckMaxLength(*patch.Description, maxCategoryDescriptionLength, "description")
		}
		if err := v.Err(); err != nil {
			return nil, xerrors.New(err)
		}

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name != category.Name {
				category.Name = name
				category.Slug = Slugify(name)
			}
		}
		if patch.Description != nil {
			category.Description = optionalText(*patch.Description)
		}
		category.UpdatedAt = c.now()

		query := `
			UPDATE categories
			SET name = ?, slug = ?, description = ?, updated_at = ?
			WHERE id = ?
		`
		if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, query,
			category.Name, category.Slug, category.Description, category.UpdatedAt, category.ID); err != nil {
			return nil, storeError("update category", err)
		}
		return category, nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("Category updated", slog.Int64("category_id", id), slog.String("slug", category.Slug))
	return category, nil
}

// DeleteCategory removes a category that no longer owns any post.
func (c *Core) DeleteCategory(ctx context.Context, id int64) error {
	err := c.session.DoTransactionally(ctx, func(txCtx context.Context) error {
		if _, err := c.getCategoryByID(txCtx, id); err != nil {
			return err
		}

		count, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, txCtx, `SELECT COUNT(*) FROM posts WHERE category_id = ?`, scanID, id)
		if err != nil {
			return storeError("count category posts", err)
		}
		if count > 0 {
			return xerrors.New(ErrCategoryNotEmpty)
		}

		if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
			return storeError("delete category", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.log.Info("Category deleted", slog.Int64("category_id", id))
	return nil
}

// EnsureCategory returns the category with the slug of name, creating it when absent.
func (c *Core) EnsureCategory(ctx context.Context, input models.NewCategory) (*models.Category, bool, error) {
	category, err := c.getCategoryBySlug(ctx, Slugify(input.Name))
	if err == nil {
		return category, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	category, err = c.CreateCategory(ctx, input)
	if err != nil {
		return nil, false, err
	}
	return category, true, nil
}
