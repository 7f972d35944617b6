package core

import (
	"context"
	"log/slog"

	"github.com/siahsang/forum/models"
)

func describe(s string) *string {
	return &s
}

// DefaultCategories are created on a fresh installation.
var DefaultCategories = []models.NewCategory{
	{Name: "General Discussion", Description: describe("A place for general topics and conversations")},
	{Name: "Tech Talk", Description: describe("Discuss the latest in technology, programming, and software development")},
	{Name: "Help & Support", Description: describe("Ask questions and get help from the community")},
	{Name: "News & Updates", Description: describe("Stay up to date with the latest news and platform updates")},
	{Name: "Introductions", Description: describe("New to the forum? Introduce yourself here!")},
}

// SeedCategories ensures every category exists and reports how many were created.
func (c *Core) SeedCategories(ctx context.Context, categories []models.NewCategory) (int, error) {
	created := 0
	for _, input := range categories {
		category, isNew, err := c.EnsureCategory(ctx, input)
		if err != nil {
			return created, err
		}
		if isNew {
			created++
			continue
		}
		c.log.Debug("Category already present", slog.String("slug", category.Slug))
	}
	return created, nil
}
