package core

import (
	"context"

	"github.com/siahsang/forum/internal/auth"
	"github.com/siahsang/forum/internal/utils/collectionutils"
	"github.com/siahsang/forum/models"
)

func toAuthor(user *auth.User) (int64, *models.Author) {
	return user.ID, &models.Author{
		ID:             user.ID,
		Username:       user.Username,
		ProfilePicture: user.ProfilePicture,
	}
}

// loadAuthors fetches every referenced author with a single query.
func (c *Core) loadAuthors(ctx context.Context, authorIdList []int64) (map[int64]*models.Author, error) {
	users, err := c.GetUsersByIdList(ctx, authorIdList)
	if err != nil {
		return nil, err
	}
	return collectionutils.Associate(users, toAuthor), nil
}

// attachPostAuthors fills Author on every post. The profile picture is only
// kept when withPicture is set.
func (c *Core) attachPostAuthors(ctx context.Context, posts []*models.Post, withPicture bool) error {
	authors, err := c.loadAuthors(ctx, collectionutils.Map(posts, func(p *models.Post) int64 { return p.AuthorID }))
	if err != nil {
		return err
	}
	for _, post := range posts {
		post.Author = projectAuthor(authors, post.AuthorID, withPicture)
	}
	return nil
}

func (c *Core) attachCommentAuthors(ctx context.Context, comments []*models.Comment) error {
	authors, err := c.loadAuthors(ctx, collectionutils.Map(comments, func(cm *models.Comment) int64 { return cm.AuthorID }))
	if err != nil {
		return err
	}
	for _, comment := range comments {
		comment.Author = projectAuthor(authors, comment.AuthorID, false)
	}
	return nil
}

func projectAuthor(authors map[int64]*models.Author, id int64, withPicture bool) *models.Author {
	author := collectionutils.GetOrDefault(authors, id, &models.Author{ID: id})
	projected := &models.Author{ID: author.ID, Username: author.Username}
	if withPicture {
		projected.ProfilePicture = author.ProfilePicture
	}
	return projected
}
