package models

import "time"

// Author is the public projection of a user embedded in posts and comments.
type Author struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PostCount   *int64    `json:"postCount,omitempty"`
	Posts       []*Post   `json:"posts,omitempty"`
}

type Post struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	AuthorID   int64      `json:"author_id"`
	CategoryID int64      `json:"category_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Author     *Author    `json:"author,omitempty"`
	Comments   []*Comment `json:"comments,omitempty"`
}

type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	AuthorID  int64     `json:"author_id"`
	PostID    int64     `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	Author    *Author   `json:"author,omitempty"`
}

// PostSummary is a post as listed on a user profile.
type PostSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type Profile struct {
	ID             int64          `json:"id"`
	Username       string         `json:"username"`
	Email          string         `json:"email"`
	Bio            *string        `json:"bio"`
	ProfilePicture *string        `json:"profile_picture"`
	CreatedAt      time.Time      `json:"created_at"`
	Posts          []*PostSummary `json:"posts"`
}

type NewPost struct {
	Title      string
	Content    string
	CategoryID int64
}

type NewCategory struct {
	Name        string
	Description *string
}

// Patch types carry one pointer per field: nil means "leave unchanged",
// a non-nil pointer is applied as-is, including the empty string.

type PostPatch struct {
	Title      *string
	Content    *string
	CategoryID *int64
}

type CommentPatch struct {
	Content *string
}

type CategoryPatch struct {
	Name        *string
	Description *string
}

type ProfilePatch struct {
	Bio *string
	// ProfileImage is raw image data, base64 encoded, optionally as a data URL.
	ProfileImage *string
}
