package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/forum/internal/auth"
	"github.com/siahsang/forum/internal/imaging"
	"github.com/siahsang/forum/internal/utils/databaseutils"
	"github.com/siahsang/forum/internal/utils/stringutils"
	"github.com/siahsang/forum/internal/validator"
	"github.com/siahsang/forum/models"
)

const (
	maxUsernameLength = 50
	maxBioLength      = 2000
)

const userColumns = `id, username, email, password_hash, bio, profile_picture, created_at`

func scanUser(rows *sql.Rows) (*auth.User, error) {
	var user = &auth.User{}
	if err := rows.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.Bio,
		&user.ProfilePicture,
		&user.CreatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return user, nil
}

// NormalizeEmail is applied to every email before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration checks a sign-up request; password is the plaintext secret.
func ValidateRegistration(v *validator.Validator, username, email, password string) {
	v.CheckNotBlank(username, "username", "must be provided")
	v.CheckMaxLength(username, maxUsernameLength, "username")
	v.Check(!strings.ContainsAny(username, " \t\n"), "username", "must not contain whitespace")

	v.CheckNotBlank(email, "email", "must be provided")
	v.CheckEmail(email, "email", "must be a valid email address")

	v.CheckNotBlank(password, "password", "must be provided")
	v.Check(len(password) >= 8, "password", "must be at least 8 characters long")
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
}

// CreateUser stores a user whose password hash is already set.
func (c *Core) CreateUser(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`
	user.Email = NormalizeEmail(user.Email)
	user.Username = strings.TrimSpace(user.Username)
	user.CreatedAt = c.now()

	args := []any{user.Username, user.Email, user.Password, user.CreatedAt}
	id, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanID, args...)
	if err != nil {
		return storeError("create user", err)
	}
	user.ID = id

	c.log.Info("User registered", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	return nil
}

func (c *Core) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = ?`, userColumns)

	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, NormalizeEmail(email))
	if err != nil {
		return nil, storeError("get user by email", err)
	}
	return user, nil
}

func (c *Core) GetUserByID(ctx context.Context, id int64) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = ?`, userColumns)

	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, id)
	if err != nil {
		return nil, storeError("get user by id", err)
	}
	return user, nil
}

func (c *Core) GetUsersByIdList(ctx context.Context, userIdList []int64) ([]*auth.User, error) {
	if len(userIdList) == 0 {
		return []*auth.User{}, nil
	}

	placeholders, args := stringutils.INClause(stringutils.Distinct(userIdList))
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id IN (%s)`, userColumns, placeholders)

	users, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanUser, args...)
	if err != nil {
		return nil, storeError("get users by id list", err)
	}
	return users, nil
}

// GetProfile returns the public profile of a user with their posts, newest first.
func (c *Core) GetProfile(ctx context.Context, id int64) (*models.Profile, error) {
	user, err := c.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, title, created_at
		FROM posts
		WHERE author_id = ?
		ORDER BY created_at DESC, id DESC
	`
	posts, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (*models.PostSummary, error) {
		var post models.PostSummary
		if err := rows.Scan(&post.ID, &post.Title, &post.CreatedAt); err != nil {
			return nil, xerrors.New(err)
		}
		return &post, nil
	}, id)
	if err != nil {
		return nil, storeError("list posts by author", err)
	}

	return &models.Profile{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
		Posts:          posts,
	}, nil
}

// UpdateProfile applies bio and picture changes to the actor's own profile.
// Ownership is checked before any image is processed.
func (c *Core) UpdateProfile(ctx context.Context, actor *auth.Identity, userID int64, patch models.ProfilePatch) (*models.Profile, error) {
	user, err := c.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ID != actor.UserID {
		return nil, xerrors.New(ErrForbidden)
	}

	// Clients echo the stored path back when the picture is unchanged.
	if patch.ProfileImage != nil && user.ProfilePicture != nil && *patch.ProfileImage == *user.ProfilePicture {
		patch.ProfileImage = nil
	}

	v := validator.New()
	bio := user.Bio
	if patch.Bio != nil {
		v.CheckMaxLength(*patch.Bio, maxBioLength, "bio")
		bio = optionalText(*patch.Bio)
	}
	if patch.ProfileImage != nil {
		v.CheckNotBlank(*patch.ProfileImage, "profile_picture", "must not be empty")
	}
	if err := v.Err(); err != nil {
		return nil, xerrors.New(err)
	}

	picture := user.ProfilePicture
	var storedPicture string
	if patch.ProfileImage != nil {
		if c.images == nil {
			return nil, xerrors.New(&DependencyError{Op: "store profile image", Err: errors.New("no image store configured")})
		}
		storedPicture, err = c.images.SaveProfileImage(ctx, user.ID, *patch.ProfileImage)
		if err != nil {
			if errors.Is(err, imaging.ErrInvalidImage) {
				return nil, xerrors.New(validator.NewError("profile_picture", err.Error()))
			}
			return nil, xerrors.New(&DependencyError{Op: "store profile image", Err: err})
		}
		picture = &storedPicture
	}

	query := `UPDATE users SET bio = ?, profile_picture = ? WHERE id = ?`
	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, query, bio, picture, user.ID); err != nil {
		if storedPicture != "" {
			c.removeImage(storedPicture)
		}
		return nil, storeError("update user", err)
	}

	if storedPicture != "" && user.ProfilePicture != nil {
		c.removeImage(*user.ProfilePicture)
	}

	c.log.Info("User updated Successfully", slog.Int64("user_id", user.ID))
	return c.GetProfile(ctx, user.ID)
}

func (c *Core) removeImage(publicPath string) {
	if err := c.images.Remove(publicPath); err != nil {
		c.log.Warn("failed to remove profile image", slog.String("path", publicPath), slog.String("error", err.Error()))
	}
}

// optionalText maps blank input to NULL.
func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
