package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the credential record. Password holds the bcrypt hash and is never serialized.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       []byte    `json:"-"`
	Bio            *string   `json:"bio,omitempty"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type UserClaim struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`

	jwt.RegisteredClaims
}

// Identity is the verified token payload attached to a request.
type Identity struct {
	UserID    int64
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
