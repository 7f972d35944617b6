package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/forum/internal/web"
	"golang.org/x/crypto/bcrypt"
)

const IdentityCtxKey web.ContextKey = "identity"

var (
	ErrMissingToken      = xerrors.Message("Authorization header is missing")
	ErrMalformedToken    = xerrors.Message("Authorization header must be in the format 'Bearer <token>'")
	ErrInvalidToken      = xerrors.Message("Invalid or expired token")
	ErrNotAuthenticated  = xerrors.Message("Not authenticated user")
	ErrEmptyTokenSecret  = xerrors.Message("token secret must not be empty")
	ErrNonPositiveTTL    = xerrors.Message("token ttl must be positive")
	ErrUnsavedTokenOwner = xerrors.Message("cannot issue a token for a user without id")
)

func (user *User) SetPassword(plainTextPassword string, cost int) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), cost)
	if err != nil {
		return xerrors.New(err)
	}

	user.Password = hashedPassword
	return nil
}

func (user *User) IsPasswordMatch(plainTextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(user.Password, []byte(plainTextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, xerrors.New(err)
	}

	return true, nil
}

// TokenIssuer mints and verifies HS256 identity tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, xerrors.New(ErrEmptyTokenSecret)
	}
	if ttl <= 0 {
		return nil, xerrors.New(ErrNonPositiveTTL)
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// SetClock replaces the time source used for issuing and verifying.
func (issuer *TokenIssuer) SetClock(now func() time.Time) {
	issuer.now = now
}

func (issuer *TokenIssuer) Issue(user *User) (string, error) {
	if user.ID == 0 {
		return "", xerrors.New(ErrUnsavedTokenOwner)
	}

	issuedAt := issuer.now()
	claim := UserClaim{
		ID:       user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(issuer.ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claim)
	signedString, err := token.SignedString(issuer.secret)
	if err != nil {
		return "", xerrors.New(err)
	}
	return signedString, nil
}

// Verify checks signature, algorithm and expiry. Every failure is reported as ErrInvalidToken.
func (issuer *TokenIssuer) Verify(tokenString string) (*Identity, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &UserClaim{}, func(token *jwt.Token) (interface{}, error) {
		return issuer.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(issuer.now),
	)
	if err != nil {
		return nil, xerrors.Newf("%w: %v", ErrInvalidToken, err)
	}

	claim, ok := parsedToken.Claims.(*UserClaim)
	if !ok || !parsedToken.Valid {
		return nil, xerrors.New(ErrInvalidToken)
	}
	if claim.ID <= 0 || claim.Username == "" || claim.IssuedAt == nil {
		return nil, xerrors.Newf("%w: incomplete payload", ErrInvalidToken)
	}

	return &Identity{
		UserID:    claim.ID,
		Username:  claim.Username,
		IssuedAt:  claim.IssuedAt.Time,
		ExpiresAt: claim.ExpiresAt.Time,
	}, nil
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", xerrors.New(ErrMissingToken)
	}

	scheme, token, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return "", xerrors.New(ErrMalformedToken)
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.Contains(token, " ") {
		return "", xerrors.New(ErrMalformedToken)
	}

	return token, nil
}

func SetIdentity(r *http.Request, identity *Identity) *http.Request {
	return web.AddValueToContext(r, IdentityCtxKey, identity)
}

func GetIdentity(r *http.Request) (*Identity, error) {
	identity, ok := web.GetValueFromContext[*Identity](r, IdentityCtxKey)
	if !ok {
		return nil, xerrors.New(ErrNotAuthenticated)
	}

	return identity, nil
}
