package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestIssuer(t *testing.T, now time.Time) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	issuer.SetClock(func() time.Time { return now })
	return issuer
}

func TestPassword(t *testing.T) {
	user := &User{}
	require.NoError(t, user.SetPassword("correct horse", bcrypt.MinCost))
	assert.NotEqual(t, []byte("correct horse"), user.Password)

	ok, err := user.IsPasswordMatch("correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = user.IsPasswordMatch("wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewTokenIssuer_RejectsBadConfig(t *testing.T) {
	_, err := NewTokenIssuer("", time.Hour)
	assert.True(t, errors.Is(err, ErrEmptyTokenSecret))

	_, err = NewTokenIssuer("secret", 0)
	assert.True(t, errors.Is(err, ErrNonPositiveTTL))
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	issuer := newTestIssuer(t, now)

	token, err := issuer.Issue(&User{ID: 42, Username: "alice"})
	require.NoError(t, err)

	identity, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.UserID)
	assert.Equal(t, "alice", identity.Username)
	assert.True(t, identity.IssuedAt.Equal(now))
	assert.True(t, identity.ExpiresAt.Equal(now.Add(time.Hour)))
}

func TestIssue_RequiresPersistedUser(t *testing.T) {
	issuer := newTestIssuer(t, time.Now())
	_, err := issuer.Issue(&User{Username: "ghost"})
	assert.True(t, errors.Is(err, ErrUnsavedTokenOwner))
}

func TestVerify_Expired(t *testing.T) {
	now := time.Now()
	issuer := newTestIssuer(t, now)
	token, err := issuer.Issue(&User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	issuer.SetClock(func() time.Time { return now.Add(2 * time.Hour) })
	_, err = issuer.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerify_BadSignature(t *testing.T) {
	now := time.Now()
	token, err := newTestIssuer(t, now).Issue(&User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	other, err := NewTokenIssuer("another-secret", time.Hour)
	require.NoError(t, err)
	_, err = other.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	claim := UserClaim{
		ID:       1,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claim).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestIssuer(t, time.Now()).Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerify_IncompletePayload(t *testing.T) {
	claim := UserClaim{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claim).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = newTestIssuer(t, time.Now()).Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerify_Garbage(t *testing.T) {
	_, err := newTestIssuer(t, time.Now()).Verify("not.a.token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		header  string
		token   string
		wantErr error
	}{
		{header: "", wantErr: ErrMissingToken},
		{header: "   ", wantErr: ErrMissingToken},
		{header: "Bearer", wantErr: ErrMalformedToken},
		{header: "Bearer   ", wantErr: ErrMalformedToken},
		{header: "Token abc", wantErr: ErrMalformedToken},
		{header: "Bearer a b", wantErr: ErrMalformedToken},
		{header: "Bearer abc", token: "abc"},
		{header: "bearer abc", token: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, err := ParseBearer(tt.header)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestIdentityContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := GetIdentity(r)
	assert.True(t, errors.Is(err, ErrNotAuthenticated))

	r = SetIdentity(r, &Identity{UserID: 7, Username: "bob"})
	identity, err := GetIdentity(r)
	require.NoError(t, err)
	assert.Equal(t, int64(7), identity.UserID)
}
