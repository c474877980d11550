package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate/internal/model"
)

func TestIssuerRoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	token, err := issuer.GenerateToken(model.Caller{
		UserID:  7,
		Email:   "buyer@example.com",
		Role:    model.RoleCustomer,
		AgentID: 2,
	})
	require.NoError(t, err)

	caller, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), caller.UserID)
	assert.Equal(t, "buyer@example.com", caller.Email)
	assert.Equal(t, model.RoleCustomer, caller.Role)
	assert.Equal(t, int64(2), caller.AgentID)
	assert.NotEmpty(t, caller.SessionID)
}

func TestIssuerKeepsSessionID(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	token, err := issuer.GenerateToken(model.Caller{UserID: 1, Role: model.RoleAdmin, SessionID: "fixed"})
	require.NoError(t, err)

	caller, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "fixed", caller.SessionID)
}

func TestIssuerRejects(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	_, err := issuer.GenerateToken(model.Caller{UserID: 1, Role: "superuser"})
	assert.ErrorIs(t, err, ErrUnknownRole)

	other, err := NewIssuer("other-secret", time.Hour).GenerateToken(model.Caller{UserID: 1, Role: model.RoleAdmin})
	require.NoError(t, err)
	_, err = issuer.ValidateToken(other)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = issuer.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 1,
		Role:   string(model.RoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = issuer.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrUnauthorized)

	unknownRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 1, Role: "guest"})
	signed, err = unknownRole.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = issuer.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrUnknownRole)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1, Role: string(model.RoleAdmin)})
	signed, err = none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
