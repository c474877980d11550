package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"estate/internal/model"
)

var (
	// ErrUnauthorized is returned for missing, malformed or expired tokens
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnknownRole is returned when a token carries an unknown role
	ErrUnknownRole = errors.New("unknown role")
)

// Claims is what a session token carries. The registered "jti" claim is
// the session identifier.
type Claims struct {
	UserID  int64  `json:"user_id"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role"`
	AgentID int64  `json:"agent_id,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and validates HS256 session tokens
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an issuer for secret; tokens live for ttl
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// GenerateToken mints a token for caller. A new session ID is assigned when
// caller has none.
func (i *Issuer) GenerateToken(caller model.Caller) (string, error) {
	if _, ok := model.ParseRole(string(caller.Role)); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, caller.Role)
	}
	if caller.SessionID == "" {
		caller.SessionID = uuid.NewString()
	}

	now := time.Now()
	claims := &Claims{
		UserID:  caller.UserID,
		Email:   caller.Email,
		Role:    string(caller.Role),
		AgentID: caller.AgentID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        caller.SessionID,
			Subject:   fmt.Sprintf("%d", caller.UserID),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ValidateToken checks the signature and expiry and returns the caller
func (i *Issuer) ValidateToken(tokenString string) (model.Caller, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return model.Caller{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !token.Valid {
		return model.Caller{}, ErrUnauthorized
	}

	role, ok := model.ParseRole(claims.Role)
	if !ok {
		return model.Caller{}, fmt.Errorf("%w: %q", ErrUnknownRole, claims.Role)
	}

	return model.Caller{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      role,
		AgentID:   claims.AgentID,
		SessionID: claims.ID,
	}, nil
}
