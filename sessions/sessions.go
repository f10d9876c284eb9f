package sessions

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"prremind/core"
)

// MinKeyLength is the minimum required length for the signing key.
// 32 bytes is the floor for HMAC-SHA256 keys.
const MinKeyLength = 32

var (
	// ErrInvalidToken is returned for any token the issuer rejects.
	// Expired, malformed and forged tokens all map here so callers
	// cannot distinguish the cause externally.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrInvalidSecretLength is returned at construction for short keys
	ErrInvalidSecretLength = errors.New("signing key must be at least 32 bytes")
	// ErrUnsupportedAlgorithm is returned at construction for anything but HS256
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

// Issuer mints and validates the signed session tokens that back user
// sessions. The signing key and TTL are fixed at startup; nothing here
// is negotiated per request.
type Issuer struct {
	signingKey []byte
	duration   time.Duration
}

func NewIssuer(secretKey, algorithm string, duration time.Duration) (*Issuer, error) {
	if len(secretKey) < MinKeyLength {
		return nil, ErrInvalidSecretLength
	}
	if algorithm != "HS256" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("token duration must be positive, got %s", duration)
	}

	return &Issuer{
		signingKey: []byte(secretKey),
		duration:   duration,
	}, nil
}

// Issue creates a signed token with subject userID, valid for the
// configured duration from now.
func (i *Issuer) Issue(userID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(i.duration)

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, expiresAt, nil
}

// Validate parses and verifies a token, returning its subject user id.
// All rejection causes collapse into ErrInvalidToken.
func (i *Issuer) Validate(tokenString string) (uuid.UUID, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))

	claims := &jwt.RegisteredClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.signingKey, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := core.ParseID(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return userID, nil
}

// Refresh re-issues a token for an already-authenticated principal
// with the same fixed TTL. Identity is not re-checked against the
// provider; a valid existing session is trusted.
func (i *Issuer) Refresh(userID uuid.UUID) (string, time.Time, error) {
	return i.Issue(userID)
}
