package sessions

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prremind/core"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestIssuer(t *testing.T, duration time.Duration) *Issuer {
	t.Helper()
	issuer, err := NewIssuer(testSecret, "HS256", duration)
	require.NoError(t, err)
	return issuer
}

func TestNewIssuer(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		algorithm string
		duration  time.Duration
		wantErr   error
	}{
		{
			name:      "valid configuration",
			secret:    testSecret,
			algorithm: "HS256",
			duration:  30 * time.Minute,
		},
		{
			name:      "short secret rejected",
			secret:    "too-short",
			algorithm: "HS256",
			duration:  30 * time.Minute,
			wantErr:   ErrInvalidSecretLength,
		},
		{
			name:      "unsupported algorithm rejected",
			secret:    testSecret,
			algorithm: "RS256",
			duration:  30 * time.Minute,
			wantErr:   ErrUnsupportedAlgorithm,
		},
		{
			name:      "zero duration rejected",
			secret:    testSecret,
			algorithm: "HS256",
			duration:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer, err := NewIssuer(tt.secret, tt.algorithm, tt.duration)
			if tt.name == "valid configuration" {
				require.NoError(t, err)
				assert.NotNil(t, issuer)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestIssueThenValidate(t *testing.T) {
	issuer := newTestIssuer(t, 30*time.Minute)
	userID := core.NewID()

	token, expiresAt, err := issuer.Issue(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	got, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	issuer := newTestIssuer(t, 1*time.Millisecond)
	userID := core.NewID()

	token, _, err := issuer.Issue(userID)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = issuer.Validate(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsForeignKey(t *testing.T) {
	issuer := newTestIssuer(t, 30*time.Minute)
	otherIssuer, err := NewIssuer("ffffffffffffffffffffffffffffffff", "HS256", 30*time.Minute)
	require.NoError(t, err)

	token, _, err := otherIssuer.Issue(core.NewID())
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsMalformedToken(t *testing.T) {
	issuer := newTestIssuer(t, 30*time.Minute)

	for _, token := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		_, err := issuer.Validate(token)
		require.Error(t, err, "token %q should be rejected", token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	issuer := newTestIssuer(t, 30*time.Minute)

	token, _, err := issuer.Issue(core.NewID())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "X." + parts[2]

	_, err = issuer.Validate(tampered)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshPreservesSubject(t *testing.T) {
	issuer := newTestIssuer(t, 30*time.Minute)
	userID := core.NewID()

	token, _, err := issuer.Refresh(userID)
	require.NoError(t, err)

	got, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}
