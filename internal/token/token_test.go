package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_IssueAndVerify(t *testing.T) {
	svc, err := New("test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	uid := uuid.New()
	raw, err := svc.Issue("test@example.com", uid)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	identity, err := svc.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", identity.Email)
	assert.Equal(t, uid, identity.UserID)
}

func TestService_Verify_Expired(t *testing.T) {
	svc, err := New("test-secret", "HS256", -time.Minute)
	require.NoError(t, err)

	raw, err := svc.Issue("test@example.com", uuid.New())
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Verify_WrongSecret(t *testing.T) {
	issuer, err := New("secret-a", "HS256", time.Hour)
	require.NoError(t, err)
	verifier, err := New("secret-b", "HS256", time.Hour)
	require.NoError(t, err)

	raw, err := issuer.Issue("test@example.com", uuid.New())
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Verify_MissingClaims(t *testing.T) {
	svc, err := New("test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	// Signed with the right secret but without the uid claim.
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "test@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Verify_Garbage(t *testing.T) {
	svc, err := New("test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	_, err = svc.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNew_RejectsBadAlgorithms(t *testing.T) {
	_, err := New("secret", "nonsense", time.Hour)
	assert.Error(t, err)

	_, err = New("secret", "RS256", time.Hour)
	assert.Error(t, err)
}

func TestNew_AcceptsHMACVariants(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		svc, err := New("secret", alg, time.Hour)
		require.NoError(t, err, alg)

		raw, err := svc.Issue("test@example.com", uuid.New())
		require.NoError(t, err, alg)

		_, err = svc.Verify(raw)
		assert.NoError(t, err, alg)
	}
}
