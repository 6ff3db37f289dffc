package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-stack/grievance-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", 30)

	role := domain.StaffRoleDepartmentAdmin
	token, expiresAt, err := manager.GenerateToken("s-1", domain.SubjectTypeStaff, &role)
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "s-1", claims.SubjectID)
	assert.Equal(t, domain.SubjectTypeStaff, claims.Subject)
	require.NotNil(t, claims.Role)
	assert.Equal(t, role, *claims.Role)
}

func TestTokenUserHasNoRole(t *testing.T) {
	manager := NewTokenManager("test-secret", 30)

	token, _, err := manager.GenerateToken("u-1", domain.SubjectTypeUser, nil)
	require.NoError(t, err)

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeUser, claims.Subject)
	assert.Nil(t, claims.Role)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 30)
	verifier := NewTokenManager("secret-b", 30)

	token, _, err := issuer.GenerateToken("u-1", domain.SubjectTypeUser, nil)
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-passphrase", 0)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "s3cret-passphrase"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
