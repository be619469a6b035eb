// internal/models/user_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndCheckPassword(t *testing.T) {
	user := User{Username: "alice"}

	require.NoError(t, user.SetPassword("s3cret!pass"))
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "s3cret!pass", user.PasswordHash)

	assert.NoError(t, user.CheckPassword("s3cret!pass"))
	assert.Error(t, user.CheckPassword("wrong"))
	assert.Error(t, user.CheckPassword(""))
}

func TestUserRoleValidity(t *testing.T) {
	assert.True(t, UserRoleAdmin.IsValid())
	assert.True(t, UserRoleManager.IsValid())
	assert.True(t, UserRoleViewer.IsValid())
	assert.False(t, UserRole("root").IsValid())
}
