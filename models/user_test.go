package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Reception ")
	require.NoError(t, err)
	assert.Equal(t, RoleReception, role)

	_, err = ParseRole("superuser")
	assert.Error(t, err)
}

func TestUserPassword(t *testing.T) {
	var u User
	require.NoError(t, u.HashPassword("correct horse"))
	assert.NotEqual(t, "correct horse", u.Password)

	assert.NoError(t, u.CheckPassword("correct horse"))
	assert.Error(t, u.CheckPassword("battery staple"))
}

func TestResetTokenValid(t *testing.T) {
	now := time.Now()
	token := "abc"
	expires := now.Add(time.Hour)
	u := User{ResetToken: &token, ResetExpires: &expires}

	assert.True(t, u.ResetTokenValid("abc", now))
	assert.False(t, u.ResetTokenValid("abd", now))
	assert.False(t, u.ResetTokenValid("abc", now.Add(2*time.Hour)))
	assert.False(t, (&User{}).ResetTokenValid("", now))
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("main dish")
	require.NoError(t, err)
	assert.Equal(t, CategoryMainDish, c)

	_, err = ParseCategory("Soup")
	assert.Error(t, err)
}
