package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-desk/models"
)

func TestUserManagement(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.userWithRole(t, models.RoleAdmin)

	w := s.do(t, http.MethodPost, "/api/users", admin, gin.H{
		"fullname": "Front Desk",
		"email":    "desk@example.com",
		"password": "password123",
		"role":     "reception",
		"isActive": false,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.User](t, w)
	assert.Equal(t, models.RoleReception, created.Role)
	assert.False(t, created.IsActive)

	var stored models.User
	require.NoError(t, s.db.First(&stored, created.ID).Error)
	assert.False(t, stored.IsActive)

	w = s.do(t, http.MethodPost, "/api/users", admin, gin.H{
		"fullname": "Boss",
		"email":    "boss@example.com",
		"password": "password123",
		"role":     "owner",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	path := fmt.Sprintf("/api/users/%d", created.ID)
	w = s.do(t, http.MethodPut, path, admin, gin.H{"isActive": true, "role": "admin"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.User](t, w)
	assert.True(t, updated.IsActive)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, path, admin, gin.H{}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, path, admin, gin.H{"fullname": "  "}).Code)

	w = s.do(t, http.MethodGet, "/api/users?role=admin", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.User](t, w), 2)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/users?role=owner", admin, nil).Code)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, path, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, admin, nil).Code)
}

func TestDeleteUser_Self(t *testing.T) {
	s := newTestServer(t)
	me, admin := s.userWithRole(t, models.RoleAdmin)

	w := s.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", me.ID), admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUser_Self(t *testing.T) {
	s := newTestServer(t)
	me, admin := s.userWithRole(t, models.RoleAdmin)
	path := fmt.Sprintf("/api/users/%d", me.ID)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, path, admin, gin.H{"isActive": false}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, path, admin, gin.H{"role": "reception"}).Code)

	w := s.do(t, http.MethodPut, path, admin, gin.H{"fullname": "Still Admin", "role": "admin", "isActive": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.User
	require.NoError(t, s.db.First(&stored, me.ID).Error)
	assert.Equal(t, models.RoleAdmin, stored.Role)
	assert.True(t, stored.IsActive)
	assert.Equal(t, "Still Admin", stored.FullName)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/users", admin, nil).Code)
}

func TestUsers_AdminOnly(t *testing.T) {
	s := newTestServer(t)
	_, reception := s.userWithRole(t, models.RoleReception)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/users", reception, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/users", "", nil).Code)
}
