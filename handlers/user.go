package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"order-desk/models"
)

type CreateUserRequest struct {
	FullName string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required"`
	IsActive *bool  `json:"isActive"`
}

type UpdateUserRequest struct {
	FullName *string `json:"fullname"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
	Password *string `json:"password" binding:"omitempty,min=8,max=72"`
}

func (h *Handler) ListUsersHandler(c *gin.Context) {
	query := h.db.Model(&models.User{})
	if roleQuery := c.Query("role"); roleQuery != "" {
		role, err := models.ParseRole(roleQuery)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query = query.Where("role = ?", role)
	}

	users := []models.User{}
	if err := query.Order("id").Find(&users).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) CreateUserHandler(c *gin.Context) {
	var request CreateUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := models.ParseRole(request.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.createUser(c, request.FullName, request.Email, request.Password, role)
	if err != nil {
		return
	}

	if request.IsActive != nil && !*request.IsActive {
		if err := h.db.Model(user).Update("is_active", false).Error; err != nil {
			respondError(c, err)
			return
		}
		user.IsActive = false
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) GetUserHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUserHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var request UpdateUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, _ := currentClaims(c)
	self := claims != nil && claims.UserID == id
	if self && request.IsActive != nil && !*request.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot deactivate your own account"})
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		respondError(c, err)
		return
	}

	// Build map for updates to handle partial updates correctly with pointers
	updates := make(map[string]interface{})

	if request.FullName != nil {
		name := strings.TrimSpace(*request.FullName)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fullname cannot be empty"})
			return
		}
		updates["full_name"] = name
	}

	if request.Role != nil {
		role, err := models.ParseRole(*request.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if self && role != user.Role {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot change your own role"})
			return
		}
		updates["role"] = role
	}

	if request.IsActive != nil {
		updates["is_active"] = *request.IsActive
	}

	if request.Password != nil {
		if err := user.HashPassword(*request.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		updates["password"] = user.Password
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	}

	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Failed to update user %d: %v", id, err)
		respondError(c, err)
		return
	}

	if err := h.db.First(&user, id).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteUserHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	claims, _ := currentClaims(c)
	if claims != nil && claims.UserID == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}

	result := h.db.Delete(&models.User{}, id)
	if result.Error != nil {
		respondError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
