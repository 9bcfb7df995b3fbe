package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"order-desk/models"
)

// RegisterRequest struct to bind registration data
type RegisterRequest struct {
	FullName string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// RegisterHandler creates a self-service account with the plain user role.
func (h *Handler) RegisterHandler(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.createUser(c, req.FullName, req.Email, req.Password, models.RoleUser)
	if err != nil {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user_id": user.ID})
}

func (h *Handler) LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Find the user by email
	var user models.User
	if err := h.db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Failed to look up user %s: %v", req.Email, err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// Check the password
	if err := user.CheckPassword(req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
		return
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		log.Printf("Failed to generate token for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// ForgotPasswordHandler answers the same way whether or not the email exists.
func (h *Handler) ForgotPasswordHandler(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"message": "If the email is registered, a reset link has been sent"}

	var user models.User
	if err := h.db.Where("email = ? AND is_active = ?", normalizeEmail(req.Email), true).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response)
		return
	}

	token := uuid.NewString()
	expires := time.Now().Add(h.cfg.Auth.ResetTokenTTL)
	if err := h.db.Model(&user).Updates(map[string]interface{}{
		"reset_token":   token,
		"reset_expires": expires,
	}).Error; err != nil {
		respondError(c, err)
		return
	}

	if err := h.mailer.SendPasswordReset(c.Request.Context(), user.Email, token, expires); err != nil {
		log.Printf("Failed to send password reset to %s: %v", user.Email, err)
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) ResetPasswordHandler(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.Where("reset_token = ?", req.Token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
			return
		}
		respondError(c, err)
		return
	}
	if !user.ResetTokenValid(req.Token, time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		return
	}

	if err := user.HashPassword(req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := h.db.Model(&user).Updates(map[string]interface{}{
		"password":      user.Password,
		"reset_token":   nil,
		"reset_expires": nil,
	}).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

// MeHandler returns the authenticated user.
func (h *Handler) MeHandler(c *gin.Context) {
	claims, _ := currentClaims(c)

	var user models.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// createUser writes the error response itself and returns a non-nil error
// when the user could not be created.
func (h *Handler) createUser(c *gin.Context, fullName, email, password string, role models.Role) (*models.User, error) {
	email = normalizeEmail(email)

	// Check if user with the email already exists
	var existingUser models.User
	queryResult := h.db.Where("email = ?", email).First(&existingUser)
	if queryResult.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return nil, errors.New("email already registered")
	}
	if !errors.Is(queryResult.Error, gorm.ErrRecordNotFound) {
		respondError(c, queryResult.Error)
		return nil, queryResult.Error
	}

	user := models.User{
		FullName: strings.TrimSpace(fullName),
		Email:    email,
		Role:     role,
		IsActive: true,
	}
	if err := user.HashPassword(password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return nil, err
	}

	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return nil, err
		}
		log.Printf("Failed to create user %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return nil, err
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
