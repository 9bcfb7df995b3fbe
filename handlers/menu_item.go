package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"order-desk/billing"
	"order-desk/models"
)

var allowedImageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

type CreateMenuItemRequest struct {
	Name        string         `json:"name" binding:"required"`
	Category    string         `json:"category" binding:"required"`
	Description string         `json:"description"`
	Price       *billing.Money `json:"price" binding:"required"`
	Available   *bool          `json:"available"`
}

type UpdateMenuItemRequest struct {
	Name        *string        `json:"name"`
	Category    *string        `json:"category"`
	Description *string        `json:"description"`
	Price       *billing.Money `json:"price"`
	Available   *bool          `json:"available"`
}

func (h *Handler) ListMenuItemsHandler(c *gin.Context) {
	query := h.db.Model(&models.MenuItem{})

	if categoryQuery := c.Query("category"); categoryQuery != "" {
		category, err := models.ParseCategory(categoryQuery)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query = query.Where("category = ?", category)
	}

	if availableQuery := c.Query("available"); availableQuery != "" {
		available, err := strconv.ParseBool(availableQuery)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "available must be true or false"})
			return
		}
		query = query.Where("available = ?", available)
	}

	menuItems := []models.MenuItem{}
	if err := query.Order("category, name").Find(&menuItems).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menuItems)
}

func (h *Handler) GetMenuItemHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var menuItem models.MenuItem
	if err := h.db.First(&menuItem, id).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menuItem)
}

func (h *Handler) CreateMenuItemHandler(c *gin.Context) {
	var request CreateMenuItemRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := models.ParseCategory(request.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *request.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price cannot be negative"})
		return
	}

	menuItem := &models.MenuItem{
		Name:        strings.TrimSpace(request.Name),
		Category:    category,
		Description: request.Description,
		Price:       *request.Price,
		Available:   request.Available == nil || *request.Available,
	}

	if err := h.db.Create(menuItem).Error; err != nil {
		log.Printf("Failed to create menu item %q: %v", menuItem.Name, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, menuItem)
}

func (h *Handler) UpdateMenuItemHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var request UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var menuItem models.MenuItem
	if err := h.db.First(&menuItem, id).Error; err != nil {
		respondError(c, err)
		return
	}

	updates := make(map[string]interface{})

	if request.Name != nil {
		updates["name"] = strings.TrimSpace(*request.Name)
	}

	if request.Category != nil {
		category, err := models.ParseCategory(*request.Category)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["category"] = category
	}

	if request.Description != nil {
		updates["description"] = *request.Description
	}

	if request.Price != nil {
		if *request.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price cannot be negative"})
			return
		}
		updates["price"] = *request.Price
	}

	if request.Available != nil {
		updates["available"] = *request.Available
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	}

	if err := h.db.Model(&menuItem).Updates(updates).Error; err != nil {
		log.Printf("Failed to update menu item %d: %v", id, err)
		respondError(c, err)
		return
	}

	if err := h.db.First(&menuItem, id).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menuItem)
}

// DeleteMenuItemHandler soft-deletes the catalog entry. Order items keep their
// own copy of name and price.
func (h *Handler) DeleteMenuItemHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result := h.db.Delete(&models.MenuItem{}, id)
	if result.Error != nil {
		respondError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted menu item"})
}

// UploadMenuItemImageHandler stores the multipart "image" file under the
// upload directory and points the menu item at it.
func (h *Handler) UploadMenuItemImageHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var menuItem models.MenuItem
	if err := h.db.First(&menuItem, id).Error; err != nil {
		respondError(c, err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if file.Size > h.cfg.Uploads.MaxMB<<20 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is too large"})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type " + ext})
		return
	}

	filename := uuid.NewString() + ext
	path := filepath.Join(h.cfg.Uploads.Dir, filename)
	if err := c.SaveUploadedFile(file, path); err != nil {
		log.Printf("Failed to save image for menu item %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}

	previous := menuItem.Image
	if err := h.db.Model(&menuItem).Update("image", filename).Error; err != nil {
		if removeErr := os.Remove(path); removeErr != nil {
			log.Printf("Failed to remove unreferenced image %s: %v", filename, removeErr)
		}
		respondError(c, err)
		return
	}
	menuItem.Image = filename
	if previous != "" {
		if err := os.Remove(filepath.Join(h.cfg.Uploads.Dir, filepath.Base(previous))); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove old image %s: %v", previous, err)
		}
	}

	c.JSON(http.StatusOK, menuItem)
}
