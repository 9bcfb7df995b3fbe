package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"order-desk/billing"
	"order-desk/config"
	"order-desk/events"
	"order-desk/notify"
	"order-desk/reports"
	"order-desk/store"
	"order-desk/utils"
)

// Handler carries the dependencies shared by every route.
type Handler struct {
	db     *gorm.DB
	orders *store.Orders
	tokens *utils.TokenManager
	mailer notify.Mailer
	cfg    *config.Config
}

func New(db *gorm.DB, cfg *config.Config, tokens *utils.TokenManager, publisher events.Publisher, mailer notify.Mailer) *Handler {
	if mailer == nil {
		mailer = notify.LogMailer{BaseURL: cfg.PublicURL}
	}
	return &Handler{
		db:     db,
		orders: store.NewOrders(db, publisher),
		tokens: tokens,
		mailer: mailer,
		cfg:    cfg,
	}
}

func (h *Handler) HealthHandler(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		log.Printf("Health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps domain errors to HTTP statuses. Anything unrecognised is
// logged in full and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrOrderNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrVersionConflict),
		errors.Is(err, store.ErrTotalMismatch),
		errors.Is(err, gorm.ErrDuplicatedKey):
		status = http.StatusConflict
	case errors.Is(err, store.ErrCustomerNameRequired),
		errors.Is(err, store.ErrUnknownMenuItem),
		errors.Is(err, billing.ErrNegativeRecip),
		errors.Is(err, billing.ErrRecipExceedsTotal),
		errors.Is(err, billing.ErrOutOfRange),
		errors.Is(err, billing.ErrTotalOverflow),
		errors.Is(err, reports.ErrInvalidDate),
		errors.Is(err, reports.ErrInvertedRange):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		log.Printf("[%s] %s %s failed: %v", requestID(c), c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(status, gin.H{"error": "Internal server error"})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.AbortWithStatusJSON(status, gin.H{"error": "Not found"})
		return
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		c.AbortWithStatusJSON(status, gin.H{"error": "Already exists"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param})
		return 0, false
	}
	return uint(id), true
}
