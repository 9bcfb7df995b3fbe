package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"order-desk/billing"
	"order-desk/reports"
	"order-desk/store"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"order not found", store.ErrOrderNotFound, http.StatusNotFound},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"version conflict", store.ErrVersionConflict, http.StatusConflict},
		{"duplicate key", fmt.Errorf("insert user: %w", gorm.ErrDuplicatedKey), http.StatusConflict},
		{"recip too large", billing.ErrRecipExceedsTotal, http.StatusBadRequest},
		{"amount out of range", fmt.Errorf("%w: %q", billing.ErrOutOfRange, "1e30"), http.StatusBadRequest},
		{"total overflow", billing.ErrTotalOverflow, http.StatusBadRequest},
		{"bad date", reports.ErrInvalidDate, http.StatusBadRequest},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "disk on fire")
			}
		})
	}
}
