package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"order-desk/reports"
)

// OrderReportHandler summarizes orders created between startDate and endDate.
// An empty range answers with zeros, not an error.
func (h *Handler) OrderReportHandler(c *gin.Context) {
	dateRange, err := reports.ParseRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondError(c, err)
		return
	}

	orders, err := reports.Load(c.Request.Context(), h.db, dateRange)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reports.Summarize(orders))
}
