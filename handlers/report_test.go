package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-desk/models"
)

type reportJSON struct {
	TotalOrdersCount        int     `json:"totalOrdersCount"`
	TotalIncome             float64 `json:"totalIncome"`
	TotalReceivedMoney      float64 `json:"totalReceivedMoney"`
	TotalPendingMoney       float64 `json:"totalPendingMoney"`
	DeliveredOrdersCount    int     `json:"deliveredOrdersCount"`
	NotDeliveredOrdersCount int     `json:"notDeliveredOrdersCount"`
	Monthly                 []struct {
		Year             int `json:"year"`
		Month            int `json:"month"`
		TotalOrdersCount int `json:"totalOrdersCount"`
	} `json:"monthly"`
}

func TestOrderReport_Empty(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.userWithRole(t, models.RoleAdmin)

	w := s.do(t, http.MethodGet, "/api/reports/orders?startDate=2020-01-01&endDate=2020-01-31", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	report := decode[reportJSON](t, w)
	assert.Zero(t, report.TotalOrdersCount)
	assert.Zero(t, report.TotalIncome)
	assert.Zero(t, report.TotalReceivedMoney)
	assert.Zero(t, report.TotalPendingMoney)
	assert.Zero(t, report.DeliveredOrdersCount)
	assert.Zero(t, report.NotDeliveredOrdersCount)
	assert.NotNil(t, report.Monthly)
	assert.Empty(t, report.Monthly)
}

func TestOrderReport(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.userWithRole(t, models.RoleAdmin)

	first := createOrder(t, s, admin)
	createOrder(t, s, admin)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPatch, fmt.Sprintf("/api/orders/%d/paid", first.ID), admin, nil).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPatch, fmt.Sprintf("/api/orders/%d/delivery", first.ID), admin, gin.H{"isDelivered": true}).Code)

	today := time.Now().Format("2006-01-02")
	w := s.do(t, http.MethodGet, "/api/reports/orders?startDate="+today+"&endDate="+today, admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	report := decode[reportJSON](t, w)
	assert.Equal(t, 2, report.TotalOrdersCount)
	assert.Equal(t, 500.0, report.TotalIncome)
	assert.Equal(t, 250.0, report.TotalReceivedMoney)
	assert.Equal(t, 250.0, report.TotalPendingMoney)
	assert.Equal(t, 1, report.DeliveredOrdersCount)
	assert.Equal(t, 1, report.NotDeliveredOrdersCount)
	require.Len(t, report.Monthly, 1)
	assert.Equal(t, 2, report.Monthly[0].TotalOrdersCount)
}

func TestOrderReport_Errors(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.userWithRole(t, models.RoleAdmin)
	_, reception := s.userWithRole(t, models.RoleReception)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/reports/orders?startDate=yesterday", admin, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/reports/orders?startDate=2024-02-01&endDate=2024-01-01", admin, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/reports/orders", reception, nil).Code)
}
