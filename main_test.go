package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-desk/billing"
	"order-desk/models"
	"order-desk/reports"
)

func TestRenderSummary(t *testing.T) {
	orders := []models.Order{
		{Total: 25000, Recip: 25000, IsDelivered: true, CreatedAt: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)},
		{Total: 10050, Recip: 50, Remained: 10000, CreatedAt: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)},
	}

	var out bytes.Buffer
	require.NoError(t, renderSummary(&out, reports.Summarize(orders)))

	text := out.String()
	assert.Contains(t, text, "350.50")
	assert.Contains(t, text, "2024-01")
	assert.Contains(t, text, "2024-02")
	assert.Contains(t, text, "100.00")
}

func TestRenderSummary_NoOrders(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, renderSummary(&out, reports.Summarize(nil)))

	assert.Contains(t, out.String(), "0.00")
	assert.NotContains(t, out.String(), "MONTH")
}

func TestAggregateRow(t *testing.T) {
	row := aggregateRow("All", reports.Aggregates{
		TotalOrdersCount:   3,
		TotalIncome:        billing.Money(12345),
		TotalReceivedMoney: billing.Money(345),
		TotalPendingMoney:  billing.Money(12000),
	})
	assert.Equal(t, []string{"All", "3", "123.45", "3.45", "120.00"}, row)
}
