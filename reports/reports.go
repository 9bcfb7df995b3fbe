package reports

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"order-desk/billing"
	"order-desk/models"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD or RFC3339")
	ErrInvertedRange = errors.New("startDate must not be after endDate")
)

// Range bounds orders by creation time. A nil bound is open.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// ParseRange reads the startDate/endDate query values. A date-only endDate
// covers that whole day.
func ParseRange(start, end string) (Range, error) {
	var r Range
	if start = strings.TrimSpace(start); start != "" {
		t, _, err := parseDate(start)
		if err != nil {
			return Range{}, err
		}
		r.Start = &t
	}
	if end = strings.TrimSpace(end); end != "" {
		t, dateOnly, err := parseDate(end)
		if err != nil {
			return Range{}, err
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		r.End = &t
	}
	if r.Start != nil && r.End != nil && r.Start.After(*r.End) {
		return Range{}, ErrInvertedRange
	}
	return r, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		// created_at is stored as local time text, so bounds must be too.
		return t.In(time.Local), false, nil
	}
	return time.Time{}, false, ErrInvalidDate
}

// Aggregates are simple reductions over a set of orders.
type Aggregates struct {
	TotalOrdersCount        int           `json:"totalOrdersCount"`
	TotalIncome             billing.Money `json:"totalIncome"`
	TotalReceivedMoney      billing.Money `json:"totalReceivedMoney"`
	TotalPendingMoney       billing.Money `json:"totalPendingMoney"`
	DeliveredOrdersCount    int           `json:"deliveredOrdersCount"`
	NotDeliveredOrdersCount int           `json:"notDeliveredOrdersCount"`
}

func (a *Aggregates) add(order models.Order) {
	a.TotalOrdersCount++
	a.TotalIncome += order.Total
	a.TotalReceivedMoney += order.Recip
	a.TotalPendingMoney += order.Remained
	if order.IsDelivered {
		a.DeliveredOrdersCount++
	} else {
		a.NotDeliveredOrdersCount++
	}
}

type DeliveryBreakdown struct {
	Delivered    Aggregates `json:"delivered"`
	NotDelivered Aggregates `json:"notDelivered"`
}

type Month struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Aggregates
}

type Summary struct {
	Aggregates
	ByDelivery DeliveryBreakdown `json:"byDelivery"`
	Monthly    []Month           `json:"monthly"`
}

// Summarize reduces orders into totals, a delivery split and a per-month
// breakdown ordered by year then month. No orders gives all zeros.
func Summarize(orders []models.Order) Summary {
	summary := Summary{Monthly: []Month{}}
	months := map[[2]int]*Month{}

	for _, order := range orders {
		summary.add(order)
		if order.IsDelivered {
			summary.ByDelivery.Delivered.add(order)
		} else {
			summary.ByDelivery.NotDelivered.add(order)
		}

		key := [2]int{order.CreatedAt.Year(), int(order.CreatedAt.Month())}
		m, ok := months[key]
		if !ok {
			m = &Month{Year: key[0], Month: key[1]}
			months[key] = m
		}
		m.add(order)
	}

	for _, m := range months {
		summary.Monthly = append(summary.Monthly, *m)
	}
	sort.Slice(summary.Monthly, func(i, j int) bool {
		a, b := summary.Monthly[i], summary.Monthly[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})
	return summary
}

// Load fetches the orders created inside r.
func Load(ctx context.Context, db *gorm.DB, r Range) ([]models.Order, error) {
	query := db.WithContext(ctx).Model(&models.Order{})
	if r.Start != nil {
		query = query.Where("created_at >= ?", *r.Start)
	}
	if r.End != nil {
		query = query.Where("created_at <= ?", *r.End)
	}

	orders := []models.Order{}
	if err := query.Order("created_at").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
