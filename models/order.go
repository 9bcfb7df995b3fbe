package models

import (
	"time"

	"order-desk/billing"
)

type Order struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	CustomerName  string        `json:"customerName" gorm:"not null;index"`
	CustomerPhone string        `json:"customerPhone,omitempty"`
	Total         billing.Money `json:"total" gorm:"not null;default:0"`
	Recip         billing.Money `json:"recip" gorm:"not null;default:0"`
	Remained      billing.Money `json:"remained" gorm:"not null;default:0"`
	IsDelivered   bool          `json:"isDelivered" gorm:"not null;default:false;index"`
	Version       uint          `json:"version" gorm:"not null;default:1"`
	CreatedAt     time.Time     `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	Items         []OrderItem   `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem prices are snapshotted when the order is written and do not follow
// later menu changes.
type OrderItem struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	OrderID    uint          `json:"orderId" gorm:"not null;index"`
	Category   string        `json:"category"`
	MenuItemID *uint         `json:"menuItemId"`
	MenuItem   string        `json:"menuItem"`
	Amount     int64         `json:"amount" gorm:"not null;default:0"`
	Price      billing.Money `json:"price" gorm:"not null;default:0"`
	Note       string        `json:"note"`
}

func (o *Order) Lines() []billing.Line {
	lines := make([]billing.Line, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, billing.Line{Price: item.Price, Amount: item.Amount})
	}
	return lines
}

func (o *Order) Totals() billing.Totals {
	return billing.Totals{Total: o.Total, Recip: o.Recip, Remained: o.Remained}
}

func (o *Order) ApplyTotals(t billing.Totals) {
	o.Total = t.Total
	o.Recip = t.Recip
	o.Remained = t.Remained
}
