package store

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"order-desk/billing"
	"order-desk/events"
	"order-desk/models"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrVersionConflict      = errors.New("order was modified by another request, reload and try again")
	ErrTotalMismatch        = errors.New("order total has changed, reload and try again")
	ErrCustomerNameRequired = errors.New("customer name is required")
	ErrUnknownMenuItem      = errors.New("invalid menu item ID")
)

// ItemInput is a line item as submitted by a client, already coerced to
// numbers.
type ItemInput struct {
	Category   string
	MenuItemID *uint
	MenuItem   string
	Amount     int64
	Price      billing.Money
	Note       string
}

type CreateOrderInput struct {
	CustomerName  string
	CustomerPhone string
	Items         []ItemInput
	Recip         *billing.Money
}

// UpdateOrderInput leaves a field untouched when it is nil. A non-nil Items
// replaces every existing line item, an empty slice included.
type UpdateOrderInput struct {
	CustomerName  *string
	CustomerPhone *string
	Items         *[]ItemInput
	Recip         *billing.Money
	Version       *uint
}

// PaymentInput carries the new received amount. Total, when set, must match
// the stored total.
type PaymentInput struct {
	Recip *billing.Money
	Total *billing.Money
}

type ListFilter struct {
	Delivered *bool
	Start     *time.Time
	End       *time.Time
	Customer  string
}

// Orders owns every write to orders and order_items. Each mutation runs in a
// single transaction and bumps the order version with a compare-and-swap.
type Orders struct {
	db     *gorm.DB
	events events.Publisher
}

func NewOrders(db *gorm.DB, publisher events.Publisher) *Orders {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Orders{db: db, events: publisher}
}

func (s *Orders) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return nil, ErrCustomerNameRequired
	}

	var orderID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order := models.Order{
			CustomerName:  name,
			CustomerPhone: strings.TrimSpace(in.CustomerPhone),
			Version:       1,
		}
		if err := tx.Omit("Items").Create(&order).Error; err != nil {
			return err
		}

		items, err := buildItems(tx, order.ID, in.Items)
		if err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		order.Items = items

		totals, err := billing.Reconcile(order.Lines(), 0, in.Recip)
		if err != nil {
			return err
		}
		orderID = order.ID
		return save(tx, &order, totals, nil)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderCreated, order)
	return order, nil
}

func (s *Orders) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items", byID).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// List returns matching orders, newest first.
func (s *Orders) List(ctx context.Context, filter ListFilter) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})
	if filter.Delivered != nil {
		query = query.Where("is_delivered = ?", *filter.Delivered)
	}
	if filter.Start != nil {
		query = query.Where("created_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("created_at <= ?", *filter.End)
	}
	if filter.Customer != "" {
		query = query.Where("LOWER(customer_name) LIKE LOWER(?)", "%"+filter.Customer+"%")
	}

	orders := []models.Order{}
	if err := query.Preload("Items", byID).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Orders) Items(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies a full edit: optional new customer details, optional
// wholesale replacement of the line items and an optional new received
// amount. Totals are recomputed from whatever items remain.
func (s *Orders) Update(ctx context.Context, id uint, in UpdateOrderInput) (*models.Order, error) {
	order, err := s.mutate(ctx, id, func(tx *gorm.DB, order *models.Order) error {
		if in.Version != nil && *in.Version != order.Version {
			return ErrVersionConflict
		}

		changes := map[string]any{}
		if in.CustomerName != nil {
			name := strings.TrimSpace(*in.CustomerName)
			if name == "" {
				return ErrCustomerNameRequired
			}
			changes["customer_name"] = name
		}
		if in.CustomerPhone != nil {
			changes["customer_phone"] = strings.TrimSpace(*in.CustomerPhone)
		}

		if in.Items != nil {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			items, err := buildItems(tx, order.ID, *in.Items)
			if err != nil {
				return err
			}
			if len(items) > 0 {
				if err := tx.Create(&items).Error; err != nil {
					return err
				}
			}
			order.Items = items
		}

		totals, err := billing.Reconcile(order.Lines(), order.Recip, in.Recip)
		if err != nil {
			return err
		}
		return save(tx, order, totals, changes)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderUpdated, order)
	return order, nil
}

func (s *Orders) UpdatePayment(ctx context.Context, id uint, in PaymentInput) (*models.Order, error) {
	order, err := s.mutate(ctx, id, func(tx *gorm.DB, order *models.Order) error {
		if in.Total != nil && *in.Total != order.Total {
			return ErrTotalMismatch
		}
		totals, err := billing.Reconcile(order.Lines(), order.Recip, in.Recip)
		if err != nil {
			return err
		}
		return save(tx, order, totals, nil)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderPaid, order)
	return order, nil
}

// MarkPaid sets recip to the total, whatever was received before.
func (s *Orders) MarkPaid(ctx context.Context, id uint) (*models.Order, error) {
	return s.settle(ctx, id, billing.Totals.MarkPaid)
}

// PayRemaining adds the outstanding balance to recip.
func (s *Orders) PayRemaining(ctx context.Context, id uint) (*models.Order, error) {
	return s.settle(ctx, id, billing.Totals.PayRemaining)
}

func (s *Orders) settle(ctx context.Context, id uint, apply func(billing.Totals) billing.Totals) (*models.Order, error) {
	order, err := s.mutate(ctx, id, func(tx *gorm.DB, order *models.Order) error {
		current, err := billing.ComputeTotals(order.Lines(), order.Recip)
		if err != nil {
			return err
		}
		return save(tx, order, apply(current), nil)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderPaid, order)
	return order, nil
}

// SetDelivered flips the delivery flag only; money fields are not touched.
func (s *Orders) SetDelivered(ctx context.Context, id uint, delivered bool) (*models.Order, error) {
	order, err := s.mutate(ctx, id, func(tx *gorm.DB, order *models.Order) error {
		return swap(tx, order, map[string]any{"is_delivered": delivered})
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderDelivered, order)
	return order, nil
}

func (s *Orders) Delete(ctx context.Context, id uint) error {
	var deleted models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deleted, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
	if err != nil {
		return err
	}
	s.publish(ctx, events.OrderDeleted, &deleted)
	return nil
}

// mutate loads the order with its items inside a transaction, runs fn and
// returns the committed state.
func (s *Orders) mutate(ctx context.Context, id uint, fn func(tx *gorm.DB, order *models.Order) error) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items", byID).First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		return fn(tx, &order)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Orders) publish(ctx context.Context, routingKey string, order *models.Order) {
	event := events.OrderEvent{
		OrderID:     order.ID,
		Version:     order.Version,
		Total:       order.Total,
		Recip:       order.Recip,
		Remained:    order.Remained,
		IsDelivered: order.IsDelivered,
		At:          time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, routingKey, event); err != nil {
		log.Printf("Failed to publish %s for order %d: %v", routingKey, order.ID, err)
	}
}

// save persists the triple together with any other column changes.
func save(tx *gorm.DB, order *models.Order, totals billing.Totals, changes map[string]any) error {
	updates := map[string]any{
		"total":    totals.Total,
		"recip":    totals.Recip,
		"remained": totals.Remained,
	}
	for column, value := range changes {
		updates[column] = value
	}
	if err := swap(tx, order, updates); err != nil {
		return err
	}
	order.ApplyTotals(totals)
	return nil
}

// swap writes updates only if nobody changed the row since it was read.
func swap(tx *gorm.DB, order *models.Order, updates map[string]any) error {
	updates["version"] = order.Version + 1
	result := tx.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	order.Version++
	return nil
}

// buildItems snapshots the submitted lines for orderID. Lines that reference a
// catalog entry get its name and category when the client left them blank.
func buildItems(tx *gorm.DB, orderID uint, inputs []ItemInput) ([]models.OrderItem, error) {
	menuItemIDs := []uint{}
	for _, in := range inputs {
		if in.MenuItemID != nil {
			menuItemIDs = append(menuItemIDs, *in.MenuItemID)
		}
	}

	menuItemMap := make(map[uint]models.MenuItem)
	if len(menuItemIDs) > 0 {
		var menuItemsFromDB []models.MenuItem
		if err := tx.Unscoped().Where("id IN ?", menuItemIDs).Find(&menuItemsFromDB).Error; err != nil {
			return nil, err
		}
		for _, menuItem := range menuItemsFromDB {
			menuItemMap[menuItem.ID] = menuItem
		}
	}

	items := make([]models.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		item := models.OrderItem{
			OrderID:    orderID,
			Category:   strings.TrimSpace(in.Category),
			MenuItemID: in.MenuItemID,
			MenuItem:   strings.TrimSpace(in.MenuItem),
			Amount:     max(in.Amount, 0),
			Price:      max(in.Price, 0),
			Note:       strings.TrimSpace(in.Note),
		}
		if in.MenuItemID != nil {
			menuItem, exists := menuItemMap[*in.MenuItemID]
			if !exists {
				return nil, ErrUnknownMenuItem
			}
			if item.MenuItem == "" {
				item.MenuItem = menuItem.Name
			}
			if item.Category == "" {
				item.Category = string(menuItem.Category)
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func byID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
