package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"order-desk/billing"
	"order-desk/reports"
	"order-desk/store"
)

// OrderItemRequest is one line of the "orders" array. Amount and price are
// loosely typed: anything that is not a non-negative number counts as zero.
type OrderItemRequest struct {
	Category   string `json:"category"`
	MenuItemID *uint  `json:"menuItemId"`
	MenuItem   string `json:"menuItem"`
	Amount     any    `json:"amount"`
	Price      any    `json:"price"`
	Note       string `json:"note"`
}

type CustomerRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

// CreateOrderRequest accepts either a flat customerName or a nested customer
// object.
type CreateOrderRequest struct {
	CustomerName  string             `json:"customerName"`
	CustomerPhone string             `json:"customerPhone"`
	Customer      *CustomerRequest   `json:"customer"`
	Orders        []OrderItemRequest `json:"orders"`
	Recip         *billing.Money     `json:"recip"`
}

type UpdateOrderRequest struct {
	CustomerName  *string             `json:"customerName"`
	CustomerPhone *string             `json:"customerPhone"`
	Orders        *[]OrderItemRequest `json:"orders"`
	Recip         *billing.Money      `json:"recip"`
	Version       *uint               `json:"version"`
}

type UpdatePaymentRequest struct {
	Recip *billing.Money `json:"recip"`
	Total *billing.Money `json:"total"`
}

type DeliveryRequest struct {
	IsDelivered *bool `json:"isDelivered" binding:"required"`
}

func toItemInputs(requests []OrderItemRequest) ([]store.ItemInput, error) {
	inputs := make([]store.ItemInput, 0, len(requests))
	for _, r := range requests {
		amount, err := billing.CoerceQuantity(r.Amount)
		if err != nil {
			return nil, err
		}
		price, err := billing.CoerceMoney(r.Price)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, store.ItemInput{
			Category:   r.Category,
			MenuItemID: r.MenuItemID,
			MenuItem:   r.MenuItem,
			Amount:     amount,
			Price:      price,
			Note:       r.Note,
		})
	}
	return inputs, nil
}

func (h *Handler) CreateOrderHandler(c *gin.Context) {
	var request CreateOrderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := toItemInputs(request.Orders)
	if err != nil {
		respondError(c, err)
		return
	}

	input := store.CreateOrderInput{
		CustomerName:  request.CustomerName,
		CustomerPhone: request.CustomerPhone,
		Items:         items,
		Recip:         request.Recip,
	}
	if request.Customer != nil {
		if strings.TrimSpace(input.CustomerName) == "" {
			input.CustomerName = request.Customer.Name
		}
		if input.CustomerPhone == "" {
			input.CustomerPhone = request.Customer.PhoneNumber
		}
	}

	order, err := h.orders.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) ListOrdersHandler(c *gin.Context) {
	var filter store.ListFilter

	if deliveredQuery := c.Query("delivered"); deliveredQuery != "" {
		delivered, err := strconv.ParseBool(deliveredQuery)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delivered must be true or false"})
			return
		}
		filter.Delivered = &delivered
	}

	dateRange, err := reports.ParseRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondError(c, err)
		return
	}
	filter.Start, filter.End = dateRange.Start, dateRange.End
	filter.Customer = strings.TrimSpace(c.Query("customer"))

	orders, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrderHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderHandler takes the expected version from the body or, failing
// that, from an If-Match header.
func (h *Handler) UpdateOrderHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var request UpdateOrderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if request.Version == nil {
		if ifMatch := strings.Trim(c.GetHeader("If-Match"), `" `); ifMatch != "" {
			version, err := strconv.ParseUint(ifMatch, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "If-Match must be an order version"})
				return
			}
			v := uint(version)
			request.Version = &v
		}
	}

	input := store.UpdateOrderInput{
		CustomerName:  request.CustomerName,
		CustomerPhone: request.CustomerPhone,
		Recip:         request.Recip,
		Version:       request.Version,
	}
	if request.Orders != nil {
		items, err := toItemInputs(*request.Orders)
		if err != nil {
			respondError(c, err)
			return
		}
		input.Items = &items
	}

	order, err := h.orders.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateOrderPaymentHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var request UpdatePaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.UpdatePayment(c.Request.Context(), id, store.PaymentInput{
		Recip: request.Recip,
		Total: request.Total,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) MarkOrderAsPaidHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.MarkPaid(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) PayRemainingHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.PayRemaining(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateDeliveryHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var request DeliveryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "isDelivered must be a boolean"})
		return
	}

	order, err := h.orders.SetDelivered(c.Request.Context(), id, *request.IsDelivered)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) DeleteOrderHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
