package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/backend/internal/domain/order"
)

// CreateOrderRequest represents the request to create an order
type CreateOrderRequest struct {
	Kind             order.Kind         `json:"kind" binding:"required"`
	CounterpartyID   uuid.UUID          `json:"counterparty_id" binding:"required"`
	CounterpartyName string             `json:"counterparty_name" binding:"required"`
	WarehouseID      uuid.UUID          `json:"warehouse_id" binding:"required"`
	StockMethod      *order.StockMethod `json:"stock_method,omitempty"`
	Items            []OrderItemRequest `json:"items"`
	Remark           string             `json:"remark,omitempty"`
}

// OrderItemRequest represents one line in a create or add-item request
type OrderItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	Discount    decimal.Decimal `json:"discount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	BatchNumber string          `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
}

// UpdateOrderRequest represents the request to update an order in created
type UpdateOrderRequest struct {
	StockMethod *order.StockMethod `json:"stock_method,omitempty"`
	Remark      *string            `json:"remark,omitempty"`
}

// UpdateOrderItemRequest represents the request to update an order item
type UpdateOrderItemRequest struct {
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
}

// TransitionRequest represents the request to apply a lifecycle transition
type TransitionRequest struct {
	To              order.State `json:"to" binding:"required"`
	Actor           string      `json:"actor" binding:"required"`
	Notes           string      `json:"notes,omitempty"`
	TrackingNumber  string      `json:"tracking_number,omitempty"`
	InvoiceNumber   string      `json:"invoice_number,omitempty"`
	Reason          string      `json:"reason,omitempty"`
	ExpectedVersion *int        `json:"expected_version,omitempty"`
}

// SetPaymentStatusRequest records settlement reported by the payment side
type SetPaymentStatusRequest struct {
	PaymentStatus order.PaymentStatus `json:"payment_status" binding:"required"`
}

// OrderListFilter represents filtering options for order listing
type OrderListFilter struct {
	Page           int          `form:"page"`
	PageSize       int          `form:"page_size"`
	OrderBy        string       `form:"order_by"`
	OrderDir       string       `form:"order_dir"`
	Search         string       `form:"search"`
	Kind           *order.Kind  `form:"kind"`
	State          *order.State `form:"state"`
	CounterpartyID *uuid.UUID   `form:"counterparty_id"`
	WarehouseID    *uuid.UUID   `form:"warehouse_id"`
	StartDate      *time.Time   `form:"start_date"`
	EndDate        *time.Time   `form:"end_date"`
}

// OrderItemResponse represents an order line in responses
type OrderItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Discount         decimal.Decimal `json:"discount"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	BatchNumber      string          `json:"batch_number,omitempty"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
	ReturnedQuantity decimal.Decimal `json:"returned_quantity"`
	LineAmount       decimal.Decimal `json:"line_amount"`
}

// OrderResponse represents an order in responses
type OrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	Kind             order.Kind          `json:"kind"`
	OrderNumber      string              `json:"order_number"`
	State            order.State         `json:"state"`
	NextStates       []order.State       `json:"next_states"`
	CounterpartyID   uuid.UUID           `json:"counterparty_id"`
	CounterpartyName string              `json:"counterparty_name"`
	WarehouseID      uuid.UUID           `json:"warehouse_id"`
	Items            []OrderItemResponse `json:"items"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	DiscountAmount   decimal.Decimal     `json:"discount_amount"`
	TaxAmount        decimal.Decimal     `json:"tax_amount"`
	FinalAmount      decimal.Decimal     `json:"final_amount"`
	PaymentStatus    order.PaymentStatus `json:"payment_status"`
	StockMethod      order.StockMethod   `json:"stock_method"`
	TrackingNumber   string              `json:"tracking_number,omitempty"`
	InvoiceNumber    string              `json:"invoice_number,omitempty"`
	CancelReason     string              `json:"cancel_reason,omitempty"`
	Remark           string              `json:"remark,omitempty"`
	Version          int                 `json:"version"`
	ShippedAt        *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt      *time.Time          `json:"delivered_at,omitempty"`
	PaidAt           *time.Time          `json:"paid_at,omitempty"`
	CancelledAt      *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// OrderListItemResponse represents an order in list responses
type OrderListItemResponse struct {
	ID               uuid.UUID           `json:"id"`
	Kind             order.Kind          `json:"kind"`
	OrderNumber      string              `json:"order_number"`
	State            order.State         `json:"state"`
	CounterpartyName string              `json:"counterparty_name"`
	ItemCount        int                 `json:"item_count"`
	FinalAmount      decimal.Decimal     `json:"final_amount"`
	PaymentStatus    order.PaymentStatus `json:"payment_status"`
	CreatedAt        time.Time           `json:"created_at"`
}

// StatusHistoryResponse represents one audit-trail entry in responses
type StatusHistoryResponse struct {
	ID        uuid.UUID   `json:"id"`
	OrderID   uuid.UUID   `json:"order_id"`
	FromState order.State `json:"from_state"`
	ToState   order.State `json:"to_state"`
	ChangedBy string      `json:"changed_by"`
	ChangedAt time.Time   `json:"changed_at"`
	Notes     string      `json:"notes,omitempty"`
}

// ToOrderItemResponse converts a domain order item to its response DTO
func ToOrderItemResponse(item order.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:               item.ID,
		ProductID:        item.ProductID,
		ProductName:      item.ProductName,
		Quantity:         item.Quantity,
		UnitPrice:        item.UnitPrice,
		Discount:         item.Discount,
		TaxRate:          item.TaxRate,
		BatchNumber:      item.BatchNumber,
		ExpiryDate:       item.ExpiryDate,
		ReturnedQuantity: item.ReturnedQuantity,
		LineAmount:       item.LineAmount(),
	}
}

// ToOrderResponse converts a domain order to its response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ToOrderItemResponse(item))
	}

	return OrderResponse{
		ID:               o.ID,
		Kind:             o.Kind,
		OrderNumber:      o.OrderNumber,
		State:            o.State,
		NextStates:       order.NextStates(o.Kind, o.State),
		CounterpartyID:   o.CounterpartyID,
		CounterpartyName: o.CounterpartyName,
		WarehouseID:      o.WarehouseID,
		Items:            items,
		Subtotal:         o.Subtotal,
		DiscountAmount:   o.DiscountAmount,
		TaxAmount:        o.TaxAmount,
		FinalAmount:      o.FinalAmount,
		PaymentStatus:    o.PaymentStatus,
		StockMethod:      o.StockMethod,
		TrackingNumber:   o.TrackingNumber,
		InvoiceNumber:    o.InvoiceNumber,
		CancelReason:     o.CancelReason,
		Remark:           o.Remark,
		Version:          o.Version,
		ShippedAt:        o.ShippedAt,
		DeliveredAt:      o.DeliveredAt,
		PaidAt:           o.PaidAt,
		CancelledAt:      o.CancelledAt,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// ToOrderListItemResponses converts domain orders to list-item DTOs
func ToOrderListItemResponses(orders []order.Order) []OrderListItemResponse {
	responses := make([]OrderListItemResponse, 0, len(orders))
	for idx := range orders {
		o := &orders[idx]
		responses = append(responses, OrderListItemResponse{
			ID:               o.ID,
			Kind:             o.Kind,
			OrderNumber:      o.OrderNumber,
			State:            o.State,
			CounterpartyName: o.CounterpartyName,
			ItemCount:        o.ItemCount(),
			FinalAmount:      o.FinalAmount,
			PaymentStatus:    o.PaymentStatus,
			CreatedAt:        o.CreatedAt,
		})
	}
	return responses
}

// ToStatusHistoryResponses converts history entries to response DTOs
func ToStatusHistoryResponses(entries []order.StatusHistoryEntry) []StatusHistoryResponse {
	responses := make([]StatusHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, StatusHistoryResponse{
			ID:        entry.ID,
			OrderID:   entry.OrderID,
			FromState: entry.FromState,
			ToState:   entry.ToState,
			ChangedBy: entry.ChangedBy,
			ChangedAt: entry.ChangedAt,
			Notes:     entry.Notes,
		})
	}
	return responses
}
