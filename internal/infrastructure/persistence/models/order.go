package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/backend/internal/domain/order"
)

// OrderModel is the persistence model for the Order aggregate root.
// Both entity kinds share the table; the kind column selects the
// transition table that applies.
type OrderModel struct {
	AggregateModel
	Kind             order.Kind          `gorm:"type:varchar(20);not null;index"`
	OrderNumber      string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	State            order.State         `gorm:"type:varchar(20);not null;index"`
	CounterpartyID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	CounterpartyName string              `gorm:"type:varchar(200);not null"`
	WarehouseID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	Items            []OrderItemModel    `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal         decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount        decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount   decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	FinalAmount      decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentStatus    order.PaymentStatus `gorm:"type:varchar(20);not null;default:'unpaid'"`
	StockMethod      order.StockMethod   `gorm:"type:varchar(10);not null;default:'FIFO'"`
	TrackingNumber   string              `gorm:"type:varchar(100)"`
	InvoiceNumber    string              `gorm:"type:varchar(100)"`
	CancelReason     string              `gorm:"type:varchar(500)"`
	Remark           string              `gorm:"type:text"`
	ShippedAt        *time.Time          `gorm:"index"`
	DeliveredAt      *time.Time          `gorm:"index"`
	PaidAt           *time.Time
	CancelledAt      *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Kind:              m.Kind,
		OrderNumber:       m.OrderNumber,
		State:             m.State,
		CounterpartyID:    m.CounterpartyID,
		CounterpartyName:  m.CounterpartyName,
		WarehouseID:       m.WarehouseID,
		Items:             make([]order.OrderItem, len(m.Items)),
		Subtotal:          m.Subtotal,
		TaxAmount:         m.TaxAmount,
		DiscountAmount:    m.DiscountAmount,
		FinalAmount:       m.FinalAmount,
		PaymentStatus:     m.PaymentStatus,
		StockMethod:       m.StockMethod,
		TrackingNumber:    m.TrackingNumber,
		InvoiceNumber:     m.InvoiceNumber,
		CancelReason:      m.CancelReason,
		Remark:            m.Remark,
		ShippedAt:         m.ShippedAt,
		DeliveredAt:       m.DeliveredAt,
		PaidAt:            m.PaidAt,
		CancelledAt:       m.CancelledAt,
	}
	for i, item := range m.Items {
		o.Items[i] = *item.ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Kind = o.Kind
	m.OrderNumber = o.OrderNumber
	m.State = o.State
	m.CounterpartyID = o.CounterpartyID
	m.CounterpartyName = o.CounterpartyName
	m.WarehouseID = o.WarehouseID
	m.Subtotal = o.Subtotal
	m.TaxAmount = o.TaxAmount
	m.DiscountAmount = o.DiscountAmount
	m.FinalAmount = o.FinalAmount
	m.PaymentStatus = o.PaymentStatus
	m.StockMethod = o.StockMethod
	m.TrackingNumber = o.TrackingNumber
	m.InvoiceNumber = o.InvoiceNumber
	m.CancelReason = o.CancelReason
	m.Remark = o.Remark
	m.ShippedAt = o.ShippedAt
	m.DeliveredAt = o.DeliveredAt
	m.PaidAt = o.PaidAt
	m.CancelledAt = o.CancelledAt
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(&o.Items[i])
	}
}

// OrderItemModel is the persistence model for an order line item
type OrderItemModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate          decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	BatchNumber      string          `gorm:"type:varchar(100)"`
	ExpiryDate       *time.Time
	ReturnedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem
func (m *OrderItemModel) ToDomain() *order.OrderItem {
	return &order.OrderItem{
		ID:               m.ID,
		OrderID:          m.OrderID,
		ProductID:        m.ProductID,
		ProductName:      m.ProductName,
		Quantity:         m.Quantity,
		UnitPrice:        m.UnitPrice,
		Discount:         m.Discount,
		TaxRate:          m.TaxRate,
		BatchNumber:      m.BatchNumber,
		ExpiryDate:       m.ExpiryDate,
		ReturnedQuantity: m.ReturnedQuantity,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain OrderItem
func (m *OrderItemModel) FromDomain(item *order.OrderItem) {
	m.ID = item.ID
	m.OrderID = item.OrderID
	m.ProductID = item.ProductID
	m.ProductName = item.ProductName
	m.Quantity = item.Quantity
	m.UnitPrice = item.UnitPrice
	m.Discount = item.Discount
	m.TaxRate = item.TaxRate
	m.BatchNumber = item.BatchNumber
	m.ExpiryDate = item.ExpiryDate
	m.ReturnedQuantity = item.ReturnedQuantity
	m.CreatedAt = item.CreatedAt
	m.UpdatedAt = item.UpdatedAt
}

// StatusHistoryModel is the persistence model for the append-only
// transition audit trail. Rows are inserted and read, never updated.
type StatusHistoryModel struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID   `gorm:"type:uuid;not null;index:idx_status_history_order"`
	FromState order.State `gorm:"type:varchar(20);not null"`
	ToState   order.State `gorm:"type:varchar(20);not null"`
	ChangedBy string      `gorm:"type:varchar(100);not null"`
	ChangedAt time.Time   `gorm:"not null;index:idx_status_history_order"`
	Notes     string      `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StatusHistoryModel) TableName() string {
	return "order_status_history"
}

// ToDomain converts the persistence model to a domain StatusHistoryEntry
func (m *StatusHistoryModel) ToDomain() *order.StatusHistoryEntry {
	return &order.StatusHistoryEntry{
		ID:        m.ID,
		OrderID:   m.OrderID,
		FromState: m.FromState,
		ToState:   m.ToState,
		ChangedBy: m.ChangedBy,
		ChangedAt: m.ChangedAt,
		Notes:     m.Notes,
	}
}

// FromDomain populates the persistence model from a domain StatusHistoryEntry
func (m *StatusHistoryModel) FromDomain(e *order.StatusHistoryEntry) {
	m.ID = e.ID
	m.OrderID = e.OrderID
	m.FromState = e.FromState
	m.ToState = e.ToState
	m.ChangedBy = e.ChangedBy
	m.ChangedAt = e.ChangedAt
	m.Notes = e.Notes
}
