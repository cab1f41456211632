package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/backend/internal/domain/shared"
	"github.com/pharmadist/backend/internal/domain/shared/valueobject"
)

// PaymentStatus tracks settlement of the order's receivable/payable.
// It is orthogonal to the lifecycle state; the lifecycle engine only reads it.
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPending, PaymentStatusPaid:
		return true
	}
	return false
}

// StockMethod determines which stock batch is consumed first when reserving
type StockMethod string

const (
	StockMethodFIFO StockMethod = "FIFO"
	StockMethodLIFO StockMethod = "LIFO"
)

// IsValid checks if the method is a known stock method
func (m StockMethod) IsValid() bool {
	return m == StockMethodFIFO || m == StockMethodLIFO
}

// TransitionMetadata carries per-transition input from the caller.
// Which fields are required depends on the target state.
type TransitionMetadata struct {
	Actor          string
	Notes          string
	TrackingNumber string // required for shipped (may be filled by the carrier adapter)
	InvoiceNumber  string // required for invoiced
	Reason         string // required for cancelled and returned
}

// OrderItem represents a line item on an order.
// Lines are immutable once the order leaves created, except for the
// returned-quantity counter maintained by the returns subsystem.
type OrderItem struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	ProductID        uuid.UUID
	ProductName      string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	Discount         decimal.Decimal // absolute line-level discount
	TaxRate          decimal.Decimal // e.g. 0.19 for 19%
	BatchNumber      string          // preferred batch, optional
	ExpiryDate       *time.Time
	ReturnedQuantity decimal.Decimal // accumulated from completed returns
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewOrderItem creates a new order line item
func NewOrderItem(orderID, productID uuid.UUID, productName string, quantity, unitPrice, discount, taxRate decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.GreaterThan(quantity.Mul(unitPrice)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the line amount")
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	now := time.Now()
	return &OrderItem{
		ID:               uuid.New(),
		OrderID:          orderID,
		ProductID:        productID,
		ProductName:      productName,
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		Discount:         discount,
		TaxRate:          taxRate,
		ReturnedQuantity: decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// SetBatch sets the preferred batch and expiry for the line
func (i *OrderItem) SetBatch(batchNumber string, expiryDate *time.Time) {
	i.BatchNumber = batchNumber
	i.ExpiryDate = expiryDate
	i.UpdatedAt = time.Now()
}

// LineAmount returns quantity * unit price before discount and tax
func (i *OrderItem) LineAmount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// TaxAmount returns the tax on the discounted line amount
func (i *OrderItem) TaxAmount() decimal.Decimal {
	return i.LineAmount().Sub(i.Discount).Mul(i.TaxRate).Round(2)
}

// NetUnitPrice returns the unit price minus the per-unit share of the
// line discount. Used for pro-rating refunds on returns.
func (i *OrderItem) NetUnitPrice() decimal.Decimal {
	if i.Quantity.IsZero() {
		return decimal.Zero
	}
	return i.UnitPrice.Sub(i.Discount.Div(i.Quantity)).Round(4)
}

// ReturnableQuantity returns the quantity not yet consumed by returns
func (i *OrderItem) ReturnableQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.ReturnedQuantity)
}

// Order is the aggregate root for both purchase orders and customer orders.
// The Kind tag selects which transition table applies; everything else is
// shared between the two kinds.
type Order struct {
	shared.BaseAggregateRoot
	Kind             Kind
	OrderNumber      string
	State            State
	CounterpartyID   uuid.UUID // supplier (PO) or retailer (customer order)
	CounterpartyName string
	WarehouseID      uuid.UUID
	Items            []OrderItem
	Subtotal         decimal.Decimal
	TaxAmount        decimal.Decimal
	DiscountAmount   decimal.Decimal
	FinalAmount      decimal.Decimal
	PaymentStatus    PaymentStatus
	StockMethod      StockMethod
	TrackingNumber   string
	InvoiceNumber    string
	CancelReason     string
	Remark           string
	ShippedAt        *time.Time
	DeliveredAt      *time.Time
	PaidAt           *time.Time
	CancelledAt      *time.Time
}

// NewOrder creates a new order in the created state
func NewOrder(kind Kind, orderNumber string, counterpartyID uuid.UUID, counterpartyName string, warehouseID uuid.UUID) (*Order, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown order kind")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty ID cannot be empty")
	}
	if counterpartyName == "" {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY_NAME", "Counterparty name cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		OrderNumber:       orderNumber,
		State:             StateCreated,
		CounterpartyID:    counterpartyID,
		CounterpartyName:  counterpartyName,
		WarehouseID:       warehouseID,
		Items:             make([]OrderItem, 0),
		Subtotal:          decimal.Zero,
		TaxAmount:         decimal.Zero,
		DiscountAmount:    decimal.Zero,
		FinalAmount:       decimal.Zero,
		PaymentStatus:     PaymentStatusUnpaid,
		StockMethod:       StockMethodFIFO,
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// SetStockMethod overrides the default FIFO allocation method.
// Only allowed while in created, before any reservation exists.
func (o *Order) SetStockMethod(method StockMethod) error {
	if o.State != StateCreated {
		return shared.NewDomainError("INVALID_STATE", "Stock method can only be changed while the order is in created")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_STOCK_METHOD", "Stock method must be FIFO or LIFO")
	}
	o.StockMethod = method
	o.UpdatedAt = time.Now()
	return nil
}

// SetPaymentStatus records the settlement status reported by the payment
// subsystem. The lifecycle engine never calls this; it only gates on it.
func (o *Order) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status")
	}
	o.PaymentStatus = status
	o.UpdatedAt = time.Now()
	return nil
}

// SetRemark sets the order remark
func (o *Order) SetRemark(remark string) {
	o.Remark = remark
	o.UpdatedAt = time.Now()
}

// AddItem adds a new line item. Only allowed in created.
func (o *Order) AddItem(productID uuid.UUID, productName string, quantity, unitPrice, discount, taxRate decimal.Decimal) (*OrderItem, error) {
	if o.State != StateCreated {
		return nil, shared.NewDomainError("INVALID_STATE", "Items are immutable once the order leaves created")
	}
	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists on order, update quantity instead")
		}
	}

	item, err := NewOrderItem(o.ID, productID, productName, quantity, unitPrice, discount, taxRate)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateAmounts()
	o.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates a line quantity. Only allowed in created.
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.State != StateCreated {
		return shared.NewDomainError("INVALID_STATE", "Items are immutable once the order leaves created")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			o.Items[idx].Quantity = quantity
			o.Items[idx].UpdatedAt = time.Now()
			o.recalculateAmounts()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes a line item. Only allowed in created.
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if o.State != StateCreated {
		return shared.NewDomainError("INVALID_STATE", "Items are immutable once the order leaves created")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateAmounts()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// CanTransitionTo checks the transition against the table only: the order
// must not be terminal and the edge must exist for its kind. Metadata is not
// inspected, so callers can rule out an illegal move before producing the
// metadata it would need.
func (o *Order) CanTransitionTo(to State) error {
	if IsTerminal(o.Kind, o.State) {
		return shared.NewDomainError("ILLEGAL_TRANSITION",
			fmt.Sprintf("Order is in terminal state %s", o.State))
	}
	if !IsLegal(o.Kind, o.State, to) {
		return shared.NewDomainError("ILLEGAL_TRANSITION",
			fmt.Sprintf("Cannot transition %s order from %s to %s", o.Kind, o.State, to))
	}
	return nil
}

// CanApply validates a requested transition without mutating the order.
// Checks run in a fixed order: terminal/legality first, then metadata
// completeness, then the payment gate.
func (o *Order) CanApply(to State, meta TransitionMetadata) error {
	if err := o.CanTransitionTo(to); err != nil {
		return err
	}

	switch to {
	case StateShipped:
		if meta.TrackingNumber == "" {
			return shared.NewDomainError("INCOMPLETE_METADATA", "A tracking number is required to mark an order shipped")
		}
	case StateInvoiced:
		if meta.InvoiceNumber == "" {
			return shared.NewDomainError("INCOMPLETE_METADATA", "An invoice number is required to invoice an order")
		}
	case StateCancelled, StateReturned:
		if meta.Reason == "" {
			return shared.NewDomainError("INCOMPLETE_METADATA",
				fmt.Sprintf("A reason is required to mark an order %s", to))
		}
	}

	if o.State == StateCreated && to != StateCancelled && len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit an order without items")
	}

	if to == StatePaid && o.PaymentStatus != PaymentStatusPaid {
		return shared.NewDomainError("PAYMENT_NOT_SETTLED", "Order cannot be marked paid before payment is settled")
	}

	return nil
}

// ApplyTransition validates and applies a transition, returning the
// status-history entry that records it. Exactly one entry per success.
func (o *Order) ApplyTransition(to State, meta TransitionMetadata) (*StatusHistoryEntry, error) {
	if err := o.CanApply(to, meta); err != nil {
		return nil, err
	}

	from := o.State
	now := time.Now()
	o.State = to
	o.UpdatedAt = now

	switch to {
	case StateShipped:
		o.TrackingNumber = meta.TrackingNumber
		o.ShippedAt = &now
	case StateDelivered:
		o.DeliveredAt = &now
	case StateInvoiced:
		o.InvoiceNumber = meta.InvoiceNumber
	case StatePaid:
		o.PaidAt = &now
	case StateCancelled:
		o.CancelReason = meta.Reason
		o.CancelledAt = &now
	}

	o.AddDomainEvent(NewOrderStateChangedEvent(o, from, to, meta.Actor))
	if to == StateInvoiced {
		o.AddDomainEvent(NewOrderInvoicedEvent(o, meta.InvoiceNumber))
	}

	entry := NewStatusHistoryEntry(o.ID, from, to, meta.Actor, meta.Notes)
	return entry, nil
}

// RegisterReturnedQuantity records quantity consumed by a completed return.
// This is the one permitted mutation of a line after the order leaves created.
func (o *Order) RegisterReturnedQuantity(productID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Returned quantity must be positive")
	}

	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			if quantity.GreaterThan(o.Items[idx].ReturnableQuantity()) {
				return shared.NewDomainError("QUANTITY_EXCEEDED", "Returned quantity exceeds the returnable balance")
			}
			o.Items[idx].ReturnedQuantity = o.Items[idx].ReturnedQuantity.Add(quantity)
			o.Items[idx].UpdatedAt = time.Now()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not present on the order")
}

// recalculateAmounts recomputes the derived amounts from the lines.
// Only called while the order is in created; amounts freeze afterwards.
func (o *Order) recalculateAmounts() {
	subtotal := decimal.Zero
	discount := decimal.Zero
	tax := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineAmount())
		discount = discount.Add(item.Discount)
		tax = tax.Add(item.TaxAmount())
	}
	o.Subtotal = subtotal
	o.DiscountAmount = discount
	o.TaxAmount = tax
	o.FinalAmount = subtotal.Sub(discount).Add(tax)
}

// GetFinalAmountMoney returns the final amount as Money
func (o *Order) GetFinalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.FinalAmount)
}

// GetItem returns a line item by its ID
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// GetItemByProduct returns a line item by product ID
func (o *Order) GetItemByProduct(productID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// IsTerminal returns true if the order is in a terminal state
func (o *Order) IsTerminal() bool {
	return IsTerminal(o.Kind, o.State)
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.State == StateCancelled
}

// IsDelivered reports whether the order reached delivered (it may have moved
// further along the forward path since). Used by the returns subsystem.
func (o *Order) IsDelivered() bool {
	switch o.State {
	case StateDelivered, StateInvoiced, StatePaid, StateReturned:
		return true
	}
	return false
}

// CanModify returns true if line items may be edited
func (o *Order) CanModify() bool {
	return o.State == StateCreated
}
