package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/pharmadist/backend/internal/domain/order"
	"github.com/pharmadist/backend/internal/domain/shared"
)

// OrderService handles order CRUD operations. State changes go through the
// LifecycleService; this service only touches orders in created.
type OrderService struct {
	orderRepo      order.Repository
	historyRepo    order.StatusHistoryRepository
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.Repository, historyRepo order.StatusHistoryRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new order in the created state
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx, req.Kind)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(req.Kind, orderNumber, req.CounterpartyID, req.CounterpartyName, req.WarehouseID)
	if err != nil {
		return nil, err
	}

	if req.StockMethod != nil {
		if err := o.SetStockMethod(*req.StockMethod); err != nil {
			return nil, err
		}
	}

	for _, item := range req.Items {
		orderItem, err := o.AddItem(item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.Discount, item.TaxRate)
		if err != nil {
			return nil, err
		}
		if item.BatchNumber != "" {
			orderItem.SetBatch(item.BatchNumber, item.ExpiryDate)
		}
	}

	if req.Remark != "" {
		o.SetRemark(req.Remark)
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// GetByOrderNumber retrieves an order by its human-readable number
func (s *OrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Kind != nil {
		domainFilter.Filters["kind"] = string(*filter.Kind)
	}
	if filter.State != nil {
		domainFilter.Filters["state"] = string(*filter.State)
	}
	if filter.CounterpartyID != nil {
		domainFilter.Filters["counterparty_id"] = *filter.CounterpartyID
	}
	if filter.WarehouseID != nil {
		domainFilter.Filters["warehouse_id"] = *filter.WarehouseID
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderListItemResponses(orders), total, nil
}

// Update updates an order (only allowed in created)
func (s *OrderService) Update(ctx context.Context, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if req.StockMethod != nil {
		if err := o.SetStockMethod(*req.StockMethod); err != nil {
			return nil, err
		}
	}

	if req.Remark != nil {
		if !o.CanModify() {
			return nil, shared.NewDomainError("INVALID_STATE", "Order can only be modified in created")
		}
		o.SetRemark(*req.Remark)
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// AddItem adds a line item to an order in created
func (s *OrderService) AddItem(ctx context.Context, orderID uuid.UUID, req OrderItemRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	item, err := o.AddItem(req.ProductID, req.ProductName, req.Quantity, req.UnitPrice, req.Discount, req.TaxRate)
	if err != nil {
		return nil, err
	}
	if req.BatchNumber != "" {
		item.SetBatch(req.BatchNumber, req.ExpiryDate)
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// UpdateItem updates a line item on an order in created
func (s *OrderService) UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, req UpdateOrderItemRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if err := o.UpdateItemQuantity(itemID, *req.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// RemoveItem removes a line item from an order in created
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// Delete deletes an order. Only orders still in created may be deleted;
// anything further along must be cancelled instead so the audit trail survives.
func (s *OrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Only orders in created can be deleted, cancel instead")
	}

	return s.orderRepo.Delete(ctx, orderID)
}

// SetPaymentStatus records settlement reported by the payment subsystem
func (s *OrderService) SetPaymentStatus(ctx context.Context, orderID uuid.UUID, req SetPaymentStatusRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.SetPaymentStatus(req.PaymentStatus); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// GetHistory returns the full transition audit trail for an order,
// ordered by time ascending.
func (s *OrderService) GetHistory(ctx context.Context, orderID uuid.UUID) ([]StatusHistoryResponse, error) {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return ToStatusHistoryResponses(entries), nil
}

func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range o.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	o.ClearDomainEvents()
}
