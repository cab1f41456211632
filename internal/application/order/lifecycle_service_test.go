package order

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/pharmadist/backend/internal/domain/inventory"
	"github.com/pharmadist/backend/internal/domain/order"
	"github.com/pharmadist/backend/internal/domain/returns"
	"github.com/pharmadist/backend/internal/domain/shared"
	"github.com/pharmadist/backend/internal/domain/shipping"
)

// ============================================
// In-memory fakes
// ============================================

type memOrderRepo struct {
	orders map[uuid.UUID]*order.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]*order.Order)}
}

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *memOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*order.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]order.Order, error) {
	out := make([]order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *memOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *memOrderRepo) Save(_ context.Context, o *order.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *memOrderRepo) SaveWithLock(_ context.Context, o *order.Order) error {
	o.IncrementVersion()
	r.orders[o.ID] = o
	return nil
}

func (r *memOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

func (r *memOrderRepo) GenerateOrderNumber(_ context.Context, kind order.Kind) (string, error) {
	if kind == order.KindPurchaseOrder {
		return "PO-2026-00001", nil
	}
	return "CO-2026-00001", nil
}

// versionedOrderRepo hands out copies and enforces the optimistic version
// check on save, the way the gorm repository does with its conditional
// UPDATE. Safe for concurrent callers.
type versionedOrderRepo struct {
	*memOrderRepo
	mu sync.Mutex
}

func newVersionedOrderRepo() *versionedOrderRepo {
	return &versionedOrderRepo{memOrderRepo: newMemOrderRepo()}
}

func (r *versionedOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, err := r.memOrderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c := *o
	c.Items = append([]order.OrderItem(nil), o.Items...)
	return &c, nil
}

func (r *versionedOrderRepo) SaveWithLock(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[o.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != o.Version {
		return shared.ErrConcurrencyConflict
	}
	o.IncrementVersion()
	c := *o
	c.ClearDomainEvents()
	r.orders[o.ID] = &c
	return nil
}

type memHistoryRepo struct {
	mu      sync.Mutex
	entries []order.StatusHistoryEntry
}

func (r *memHistoryRepo) Append(_ context.Context, entry *order.StatusHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memHistoryRepo) FindByOrder(_ context.Context, orderID uuid.UUID) ([]order.StatusHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]order.StatusHistoryEntry, 0)
	for _, e := range r.entries {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memHistoryRepo) CountByOrder(_ context.Context, orderID uuid.UUID) (int64, error) {
	entries, _ := r.FindByOrder(context.Background(), orderID)
	return int64(len(entries)), nil
}

type memCreditNoteRepo struct {
	approvedByOrder map[uuid.UUID]decimal.Decimal
}

func newMemCreditNoteRepo() *memCreditNoteRepo {
	return &memCreditNoteRepo{approvedByOrder: make(map[uuid.UUID]decimal.Decimal)}
}

func (r *memCreditNoteRepo) FindByID(_ context.Context, _ uuid.UUID) (*returns.CreditNote, error) {
	return nil, shared.ErrNotFound
}

func (r *memCreditNoteRepo) FindByReturn(_ context.Context, _ uuid.UUID) (*returns.CreditNote, error) {
	return nil, shared.ErrNotFound
}

func (r *memCreditNoteRepo) ExistsByReturn(_ context.Context, _ uuid.UUID) (bool, error) {
	return false, nil
}

func (r *memCreditNoteRepo) SumApprovedByOrder(_ context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	if sum, ok := r.approvedByOrder[orderID]; ok {
		return sum, nil
	}
	return decimal.Zero, nil
}

func (r *memCreditNoteRepo) Save(_ context.Context, _ *returns.CreditNote) error {
	return nil
}

// memLedger is a map-backed inventory ledger. Reserve is all-or-nothing:
// availability is checked for every line before any hold is taken.
type memLedger struct {
	mu           sync.Mutex
	available    map[uuid.UUID]decimal.Decimal
	reservations map[uuid.UUID][]inventory.Reservation
	credits      []decimal.Decimal
}

func newMemLedger() *memLedger {
	return &memLedger{
		available:    make(map[uuid.UUID]decimal.Decimal),
		reservations: make(map[uuid.UUID][]inventory.Reservation),
	}
}

func (l *memLedger) addStock(productID uuid.UUID, quantity int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.available[productID] = l.available[productID].Add(decimal.NewFromInt(quantity))
}

func (l *memLedger) Reserve(_ context.Context, orderID, warehouseID uuid.UUID, lines []inventory.ReservationLine, method inventory.Method) ([]inventory.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range lines {
		if line.Quantity.GreaterThan(l.available[line.ProductID]) {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
		}
	}

	out := make([]inventory.Reservation, 0, len(lines))
	for _, line := range lines {
		l.available[line.ProductID] = l.available[line.ProductID].Sub(line.Quantity)
		res := inventory.NewReservation(orderID, line.ProductID, warehouseID, "LOT-001", line.Quantity, method)
		l.reservations[orderID] = append(l.reservations[orderID], *res)
		out = append(out, *res)
	}
	return out, nil
}

func (l *memLedger) Release(_ context.Context, orderID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, res := range l.reservations[orderID] {
		l.available[res.ProductID] = l.available[res.ProductID].Add(res.Quantity)
	}
	delete(l.reservations, orderID)
	return nil
}

func (l *memLedger) Debit(_ context.Context, orderID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.reservations, orderID)
	return nil
}

func (l *memLedger) Credit(_ context.Context, productID, _ uuid.UUID, _ string, quantity decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.available[productID] = l.available[productID].Add(quantity)
	l.credits = append(l.credits, quantity)
	return nil
}

func (l *memLedger) Availability(_ context.Context, productID, warehouseID uuid.UUID) (*inventory.Availability, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &inventory.Availability{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Available:   l.available[productID],
	}, nil
}

type fakeCarrier struct {
	tracking string
	err      error
	calls    int
}

func (c *fakeCarrier) CreateLabel(_ context.Context, _ shipping.LabelRequest) (*shipping.Label, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &shipping.Label{TrackingNumber: c.tracking, Carrier: "fake"}, nil
}

type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

// ============================================
// Test fixture
// ============================================

type lifecycleFixture struct {
	svc         *LifecycleService
	orders      *memOrderRepo
	history     *memHistoryRepo
	creditNotes *memCreditNoteRepo
	ledger      *memLedger
	carrier     *fakeCarrier
	publisher   *capturingPublisher
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	f := &lifecycleFixture{
		orders:      newMemOrderRepo(),
		history:     &memHistoryRepo{},
		creditNotes: newMemCreditNoteRepo(),
		ledger:      newMemLedger(),
		carrier:     &fakeCarrier{tracking: "FAKE-20260101-000001"},
		publisher:   &capturingPublisher{},
	}

	scope := NewNoOpTransactionScope(f.orders, f.history, f.creditNotes, f.ledger)
	f.svc = NewLifecycleService(scope, f.carrier, zap.NewNop(), noop.NewTracerProvider().Tracer("test"))
	f.svc.SetEventPublisher(f.publisher)
	return f
}

// seedOrder creates an order with a single 10-unit line and stores it.
func (f *lifecycleFixture) seedOrder(t *testing.T, kind order.Kind, stock int64) (*order.Order, uuid.UUID) {
	o, err := order.NewOrder(kind, "PO-2026-00042", uuid.New(), "Acme Pharma", uuid.New())
	require.NoError(t, err)

	productID := uuid.New()
	_, err = o.AddItem(productID, "Amoxicillin 500mg",
		decimal.NewFromInt(10), decimal.NewFromInt(8), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	o.ClearDomainEvents()

	require.NoError(t, f.orders.Save(context.Background(), o))
	f.ledger.addStock(productID, stock)
	return o, productID
}

func (f *lifecycleFixture) transition(t *testing.T, orderID uuid.UUID, req TransitionRequest) *OrderResponse {
	if req.Actor == "" {
		req.Actor = "tester"
	}
	resp, err := f.svc.Transition(context.Background(), orderID, req)
	require.NoError(t, err)
	return resp
}

// ============================================
// Tests
// ============================================

func TestLifecycleService_FullPurchaseOrderLifecycle(t *testing.T) {
	f := newLifecycleFixture(t)
	o, _ := f.seedOrder(t, order.KindPurchaseOrder, 100)
	ctx := context.Background()

	f.transition(t, o.ID, TransitionRequest{To: order.StatePendingApproval})
	f.transition(t, o.ID, TransitionRequest{To: order.StateApproved})

	resp := f.transition(t, o.ID, TransitionRequest{To: order.StateConfirmed})
	assert.Equal(t, order.StateConfirmed, resp.State)
	assert.Len(t, f.ledger.reservations[o.ID], 1, "confirmed places the reservation")

	f.transition(t, o.ID, TransitionRequest{To: order.StatePacked})

	resp = f.transition(t, o.ID, TransitionRequest{To: order.StateShipped})
	assert.Equal(t, "FAKE-20260101-000001", resp.TrackingNumber, "carrier label fills the tracking number")
	assert.Empty(t, f.ledger.reservations[o.ID], "shipping consumes the reservation")

	f.transition(t, o.ID, TransitionRequest{To: order.StateDelivered})
	f.transition(t, o.ID, TransitionRequest{To: order.StateInvoiced, InvoiceNumber: "INV-1001"})

	require.NoError(t, o.SetPaymentStatus(order.PaymentStatusPaid))
	resp = f.transition(t, o.ID, TransitionRequest{To: order.StatePaid})
	assert.Equal(t, order.StatePaid, resp.State)
	assert.Empty(t, resp.NextStates, "paid is terminal")

	entries, err := f.history.FindByOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, entries, 8, "one entry per applied transition")

	wantPath := []order.State{
		order.StatePendingApproval, order.StateApproved, order.StateConfirmed,
		order.StatePacked, order.StateShipped, order.StateDelivered,
		order.StateInvoiced, order.StatePaid,
	}
	prev := order.StateCreated
	for i, entry := range entries {
		assert.Equal(t, prev, entry.FromState, "entry %d from", i)
		assert.Equal(t, wantPath[i], entry.ToState, "entry %d to", i)
		prev = entry.ToState
	}
	assert.Equal(t, order.StatePaid, order.ReplayState(entries))
}

func TestLifecycleService_ConfirmInsufficientStock(t *testing.T) {
	f := newLifecycleFixture(t)
	o, _ := f.seedOrder(t, order.KindPurchaseOrder, 3) // order wants 10
	ctx := context.Background()

	f.transition(t, o.ID, TransitionRequest{To: order.StatePendingApproval})
	f.transition(t, o.ID, TransitionRequest{To: order.StateApproved})

	_, err := f.svc.Transition(ctx, o.ID, TransitionRequest{To: order.StateConfirmed, Actor: "tester"})
	require.Error(t, err)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "INSUFFICIENT_STOCK", de.Code)

	assert.Equal(t, order.StateApproved, o.State, "failed transition leaves the state untouched")
	assert.Empty(t, f.ledger.reservations[o.ID], "no partial reservation is left behind")

	count, err := f.history.CountByOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "no history entry for the rejected attempt")
}

func TestLifecycleService_CancelReleasesReservations(t *testing.T) {
	f := newLifecycleFixture(t)
	o, productID := f.seedOrder(t, order.KindPurchaseOrder, 10)

	f.transition(t, o.ID, TransitionRequest{To: order.StatePendingApproval})
	f.transition(t, o.ID, TransitionRequest{To: order.StateApproved})
	f.transition(t, o.ID, TransitionRequest{To: order.StateConfirmed})

	assert.True(t, f.ledger.available[productID].IsZero(), "confirm holds all the stock")

	resp := f.transition(t, o.ID, TransitionRequest{To: order.StateCancelled, Reason: "supplier recall"})
	assert.Equal(t, order.StateCancelled, resp.State)
	assert.Empty(t, f.ledger.reservations[o.ID])
	assert.True(t, f.ledger.available[productID].Equal(decimal.NewFromInt(10)), "cancel returns the held stock")
}

func TestLifecycleService_CancelBeforeConfirmIsNoOpOnLedger(t *testing.T) {
	f := newLifecycleFixture(t)
	o, productID := f.seedOrder(t, order.KindPurchaseOrder, 10)

	f.transition(t, o.ID, TransitionRequest{To: order.StatePendingApproval})
	resp := f.transition(t, o.ID, TransitionRequest{To: order.StateCancelled, Reason: "duplicate order"})

	assert.Equal(t, order.StateCancelled, resp.State)
	assert.True(t, f.ledger.available[productID].Equal(decimal.NewFromInt(10)), "nothing was reserved, nothing changes")
}

func TestLifecycleService_VersionConflict(t *testing.T) {
	f := newLifecycleFixture(t)
	o, _ := f.seedOrder(t, order.KindPurchaseOrder, 100)
	ctx := context.Background()

	stale := o.Version - 1
	_, err := f.svc.Transition(ctx, o.ID, TransitionRequest{
		To:              order.StatePendingApproval,
		Actor:           "tester",
		ExpectedVersion: &stale,
	})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Equal(t, order.StateCreated, o.State)

	current := o.Version
	_, err = f.svc.Transition(ctx, o.ID, TransitionRequest{
		To:              order.StatePendingApproval,
		Actor:           "tester",
		ExpectedVersion: &current,
	})
	assert.NoError(t, err)
}

func TestLifecycleService_ConcurrentShipVersusCancel(t *testing.T) {
	orders := newVersionedOrderRepo()
	history := &memHistoryRepo{}
	ledger := newMemLedger()
	scope := NewNoOpTransactionScope(orders, history, newMemCreditNoteRepo(), ledger)
	svc := NewLifecycleService(scope, nil, zap.NewNop(), noop.NewTracerProvider().Tracer("test"))
	ctx := context.Background()

	o, err := order.NewOrder(order.KindCustomerOrder, "CO-2026-00077", uuid.New(), "Acme Pharma", uuid.New())
	require.NoError(t, err)
	productID := uuid.New()
	_, err = o.AddItem(productID, "Ibuprofen 400mg",
		decimal.NewFromInt(10), decimal.NewFromInt(8), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	o.ClearDomainEvents()
	require.NoError(t, orders.Save(ctx, o))
	ledger.addStock(productID, 10)

	for _, target := range []order.State{order.StatePendingApproval, order.StateApproved, order.StateConfirmed, order.StatePacked} {
		_, err := svc.Transition(ctx, o.ID, TransitionRequest{To: target, Actor: "tester"})
		require.NoError(t, err)
	}

	packed, err := orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	packedVersion := packed.Version

	// Both requests race from the same observed version; the table allows
	// both moves out of packed, so only the version check can arbitrate.
	type outcome struct {
		to  order.State
		err error
	}
	results := make(chan outcome, 2)
	start := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		<-start
		v := packedVersion
		_, err := svc.Transition(ctx, o.ID, TransitionRequest{
			To: order.StateShipped, Actor: "dispatcher", TrackingNumber: "TRK-77", ExpectedVersion: &v,
		})
		results <- outcome{to: order.StateShipped, err: err}
	}()
	go func() {
		defer wg.Done()
		<-start
		v := packedVersion
		_, err := svc.Transition(ctx, o.ID, TransitionRequest{
			To: order.StateCancelled, Actor: "sales", Reason: "customer withdrew", ExpectedVersion: &v,
		})
		results <- outcome{to: order.StateCancelled, err: err}
	}()
	close(start)
	wg.Wait()
	close(results)

	var winner order.State
	conflicts := 0
	for out := range results {
		if out.err == nil {
			winner = out.to
			continue
		}
		assert.ErrorIs(t, out.err, shared.ErrConcurrencyConflict)
		conflicts++
	}
	assert.Equal(t, 1, conflicts, "exactly one request loses the race")
	require.NotZero(t, winner, "exactly one request wins the race")

	final, err := orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, winner, final.State)
	assert.Equal(t, packedVersion+1, final.Version, "only the winner bumps the version")
}

func TestLifecycleService_ShipWithExplicitTracking(t *testing.T) {
	f := newLifecycleFixture(t)
	o, _ := f.seedOrder(t, order.KindPurchaseOrder, 100)

	f.transition(t, o.ID, TransitionRequest{To: order.StatePendingApproval})
	f.transition(t, o.ID, TransitionRequest{To: order.StateApproved})
	f.transition(t, o.ID, TransitionRequest{To: order.StateConfirmed})
	f.transition(t, o.ID, TransitionRequest{To: order.StatePacked})

	resp := f.transition(t, o.ID, TransitionRequest{To: order.StateShipped, TrackingNumber: "DHL-123"})
	assert.Equal(t, "DHL-123", resp.TrackingNumber)
	assert.Zero(t, f.carrier.calls, "explicit tracking number bypasses the carrier")
}

func TestLifecycleService_CarrierFailureRollsBack(t *testing.T) {
	f := newLifecycleFixture(t)
	f.carrier.err = errors.New("carrier API unavailable")
	o, _ := f.seedOrder(t, order.KindPurchaseOrder, 100)
	ctx := context.Background()

	f.transition(t, o.ID, TransitionRequest{To: order.StatePendingApproval})
	f.transition(t, o.ID, TransitionRequest{To: order.StateApproved})
	f.transition(t, o.ID, TransitionRequest{To: order.StateConfirmed})
	f.transition(t, o.ID, TransitionRequest{To: order.StatePacked})

	_, err := f.svc.Transition(ctx, o.ID, TransitionRequest{To: order.StateShipped, Actor: "tester"})
	require.Error(t, err)

	assert.Equal(t, order.StatePacked, o.State)
	assert.Len(t, f.ledger.reservations[o.ID], 1, "the reservation survives the failed shipment")

	count, err := f.history.CountByOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestLifecycleService_IllegalShipRequestNeverReachesCarrier(t *testing.T) {
	f := newLifecycleFixture(t)
	o, _ := f.seedOrder(t, order.KindPurchaseOrder, 100)
	ctx := context.Background()

	_, err := f.svc.Transition(ctx, o.ID, TransitionRequest{To: order.StateShipped, Actor: "tester"})
	require.Error(t, err)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "ILLEGAL_TRANSITION", de.Code)
	assert.Zero(t, f.carrier.calls, "no label may be created for a rejected transition")
	assert.Equal(t, order.StateCreated, o.State)

	// same guard once the order is terminal
	f.transition(t, o.ID, TransitionRequest{To: order.StateCancelled, Reason: "customer withdrew"})
	_, err = f.svc.Transition(ctx, o.ID, TransitionRequest{To: order.StateShipped, Actor: "tester"})
	require.Error(t, err)
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "ILLEGAL_TRANSITION", de.Code)
	assert.Zero(t, f.carrier.calls)
}

func TestLifecycleService_PaidRequiresSettlement(t *testing.T) {
	f := newLifecycleFixture(t)
	o, _ := f.seedOrder(t, order.KindPurchaseOrder, 100)
	ctx := context.Background()

	for _, target := range []order.State{order.StatePendingApproval, order.StateApproved, order.StateConfirmed, order.StatePacked, order.StateShipped, order.StateDelivered} {
		f.transition(t, o.ID, TransitionRequest{To: target})
	}
	f.transition(t, o.ID, TransitionRequest{To: order.StateInvoiced, InvoiceNumber: "INV-1"})

	_, err := f.svc.Transition(ctx, o.ID, TransitionRequest{To: order.StatePaid, Actor: "tester"})
	require.Error(t, err)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "PAYMENT_NOT_SETTLED", de.Code)
	assert.Equal(t, order.StateInvoiced, o.State)
}

func TestLifecycleService_InvoicedReceivableNetsCreditNotes(t *testing.T) {
	f := newLifecycleFixture(t)
	o, _ := f.seedOrder(t, order.KindCustomerOrder, 100) // final amount 10 * 8 = 80
	f.creditNotes.approvedByOrder[o.ID] = decimal.NewFromInt(30)

	for _, target := range []order.State{order.StatePendingApproval, order.StateApproved, order.StateConfirmed, order.StatePacked, order.StateShipped, order.StateDelivered} {
		f.transition(t, o.ID, TransitionRequest{To: target})
	}
	f.transition(t, o.ID, TransitionRequest{To: order.StateInvoiced, InvoiceNumber: "INV-55"})

	var invoiced *order.OrderInvoicedEvent
	for _, event := range f.publisher.events {
		if e, ok := event.(*order.OrderInvoicedEvent); ok {
			invoiced = e
		}
	}
	require.NotNil(t, invoiced, "invoicing publishes the invoiced event")
	assert.Equal(t, "INV-55", invoiced.InvoiceNumber)
	assert.True(t, invoiced.ReceivableAmount.Equal(decimal.NewFromInt(50)),
		"receivable %s should be final amount 80 minus credits 30", invoiced.ReceivableAmount)
}

func TestLifecycleService_IllegalTransitionLeavesNoTrace(t *testing.T) {
	f := newLifecycleFixture(t)
	o, _ := f.seedOrder(t, order.KindPurchaseOrder, 100)
	ctx := context.Background()

	_, err := f.svc.Transition(ctx, o.ID, TransitionRequest{To: order.StateDelivered, Actor: "tester"})
	require.Error(t, err)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "ILLEGAL_TRANSITION", de.Code)

	count, err := f.history.CountByOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, f.publisher.events)
}

func TestLifecycleService_UnknownOrder(t *testing.T) {
	f := newLifecycleFixture(t)

	_, err := f.svc.Transition(context.Background(), uuid.New(), TransitionRequest{To: order.StatePendingApproval, Actor: "tester"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
