package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	orderapp "github.com/pharmadist/backend/internal/application/order"
	"github.com/pharmadist/backend/internal/domain/order"
	"github.com/pharmadist/backend/internal/domain/shared"
)

// CarrierWebhookHandler receives delivery notifications from the carrier.
// Carriers re-send notifications until acknowledged, so events are deduped
// by event ID before any transition runs.
type CarrierWebhookHandler struct {
	BaseHandler
	orderService     *orderapp.OrderService
	lifecycleService *orderapp.LifecycleService
	idempotency      shared.IdempotencyStore
	idempotencyCfg   shared.IdempotencyConfig
	logger           *zap.Logger
}

// NewCarrierWebhookHandler creates a new CarrierWebhookHandler
func NewCarrierWebhookHandler(
	orderService *orderapp.OrderService,
	lifecycleService *orderapp.LifecycleService,
	idempotency shared.IdempotencyStore,
	idempotencyCfg shared.IdempotencyConfig,
	logger *zap.Logger,
) *CarrierWebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CarrierWebhookHandler{
		orderService:     orderService,
		lifecycleService: lifecycleService,
		idempotency:      idempotency,
		idempotencyCfg:   idempotencyCfg,
		logger:           logger,
	}
}

// RegisterRoutes registers webhook routes on the given group
func (h *CarrierWebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/carrier", h.HandleCarrierEvent)
}

// CarrierEventRequest is the notification payload sent by the carrier
type CarrierEventRequest struct {
	EventID        string `json:"event_id" binding:"required"`
	Event          string `json:"event" binding:"required,oneof=delivered"`
	OrderNumber    string `json:"order_number" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
}

// HandleCarrierEvent processes one carrier notification. A replayed event
// acknowledges with 200 without re-running the transition.
func (h *CarrierWebhookHandler) HandleCarrierEvent(c *gin.Context) {
	var req CarrierEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()

	if h.idempotencyCfg.Enabled && h.idempotency != nil {
		fresh, err := h.idempotency.MarkProcessed(ctx, "carrier:"+req.EventID, h.idempotencyCfg.TTL)
		if err != nil {
			h.logger.Error("idempotency check failed",
				zap.String("event_id", req.EventID),
				zap.Error(err))
			h.InternalError(c, "Failed to process carrier event")
			return
		}
		if !fresh {
			h.logger.Info("duplicate carrier event ignored",
				zap.String("event_id", req.EventID),
				zap.String("order_number", req.OrderNumber))
			c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
			return
		}
	}

	o, err := h.orderService.GetByOrderNumber(ctx, req.OrderNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	_, err = h.lifecycleService.Transition(ctx, o.ID, orderapp.TransitionRequest{
		To:    order.StateDelivered,
		Actor: "carrier-webhook",
		Notes: "Delivery confirmed by carrier event " + req.EventID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}
