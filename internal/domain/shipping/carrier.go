package shipping

import (
	"context"

	"github.com/google/uuid"
)

// LabelRequest describes one outbound shipment to label
type LabelRequest struct {
	OrderID     uuid.UUID
	OrderNumber string
	WarehouseID uuid.UUID
	Parcels     int
}

// Label is the carrier's answer: a tracking number plus the carrier code
type Label struct {
	TrackingNumber string
	Carrier        string
}

// CarrierService creates shipping labels with an external carrier. The
// lifecycle engine calls it when an order moves into shipped and the caller
// did not supply a tracking number of its own.
type CarrierService interface {
	CreateLabel(ctx context.Context, req LabelRequest) (*Label, error)
}
