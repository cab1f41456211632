// Package shipping provides carrier adapters for the lifecycle engine.
package shipping

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pharmadist/backend/internal/domain/shipping"
)

// StubCarrier is a local carrier adapter that issues tracking numbers
// without calling an external API. Used in development and as a fallback
// when no carrier integration is configured.
type StubCarrier struct {
	carrier string
	seq     atomic.Uint64
}

// NewStubCarrier creates a StubCarrier issuing labels under the given
// carrier name
func NewStubCarrier(carrier string) *StubCarrier {
	if carrier == "" {
		carrier = "internal"
	}
	return &StubCarrier{carrier: carrier}
}

// CreateLabel issues a label with a locally generated tracking number.
// Numbers are unique per process: CARRIER-YYYYMMDD-NNNNNN.
func (c *StubCarrier) CreateLabel(_ context.Context, req shipping.LabelRequest) (*shipping.Label, error) {
	n := c.seq.Add(1)
	tracking := fmt.Sprintf("%s-%s-%06d",
		strings.ToUpper(c.carrier),
		time.Now().Format("20060102"),
		n)

	return &shipping.Label{
		TrackingNumber: tracking,
		Carrier:        c.carrier,
	}, nil
}

// Ensure StubCarrier implements shipping.CarrierService
var _ shipping.CarrierService = (*StubCarrier)(nil)
