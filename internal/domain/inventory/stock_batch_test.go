package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBatch(t *testing.T, quantity int64) *StockBatch {
	b, err := NewStockBatch(uuid.New(), uuid.New(), "LOT-001", decimal.NewFromInt(quantity), nil, time.Now())
	require.NoError(t, err)
	return b
}

func TestNewStockBatch(t *testing.T) {
	t.Run("creates batch", func(t *testing.T) {
		expiry := time.Now().AddDate(1, 0, 0)
		b, err := NewStockBatch(uuid.New(), uuid.New(), "LOT-001", decimal.NewFromInt(100), &expiry, time.Now())
		require.NoError(t, err)

		assert.True(t, b.OnHand.Equal(decimal.NewFromInt(100)))
		assert.True(t, b.Reserved.IsZero())
		assert.True(t, b.Available().Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejects empty batch number", func(t *testing.T) {
		_, err := NewStockBatch(uuid.New(), uuid.New(), "", decimal.NewFromInt(10), nil, time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewStockBatch(uuid.New(), uuid.New(), "LOT-001", decimal.Zero, nil, time.Now())
		assert.Error(t, err)
	})
}

func TestStockBatch_ReserveReleaseDebit(t *testing.T) {
	t.Run("reserve reduces available but not on hand", func(t *testing.T) {
		b := newTestBatch(t, 100)

		require.NoError(t, b.Reserve(decimal.NewFromInt(30)))
		assert.True(t, b.OnHand.Equal(decimal.NewFromInt(100)))
		assert.True(t, b.Reserved.Equal(decimal.NewFromInt(30)))
		assert.True(t, b.Available().Equal(decimal.NewFromInt(70)))
	})

	t.Run("reserve fails beyond available", func(t *testing.T) {
		b := newTestBatch(t, 100)
		require.NoError(t, b.Reserve(decimal.NewFromInt(80)))

		err := b.Reserve(decimal.NewFromInt(30))
		assert.Error(t, err)
		assert.True(t, b.Reserved.Equal(decimal.NewFromInt(80)), "failed reserve must not change the hold")
	})

	t.Run("release returns reserved stock to available", func(t *testing.T) {
		b := newTestBatch(t, 100)
		require.NoError(t, b.Reserve(decimal.NewFromInt(30)))

		require.NoError(t, b.Release(decimal.NewFromInt(30)))
		assert.True(t, b.Reserved.IsZero())
		assert.True(t, b.Available().Equal(decimal.NewFromInt(100)))
	})

	t.Run("cannot release more than reserved", func(t *testing.T) {
		b := newTestBatch(t, 100)
		require.NoError(t, b.Reserve(decimal.NewFromInt(10)))
		assert.Error(t, b.Release(decimal.NewFromInt(11)))
	})

	t.Run("debit consumes the hold and the stock", func(t *testing.T) {
		b := newTestBatch(t, 100)
		require.NoError(t, b.Reserve(decimal.NewFromInt(30)))

		require.NoError(t, b.Debit(decimal.NewFromInt(30)))
		assert.True(t, b.OnHand.Equal(decimal.NewFromInt(70)))
		assert.True(t, b.Reserved.IsZero())
	})

	t.Run("debit is limited to the reserved quantity", func(t *testing.T) {
		b := newTestBatch(t, 100)
		require.NoError(t, b.Reserve(decimal.NewFromInt(10)))
		assert.Error(t, b.Debit(decimal.NewFromInt(20)))
	})

	t.Run("credit adds stock without touching reservations", func(t *testing.T) {
		b := newTestBatch(t, 100)
		require.NoError(t, b.Reserve(decimal.NewFromInt(10)))

		require.NoError(t, b.Credit(decimal.NewFromInt(5)))
		assert.True(t, b.OnHand.Equal(decimal.NewFromInt(105)))
		assert.True(t, b.Reserved.Equal(decimal.NewFromInt(10)))
	})
}

func TestStockBatch_IsExpired(t *testing.T) {
	now := time.Now()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := newTestBatch(t, 10)
	expired.ExpiryDate = &past
	assert.True(t, expired.IsExpired(now))

	fresh := newTestBatch(t, 10)
	fresh.ExpiryDate = &future
	assert.False(t, fresh.IsExpired(now))

	noExpiry := newTestBatch(t, 10)
	assert.False(t, noExpiry.IsExpired(now))
}

func TestReservation_Lifecycle(t *testing.T) {
	r := NewReservation(uuid.New(), uuid.New(), uuid.New(), "LOT-001", decimal.NewFromInt(5), MethodFIFO)
	assert.True(t, r.IsActive())

	t.Run("release deactivates", func(t *testing.T) {
		released := *r
		released.Release()
		assert.False(t, released.IsActive())
		assert.True(t, released.Released)
		assert.False(t, released.Consumed)
		require.NotNil(t, released.ReleasedAt)
	})

	t.Run("consume deactivates", func(t *testing.T) {
		consumed := *r
		consumed.Consume()
		assert.False(t, consumed.IsActive())
		assert.True(t, consumed.Consumed)
		assert.False(t, consumed.Released)
	})
}

func TestMethod_IsValid(t *testing.T) {
	assert.True(t, MethodFIFO.IsValid())
	assert.True(t, MethodLIFO.IsValid())
	assert.False(t, Method("FEFO").IsValid())
}
