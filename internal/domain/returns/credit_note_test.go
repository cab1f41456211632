package returns

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreditNote(t *testing.T) {
	t.Run("issues a note for an approved return", func(t *testing.T) {
		r := approvedReturn(t)

		cn, err := NewCreditNote(r)
		require.NoError(t, err)

		assert.Equal(t, r.OrderID, cn.OrderID)
		assert.Equal(t, r.ID, cn.ReturnID)
		assert.True(t, cn.Amount.Equal(r.RefundAmount))
		assert.Equal(t, CreditNoteStatusIssued, cn.Status)
		assert.Nil(t, cn.SettledAt)

		events := cn.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventCreditNoteIssued, events[0].EventType())
	})

	t.Run("refuses a requested return", func(t *testing.T) {
		r := requestedReturn(t)
		_, err := NewCreditNote(r)
		assertCode(t, err, "INVALID_STATE")
	})

	t.Run("refuses a rejected return", func(t *testing.T) {
		r := requestedReturn(t)
		require.NoError(t, r.Reject("supervisor", "no dice"))
		_, err := NewCreditNote(r)
		assertCode(t, err, "INVALID_STATE")
	})

	t.Run("refuses nil return", func(t *testing.T) {
		_, err := NewCreditNote(nil)
		assertCode(t, err, "INVALID_RETURN")
	})
}

func TestCreditNote_Settle(t *testing.T) {
	t.Run("settles once", func(t *testing.T) {
		r := approvedReturn(t)
		cn, err := NewCreditNote(r)
		require.NoError(t, err)
		cn.ClearDomainEvents()

		require.NoError(t, cn.Settle())
		assert.Equal(t, CreditNoteStatusSettled, cn.Status)
		require.NotNil(t, cn.SettledAt)

		events := cn.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventCreditNoteSettled, events[0].EventType())

		assertCode(t, cn.Settle(), "INVALID_STATE")
	})
}

func TestCreditNoteStatus_IsValid(t *testing.T) {
	assert.True(t, CreditNoteStatusIssued.IsValid())
	assert.True(t, CreditNoteStatusSettled.IsValid())
	assert.False(t, CreditNoteStatus("void").IsValid())
}

func TestCreditNote_AmountMatchesRefund(t *testing.T) {
	r := approvedReturn(t)
	r.RefundAmount = decimal.NewFromFloat(42.50)

	cn, err := NewCreditNote(r)
	require.NoError(t, err)
	assert.True(t, cn.Amount.Equal(decimal.NewFromFloat(42.50)))
}
