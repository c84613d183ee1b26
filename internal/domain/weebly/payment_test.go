package weebly

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaymentNotification(t *testing.T) {
	siteID := uuid.New()

	t.Run("computes the payable share on creation", func(t *testing.T) {
		notification, err := NewPaymentNotification(siteID, "monthly plan", decimal.NewFromFloat(9.99))
		require.NoError(t, err)

		assert.Equal(t, "9.99", notification.GrossAmount.StringFixed(2))
		assert.Equal(t, "3.00", notification.PayableAmount.StringFixed(2))
		assert.Equal(t, "USD", notification.Currency)
		assert.True(t, notification.PurchaseNotRefund)
		assert.False(t, notification.Notified)
	})

	t.Run("fails with negative gross amount", func(t *testing.T) {
		_, err := NewPaymentNotification(siteID, "bad", decimal.NewFromFloat(-1))
		require.Error(t, err)
	})

	t.Run("fails without a name", func(t *testing.T) {
		_, err := NewPaymentNotification(siteID, "", decimal.NewFromFloat(1))
		require.Error(t, err)
	})
}

func TestPayableAmount(t *testing.T) {
	cases := []struct {
		gross   string
		payable string
	}{
		{"0.00", "0.00"},
		{"10.00", "3.00"},
		{"9.99", "3.00"},
		{"0.05", "0.02"},
		{"123.45", "37.04"},
	}
	for _, tc := range cases {
		gross := decimal.RequireFromString(tc.gross)
		assert.Equal(t, tc.payable, PayableAmount(gross).StringFixed(2), "gross %s", tc.gross)
	}
}

func TestPaymentNotificationSetGrossAmount(t *testing.T) {
	siteID := uuid.New()
	notification, err := NewPaymentNotification(siteID, "plan", decimal.NewFromInt(10))
	require.NoError(t, err)

	require.NoError(t, notification.SetGrossAmount(decimal.NewFromInt(20)))
	assert.Equal(t, "6.00", notification.PayableAmount.StringFixed(2))

	require.Error(t, notification.SetGrossAmount(decimal.NewFromInt(-5)))
}

func TestPaymentNotificationMethod(t *testing.T) {
	siteID := uuid.New()
	notification, err := NewPaymentNotification(siteID, "plan", decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.Equal(t, "purchase", notification.Method(true))
	assert.Equal(t, "testpurchase", notification.Method(false))

	notification.PurchaseNotRefund = false
	assert.Equal(t, "refund", notification.Method(true))
	assert.Equal(t, "testrefund", notification.Method(false))
}

func TestPaymentNotificationMarkNotified(t *testing.T) {
	siteID := uuid.New()
	notification, err := NewPaymentNotification(siteID, "plan", decimal.NewFromInt(10))
	require.NoError(t, err)

	notification.MarkNotified()
	require.True(t, notification.Notified)
	require.NotNil(t, notification.NotifiedAt)
	first := *notification.NotifiedAt

	// marking twice keeps the original timestamp
	notification.MarkNotified()
	assert.Equal(t, first, *notification.NotifiedAt)

	events := notification.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypePaymentNotified, events[0].EventType())
}
