package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitesync/backend/internal/domain/weebly"
)

func TestGormPaymentNotificationRepository_FindUnnotified(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentNotificationRepository(db)
	ctx := context.Background()

	site := newTestSite(t, db, 601)

	pending, err := weebly.NewPaymentNotification(site.ID, "monthly", decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, pending))

	done, err := weebly.NewPaymentNotification(site.ID, "yearly", decimal.NewFromInt(100))
	require.NoError(t, err)
	done.MarkNotified()
	require.NoError(t, repo.Save(ctx, done))

	unnotified, err := repo.FindUnnotified(ctx)
	require.NoError(t, err)
	require.Len(t, unnotified, 1)
	assert.Equal(t, "monthly", unnotified[0].Name)

	t.Run("decimal columns round-trip", func(t *testing.T) {
		found, err := repo.FindByID(ctx, pending.ID)
		require.NoError(t, err)
		assert.Equal(t, "10.00", found.GrossAmount.StringFixed(2))
		assert.Equal(t, "3.00", found.PayableAmount.StringFixed(2))
	})

	t.Run("site listing returns both", func(t *testing.T) {
		all, err := repo.FindBySite(ctx, site.ID)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}
