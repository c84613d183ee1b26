package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitesync/backend/internal/domain/shared"
	"github.com/sitesync/backend/internal/domain/weebly"
)

func TestGormCredentialRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCredentialRepository(db)
	ctx := context.Background()

	site := newTestSite(t, db, 501)
	otherUser := newTestUser(t, 999)
	require.NoError(t, db.Save(otherUser).Error)

	older, err := weebly.NewCredential(site.OwnerID, site.ID, "token-old", "1.0")
	require.NoError(t, err)
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Save(ctx, older))

	newer, err := weebly.NewCredential(otherUser.ID, site.ID, "token-new", "1.0")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, newer))

	t.Run("finds by user and site pair", func(t *testing.T) {
		found, err := repo.FindByUserAndSite(ctx, site.OwnerID, site.ID)
		require.NoError(t, err)
		assert.Equal(t, "token-old", found.Token)
	})

	t.Run("pair without credential yields ErrNotFound", func(t *testing.T) {
		_, err := repo.FindByUserAndSite(ctx, otherUser.ID, site.OwnerID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("site credentials come most recent first", func(t *testing.T) {
		credentials, err := repo.FindBySite(ctx, site.ID)
		require.NoError(t, err)
		require.Len(t, credentials, 2)
		assert.Equal(t, "token-new", credentials[0].Token)
	})

	t.Run("valid user credentials exclude invalidated ones", func(t *testing.T) {
		newer.Invalidate()
		require.NoError(t, repo.Save(ctx, newer))

		credentials, err := repo.FindValidByUser(ctx, otherUser.ID)
		require.NoError(t, err)
		assert.Empty(t, credentials)

		credentials, err = repo.FindValidByUser(ctx, site.OwnerID)
		require.NoError(t, err)
		require.Len(t, credentials, 1)
		assert.Equal(t, "token-old", credentials[0].Token)
	})

	t.Run("second credential for the same pair is rejected", func(t *testing.T) {
		extra, err := weebly.NewCredential(site.OwnerID, site.ID, "token-extra", "1.0")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, extra), shared.ErrAlreadyExists)
	})
}
