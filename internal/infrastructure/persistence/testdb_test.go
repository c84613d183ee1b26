package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sitesync/backend/internal/domain/weebly"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&weebly.SiteUser{},
		&weebly.Site{},
		&weebly.Credential{},
		&weebly.Page{},
		&weebly.Blog{},
		&weebly.BlogPost{},
		&weebly.StoreProduct{},
		&weebly.StoreProductOption{},
		&weebly.StoreCategory{},
		&weebly.PaymentNotification{},
	)
	require.NoError(t, err)

	return db
}

func newTestUser(t *testing.T, userID int64) *weebly.SiteUser {
	t.Helper()
	user, err := weebly.NewSiteUser(userID, "Owner", "owner@example.com")
	require.NoError(t, err)
	return user
}

func newTestSite(t *testing.T, db *gorm.DB, siteID int64) *weebly.Site {
	t.Helper()
	user := newTestUser(t, siteID*10)
	require.NoError(t, db.Save(user).Error)
	site, err := weebly.NewSite(user.ID, siteID, "Test Site", "test.example.com")
	require.NoError(t, err)
	require.NoError(t, db.Save(site).Error)
	return site
}
