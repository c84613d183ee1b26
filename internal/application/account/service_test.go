package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sitesync/backend/internal/domain/platform"
	"github.com/sitesync/backend/internal/domain/weebly"
	"github.com/sitesync/backend/internal/infrastructure/auth"
	"github.com/sitesync/backend/internal/infrastructure/config"
	"github.com/sitesync/backend/internal/infrastructure/persistence"
)

// fakeGateway records the platform commands the account service issues
type fakeGateway struct {
	platform.Gateway
	published        []int64
	snippets         []string
	cards            []string
	deauthStatus     string
	deauthErr        error
	deauthorizeCalls int
}

func (g *fakeGateway) PublishSite(ctx context.Context, token platform.AccessToken, siteID int64) error {
	g.published = append(g.published, siteID)
	return nil
}

func (g *fakeGateway) PublishSnippet(ctx context.Context, token platform.AccessToken, siteID int64, snippet string) error {
	g.snippets = append(g.snippets, snippet)
	return nil
}

func (g *fakeGateway) UpdateCard(ctx context.Context, token platform.AccessToken, siteID int64, cardName string, cardData any, hidden bool) error {
	g.cards = append(g.cards, cardName)
	return nil
}

func (g *fakeGateway) Deauthorize(ctx context.Context, token platform.AccessToken, siteID int64) (string, error) {
	g.deauthorizeCalls++
	if g.deauthErr != nil {
		return "", g.deauthErr
	}
	return g.deauthStatus, nil
}

type accountFixture struct {
	service     *Service
	gateway     *fakeGateway
	users       weebly.SiteUserRepository
	sites       weebly.SiteRepository
	credentials weebly.CredentialRepository
}

func setupAccountTest(t *testing.T) *accountFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&weebly.SiteUser{},
		&weebly.Site{},
		&weebly.Credential{},
	))

	weeblyCfg := &config.WeeblyConfig{
		AppName:   "sitesync-test",
		APISecret: "embed-secret",
		Snippet:   "<script src=\"https://cdn.example.com/embed.js\"></script>",
	}
	cfg := &config.Config{Weebly: *weeblyCfg}

	users := persistence.NewGormSiteUserRepository(db)
	sites := persistence.NewGormSiteRepository(db)
	credentials := persistence.NewGormCredentialRepository(db)
	gateway := &fakeGateway{deauthStatus: platform.DeauthorizeStatusDisconnected}
	service := NewService(users, sites, credentials, gateway,
		auth.NewEmbedTokenService(weeblyCfg), cfg, zap.NewNop())

	return &accountFixture{
		service:     service,
		gateway:     gateway,
		users:       users,
		sites:       sites,
		credentials: credentials,
	}
}

func (f *accountFixture) register(t *testing.T) *weebly.Credential {
	t.Helper()
	credential, err := f.service.Register(context.Background(), RegisterRequest{
		UserID:  42,
		SiteID:  100,
		Token:   "token-100",
		Version: "1.0",
		Name:    "Owner",
		Email:   "owner@example.com",
		Title:   "My Site",
		Domain:  "mysite.example.com",
	})
	require.NoError(t, err)
	return credential
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user site and credential on first contact", func(t *testing.T) {
		f := setupAccountTest(t)
		credential := f.register(t)

		user, err := f.users.FindByUserID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "Owner", user.Name)

		site, err := f.sites.FindBySiteID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, user.ID, site.OwnerID)
		assert.Equal(t, "token-100", credential.Token)
		assert.Equal(t, "1.0", credential.Version)
	})

	t.Run("replaces the token on repeated authorization", func(t *testing.T) {
		f := setupAccountTest(t)
		first := f.register(t)
		first.Invalidate()
		require.NoError(t, f.credentials.Save(ctx, first))

		second, err := f.service.Register(ctx, RegisterRequest{
			UserID:  42,
			SiteID:  100,
			Token:   "token-new",
			Version: "2.0",
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "token-new", second.Token)
		assert.Equal(t, "2.0", second.Version)
		assert.True(t, second.IsValid)

		stored, err := f.credentials.FindBySite(ctx, second.SiteID)
		require.NoError(t, err)
		require.Len(t, stored, 1)
	})

	t.Run("keeps existing user and site records", func(t *testing.T) {
		f := setupAccountTest(t)
		f.register(t)

		_, err := f.service.Register(ctx, RegisterRequest{
			UserID: 42,
			SiteID: 100,
			Token:  "token-new",
			Name:   "Renamed",
			Title:  "Renamed Site",
		})
		require.NoError(t, err)

		user, err := f.users.FindByUserID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "Owner", user.Name)
	})
}

func TestDeauthorize(t *testing.T) {
	ctx := context.Background()

	t.Run("disconnects and removes credentials", func(t *testing.T) {
		f := setupAccountTest(t)
		credential := f.register(t)

		require.NoError(t, f.service.Deauthorize(ctx, 100))
		assert.Equal(t, 1, f.gateway.deauthorizeCalls)

		stored, err := f.credentials.FindBySite(ctx, credential.SiteID)
		require.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("removes credentials even when the call fails", func(t *testing.T) {
		f := setupAccountTest(t)
		credential := f.register(t)
		f.gateway.deauthErr = &platform.RequestError{
			Op:  "deauthorizing application",
			Err: platform.ErrUnknownAPIKey,
		}

		require.NoError(t, f.service.Deauthorize(ctx, 100))

		stored, err := f.credentials.FindBySite(ctx, credential.SiteID)
		require.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("keeps credentials on an unexpected status", func(t *testing.T) {
		f := setupAccountTest(t)
		credential := f.register(t)
		f.gateway.deauthStatus = "pending"

		err := f.service.Deauthorize(ctx, 100)
		assert.ErrorIs(t, err, ErrNotDisconnected)

		stored, err := f.credentials.FindBySite(ctx, credential.SiteID)
		require.NoError(t, err)
		assert.Len(t, stored, 1)
	})

	t.Run("fails without credentials", func(t *testing.T) {
		f := setupAccountTest(t)
		credential := f.register(t)
		require.NoError(t, f.credentials.Delete(ctx, credential.ID))

		err := f.service.Deauthorize(ctx, 100)
		assert.ErrorIs(t, err, ErrNoCredential)
	})
}

func TestPublishCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes the site", func(t *testing.T) {
		f := setupAccountTest(t)
		f.register(t)
		require.NoError(t, f.service.PublishSite(ctx, 100))
		assert.Equal(t, []int64{100}, f.gateway.published)
	})

	t.Run("publishes the configured snippet", func(t *testing.T) {
		f := setupAccountTest(t)
		f.register(t)
		require.NoError(t, f.service.PublishSnippet(ctx, 100))
		require.Len(t, f.gateway.snippets, 1)
		assert.Contains(t, f.gateway.snippets[0], "embed.js")
	})

	t.Run("updates a dashboard card", func(t *testing.T) {
		f := setupAccountTest(t)
		f.register(t)
		data := []map[string]string{{"type": "text", "value": "synced"}}
		require.NoError(t, f.service.UpdateCard(ctx, 100, "status", data, false))
		assert.Equal(t, []string{"status"}, f.gateway.cards)
	})
}

func TestEmbedTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		f := setupAccountTest(t)
		f.register(t)

		token, err := f.service.IssueEmbedToken(ctx, 100)
		require.NoError(t, err)

		identity, err := f.service.VerifyEmbedToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, int64(42), identity.UserID)
		assert.Equal(t, int64(100), identity.SiteID)
	})

	t.Run("rejects tokens for unknown sites", func(t *testing.T) {
		f := setupAccountTest(t)
		f.register(t)

		foreign := auth.NewEmbedTokenService(&config.WeeblyConfig{APISecret: "embed-secret"})
		token, err := foreign.Issue(42, 999, embedTokenTTL)
		require.NoError(t, err)

		_, err = f.service.VerifyEmbedToken(ctx, token)
		assert.Error(t, err)
	})
}
