package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/application/account"
	"github.com/sitesync/backend/internal/domain/platform"
	"github.com/sitesync/backend/internal/domain/weebly"
	"github.com/sitesync/backend/internal/interfaces/http/dto"
)

type fakeAccountService struct {
	credential *weebly.Credential
	identity   *account.EmbedIdentity
	token      string
	err        error

	publishedSite int64
	cardName      string
}

func (f *fakeAccountService) Register(_ context.Context, req account.RegisterRequest) (*weebly.Credential, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.credential, nil
}

func (f *fakeAccountService) Deauthorize(_ context.Context, siteID int64) error {
	return f.err
}

func (f *fakeAccountService) PublishSite(_ context.Context, siteID int64) error {
	f.publishedSite = siteID
	return f.err
}

func (f *fakeAccountService) PublishSnippet(_ context.Context, siteID int64) error {
	f.publishedSite = siteID
	return f.err
}

func (f *fakeAccountService) UpdateCard(_ context.Context, siteID int64, cardName string, _ any, _ bool) error {
	f.cardName = cardName
	return f.err
}

func (f *fakeAccountService) IssueEmbedToken(_ context.Context, siteID int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func (f *fakeAccountService) VerifyEmbedToken(_ context.Context, token string) (*account.EmbedIdentity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func setupAccountHandlerTest(service *fakeAccountService) *gin.Engine {
	h := NewAccountHandler(service, zap.NewNop())
	engine := gin.New()
	engine.POST("/account/register", h.Register)
	engine.POST("/sites/:site_id/publish", h.PublishSite)
	engine.PUT("/sites/:site_id/card", h.UpdateCard)
	engine.POST("/sites/:site_id/embed-token", h.IssueEmbedToken)
	engine.POST("/embed/verify", h.VerifyEmbedToken)
	return engine
}

func TestAccountHandler(t *testing.T) {
	t.Run("registers a credential", func(t *testing.T) {
		credential, err := weebly.NewCredential(uuid.New(), uuid.New(), "token-100", "1.0")
		require.NoError(t, err)
		engine := setupAccountHandlerTest(&fakeAccountService{credential: credential})

		rec := performJSON(t, engine, http.MethodPost, "/account/register", map[string]any{
			"user_id": 42,
			"site_id": 100,
			"token":   "token-100",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		resp := decodeResponse(t, rec)
		data := resp.Data.(map[string]any)
		assert.Equal(t, true, data["is_valid"])
		assert.NotContains(t, rec.Body.String(), "token-100")
	})

	t.Run("rejects a registration without a token", func(t *testing.T) {
		engine := setupAccountHandlerTest(&fakeAccountService{})

		rec := performJSON(t, engine, http.MethodPost, "/account/register", map[string]any{
			"user_id": 42,
			"site_id": 100,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("publishes a site", func(t *testing.T) {
		service := &fakeAccountService{}
		engine := setupAccountHandlerTest(service)

		rec := performJSON(t, engine, http.MethodPost, "/sites/100/publish", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, int64(100), service.publishedSite)
	})

	t.Run("maps a publish rejection to 502", func(t *testing.T) {
		engine := setupAccountHandlerTest(&fakeAccountService{err: &platform.RequestError{
			Op:         "publish site",
			Message:    "please verify your account before publishing",
			StatusCode: http.StatusForbidden,
			Expected:   true,
		}})

		rec := performJSON(t, engine, http.MethodPost, "/sites/100/publish", nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, dto.ErrCodePlatform, errorCode(t, rec))
	})

	t.Run("updates a dashboard card", func(t *testing.T) {
		service := &fakeAccountService{}
		engine := setupAccountHandlerTest(service)

		rec := performJSON(t, engine, http.MethodPut, "/sites/100/card", map[string]any{
			"name": "welcome",
			"data": []map[string]any{{"type": "text", "value": "hi"}},
		})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "welcome", service.cardName)
	})

	t.Run("issues an embed token", func(t *testing.T) {
		engine := setupAccountHandlerTest(&fakeAccountService{token: "embed-jwt"})

		rec := performJSON(t, engine, http.MethodPost, "/sites/100/embed-token", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeResponse(t, rec)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "embed-jwt", data["token"])
	})

	t.Run("verifies an embed token", func(t *testing.T) {
		engine := setupAccountHandlerTest(&fakeAccountService{
			identity: &account.EmbedIdentity{UserID: 42, SiteID: 100},
		})

		rec := performJSON(t, engine, http.MethodPost, "/embed/verify", map[string]any{
			"token": "embed-jwt",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeResponse(t, rec)
		data := resp.Data.(map[string]any)
		assert.Equal(t, float64(100), data["site_id"])
	})

	t.Run("rejects a bad embed token", func(t *testing.T) {
		engine := setupAccountHandlerTest(&fakeAccountService{err: account.ErrNoCredential})

		rec := performJSON(t, engine, http.MethodPost, "/embed/verify", map[string]any{
			"token": "garbage",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
