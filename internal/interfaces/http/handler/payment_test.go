package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/application/payment"
	"github.com/sitesync/backend/internal/domain/weebly"
	"github.com/sitesync/backend/internal/infrastructure/persistence"
	"github.com/sitesync/backend/internal/interfaces/http/dto"
)

type fakePaymentService struct {
	payments weebly.PaymentNotificationRepository

	created    *weebly.PaymentNotification
	createErr  error
	notifyErr  error
	notifiedID uuid.UUID
	swept      int
}

func (f *fakePaymentService) Create(_ context.Context, req payment.CreateRequest) (*weebly.PaymentNotification, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

func (f *fakePaymentService) Notify(_ context.Context, notificationID uuid.UUID) error {
	f.notifiedID = notificationID
	return f.notifyErr
}

func (f *fakePaymentService) NotifyUnnotified(_ context.Context) (int, error) {
	return f.swept, nil
}

func setupPaymentHandlerTest(t *testing.T, service *fakePaymentService) (*gin.Engine, weebly.PaymentNotificationRepository) {
	t.Helper()
	db := newTestDB(t)
	payments := persistence.NewGormPaymentNotificationRepository(db)
	service.payments = payments

	h := NewPaymentHandler(service, payments, zap.NewNop())
	engine := gin.New()
	engine.POST("/payments", h.Create)
	engine.GET("/payments", h.List)
	engine.GET("/payments/:id", h.Get)
	engine.POST("/payments/:id/notify", h.Notify)
	engine.POST("/payments/sweep", h.Sweep)
	return engine, payments
}

func TestPaymentHandler(t *testing.T) {
	newNotification := func(t *testing.T) *weebly.PaymentNotification {
		notification, err := weebly.NewPaymentNotification(uuid.New(), "Gold plan", decimal.RequireFromString("10.50"))
		require.NoError(t, err)
		return notification
	}

	t.Run("creates a payment notification", func(t *testing.T) {
		notification := newNotification(t)
		engine, _ := setupPaymentHandlerTest(t, &fakePaymentService{created: notification})

		rec := performJSON(t, engine, http.MethodPost, "/payments", map[string]any{
			"site_id":      100,
			"name":         "Gold plan",
			"gross_amount": "10.50",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		resp := decodeResponse(t, rec)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "Gold plan", data["name"])
		assert.Equal(t, "3.15", data["payable_amount"])
	})

	t.Run("lists stored notifications", func(t *testing.T) {
		engine, payments := setupPaymentHandlerTest(t, &fakePaymentService{})
		notification := newNotification(t)
		require.NoError(t, payments.Save(testContext(), notification))

		rec := performJSON(t, engine, http.MethodGet, "/payments", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(1), resp.Meta.Total)
	})

	t.Run("returns a notification by ID", func(t *testing.T) {
		engine, payments := setupPaymentHandlerTest(t, &fakePaymentService{})
		notification := newNotification(t)
		require.NoError(t, payments.Save(testContext(), notification))

		rec := performJSON(t, engine, http.MethodGet, "/payments/"+notification.ID.String(), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeResponse(t, rec)
		data := resp.Data.(map[string]any)
		assert.Equal(t, notification.ID.String(), data["id"])
	})

	t.Run("rejects a malformed notification ID", func(t *testing.T) {
		engine, _ := setupPaymentHandlerTest(t, &fakePaymentService{})

		rec := performJSON(t, engine, http.MethodGet, "/payments/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("notifies a single payment", func(t *testing.T) {
		service := &fakePaymentService{}
		engine, _ := setupPaymentHandlerTest(t, service)
		id := uuid.New()

		rec := performJSON(t, engine, http.MethodPost, "/payments/"+id.String()+"/notify", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, id, service.notifiedID)
	})

	t.Run("maps an already reported payment to 409", func(t *testing.T) {
		engine, _ := setupPaymentHandlerTest(t, &fakePaymentService{notifyErr: payment.ErrAlreadyNotified})

		rec := performJSON(t, engine, http.MethodPost, "/payments/"+uuid.NewString()+"/notify", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, dto.ErrCodeAlreadyNotified, errorCode(t, rec))
	})

	t.Run("sweeps pending payments", func(t *testing.T) {
		engine, _ := setupPaymentHandlerTest(t, &fakePaymentService{swept: 3})

		rec := performJSON(t, engine, http.MethodPost, "/payments/sweep", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeResponse(t, rec)
		data := resp.Data.(map[string]any)
		assert.Equal(t, float64(3), data["notified"])
	})
}
