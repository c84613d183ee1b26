package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/application/payment"
	"github.com/sitesync/backend/internal/domain/shared"
	"github.com/sitesync/backend/internal/domain/weebly"
	"github.com/sitesync/backend/internal/interfaces/http/dto"
)

// PaymentService is the part of the payment application service the
// handler uses
type PaymentService interface {
	Create(ctx context.Context, req payment.CreateRequest) (*weebly.PaymentNotification, error)
	Notify(ctx context.Context, notificationID uuid.UUID) error
	NotifyUnnotified(ctx context.Context) (int, error)
}

// SweepResponse reports how many pending notifications were reported
type SweepResponse struct {
	Notified int `json:"notified"`
}

// PaymentHandler serves the payment notification endpoints
type PaymentHandler struct {
	BaseHandler
	service  PaymentService
	payments weebly.PaymentNotificationRepository
	logger   *zap.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(service PaymentService, payments weebly.PaymentNotificationRepository, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service:  service,
		payments: payments,
		logger:   logger.Named("payment_handler"),
	}
}

// Create records a payment to be reported to the platform
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req payment.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	notification, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ToPaymentNotificationResponse(notification))
}

// List lists recorded payment notifications
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}
	req.Normalize()

	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize

	notifications, err := h.payments.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.payments.Count(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]dto.PaymentNotificationResponse, len(notifications))
	for i := range notifications {
		items[i] = dto.ToPaymentNotificationResponse(&notifications[i])
	}
	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// Get returns a single payment notification
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	notification, err := h.payments.FindByID(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToPaymentNotificationResponse(notification))
}

// Notify reports a single payment notification to the platform
// @Router /payments/{id}/notify [post]
func (h *PaymentHandler) Notify(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	if err := h.service.Notify(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Sweep reports every pending payment notification to the platform
// @Router /payments/sweep [post]
func (h *PaymentHandler) Sweep(c *gin.Context) {
	notified, err := h.service.NotifyUnnotified(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SweepResponse{Notified: notified})
}
