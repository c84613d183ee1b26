package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/domain/platform"
	"github.com/sitesync/backend/internal/domain/shared"
	"github.com/sitesync/backend/internal/domain/weebly"
	"github.com/sitesync/backend/internal/infrastructure/config"
)

// ErrAlreadyNotified is returned when a notification was already
// accepted by the platform
var ErrAlreadyNotified = shared.NewDomainError("ALREADY_NOTIFIED", "Payment notification was already sent")

// ErrNoCredential is returned when neither the site nor the configured
// fallback yields a usable credential
var ErrNoCredential = shared.NewDomainError("NO_CREDENTIAL", "No valid credential to report the payment with")

// CreateRequest carries the fields to record a new payment
type CreateRequest struct {
	SiteID            int64              `json:"site_id" binding:"required"`
	Name              string             `json:"name" binding:"required"`
	Detail            string             `json:"detail"`
	Kind              weebly.PaymentKind `json:"kind"`
	Term              weebly.PaymentTerm `json:"term"`
	GrossAmount       decimal.Decimal    `json:"gross_amount"`
	Currency          string             `json:"currency"`
	PurchaseNotRefund *bool              `json:"purchase_not_refund"`
}

// Service records payments and reports them to the platform
type Service struct {
	payments    weebly.PaymentNotificationRepository
	sites       weebly.SiteRepository
	users       weebly.SiteUserRepository
	credentials weebly.CredentialRepository
	gateway     platform.Gateway
	events      shared.EventPublisher
	cfg         *config.Config
	logger      *zap.Logger
}

// NewService creates a new payment service
func NewService(payments weebly.PaymentNotificationRepository, sites weebly.SiteRepository, users weebly.SiteUserRepository, credentials weebly.CredentialRepository, gateway platform.Gateway, events shared.EventPublisher, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		payments:    payments,
		sites:       sites,
		users:       users,
		credentials: credentials,
		gateway:     gateway,
		events:      events,
		cfg:         cfg,
		logger:      logger.Named("payment"),
	}
}

// Create records a payment for later reporting
func (s *Service) Create(ctx context.Context, req CreateRequest) (*weebly.PaymentNotification, error) {
	site, err := s.sites.FindBySiteID(ctx, req.SiteID)
	if err != nil {
		return nil, err
	}

	notification, err := weebly.NewPaymentNotification(site.ID, req.Name, req.GrossAmount)
	if err != nil {
		return nil, err
	}
	notification.Detail = req.Detail
	notification.Kind = req.Kind
	notification.Term = req.Term
	if req.Currency != "" {
		notification.Currency = req.Currency
	}
	if req.PurchaseNotRefund != nil {
		notification.PurchaseNotRefund = *req.PurchaseNotRefund
	}

	if err := s.payments.Save(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// Notify reports one recorded payment to the platform. A zero gross
// amount is settled locally without a platform call since there is
// nothing to share.
func (s *Service) Notify(ctx context.Context, notificationID uuid.UUID) error {
	notification, err := s.payments.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.Notified {
		return ErrAlreadyNotified
	}

	if notification.GrossAmount.IsZero() {
		s.logger.Warn("settling zero amount payment without platform call",
			zap.String("notification_id", notification.ID.String()))
		return s.markNotified(ctx, notification)
	}

	site, err := s.sites.FindByID(ctx, notification.SiteID)
	if err != nil {
		return fmt.Errorf("resolving notification site: %w", err)
	}
	token, err := s.tokenForSite(ctx, site)
	if err != nil {
		return err
	}

	report := platform.PaymentReport{
		Name:          notification.Name,
		Method:        notification.Method(s.cfg.App.IsProduction()),
		GrossAmount:   notification.GrossAmount,
		PayableAmount: notification.PayableAmount,
		Detail:        notification.Detail,
		Kind:          string(notification.Kind),
		Term:          string(notification.Term),
		Currency:      notification.Currency,
	}
	if err := s.gateway.NotifyPayment(ctx, token, report); err != nil {
		return err
	}

	s.logger.Info("payment reported",
		zap.String("notification_id", notification.ID.String()),
		zap.Int64("site_id", site.SiteID),
		zap.String("method", report.Method),
		zap.String("gross_amount", report.GrossAmount.String()))
	return s.markNotified(ctx, notification)
}

// NotifyUnnotified reports every pending payment. Failures are logged
// per notification so one rejected payment does not block the rest.
// Returns the number of payments reported.
func (s *Service) NotifyUnnotified(ctx context.Context) (int, error) {
	pending, err := s.payments.FindUnnotified(ctx)
	if err != nil {
		return 0, err
	}

	notified := 0
	for i := range pending {
		if ctx.Err() != nil {
			return notified, ctx.Err()
		}
		if err := s.Notify(ctx, pending[i].ID); err != nil {
			s.logger.Error("reporting payment",
				zap.String("notification_id", pending[i].ID.String()),
				zap.Error(err))
			continue
		}
		notified++
	}
	s.logger.Info("payment sweep finished",
		zap.Int("pending", len(pending)),
		zap.Int("notified", notified))
	return notified, nil
}

func (s *Service) markNotified(ctx context.Context, notification *weebly.PaymentNotification) error {
	notification.MarkNotified()
	if err := s.payments.Save(ctx, notification); err != nil {
		return err
	}
	events := notification.GetDomainEvents()
	if len(events) > 0 {
		if err := s.events.Publish(ctx, events...); err != nil {
			s.logger.Error("publishing domain events", zap.Error(err))
		} else {
			notification.ClearDomainEvents()
		}
	}
	return nil
}

// tokenForSite resolves the credential to report a payment with. An
// invalid site credential falls back to the configured default
// credential, since payment reporting must not stop just because the
// site owner disconnected the app.
func (s *Service) tokenForSite(ctx context.Context, site *weebly.Site) (platform.AccessToken, error) {
	credentials, err := s.credentials.FindBySite(ctx, site.ID)
	if err != nil {
		return platform.AccessToken{}, err
	}
	credential := weebly.DefaultCredentialForSite(site, credentials)
	if credential != nil && credential.IsValid {
		return s.tokenOf(ctx, credential, site.SiteID)
	}

	fallback, err := s.fallbackCredential(ctx)
	if err != nil {
		return platform.AccessToken{}, err
	}
	if fallback == nil {
		return platform.AccessToken{}, ErrNoCredential
	}
	s.logger.Warn("using fallback credential for payment",
		zap.Int64("site_id", site.SiteID),
		zap.String("credential_id", fallback.ID.String()))
	return s.tokenOf(ctx, fallback, site.SiteID)
}

func (s *Service) fallbackCredential(ctx context.Context) (*weebly.Credential, error) {
	raw := s.cfg.Weebly.DefaultCredentialID
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid default credential id %q: %w", raw, err)
	}
	credential, err := s.credentials.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return credential, nil
}

func (s *Service) tokenOf(ctx context.Context, credential *weebly.Credential, platformSiteID int64) (platform.AccessToken, error) {
	user, err := s.users.FindByID(ctx, credential.UserID)
	if err != nil {
		return platform.AccessToken{}, fmt.Errorf("resolving credential user: %w", err)
	}
	return platform.AccessToken{
		Token:  credential.Token,
		UserID: user.UserID,
		SiteID: platformSiteID,
	}, nil
}
