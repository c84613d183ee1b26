package weebly

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sitesync/backend/internal/domain/shared"
)

// PaymentTerm is the billing term reported with a payment
type PaymentTerm string

const (
	PaymentTermMonth   PaymentTerm = "month"
	PaymentTermYear    PaymentTerm = "year"
	PaymentTermForever PaymentTerm = "forever"
	PaymentTermRefund  PaymentTerm = "refund"
)

// PaymentKind is the payment kind reported with a payment
type PaymentKind string

const (
	PaymentKindSingle PaymentKind = "single"
	PaymentKindSetup  PaymentKind = "setup"
)

// revenueShare is the fraction of the gross amount owed to the platform
var revenueShare = decimal.NewFromFloat(0.3)

// PaymentNotification records a payment made by a site owner that has
// to be reported to the platform
type PaymentNotification struct {
	shared.BaseAggregateRoot
	SiteID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name              string          `gorm:"type:varchar(255);not null"`
	Detail            string          `gorm:"type:varchar(255)"`
	PurchaseNotRefund bool            `gorm:"not null;default:true"`
	Kind              PaymentKind     `gorm:"type:varchar(10)"`
	Term              PaymentTerm     `gorm:"type:varchar(10)"`
	GrossAmount       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// PayableAmount is always the platform share of the gross amount,
	// recomputed whenever the gross amount is set
	PayableAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency      string          `gorm:"type:varchar(10);not null;default:'USD'"`
	Notified      bool            `gorm:"not null;default:false;index"`
	NotifiedAt    *time.Time      `gorm:""`
}

// TableName returns the table name for GORM
func (PaymentNotification) TableName() string {
	return "payment_notifications"
}

// NewPaymentNotification creates a payment notification for a site.
// The payable amount is derived from the gross amount.
func NewPaymentNotification(siteID uuid.UUID, name string, gross decimal.Decimal) (*PaymentNotification, error) {
	if siteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SITE_REF", "Payment notification requires a site")
	}
	if name == "" {
		return nil, shared.NewDomainError("EMPTY_PAYMENT_NAME", "Payment name must not be empty")
	}
	if gross.IsNegative() {
		return nil, shared.NewDomainError("NEGATIVE_AMOUNT", "Gross amount must not be negative")
	}

	notification := &PaymentNotification{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SiteID:            siteID,
		Name:              name,
		PurchaseNotRefund: true,
		GrossAmount:       gross.Round(2),
		PayableAmount:     PayableAmount(gross),
		Currency:          "USD",
	}

	return notification, nil
}

// PayableAmount returns the platform share of a gross amount,
// rounded to two decimal places
func PayableAmount(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(revenueShare).Round(2)
}

// SetGrossAmount replaces the gross amount and recomputes the payable share
func (n *PaymentNotification) SetGrossAmount(gross decimal.Decimal) error {
	if gross.IsNegative() {
		return shared.NewDomainError("NEGATIVE_AMOUNT", "Gross amount must not be negative")
	}
	n.GrossAmount = gross.Round(2)
	n.PayableAmount = PayableAmount(gross)
	n.Touch()
	return nil
}

// Method returns the reporting method sent to the platform. Outside
// production the method carries a test prefix so the platform does not
// bill for it.
func (n *PaymentNotification) Method(production bool) string {
	method := "purchase"
	if !n.PurchaseNotRefund {
		method = "refund"
	}
	if !production {
		method = "test" + method
	}
	return method
}

// MarkNotified records that the platform accepted the notification
func (n *PaymentNotification) MarkNotified() {
	if n.Notified {
		return
	}
	now := time.Now()
	n.Notified = true
	n.NotifiedAt = &now
	n.Touch()
	n.AddDomainEvent(NewPaymentNotifiedEvent(n))
}
