package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusPaid      = "PAID"
	PaymentStatusCancelled = "CANCELLED"
	PaymentStatusRefunded  = "REFUNDED"
)

// License tracks one plan purchase from checkout through activation.
// LicenceKey is set exactly when PaymentStatus is PAID; it is unique among
// non-null values only, since every pending license has none.
type License struct {
	ID            snowflake.ID      `json:"id,string" gorm:"primaryKey"`
	PlanID        string            `json:"planId"`
	OwnerID       *string           `json:"ownerId"`
	LicenceKey    *string           `json:"licenceKey"`
	PaymentStatus string            `json:"paymentStatus"`
	BillingPeriod *string           `json:"billingPeriod"`
	TransactionID *string           `json:"transactionId"`
	ExpiresAt     *time.Time        `json:"expiresAt"`
	Metadata      datatypes.JSONMap `json:"metadata"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func (License) TableName() string {
	return "licenses"
}

// Activation carries the fields written by the PENDING→PAID transition.
type Activation struct {
	LicenceKey    string
	TransactionID string
	BillingPeriod string
	ActivatedAt   time.Time
	ExpiresAt     time.Time
	OwnerID       *string
}

// ExpiryFor computes license expiry from the activation instant.
func ExpiryFor(billingPeriod string, activatedAt time.Time) time.Time {
	if billingPeriod == "quarterly" {
		return activatedAt.Add(90 * 24 * time.Hour)
	}
	return activatedAt.Add(365 * 24 * time.Hour)
}
