package domain

import "time"

// Plan is a purchasable product tier. Prices are USD list prices; a nil
// price means the period is not offered, and a plan with neither price is a
// contact-sales tier. Reference data, read-only from this service.
type Plan struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name"`
	PriceQuarterly *float64  `json:"priceQuarterly"`
	PriceYearly    *float64  `json:"priceYearly"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Plan) TableName() string {
	return "plans"
}

// USDPrice picks the list price for checkout: yearly preferred, quarterly
// otherwise. ok is false for contact-sales plans.
func (p Plan) USDPrice() (amount float64, period string, ok bool) {
	if p.PriceYearly != nil && *p.PriceYearly > 0 {
		return *p.PriceYearly, BillingPeriodYearly, true
	}
	if p.PriceQuarterly != nil && *p.PriceQuarterly > 0 {
		return *p.PriceQuarterly, BillingPeriodQuarterly, true
	}
	return 0, "", false
}

// DefaultBillingPeriod mirrors USDPrice's preference so initiation metadata
// and verification defaults agree for every plan shape.
func (p Plan) DefaultBillingPeriod() string {
	if _, period, ok := p.USDPrice(); ok {
		return period
	}
	return BillingPeriodYearly
}

const (
	BillingPeriodYearly    = "yearly"
	BillingPeriodQuarterly = "quarterly"
)

// ValidBillingPeriod reports whether the value is one of the two offered
// periods.
func ValidBillingPeriod(period string) bool {
	return period == BillingPeriodYearly || period == BillingPeriodQuarterly
}
