package domain

import "time"

// CheckoutRequest starts a purchase. Currency is optional; when absent (or
// not settleable by the gateway) it is resolved from the geo signals, and
// USD when those fail too.
type CheckoutRequest struct {
	PlanID      string `json:"planId"`
	Email       string `json:"email"`
	Currency    string `json:"currency"`
	CountryCode string `json:"countryCode"`
	Timezone    string `json:"timezone"`
}

type CheckoutResponse struct {
	PaymentLink string `json:"paymentLink"`
}

// VerifyRequest is the gateway callback payload. At least one of
// TransactionID and TxRef must be present.
type VerifyRequest struct {
	TransactionID string `json:"transaction_id"`
	TxRef         string `json:"tx_ref"`
	Status        string `json:"status"`
	BillingPeriod string `json:"billingPeriod"`
}

type VerificationResult struct {
	LicenceKey    string    `json:"licenseKey"`
	ExpiresAt     time.Time `json:"expiresAt"`
	BillingPeriod string    `json:"billingPeriod"`
	PlanName      string    `json:"planName"`
}
