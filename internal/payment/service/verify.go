package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	licensedomain "github.com/lodgerhq/lodger/internal/license/domain"
	licenseservice "github.com/lodgerhq/lodger/internal/license/service"
	"github.com/lodgerhq/lodger/internal/payment/domain"
	plandomain "github.com/lodgerhq/lodger/internal/plan/domain"
	"github.com/lodgerhq/lodger/internal/txref"
)

// placeholderPlanName is used when the plan row cannot be read during
// verification; the activation itself must not fail over a display name.
const placeholderPlanName = "Unknown plan"

// Verify consumes a gateway callback and drives the license state machine.
// Repeated calls for an already-activated license are a success and return
// the stored values without touching the record.
func (s *Service) Verify(ctx context.Context, req domain.VerifyRequest) (*domain.VerificationResult, error) {
	transactionID := strings.TrimSpace(req.TransactionID)
	ref := strings.TrimSpace(req.TxRef)
	if transactionID == "" && ref == "" {
		return nil, domain.ErrMissingIdentifiers
	}

	license, err := s.locateLicense(ctx, transactionID, ref)
	if err != nil {
		return nil, err
	}
	if license == nil {
		s.metrics.RecordVerification(ctx, "not_found")
		return nil, licensedomain.ErrNotFound
	}

	// idempotent replay: the transition already happened, return the
	// winner's values regardless of what this callback claims
	if license.PaymentStatus == licensedomain.PaymentStatusPaid {
		s.metrics.RecordVerification(ctx, "replay")
		return s.resultFor(ctx, license), nil
	}

	if !successfulStatus(req.Status) {
		if license.PaymentStatus == licensedomain.PaymentStatusPending {
			s.metrics.RecordVerification(ctx, "not_successful")
			return nil, domain.ErrPaymentNotSuccessful
		}
		s.metrics.RecordVerification(ctx, "cannot_process")
		return nil, licensedomain.ErrCannotProcess
	}

	if license.PaymentStatus != licensedomain.PaymentStatusPending {
		s.metrics.RecordVerification(ctx, "cannot_process")
		return nil, licensedomain.ErrCannotProcess
	}

	billingPeriod, err := s.resolveBillingPeriod(ctx, req.BillingPeriod, license)
	if err != nil {
		return nil, err
	}

	activationTx := transactionID
	if activationTx == "" {
		activationTx = ref
	}
	activated, err := s.licenses.Activate(ctx, license, licenseservice.ActivateInput{
		TransactionID: activationTx,
		BillingPeriod: billingPeriod,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordVerification(ctx, "activated")
	s.log.Info("license activated",
		zap.Int64("license_id", int64(activated.ID)),
		zap.String("plan_id", activated.PlanID),
		zap.String("billing_period", billingPeriod),
	)
	return s.resultFor(ctx, activated), nil
}

// locateLicense prefers the transaction id, which stays resolvable after
// activation and covers duplicate callbacks; the reference decodes to the
// plan and finds its newest pending license.
func (s *Service) locateLicense(ctx context.Context, transactionID, ref string) (*licensedomain.License, error) {
	if transactionID != "" {
		license, err := s.licenseRepo.FindByTransactionID(ctx, s.db, transactionID)
		if err != nil {
			return nil, err
		}
		if license != nil {
			return license, nil
		}
	}
	if ref == "" {
		return nil, nil
	}
	planID, ok := txref.Decode(ref)
	if !ok {
		return nil, nil
	}
	return s.licenseRepo.FindLatestPendingByPlan(ctx, s.db, planID)
}

// resolveBillingPeriod prefers the callback's value, then the one stored at
// initiation, then the plan's own default so both ends of the pipeline
// agree for quarterly-only plans.
func (s *Service) resolveBillingPeriod(ctx context.Context, requested string, license *licensedomain.License) (string, error) {
	period := strings.ToLower(strings.TrimSpace(requested))
	if period == "" && license.BillingPeriod != nil {
		period = *license.BillingPeriod
	}
	if period == "" {
		if plan, err := s.plans.FindByID(ctx, s.db, license.PlanID); err == nil && plan != nil {
			period = plan.DefaultBillingPeriod()
		} else {
			period = "yearly"
		}
	}
	if !plandomain.ValidBillingPeriod(period) {
		return "", licensedomain.ErrInvalidBillingPeriod
	}
	return period, nil
}

func (s *Service) resultFor(ctx context.Context, license *licensedomain.License) *domain.VerificationResult {
	result := &domain.VerificationResult{PlanName: placeholderPlanName}
	if license.LicenceKey != nil {
		result.LicenceKey = *license.LicenceKey
	}
	if license.ExpiresAt != nil {
		result.ExpiresAt = *license.ExpiresAt
	}
	if license.BillingPeriod != nil {
		result.BillingPeriod = *license.BillingPeriod
	}
	if plan, err := s.plans.FindByID(ctx, s.db, license.PlanID); err == nil && plan != nil {
		result.PlanName = plan.Name
	}
	return result
}

func successfulStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "successful", "success":
		return true
	}
	return false
}

