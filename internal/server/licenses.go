package server

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lodgerhq/lodger/internal/obscontext"
	paymentdomain "github.com/lodgerhq/lodger/internal/payment/domain"
)

func (s *Server) registerLicenseRoutes() {
	s.engine.PATCH("/activate-license-key", s.serviceKeyAuth(), s.ActivateLicenseKey)
}

// serviceKeyAuth is the deployment's auth boundary: the wider platform
// terminates real user auth and forwards the caller identity alongside a
// shared service key.
func (s *Server) serviceKeyAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		configured := strings.TrimSpace(s.cfg.ServiceAPIKey)
		presented := strings.TrimSpace(c.GetHeader("X-Api-Key"))
		if configured == "" || subtle.ConstantTimeCompare([]byte(configured), []byte(presented)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		caller := strings.TrimSpace(c.GetHeader("X-Caller-Id"))
		if caller == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Request = c.Request.WithContext(obscontext.WithCallerID(c.Request.Context(), caller))
		c.Next()
	}
}

type activateLicenseKeyRequest struct {
	LicenseKey string `json:"licenseKey"`
}

// ActivateLicenseKey redeems an issued key directly, binding it to the
// authenticated caller without a payment callback.
func (s *Server) ActivateLicenseKey(c *gin.Context) {
	var req activateLicenseKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.LicenseKey) == "" {
		AbortWithError(c, paymentdomain.ErrMissingRequiredFields)
		return
	}

	caller := obscontext.CallerIDFromContext(c.Request.Context())
	if caller == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	license, err := s.licenseSvc.Redeem(c.Request.Context(), req.LicenseKey, caller)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, "license activated", "license key redeemed", redeemedLicense{
		LicenseKey:    deref(license.LicenceKey),
		PlanID:        license.PlanID,
		BillingPeriod: deref(license.BillingPeriod),
		ExpiresAt:     license.ExpiresAt,
		OwnerID:       deref(license.OwnerID),
	})
}

type redeemedLicense struct {
	LicenseKey    string     `json:"licenseKey"`
	PlanID        string     `json:"planId"`
	BillingPeriod string     `json:"billingPeriod"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	OwnerID       string     `json:"ownerId"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
