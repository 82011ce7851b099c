package server

import (
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"

	paymentdomain "github.com/lodgerhq/lodger/internal/payment/domain"
)

func (s *Server) registerPaymentRoutes() {
	payments := s.engine.Group("/payment")
	payments.Use(s.paymentRateLimit())

	payments.POST("/initiate", s.InitiatePayment)
	payments.POST("/verify", s.VerifyPayment)
}

// paymentRateLimit throttles the public payment surface per client IP.
func (s *Server) paymentRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := s.limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.Next()
			return
		}
		if !allowed {
			s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), c.FullPath())
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}

func (s *Server) InitiatePayment(c *gin.Context) {
	var req paymentdomain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, paymentdomain.ErrMissingRequiredFields)
		return
	}
	req.PlanID = strings.TrimSpace(req.PlanID)
	req.Email = strings.TrimSpace(req.Email)
	if req.PlanID == "" || req.Email == "" {
		AbortWithError(c, paymentdomain.ErrMissingRequiredFields)
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		AbortWithError(c, paymentdomain.ErrInvalidEmail)
		return
	}

	resp, err := s.paymentSvc.InitiateCheckout(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, "checkout created", "redirect the customer to the payment link", resp)
}

func (s *Server) VerifyPayment(c *gin.Context) {
	var req paymentdomain.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, paymentdomain.ErrMissingIdentifiers)
		return
	}

	result, err := s.paymentSvc.Verify(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, "payment verified", "license is active", result)
}
