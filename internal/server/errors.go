package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lodgerhq/lodger/internal/gateway/flutterwave"
	licensedomain "github.com/lodgerhq/lodger/internal/license/domain"
	paymentdomain "github.com/lodgerhq/lodger/internal/payment/domain"
	plandomain "github.com/lodgerhq/lodger/internal/plan/domain"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate_limited")
)

// ErrorHandlingMiddleware maps accumulated handler errors to the response
// envelope. Raw upstream payloads never reach the client; upstream failures
// surface only as a stable description.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, description := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, Response{
			Status:      "error",
			Message:     http.StatusText(status),
			Description: description,
		})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	var upstream *flutterwave.UpstreamError

	switch {
	case errors.Is(err, paymentdomain.ErrMissingRequiredFields),
		errors.Is(err, paymentdomain.ErrInvalidEmail),
		errors.Is(err, paymentdomain.ErrMissingIdentifiers),
		errors.Is(err, licensedomain.ErrInvalidBillingPeriod):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, plandomain.ErrNoPricing):
		return http.StatusBadRequest, "this plan has no self-serve pricing, contact sales"

	case errors.Is(err, paymentdomain.ErrPaymentNotSuccessful):
		return http.StatusBadRequest, "payment was not successful"

	case errors.Is(err, licensedomain.ErrCannotProcess),
		errors.Is(err, licensedomain.ErrAlreadyRedeemed):
		return http.StatusBadRequest, "unable to process this license"

	case errors.Is(err, plandomain.ErrNotFound),
		errors.Is(err, licensedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "not found"

	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"

	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "too many requests, slow down"

	case errors.As(err, &upstream):
		return http.StatusBadGateway, "payment gateway is unavailable"

	case errors.Is(err, paymentdomain.ErrGatewayNotConfigured):
		return http.StatusInternalServerError, "payment gateway is not configured"

	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func classifyErrorForLog(err error) (string, string) {
	status, _ := mapError(err)
	switch {
	case status == http.StatusTooManyRequests:
		return "rate_limited", "rate_limited"
	case status == http.StatusBadGateway:
		return "upstream_error", "bad_gateway"
	case status >= http.StatusInternalServerError:
		return "internal_error", "internal"
	case status == http.StatusNotFound:
		return "not_found", "not_found"
	case status == http.StatusUnauthorized:
		return "unauthorized", "unauthorized"
	default:
		return "validation_error", "bad_request"
	}
}
