package web

import (
	"errors"
	"net/http"

	"github.com/qrforge/qrforge/handler"
	"github.com/qrforge/qrforge/pkg/payload"
	"github.com/qrforge/qrforge/pkg/qrcode"
	"github.com/qrforge/qrforge/svc/billing"
	"github.com/qrforge/qrforge/svc/blog"
	"github.com/qrforge/qrforge/svc/qrcodes"
)

// errorStatus maps domain errors to responses. The first match wins.
var errorStatus = []struct {
	target error
	status handler.HTTPError
}{
	{payload.ErrInvalidContent, handler.ErrUnprocessableEntity},
	{payload.ErrUnknownType, handler.ErrUnprocessableEntity},
	{qrcode.ErrInvalidStyle, handler.ErrUnprocessableEntity},
	{qrcode.ErrUnknownKind, handler.ErrUnprocessableEntity},
	{qrcode.ErrEmptyContent, handler.ErrUnprocessableEntity},
	{qrcode.ErrorFailedToGenerateQRCode, handler.NewHTTPError(http.StatusUnprocessableEntity, "content_too_long")},

	{qrcodes.ErrMissingOwner, handler.ErrUnauthorized},
	{qrcodes.ErrNotFound, handler.ErrNotFound},
	{qrcodes.ErrDuplicateShortCode, handler.ErrConflict},
	{qrcodes.ErrDynamicUnsupported, handler.ErrUnprocessableEntity},
	{qrcodes.ErrNameTooLong, handler.ErrUnprocessableEntity},

	{blog.ErrNotFound, handler.ErrNotFound},
	{blog.ErrDuplicateSlug, handler.ErrConflict},
	{blog.ErrInvalidPost, handler.ErrUnprocessableEntity},
	{blog.ErrEmptyQuery, handler.ErrBadRequest},

	{billing.ErrLimitExceeded, handler.NewHTTPError(http.StatusPaymentRequired, "plan_limit_exceeded")},
	{billing.ErrFeatureNotInPlan, handler.NewHTTPError(http.StatusPaymentRequired, "feature_not_in_plan")},
	{billing.ErrMissingOwnerID, handler.ErrUnauthorized},
	{billing.ErrPlanNotFound, handler.ErrNotFound},
	{billing.ErrSubscriptionNotFound, handler.ErrNotFound},
	{billing.ErrNoPortal, handler.ErrNotFound},
	{billing.ErrPlanNotPurchasable, handler.ErrUnprocessableEntity},
	{billing.ErrBillingDisabled, handler.ErrServiceUnavailable},
	{billing.ErrProviderError, handler.ErrBadGateway},
	{billing.ErrNoCheckoutURL, handler.ErrBadGateway},
	{billing.ErrNoPortalURL, handler.ErrBadGateway},
}

// mapError attaches an HTTP status to known domain errors. Errors that
// already carry one, and unknown errors, pass through.
func mapError(err error) error {
	var httpErr handler.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	for _, m := range errorStatus {
		if errors.Is(err, m.target) {
			return m.status.Wrap(err)
		}
	}
	return err
}
