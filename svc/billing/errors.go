package billing

import "errors"

var (
	ErrPlanNotFound       = errors.New("billing plan not found")
	ErrPlanNotPurchasable = errors.New("billing plan cannot be purchased")
	ErrLimitExceeded      = errors.New("plan limit exceeded")
	ErrFeatureNotInPlan   = errors.New("feature not available on current plan")

	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNoPortal             = errors.New("no customer portal for this subscription")
	ErrBillingDisabled      = errors.New("billing provider not configured")

	ErrMissingAPIKey              = errors.New("billing provider API key is required")
	ErrInvalidProviderEnvironment = errors.New("invalid billing provider environment")
	ErrProviderError              = errors.New("billing provider error")
	ErrNoCheckoutURL              = errors.New("no checkout URL returned from provider")
	ErrNoPortalURL                = errors.New("no portal URL returned from provider")
	ErrMissingOwnerID             = errors.New("owner ID is required")
	ErrMissingPriceID             = errors.New("price ID is required")
)
