package billing

import (
	"context"
	"time"
)

// Provider is the payment provider. It hosts checkout and the customer
// portal so no card data passes through this service.
type Provider interface {
	CreateCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error)
	GetCustomerPortalLink(ctx context.Context, sub *Subscription) (*PortalLink, error)
}

// CheckoutRequest contains data needed to create a checkout session.
type CheckoutRequest struct {
	PriceID    string
	OwnerID    string
	Email      string
	SuccessURL string
}

// CheckoutLink is a hosted checkout session.
type CheckoutLink struct {
	URL       string    `json:"url"`
	SessionID string    `json:"sessionId,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PortalLink is a pre-authenticated customer portal session.
type PortalLink struct {
	URL              string    `json:"url"`
	CancelURL        string    `json:"cancelUrl,omitempty"`
	UpdatePaymentURL string    `json:"updatePaymentUrl,omitempty"`
	ExpiresAt        time.Time `json:"expiresAt"`
}
