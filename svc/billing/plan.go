package billing

import (
	"slices"
	"time"
)

// Resource is a countable thing a plan limits.
type Resource string

const ResourceCodes Resource = "max_codes"

// Unlimited marks a resource without a cap.
const Unlimited int64 = -1

// Feature is a capability a plan may include.
type Feature string

const (
	FeatureVector  Feature = "vector"  // SVG export
	FeatureDynamic Feature = "dynamic" // editable redirect codes
)

// Plan identifiers.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// Money is an amount in the smallest currency unit.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Plan describes what an owner may do. PriceID is the provider's price
// identifier and is empty for plans that cannot be bought.
type Plan struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	PriceID  string             `json:"-"`
	Price    Money              `json:"price"`
	Limits   map[Resource]int64 `json:"limits"`
	Features []Feature          `json:"features"`
}

// Has reports whether the plan includes f.
func (p Plan) Has(f Feature) bool {
	return slices.Contains(p.Features, f)
}

// Limit returns the cap for r. Resources the plan does not mention are
// unlimited.
func (p Plan) Limit(r Resource) int64 {
	if l, ok := p.Limits[r]; ok {
		return l
	}
	return Unlimited
}

// DefaultPlans returns the free and pro plans. proPriceID is the provider
// price for pro.
func DefaultPlans(proPriceID string) []Plan {
	return []Plan{
		{
			ID:     PlanFree,
			Name:   "Free",
			Price:  Money{Currency: "USD"},
			Limits: map[Resource]int64{ResourceCodes: 5},
		},
		{
			ID:       PlanPro,
			Name:     "Pro",
			PriceID:  proPriceID,
			Price:    Money{Amount: 900, Currency: "USD"},
			Limits:   map[Resource]int64{ResourceCodes: Unlimited},
			Features: []Feature{FeatureVector, FeatureDynamic},
		},
	}
}

// Status is the provider-side state of a subscription.
type Status string

const (
	StatusTrialing  Status = "trialing"
	StatusActive    Status = "active"
	StatusPastDue   Status = "past_due"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Subscription links an owner to a paid plan. Owners without one are on the
// free plan.
type Subscription struct {
	OwnerID                string     `json:"ownerId" bson:"_id"`
	PlanID                 string     `json:"planId" bson:"plan_id"`
	Status                 Status     `json:"status" bson:"status"`
	ProviderSubscriptionID string     `json:"-" bson:"provider_subscription_id,omitempty"`
	ProviderCustomerID     string     `json:"-" bson:"provider_customer_id,omitempty"`
	CurrentPeriodEnd       *time.Time `json:"currentPeriodEnd,omitempty" bson:"current_period_end,omitempty"`
	CreatedAt              time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt              time.Time  `json:"updatedAt" bson:"updated_at"`
}

// EntitledAt reports whether the subscription grants its plan at now.
// Cancelled subscriptions stay entitled until the paid period ends.
func (s *Subscription) EntitledAt(now time.Time) bool {
	switch s.Status {
	case StatusActive, StatusTrialing, StatusPastDue:
		return true
	case StatusCancelled:
		return s.CurrentPeriodEnd != nil && now.Before(*s.CurrentPeriodEnd)
	default:
		return false
	}
}
