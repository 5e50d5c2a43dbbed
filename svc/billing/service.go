package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/qrforge/qrforge/pkg/logger"
)

// Service answers plan questions for owners and starts provider flows.
type Service struct {
	plans      map[string]Plan
	order      []string
	store      Store
	provider   Provider
	successURL string
	now        func() time.Time
	log        *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithProvider enables checkout and the customer portal.
func WithProvider(p Provider) Option {
	return func(s *Service) { s.provider = p }
}

// WithSuccessURL sets where checkout returns after payment.
func WithSuccessURL(u string) Option {
	return func(s *Service) { s.successURL = u }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l.With(logger.Component("billing"))
		}
	}
}

// NewService creates a billing service. plans must include PlanFree.
// Panics on a nil store or a missing free plan.
func NewService(store Store, plans []Plan, opts ...Option) *Service {
	if store == nil {
		panic("billing: store is required")
	}
	s := &Service{
		plans: make(map[string]Plan, len(plans)),
		store: store,
		now:   time.Now,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, p := range plans {
		s.plans[p.ID] = p
		s.order = append(s.order, p.ID)
	}
	if _, ok := s.plans[PlanFree]; !ok {
		panic("billing: free plan is required")
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plans returns every plan in configuration order.
func (s *Service) Plans() []Plan {
	out := make([]Plan, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.plans[id])
	}
	return out
}

// PlanFor returns the plan the owner is entitled to right now. Owners with
// no subscription, or one that lapsed, get the free plan.
func (s *Service) PlanFor(ctx context.Context, ownerID string) (Plan, error) {
	sub, err := s.store.Get(ctx, ownerID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return s.plans[PlanFree], nil
	}
	if err != nil {
		return Plan{}, err
	}
	if !sub.EntitledAt(s.now()) {
		return s.plans[PlanFree], nil
	}
	plan, ok := s.plans[sub.PlanID]
	if !ok {
		s.log.WarnContext(ctx, "subscription references unknown plan",
			logger.OwnerID(ownerID), logger.Plan(sub.PlanID))
		return s.plans[PlanFree], nil
	}
	return plan, nil
}

// CheckLimit returns ErrLimitExceeded when the owner already uses as many
// of r as the plan allows.
func (s *Service) CheckLimit(ctx context.Context, ownerID string, r Resource, used int64) error {
	plan, err := s.PlanFor(ctx, ownerID)
	if err != nil {
		return err
	}
	limit := plan.Limit(r)
	if limit != Unlimited && used >= limit {
		return fmt.Errorf("%w: %s allows %d %s", ErrLimitExceeded, plan.Name, limit, r)
	}
	return nil
}

// HasFeature reports whether the owner's plan includes f. Lookup errors
// count as not included.
func (s *Service) HasFeature(ctx context.Context, ownerID string, f Feature) bool {
	plan, err := s.PlanFor(ctx, ownerID)
	if err != nil {
		s.log.ErrorContext(ctx, "plan lookup failed", logger.OwnerID(ownerID), logger.Error(err))
		return false
	}
	return plan.Has(f)
}

// RequireFeature is HasFeature as an error: ErrFeatureNotInPlan when absent.
func (s *Service) RequireFeature(ctx context.Context, ownerID string, f Feature) error {
	if !s.HasFeature(ctx, ownerID, f) {
		return fmt.Errorf("%w: %s", ErrFeatureNotInPlan, f)
	}
	return nil
}

// Subscription returns the owner's stored subscription.
func (s *Service) Subscription(ctx context.Context, ownerID string) (*Subscription, error) {
	return s.store.Get(ctx, ownerID)
}

// Assign records a subscription for the owner. Used by operators and by
// provider reconciliation; the plan must exist.
func (s *Service) Assign(ctx context.Context, sub Subscription) error {
	if sub.OwnerID == "" {
		return ErrMissingOwnerID
	}
	if _, ok := s.plans[sub.PlanID]; !ok {
		return ErrPlanNotFound
	}
	if sub.Status == "" {
		sub.Status = StatusActive
	}
	if err := s.store.Save(ctx, &sub); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "subscription assigned",
		logger.OwnerID(sub.OwnerID), logger.Plan(sub.PlanID), slog.String("status", string(sub.Status)))
	return nil
}

// Checkout starts a hosted checkout for planID.
func (s *Service) Checkout(ctx context.Context, ownerID, planID, email string) (*CheckoutLink, error) {
	if ownerID == "" {
		return nil, ErrMissingOwnerID
	}
	plan, ok := s.plans[planID]
	if !ok {
		return nil, ErrPlanNotFound
	}
	if plan.PriceID == "" {
		return nil, ErrPlanNotPurchasable
	}
	if s.provider == nil {
		return nil, ErrBillingDisabled
	}
	link, err := s.provider.CreateCheckoutLink(ctx, CheckoutRequest{
		PriceID:    plan.PriceID,
		OwnerID:    ownerID,
		Email:      email,
		SuccessURL: s.successURL,
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "checkout created", logger.OwnerID(ownerID), logger.Plan(planID))
	return link, nil
}

// Portal opens the provider's customer portal for the owner's subscription.
func (s *Service) Portal(ctx context.Context, ownerID string) (*PortalLink, error) {
	if s.provider == nil {
		return nil, ErrBillingDisabled
	}
	sub, err := s.store.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if sub.ProviderCustomerID == "" {
		return nil, ErrNoPortal
	}
	return s.provider.GetCustomerPortalLink(ctx, sub)
}
