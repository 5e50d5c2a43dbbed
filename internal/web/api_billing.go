package web

import (
	"errors"
	"net/http"

	"github.com/qrforge/qrforge/handler"
	"github.com/qrforge/qrforge/pkg/logger"
	"github.com/qrforge/qrforge/svc/billing"
)

type checkoutRequest struct {
	PlanID string `json:"planId"`
	Email  string `json:"email"`
}

type planResponse struct {
	Plan         billing.Plan          `json:"plan"`
	Subscription *billing.Subscription `json:"subscription,omitempty"`
}

func (s *Server) plans(_ handler.Context, _ struct{}) handler.Response {
	return handler.JSON(s.billing.Plans())
}

// currentPlan reports the caller's effective plan. Owners without a
// subscription are on the free plan and get no subscription object.
func (s *Server) currentPlan(ctx handler.Context, _ struct{}) handler.Response {
	owner := ownerID(ctx)
	plan, err := s.billing.PlanFor(ctx, owner)
	if err != nil {
		return fail(err)
	}
	resp := planResponse{Plan: plan}
	sub, err := s.billing.Subscription(ctx, owner)
	switch {
	case err == nil:
		resp.Subscription = sub
	case !errors.Is(err, billing.ErrSubscriptionNotFound):
		return fail(err)
	}
	return handler.JSON(resp)
}

func (s *Server) checkout(ctx handler.Context, req checkoutRequest) handler.Response {
	link, err := s.billing.Checkout(ctx, ownerID(ctx), req.PlanID, req.Email)
	if err != nil {
		return fail(err)
	}
	s.log.InfoContext(ctx, "checkout started",
		logger.OwnerID(ownerID(ctx)),
		logger.Plan(req.PlanID))
	return handler.JSON(link, handler.WithJSONStatus(http.StatusCreated))
}

func (s *Server) portal(ctx handler.Context, _ struct{}) handler.Response {
	link, err := s.billing.Portal(ctx, ownerID(ctx))
	if err != nil {
		return fail(err)
	}
	return handler.JSON(link)
}

// assignSubscription records a subscription by hand, for support and
// migrations while provider webhooks are not processed.
func (s *Server) assignSubscription(ctx handler.Context, sub billing.Subscription) handler.Response {
	if err := s.billing.Assign(ctx, sub); err != nil {
		return fail(err)
	}
	saved, err := s.billing.Subscription(ctx, sub.OwnerID)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(saved)
}
