// Package billing maps owners to plans and hands paid flows to Paddle.
//
// Two plans exist: free, with five saved codes and raster output only, and
// pro, which lifts the limit and adds vector export and dynamic codes.
// Subscriptions live in the Mongo "subscriptions" collection, one document
// per owner; an owner without a current subscription is on the free plan.
//
//	svc := billing.NewService(billing.NewMongoStore(db),
//		billing.DefaultPlans(cfg.Paddle.ProPriceID),
//		billing.WithProvider(paddleProvider),
//	)
//	if err := svc.CheckLimit(ctx, owner, billing.ResourceCodes, count); err != nil {
//		return err
//	}
//
// Provider webhooks are not handled here; Assign records subscriptions.
package billing
