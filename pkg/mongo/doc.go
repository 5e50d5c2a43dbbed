// Package mongo connects to MongoDB with retries and exposes a readiness
// check.
//
// Stored QR codes, blog posts and subscriptions live in the database named
// by MONGODB_DATABASE.
//
//	client, err := mongo.New(ctx, cfg.Mongo)
//	if err != nil {
//		return err
//	}
//	db := client.Database(cfg.Mongo.Database)
//	check := mongo.Healthcheck(client)
//
// Connection failures wrap ErrConnect and failed pings wrap ErrUnhealthy.
package mongo
