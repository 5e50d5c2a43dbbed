package opensearch

import (
	"context"
	"errors"

	"github.com/opensearch-project/opensearch-go/v2"
)

var (
	ErrNoAddresses = errors.New("opensearch: no cluster address configured")
	ErrClient      = errors.New("opensearch: cannot build client")
	ErrUnhealthy   = errors.New("opensearch: cluster info request failed")

	// ErrRequestFailed wraps transport errors and non-2xx answers from
	// index and search calls.
	ErrRequestFailed = errors.New("opensearch: request failed")
)

// New builds a client for cfg and makes sure the cluster answers.
func New(ctx context.Context, cfg Config) (*opensearch.Client, error) {
	if !cfg.Enabled() {
		return nil, ErrNoAddresses
	}
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses:    cfg.Addresses,
		Username:     cfg.Username,
		Password:     cfg.Password,
		MaxRetries:   cfg.MaxRetries,
		DisableRetry: cfg.DisableRetry,
	})
	if err != nil {
		return nil, errors.Join(ErrClient, err)
	}
	if err := Healthcheck(client)(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// Healthcheck probes the cluster info endpoint.
func Healthcheck(client *opensearch.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		res, err := client.Info(client.Info.WithContext(ctx))
		if err := check(res, err); err != nil {
			return errors.Join(ErrUnhealthy, err)
		}
		return nil
	}
}
