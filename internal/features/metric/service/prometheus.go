package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"

	"podtrace/cmd/app"
	"podtrace/internal/common"
	"podtrace/internal/features/metric/domain"
)

// seriesAPI is the slice of the Prometheus v1 API the client needs.
// promv1.API satisfies it; tests substitute a fake.
type seriesAPI interface {
	Series(ctx context.Context, matches []string, startTime, endTime time.Time, opts ...promv1.Option) ([]model.LabelSet, promv1.Warnings, error)
}

// Client implements domain.Provider against the Prometheus HTTP API
// with bounded exponential retry.
type Client struct {
	api     seriesAPI
	timeout time.Duration
	retry   app.RetryConfig
	logger  *slog.Logger
}

// NewClient creates a series provider for the configured backend
func NewClient(cfg *app.MetricsConfig, retry app.RetryConfig, logger *slog.Logger) (*Client, error) {
	promClient, err := api.NewClient(api.Config{Address: cfg.BaseURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics API client: %w", err)
	}

	return &Client{
		api:     promv1.NewAPI(promClient),
		timeout: cfg.Timeout,
		retry:   retry,
		logger:  logger,
	}, nil
}

// Series returns the label sets of all series matching the selector inside the time range
func (c *Client) Series(ctx context.Context, selector domain.Selector, timeRange domain.TimeRange) ([]domain.LabelSet, error) {
	if err := timeRange.Validate(); err != nil {
		return nil, common.InvalidInputError("%v", err)
	}

	expr := selector.String()

	var sets []model.LabelSet
	operation := func() error {
		// Check context cancellation before each attempt
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}

		queryCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		result, warnings, err := c.api.Series(queryCtx, []string{expr}, timeRange.From, timeRange.To)
		if err != nil {
			return c.classifyError(err)
		}

		for _, w := range warnings {
			c.logger.Warn("metrics backend warning", "selector", expr, "warning", w)
		}

		sets = result
		return nil
	}

	if err := c.executeWithRetry(ctx, operation, expr); err != nil {
		if common.IsContextCanceled(err) || common.IsInvalidInput(err) {
			return nil, err
		}
		return nil, common.BackendUnavailableError("series query %s failed: %v", expr, err)
	}

	results := make([]domain.LabelSet, 0, len(sets))
	for _, set := range sets {
		labels := make(domain.LabelSet, len(set))
		for name, value := range set {
			labels[string(name)] = string(value)
		}
		results = append(results, labels)
	}

	c.logger.Debug("series query completed", "selector", expr, "series", len(results))
	return results, nil
}

// classifyError decides whether a backend error is worth retrying
func (c *Client) classifyError(err error) error {
	if common.IsContextCanceled(err) {
		return backoff.Permanent(err)
	}

	var apiErr *promv1.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Type {
		case promv1.ErrBadData:
			// Malformed selector; retrying cannot help
			return backoff.Permanent(common.InvalidInputError("backend rejected query: %v", apiErr))
		case promv1.ErrBadResponse:
			// Unparseable answer; retrying cannot help either
			return backoff.Permanent(fmt.Errorf("unparseable backend response: %w", err))
		}
	}

	return fmt.Errorf("series query failed: %w", err)
}

// executeWithRetry executes an operation with bounded exponential backoff
func (c *Client) executeWithRetry(ctx context.Context, operation backoff.Operation, expr string) error {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = c.retry.InitialInterval
	expBackoff.MaxElapsedTime = c.retry.MaxElapsedTime

	policy := backoff.WithContext(backoff.WithMaxRetries(expBackoff, c.retry.MaxRetries), ctx)

	return backoff.RetryNotify(
		operation,
		policy,
		func(err error, duration time.Duration) {
			c.logger.Warn("retrying series query",
				"selector", expr,
				"error", err,
				"backoff", duration)
		},
	)
}
