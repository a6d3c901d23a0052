package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/cenkalti/backoff/v4"

	"podtrace/cmd/app"
	"podtrace/internal/common"
	"podtrace/internal/features/events/domain"
	metricdomain "podtrace/internal/features/metric/domain"
)

// Fetcher implements domain.Provider against the EC2 API.
// Each call rebuilds the event list from the provider; nothing is cached.
type Fetcher struct {
	api                domain.EC2API
	timeout            time.Duration
	priceHistoryWindow time.Duration
	retry              app.RetryConfig
	logger             *slog.Logger
}

// NewFetcher creates an event fetcher over the given EC2 API
func NewFetcher(api domain.EC2API, cfg *app.CloudConfig, retry app.RetryConfig, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		api:                api,
		timeout:            cfg.Timeout,
		priceHistoryWindow: cfg.PriceHistoryWindow,
		retry:              retry,
		logger:             logger,
	}
}

// Fetch returns the events for the instance overlapping the time range,
// sorted ascending by timestamp
func (f *Fetcher) Fetch(ctx context.Context, instanceID string, timeRange metricdomain.TimeRange) ([]domain.InstanceEvent, error) {
	if instanceID == "" {
		return nil, common.InvalidInputError("instance ID is empty")
	}
	if err := timeRange.Validate(); err != nil {
		return nil, common.InvalidInputError("%v", err)
	}

	// Spot requests first: the filter-based lookup never rejects an
	// unknown ID, and its records outlive the instance status entry.
	terminations, hasSpotRecord, err := f.fetchSpotTerminations(ctx, instanceID, timeRange)
	if err != nil {
		return nil, err
	}

	scheduled, err := f.fetchScheduledEvents(ctx, instanceID, timeRange)
	if err != nil {
		// Terminated instances age out of the status API while their
		// spot request records persist. With a spot record on file the
		// instance is known; it just has no pending scheduled events.
		if !common.IsInstanceNotFound(err) || !hasSpotRecord {
			return nil, err
		}
		f.logger.Debug("instance status record aged out", "instance_id", instanceID)
		scheduled = nil
	}

	events := append(scheduled, terminations...)
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	f.logger.Debug("instance events fetched",
		"instance_id", instanceID,
		"events", len(events))

	return events, nil
}

// fetchScheduledEvents reads provider-scheduled maintenance events.
// An unknown instance ID surfaces here as InstanceNotFound; a terminated
// but still recorded instance simply has no pending events.
func (f *Fetcher) fetchScheduledEvents(ctx context.Context, instanceID string, timeRange metricdomain.TimeRange) ([]domain.InstanceEvent, error) {
	input := &ec2.DescribeInstanceStatusInput{
		InstanceIds:         []string{instanceID},
		IncludeAllInstances: aws.Bool(true),
	}

	var output *ec2.DescribeInstanceStatusOutput
	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		callCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()

		var opErr error
		output, opErr = f.api.DescribeInstanceStatus(callCtx, input)
		return f.classifyError(opErr)
	}

	if err := f.executeWithRetry(ctx, operation, "DescribeInstanceStatus", instanceID); err != nil {
		return nil, f.surfaceError(err, "instance status lookup for %s", instanceID)
	}

	var events []domain.InstanceEvent
	for _, status := range output.InstanceStatuses {
		for _, ev := range status.Events {
			// A maintenance window [NotBefore, NotAfter] counts when it
			// overlaps the range, even if it opened before the range did
			start := aws.ToTime(ev.NotBefore)
			end := start
			if ev.NotAfter != nil {
				end = aws.ToTime(ev.NotAfter)
			}
			if end.Before(timeRange.From) || start.After(timeRange.To) {
				continue
			}
			events = append(events, domain.InstanceEvent{
				Timestamp:  start,
				InstanceID: instanceID,
				Category:   domain.CategoryScheduledEvent,
				Message:    fmt.Sprintf("%s: %s", string(ev.Code), aws.ToString(ev.Description)),
			})
		}
	}

	return events, nil
}

// fetchSpotTerminations reads spot request status changes for the instance
// and enriches terminations with price history, instance traits and uptime.
// The returned flag reports whether any spot request record exists for the
// instance at all, in or out of the range.
func (f *Fetcher) fetchSpotTerminations(ctx context.Context, instanceID string, timeRange metricdomain.TimeRange) ([]domain.InstanceEvent, bool, error) {
	input := &ec2.DescribeSpotInstanceRequestsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("instance-id"), Values: []string{instanceID}},
		},
	}

	var output *ec2.DescribeSpotInstanceRequestsOutput
	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		callCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()

		var opErr error
		output, opErr = f.api.DescribeSpotInstanceRequests(callCtx, input)
		return f.classifyError(opErr)
	}

	if err := f.executeWithRetry(ctx, operation, "DescribeSpotInstanceRequests", instanceID); err != nil {
		return nil, false, f.surfaceError(err, "spot request lookup for %s", instanceID)
	}

	var events []domain.InstanceEvent
	for _, req := range output.SpotInstanceRequests {
		if req.Status == nil || !strings.Contains(aws.ToString(req.Status.Code), "terminated") {
			continue
		}

		terminatedAt := aws.ToTime(req.Status.UpdateTime)
		if !timeRange.Contains(terminatedAt) {
			continue
		}

		stats := f.priceStatsFor(ctx, req, terminatedAt)
		traits := f.traitsFor(ctx, req)
		uptime := terminatedAt.Sub(aws.ToTime(req.CreateTime))

		events = append(events, domain.InstanceEvent{
			Timestamp:  terminatedAt,
			InstanceID: instanceID,
			Category:   domain.CategorySpotTermination,
			Message:    describeTermination(req, stats, traits, uptime),
		})
	}

	return events, len(output.SpotInstanceRequests) > 0, nil
}

// priceStatsFor reads the spot price history preceding a termination.
// History is enrichment only: on failure the request's own price is used.
func (f *Fetcher) priceStatsFor(ctx context.Context, req ec2types.SpotInstanceRequest, terminatedAt time.Time) priceStats {
	fallback, _ := strconv.ParseFloat(aws.ToString(req.SpotPrice), 64)

	if req.LaunchSpecification == nil || req.LaunchSpecification.InstanceType == "" {
		return priceStats{AtLaunch: fallback, AtTermination: fallback}
	}

	input := &ec2.DescribeSpotPriceHistoryInput{
		InstanceTypes:       []ec2types.InstanceType{req.LaunchSpecification.InstanceType},
		AvailabilityZone:    req.LaunchedAvailabilityZone,
		StartTime:           aws.Time(terminatedAt.Add(-f.priceHistoryWindow)),
		EndTime:             aws.Time(terminatedAt),
		ProductDescriptions: []string{"Linux/UNIX"},
		MaxResults:          aws.Int32(100),
	}

	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	output, err := f.api.DescribeSpotPriceHistory(callCtx, input)
	if err != nil {
		f.logger.Warn("spot price history unavailable",
			"instance_id", aws.ToString(req.InstanceId),
			"error", err)
		return priceStats{AtLaunch: fallback, AtTermination: fallback}
	}

	return summarizePrices(output.SpotPriceHistory, fallback)
}

// traitsFor reads the network and CPU usage traits of the instance type.
// Like price history this is enrichment only: on failure the traits are
// simply left out of the description.
func (f *Fetcher) traitsFor(ctx context.Context, req ec2types.SpotInstanceRequest) instanceTraits {
	if req.LaunchSpecification == nil || req.LaunchSpecification.InstanceType == "" {
		return instanceTraits{}
	}

	input := &ec2.DescribeInstanceTypesInput{
		InstanceTypes: []ec2types.InstanceType{req.LaunchSpecification.InstanceType},
	}

	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	output, err := f.api.DescribeInstanceTypes(callCtx, input)
	if err != nil || len(output.InstanceTypes) == 0 {
		f.logger.Warn("instance type traits unavailable",
			"instance_type", string(req.LaunchSpecification.InstanceType),
			"error", err)
		return instanceTraits{}
	}

	info := output.InstanceTypes[0]
	traits := instanceTraits{}
	if info.NetworkInfo != nil {
		traits.NetworkPerformance = aws.ToString(info.NetworkInfo.NetworkPerformance)
	}
	if len(info.SupportedUsageClasses) > 0 {
		traits.UsageClass = string(info.SupportedUsageClasses[0])
	}
	return traits
}

// classifyError decides whether a provider error is worth retrying
func (f *Fetcher) classifyError(err error) error {
	if err == nil {
		return nil
	}
	if common.IsContextCanceled(err) {
		return backoff.Permanent(err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		if strings.HasPrefix(code, "InvalidInstanceID") {
			return backoff.Permanent(common.InstanceNotFoundError("provider has no record of instance: %v", apiErr))
		}
		if code == "RequestLimitExceeded" || code == "Throttling" {
			return fmt.Errorf("provider throttled request: %w", err)
		}
		// Other API rejections will not change on retry
		return backoff.Permanent(fmt.Errorf("provider rejected request: %w", err))
	}

	return fmt.Errorf("provider request failed: %w", err)
}

// surfaceError maps an exhausted or permanent failure to its outward kind
func (f *Fetcher) surfaceError(err error, format string, args ...interface{}) error {
	if common.IsContextCanceled(err) || common.IsInstanceNotFound(err) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
	}
	return common.BackendUnavailableError("%s: %v", fmt.Sprintf(format, args...), err)
}

// executeWithRetry executes an operation with bounded exponential backoff
func (f *Fetcher) executeWithRetry(ctx context.Context, operation backoff.Operation, operationName, instanceID string) error {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = f.retry.InitialInterval
	expBackoff.MaxElapsedTime = f.retry.MaxElapsedTime

	policy := backoff.WithContext(backoff.WithMaxRetries(expBackoff, f.retry.MaxRetries), ctx)

	return backoff.RetryNotify(
		operation,
		policy,
		func(err error, duration time.Duration) {
			f.logger.Warn("retrying provider call",
				"operation", operationName,
				"instance_id", instanceID,
				"error", err,
				"backoff", duration)
		},
	)
}
