package domain

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"

	metricdomain "podtrace/internal/features/metric/domain"
)

// Provider defines the interface for fetching instance events.
// Results are rebuilt on every call; nothing is cached between calls.
type Provider interface {
	// Fetch returns the events for the instance overlapping the time range,
	// sorted ascending by timestamp. A known instance with no events in the
	// range yields an empty slice, not an error.
	Fetch(ctx context.Context, instanceID string, timeRange metricdomain.TimeRange) ([]InstanceEvent, error)
}

// EC2API is the slice of the EC2 API the event fetcher needs.
// The real *ec2.Client satisfies it; tests substitute a fake.
type EC2API interface {
	DescribeSpotInstanceRequests(ctx context.Context, params *ec2.DescribeSpotInstanceRequestsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSpotInstanceRequestsOutput, error)
	DescribeInstanceStatus(ctx context.Context, params *ec2.DescribeInstanceStatusInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstanceStatusOutput, error)
	DescribeSpotPriceHistory(ctx context.Context, params *ec2.DescribeSpotPriceHistoryInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSpotPriceHistoryOutput, error)
	DescribeInstanceTypes(ctx context.Context, params *ec2.DescribeInstanceTypesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstanceTypesOutput, error)
}
