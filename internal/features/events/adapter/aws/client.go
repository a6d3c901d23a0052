// Package aws builds the EC2 client used by the event fetcher.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"podtrace/cmd/app"
)

// NewEC2Client creates an EC2 client from the cloud configuration.
// Credentials come from the default chain; a profile narrows it when set.
func NewEC2Client(ctx context.Context, cfg *app.CloudConfig) (*ec2.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load cloud credentials: %w", err)
	}

	return ec2.NewFromConfig(awsCfg), nil
}
