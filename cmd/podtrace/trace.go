package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"podtrace/cmd/app"
	"podtrace/internal/common"
	metricdomain "podtrace/internal/features/metric/domain"
	"podtrace/internal/features/trace"
)

var (
	tracePod  string
	traceFrom string
	traceTo   string
)

func traceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Trace a pod to its host's cloud instance events",
		Long: `Trace resolves a pod name pattern to the node it ran on, the node to
its cloud instance, and lists the instance's infrastructure events
inside the time range.

Examples:
  # Events for the host of a pod over the last three hours
  podtrace trace --pod 'mock-inteview-backend-prod-main-.*' --from -3h

  # Explicit window, JSON output
  podtrace trace --pod 'web-.*' --from 2025-06-01T10:00:00Z --to 2025-06-01T14:00:00Z -o json`,
		RunE: runTrace,
	}

	cmd.Flags().StringVar(&tracePod, "pod", "", "Pod name pattern (required)")
	cmd.Flags().StringVar(&traceFrom, "from", "", "Range start: RFC3339, \"now\", or a duration relative to now (required)")
	cmd.Flags().StringVar(&traceTo, "to", "now", "Range end: RFC3339, \"now\", or a duration relative to now")

	return cmd
}

func runTrace(cmd *cobra.Command, args []string) error {
	if tracePod == "" {
		return common.InvalidInputError("--pod is required")
	}
	if traceFrom == "" {
		return common.InvalidInputError("--from is required")
	}

	timeRange, err := parseTimeRange(traceFrom, traceTo, time.Now())
	if err != nil {
		return err
	}

	cfg, err := app.Load()
	if err != nil {
		return err
	}

	logger := common.NewLogger(common.LoggerConfig{Level: common.LogLevel(cfg.App.LogLevel)})

	// One context covers the whole pipeline; Ctrl-C aborts the stage in flight
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = common.ContextWithLogger(ctx, logger)

	tracer, err := trace.NewTracer(ctx, cfg, logger)
	if err != nil {
		return err
	}

	result, err := tracer.Trace(ctx, tracePod, timeRange)
	if err != nil {
		return err
	}

	return outputResult(newTraceOutput(result), outputFmt)
}

// parseTimeRange builds the lookup window from the CLI arguments
func parseTimeRange(from, to string, now time.Time) (metricdomain.TimeRange, error) {
	fromTime, err := parseTimeArg(from, now)
	if err != nil {
		return metricdomain.TimeRange{}, common.InvalidInputError("--from: %v", err)
	}

	toTime, err := parseTimeArg(to, now)
	if err != nil {
		return metricdomain.TimeRange{}, common.InvalidInputError("--to: %v", err)
	}

	timeRange := metricdomain.TimeRange{From: fromTime, To: toTime}
	if err := timeRange.Validate(); err != nil {
		return metricdomain.TimeRange{}, common.InvalidInputError("%v", err)
	}
	return timeRange, nil
}

// parseTimeArg accepts RFC3339 timestamps, "now", and durations relative to now
func parseTimeArg(arg string, now time.Time) (time.Time, error) {
	if arg == "now" {
		return now, nil
	}

	if d, err := time.ParseDuration(arg); err == nil {
		return now.Add(d), nil
	}

	return time.Parse(time.RFC3339, arg)
}
