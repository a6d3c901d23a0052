// podtrace is a CLI tool for correlating a pod with its host's cloud
// instance events during an incident.
//
// Installation:
//
//	go build -o podtrace ./cmd/podtrace
//	mv podtrace /usr/local/bin/
//
// Usage:
//
//	podtrace trace --pod 'mock-inteview-backend-prod-main-.*' --from -3h
//	podtrace trace --pod 'web-.*' --from 2025-06-01T10:00:00Z --to 2025-06-01T14:00:00Z -o json
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"podtrace/internal/common"
	tracedomain "podtrace/internal/features/trace/domain"
)

// Exit codes
const (
	exitOK          = 0
	exitFailure     = 1
	exitInvalidArgs = 2
)

var (
	version   = "dev"
	outputFmt string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "podtrace",
		Short: "Correlate a pod with its host's cloud instance events",
		Long: `podtrace chains three lookups: pod name pattern to host IP,
host IP to cloud instance ID, and instance ID to infrastructure events,
printing the events in chronological order.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json, yaml")

	// Flag parse failures are invalid arguments, not stage failures
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return common.InvalidInputError("%v", err)
	})

	// Add subcommands
	rootCmd.AddCommand(traceCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(reportError(err))
	}
	os.Exit(exitOK)
}

// reportError prints the failure with its stage tag and error kind
// to stderr and returns the process exit code
func reportError(err error) int {
	kind := common.Kind(err)

	if stage := tracedomain.StageOf(err); stage != "" {
		fmt.Fprintf(os.Stderr, "Error: [%s/%s] %v\n", stage, kind, err)
		return exitFailure
	}

	fmt.Fprintf(os.Stderr, "Error: [%s] %v\n", kind, err)
	if common.IsInvalidInput(err) {
		return exitInvalidArgs
	}
	return exitFailure
}
