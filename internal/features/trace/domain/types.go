package domain

import (
	"errors"

	eventsdomain "podtrace/internal/features/events/domain"
	nodedomain "podtrace/internal/features/node/domain"
	poddomain "podtrace/internal/features/pod/domain"
)

// Stage names used to tag failures with their origin
const (
	StagePodLocator   = "PodLocator"
	StageNodeResolver = "NodeResolver"
	StageEventFetcher = "EventFetcher"
)

// TraceResult is the full output of one correlation run
type TraceResult struct {
	// Pod is the resolved pod placement
	Pod poddomain.PodRecord `json:"pod"`
	// Node is the resolved node identity
	Node nodedomain.NodeRecord `json:"node"`
	// Events are the instance events inside the range, ascending by timestamp
	Events []eventsdomain.InstanceEvent `json:"events"`
}

// StageError tags an error with the pipeline stage that produced it
type StageError struct {
	// Stage is the failing stage's name
	Stage string
	// Err is the underlying failure
	Err error
}

func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

// Unwrap exposes the underlying failure for errors.Is/As
func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with its originating stage
func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the stage name carried by err, or "" when err
// did not originate in a pipeline stage
func StageOf(err error) string {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return ""
}
