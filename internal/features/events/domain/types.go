package domain

import "time"

// Event categories
const (
	// CategorySpotTermination marks a spot capacity termination
	CategorySpotTermination = "spot-termination"

	// CategoryScheduledEvent marks a provider-scheduled maintenance event
	CategoryScheduledEvent = "scheduled-event"
)

// InstanceEvent is one infrastructure event attributed to a cloud instance
type InstanceEvent struct {
	// Timestamp is when the event took effect
	Timestamp time.Time `json:"timestamp"`
	// InstanceID is the affected instance
	InstanceID string `json:"instanceId"`
	// Category classifies the event source
	Category string `json:"category"`
	// Message is the human-readable event description
	Message string `json:"message"`
}
