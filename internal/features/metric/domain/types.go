package domain

import (
	"fmt"
	"time"
)

// LabelSet holds the labels of one time series instance.
// Keys are unique per series; ordering is not meaningful.
type LabelSet map[string]string

// Get returns the value of a label, or "" if absent
func (ls LabelSet) Get(name string) string {
	return ls[name]
}

// Has reports whether the label is present with a non-empty value
func (ls LabelSet) Has(name string) bool {
	return ls[name] != ""
}

// TimeRange is the closed window [From, To] a lookup covers
type TimeRange struct {
	// From is the start of the window
	From time.Time
	// To is the end of the window
	To time.Time
}

// Validate checks that the range is well-formed
func (tr TimeRange) Validate() error {
	if tr.From.IsZero() || tr.To.IsZero() {
		return fmt.Errorf("time range requires both bounds")
	}
	if !tr.From.Before(tr.To) {
		return fmt.Errorf("time range start %s is not before end %s",
			tr.From.Format(time.RFC3339), tr.To.Format(time.RFC3339))
	}
	return nil
}

// Duration returns the window length
func (tr TimeRange) Duration() time.Duration {
	return tr.To.Sub(tr.From)
}

// Contains reports whether t falls inside the window, bounds included
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.From) && !t.After(tr.To)
}

// Matcher is a single label predicate of a series selector
type Matcher struct {
	// Label is the label name being matched
	Label string
	// Value is the literal or pattern to match
	Value string
	// Regex selects pattern matching instead of exact equality
	Regex bool
}

// Selector identifies series by metric name plus label matchers
type Selector struct {
	// Metric is the series family name
	Metric string
	// Matchers are ANDed label predicates
	Matchers []Matcher
}

// String renders the selector in the backend's matcher syntax,
// e.g. kube_pod_info{pod=~"web-.*"}
func (s Selector) String() string {
	if len(s.Matchers) == 0 {
		return s.Metric
	}

	out := s.Metric + "{"
	for i, m := range s.Matchers {
		if i > 0 {
			out += ","
		}
		op := "="
		if m.Regex {
			op = "=~"
		}
		out += fmt.Sprintf("%s%s%q", m.Label, op, m.Value)
	}
	return out + "}"
}
