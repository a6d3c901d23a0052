package service

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// Uptime classes for terminated spot instances
const (
	uptimeVeryShort = "VeryShort"
	uptimeShort     = "Short"
	uptimeLong      = "Long"
)

// priceStats summarizes the spot price history preceding a termination
type priceStats struct {
	// AtLaunch is the earliest price in the window
	AtLaunch float64
	// AtTermination is the latest price in the window
	AtTermination float64
	// Variance is the standard deviation of prices relative to launch
	Variance float64
}

// Trend is the price movement from launch to termination
func (p priceStats) Trend() float64 {
	return p.AtTermination - p.AtLaunch
}

// Stable reports whether the price never moved in the window
func (p priceStats) Stable() bool {
	return p.Variance == 0
}

// instanceTraits carries the instance-type characteristics read from the
// provider; zero values mean the lookup failed or returned nothing
type instanceTraits struct {
	// NetworkPerformance is the advertised network class, e.g. "Up to 5 Gigabit"
	NetworkPerformance string
	// UsageClass is the first supported usage class, e.g. "spot"
	UsageClass string
}

// classifyUptime buckets an instance lifetime the way capacity reviews do
func classifyUptime(uptime time.Duration) string {
	minutes := uptime.Minutes()
	switch {
	case minutes < 30:
		return uptimeVeryShort
	case minutes < 120:
		return uptimeShort
	default:
		return uptimeLong
	}
}

// summarizePrices computes launch/termination prices and their spread
// from a price history. The fallback price is used when history is empty.
func summarizePrices(history []ec2types.SpotPrice, fallback float64) priceStats {
	prices := make([]float64, 0, len(history))
	type pricePoint struct {
		ts    time.Time
		price float64
	}
	points := make([]pricePoint, 0, len(history))
	for _, h := range history {
		price, err := strconv.ParseFloat(aws.ToString(h.SpotPrice), 64)
		if err != nil {
			continue
		}
		points = append(points, pricePoint{ts: aws.ToTime(h.Timestamp), price: price})
	}

	if len(points) == 0 {
		return priceStats{AtLaunch: fallback, AtTermination: fallback}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].ts.Before(points[j].ts) })
	for _, p := range points {
		prices = append(prices, p.price)
	}

	stats := priceStats{
		AtLaunch:      prices[0],
		AtTermination: prices[len(prices)-1],
	}

	var sumSquares float64
	for _, p := range prices {
		sumSquares += (p - stats.AtLaunch) * (p - stats.AtLaunch)
	}
	stats.Variance = math.Round(math.Sqrt(sumSquares/float64(len(prices)))*1e6) / 1e6

	return stats
}

// describeTermination composes the one-line summary of a spot termination
func describeTermination(req ec2types.SpotInstanceRequest, stats priceStats, traits instanceTraits, uptime time.Duration) string {
	instanceID := aws.ToString(req.InstanceId)
	instanceType := "unknown"
	if req.LaunchSpecification != nil && req.LaunchSpecification.InstanceType != "" {
		instanceType = string(req.LaunchSpecification.InstanceType)
	}
	az := aws.ToString(req.LaunchedAvailabilityZone)

	reason := ""
	if req.Status != nil {
		reason = aws.ToString(req.Status.Message)
	}
	if reason == "" {
		reason = "spot capacity was reclaimed"
	}

	msg := fmt.Sprintf("Instance %s (type %s) in zone %s was terminated: %s.",
		instanceID, instanceType, az, reason)

	if traits.NetworkPerformance != "" {
		msg += fmt.Sprintf(" It had network performance of %q.", traits.NetworkPerformance)
	}
	if traits.UsageClass != "" {
		msg += fmt.Sprintf(" It used %q CPU credits.", traits.UsageClass)
	}

	if stats.Stable() {
		msg += fmt.Sprintf(" The spot price remained stable at %.4f USD.", stats.AtLaunch)
	} else {
		msg += fmt.Sprintf(" The spot price moved from %.4f to %.4f USD (variance %.6f).",
			stats.AtLaunch, stats.AtTermination, stats.Variance)
	}

	msg += fmt.Sprintf(" The instance lived for %.0f minutes (%q uptime).",
		uptime.Minutes(), classifyUptime(uptime))

	if req.Type != "" {
		msg += fmt.Sprintf(" Spot request type was %q.", string(req.Type))
	}

	return msg
}
