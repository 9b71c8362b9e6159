package cloner

// AggregationPolicy selects a single price when a stock lookup yields more
// than one qualifying entry.
type AggregationPolicy string

const (
	AggregateMax AggregationPolicy = "max"
	AggregateMin AggregationPolicy = "min"
	AggregateAvg AggregationPolicy = "avg"
)

// ParseAggregationPolicy maps a config value to a policy, defaulting to max
// (favors cost recovery).
func ParseAggregationPolicy(s string) AggregationPolicy {
	switch AggregationPolicy(s) {
	case AggregateMin:
		return AggregateMin
	case AggregateAvg:
		return AggregateAvg
	default:
		return AggregateMax
	}
}

// Apply reduces the values to a single scalar. Empty input yields 0.
func (p AggregationPolicy) Apply(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	switch p {
	case AggregateMin:
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min
	case AggregateAvg:
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values))
	default:
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max
	}
}

// pickPrice returns the first positive candidate, falling back to 1.0 so a
// zero or negative price never reaches the create endpoint.
func pickPrice(candidates ...float64) float64 {
	for _, v := range candidates {
		if v > 0 {
			return v
		}
	}
	return 1.0
}
