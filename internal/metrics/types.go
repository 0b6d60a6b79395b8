// internal/metrics/types.go
package metrics

import "math"

// OperationStats is the aggregated record for one text-processing operation.
type OperationStats struct {
	Operation     string      `json:"operation"`
	Calls         int64       `json:"calls"`
	Errors        int64       `json:"errors"`
	LatencyMicros RunningStat `json:"latency_us"`
}

// RunningStat holds the necessary values for online calculation of mean, variance, and stddev.
type RunningStat struct {
	Count int64   `json:"-"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"-"` // Sum of squares of differences from the current mean
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// StdDev returns the sample standard deviation, or 0 with fewer than two values.
func (rs RunningStat) StdDev() float64 {
	if rs.Count < 2 {
		return 0
	}
	return math.Sqrt(rs.M2 / float64(rs.Count-1))
}
