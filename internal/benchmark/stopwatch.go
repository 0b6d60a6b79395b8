package benchmark

import "time"

// Sample is the timing record of one benchmark loop.
type Sample struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Iterations int       `json:"iterations"`
}

// Elapsed returns End-Start, clamped at zero.
func (s Sample) Elapsed() time.Duration {
	d := s.End.Sub(s.Start)
	if d < 0 {
		return 0
	}
	return d
}

// Throughput returns iterations per second, or 0 when no time elapsed.
func (s Sample) Throughput() float64 {
	secs := s.Elapsed().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.Iterations) / secs
}

// Stopwatch measures one loop. It is created at loop entry and read once at
// loop exit.
type Stopwatch struct {
	start time.Time
	clock func() time.Time
}

// StartStopwatch reads clock (time.Now when nil) and returns a running Stopwatch.
func StartStopwatch(clock func() time.Time) Stopwatch {
	if clock == nil {
		clock = time.Now
	}
	return Stopwatch{start: clock(), clock: clock}
}

// Stop reads the clock again and returns the Sample for iterations calls.
func (s Stopwatch) Stop(iterations int) Sample {
	return Sample{Start: s.start, End: s.clock(), Iterations: iterations}
}
