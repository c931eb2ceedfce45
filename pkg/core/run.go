// pkg/core/run.go
package core

import "time"

// RunStats is what a finished generation run reports to metrics sinks.
type RunStats struct {
	Scenario   string
	Bodies     int64
	Bytes      int64
	TotalMass  float64
	Compressed bool
	Duration   time.Duration
	Finished   time.Time
}
