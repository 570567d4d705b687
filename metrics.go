package voxcollide

import (
	"fmt"
	"time"
)

// Metrics is a snapshot taken at the end of the last Init or Update call.
type Metrics struct {
	StrategyName    string
	InitTimeMs      float64
	UpdateTimeUs    float64
	ActiveColliders int
	TotalFaces      int
	// FailedOps counts collider attach, detach and extraction failures that
	// were absorbed since Init.
	FailedOps int
}

func (m Metrics) String() string {
	return fmt.Sprintf("%s: init=%.2fms update=%.2fus colliders=%d faces=%d failed=%d",
		m.StrategyName, m.InitTimeMs, m.UpdateTimeUs, m.ActiveColliders, m.TotalFaces, m.FailedOps)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func micros(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}
