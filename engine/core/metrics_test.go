package core

import (
	"testing"
)

func TestMetricsRollingAverage(t *testing.T) {
	if err := MetricsInitialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	// A full window of 16ms frames must average to 16ms.
	for i := uint8(0); i < AVG_COUNT; i++ {
		MetricsUpdate(0.016)
	}
	got := MetricsFrameTime()
	if got < 15.9 || got > 16.1 {
		t.Errorf("frame time avg = %.3f ms, want ~16 ms", got)
	}
}

func TestMetricsFPSAccumulatesOverOneSecond(t *testing.T) {
	if err := MetricsInitialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	// 61 frames at 1/60s crosses the one second boundary exactly once.
	for i := 0; i < 61; i++ {
		MetricsUpdate(1.0 / 60.0)
	}
	if fps := MetricsFPS(); fps < 50 || fps > 70 {
		t.Errorf("fps = %.1f, want around 60", fps)
	}
}
