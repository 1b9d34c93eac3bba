package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sirupsen/logrus"
)

// frameTimer tracks how long the filter chain takes per frame.
type frameTimer struct {
	frames int64
	total  time.Duration
	avg    time.Duration // exponential moving average, alpha 0.1
	peak   time.Duration
}

func (t *frameTimer) observe(d time.Duration) {
	t.frames++
	t.total += d
	if t.avg == 0 {
		t.avg = d
	} else {
		t.avg = time.Duration(float64(t.avg)*0.9 + float64(d)*0.1)
	}
	if d > t.peak {
		t.peak = d
	}
}

// fields returns the timing summary as log fields.
func (t *frameTimer) fields() logrus.Fields {
	f := logrus.Fields{
		"avg_frame_time":  t.avg.String(),
		"peak_frame_time": t.peak.String(),
	}
	if t.total > 0 {
		f["fps"] = fmt.Sprintf("%.1f", float64(t.frames)/t.total.Seconds())
	}
	return f
}

// startCPUProfile writes a CPU profile to path until the returned stop
// function is called. An empty path disables profiling.
func startCPUProfile(path string, log *logrus.Entry) (stop func(), err error) {
	if path == "" {
		return func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("start cpu profile: %w", err)
	}

	log.WithFields(logrus.Fields{
		"function": "startCPUProfile",
		"path":     path,
	}).Info("CPU profiling started")

	return func() {
		pprof.StopCPUProfile()
		f.Close()
		log.WithFields(logrus.Fields{
			"function": "startCPUProfile",
			"path":     path,
		}).Info("CPU profiling stopped")
	}, nil
}
