package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameTimer(t *testing.T) {
	var ft frameTimer
	ft.observe(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, ft.avg)

	ft.observe(20 * time.Millisecond)
	assert.InDelta(t, float64(11*time.Millisecond), float64(ft.avg), float64(time.Microsecond))
	assert.Equal(t, 20*time.Millisecond, ft.peak)
	assert.Equal(t, int64(2), ft.frames)

	fields := ft.fields()
	assert.Equal(t, "20ms", fields["peak_frame_time"])
	assert.Equal(t, "66.7", fields["fps"])
}

func TestFrameTimerEmpty(t *testing.T) {
	var ft frameTimer
	_, ok := ft.fields()["fps"]
	assert.False(t, ok)
}

func TestStartCPUProfile(t *testing.T) {
	stop, err := startCPUProfile("", nullEntry())
	require.NoError(t, err)
	stop()

	path := filepath.Join(t.TempDir(), "cpu.prof")
	stop, err = startCPUProfile(path, nullEntry())
	require.NoError(t, err)
	stop()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	_, err = startCPUProfile(filepath.Join(t.TempDir(), "absent", "cpu.prof"), nullEntry())
	assert.Error(t, err)
}
