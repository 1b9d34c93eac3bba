package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePixelFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected PixelFormat
		wantErr  bool
	}{
		{"yuv420p", PixelFormatYUV420P, false},
		{"YUV422P", PixelFormatYUV422P, false},
		{" gray ", PixelFormatGray8, false},
		{"gray8", PixelFormatGray8, false},
		{"5", PixelFormatYUV444P, false},
		{"31", PixelFormatYUV440P, false},
		{"rgb24", PixelFormatNone, true},
		{"2", PixelFormatNone, true},
		{"", PixelFormatNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParsePixelFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestPixelFormat_PlaneSize(t *testing.T) {
	w, h := PixelFormatYUV420P.PlaneSize(1, 641, 481)
	assert.Equal(t, 321, w)
	assert.Equal(t, 241, h)

	w, h = PixelFormatYUV411P.PlaneSize(2, 640, 480)
	assert.Equal(t, 160, w)
	assert.Equal(t, 480, h)

	w, h = PixelFormatGray8.PlaneSize(1, 640, 480)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestPixelFormat_String(t *testing.T) {
	assert.Equal(t, "yuv420p", PixelFormatYUV420P.String())
	assert.Equal(t, "none", PixelFormatNone.String())
	assert.Equal(t, "pixfmt(42)", PixelFormat(42).String())
}

func TestSupportedPixelFormats(t *testing.T) {
	for _, f := range SupportedPixelFormats() {
		assert.True(t, f.IsSupported(), f.String())
		parsed, err := ParsePixelFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}
	assert.False(t, PixelFormatGray8.IsYUV())
	assert.True(t, PixelFormatYUV440P.IsYUV())
}
