package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVideoFrame(t *testing.T) {
	tests := []struct {
		name        string
		format      PixelFormat
		width       int
		height      int
		planeSizes  []int
		expectedErr string
	}{
		{"yuv420p", PixelFormatYUV420P, 640, 480, []int{640 * 480, 320 * 240, 320 * 240}, ""},
		{"yuv422p", PixelFormatYUV422P, 640, 480, []int{640 * 480, 320 * 480, 320 * 480}, ""},
		{"yuv444p", PixelFormatYUV444P, 64, 32, []int{64 * 32, 64 * 32, 64 * 32}, ""},
		{"yuv410p odd", PixelFormatYUV410P, 65, 33, []int{65 * 33, 17 * 9, 17 * 9}, ""},
		{"gray", PixelFormatGray8, 16, 16, []int{256}, ""},
		{"zero width", PixelFormatYUV420P, 0, 16, nil, "invalid frame dimensions"},
		{"unknown format", PixelFormat(99), 16, 16, nil, "unsupported pixel format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := NewVideoFrame(tt.width, tt.height, tt.format)
			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, len(tt.planeSizes), frame.PlaneCount())
			for i, size := range tt.planeSizes {
				assert.Len(t, frame.Bits(i), size, "plane %d", i)
			}
			assert.NoError(t, frame.Validate())
		})
	}
}

func TestVideoFrame_Validate(t *testing.T) {
	frame := createTestFrame(32, 32)
	require.NoError(t, frame.Validate())

	frame.Data[1] = frame.Data[1][:10]
	err := frame.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plane 1")

	var nilFrame *VideoFrame
	assert.Error(t, nilFrame.Validate())
}

func TestVideoFrame_CloneIsIndependent(t *testing.T) {
	// 16x4 luma inside a 24 byte stride
	src := &VideoFrame{Width: 16, Height: 4, Format: PixelFormatGray8}
	src.Data[0] = make([]byte, 24*4)
	src.Linesize[0] = 24
	for i := range src.Data[0] {
		src.Data[0][i] = byte(i)
	}

	clone := src.Clone()

	assert.Equal(t, 16, clone.Linesize[0])
	assert.Len(t, clone.Data[0], 16*4)
	assert.True(t, clone.Equal(src))

	for i := range src.Data[0] {
		src.Data[0][i] = 0
	}
	assert.Equal(t, byte(25), clone.Data[0][17])
	assert.False(t, clone.Equal(src))
}

func TestVideoFrame_Accessors(t *testing.T) {
	frame := createTestFrame(32, 16)

	assert.Equal(t, 3, frame.PlaneCount())
	assert.Equal(t, 32, frame.BytesPerLine(0))
	assert.Equal(t, 16, frame.BytesPerLine(1))
	assert.Nil(t, frame.Bits(MaxPlanes))
	assert.Equal(t, 0, frame.BytesPerLine(-1))

	view := frame.Plane(2)
	assert.Equal(t, 16, view.Width)
	assert.Equal(t, 8, view.Height)
}

func TestVideoFrame_Equal(t *testing.T) {
	a := createTestFrame(32, 32)
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.Data[2][5]++
	assert.False(t, a.Equal(b))

	c := createTestFrame(32, 16)
	assert.False(t, a.Equal(c))

	var nilFrame *VideoFrame
	assert.False(t, a.Equal(nilFrame))
}

func TestPlaneView_Validate(t *testing.T) {
	tests := []struct {
		name    string
		view    PlaneView
		wantErr bool
	}{
		{"exact", PlaneView{Data: make([]byte, 16), Stride: 4, Width: 4, Height: 4}, false},
		{"last row short of stride", PlaneView{Data: make([]byte, 3*8+4), Stride: 8, Width: 4, Height: 4}, false},
		{"too small", PlaneView{Data: make([]byte, 15), Stride: 4, Width: 4, Height: 4}, true},
		{"stride below width", PlaneView{Data: make([]byte, 16), Stride: 2, Width: 4, Height: 4}, true},
		{"empty", PlaneView{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.view.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
