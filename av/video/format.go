package video

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxPlanes is the largest number of planes a VideoFrame can carry.
const MaxPlanes = 4

// PixelFormat identifies the memory layout of a frame.
//
// Numeric values match FFmpeg's AVPixelFormat so that tags can be passed
// between engines without translation tables.
type PixelFormat int

// Supported planar 8-bit formats.
const (
	PixelFormatNone    PixelFormat = -1
	PixelFormatYUV420P PixelFormat = 0
	PixelFormatYUV422P PixelFormat = 4
	PixelFormatYUV444P PixelFormat = 5
	PixelFormatYUV410P PixelFormat = 6
	PixelFormatYUV411P PixelFormat = 7
	PixelFormatGray8   PixelFormat = 8
	PixelFormatYUV440P PixelFormat = 31
)

// FormatDescriptor describes the plane layout of a pixel format.
type FormatDescriptor struct {
	Name string
	// Planes is the number of planes, 1 for gray and 3 for YUV.
	Planes int
	// Log2ChromaW and Log2ChromaH are the chroma subsampling shifts.
	Log2ChromaW uint
	Log2ChromaH uint
}

var formatDescriptors = map[PixelFormat]FormatDescriptor{
	PixelFormatYUV420P: {Name: "yuv420p", Planes: 3, Log2ChromaW: 1, Log2ChromaH: 1},
	PixelFormatYUV422P: {Name: "yuv422p", Planes: 3, Log2ChromaW: 1, Log2ChromaH: 0},
	PixelFormatYUV444P: {Name: "yuv444p", Planes: 3, Log2ChromaW: 0, Log2ChromaH: 0},
	PixelFormatYUV410P: {Name: "yuv410p", Planes: 3, Log2ChromaW: 2, Log2ChromaH: 2},
	PixelFormatYUV411P: {Name: "yuv411p", Planes: 3, Log2ChromaW: 2, Log2ChromaH: 0},
	PixelFormatYUV440P: {Name: "yuv440p", Planes: 3, Log2ChromaW: 0, Log2ChromaH: 1},
	PixelFormatGray8:   {Name: "gray", Planes: 1},
}

// Descriptor returns the layout of the format and whether it is supported.
func (f PixelFormat) Descriptor() (FormatDescriptor, bool) {
	d, ok := formatDescriptors[f]
	return d, ok
}

// IsSupported reports whether frames of this format can be processed.
func (f PixelFormat) IsSupported() bool {
	_, ok := formatDescriptors[f]
	return ok
}

// IsYUV reports whether the format carries chroma planes.
func (f PixelFormat) IsYUV() bool {
	d, ok := formatDescriptors[f]
	return ok && d.Planes == 3
}

func (f PixelFormat) String() string {
	if d, ok := formatDescriptors[f]; ok {
		return d.Name
	}
	if f == PixelFormatNone {
		return "none"
	}
	return fmt.Sprintf("pixfmt(%d)", int(f))
}

// PlaneSize returns the width and height in bytes of plane i for a frame of
// the given luma dimensions. Chroma sizes round up for odd dimensions.
func (f PixelFormat) PlaneSize(plane, width, height int) (int, int) {
	d, ok := formatDescriptors[f]
	if !ok || plane < 0 || plane >= d.Planes {
		return 0, 0
	}
	if plane == 0 {
		return width, height
	}
	return ceilShift(width, d.Log2ChromaW), ceilShift(height, d.Log2ChromaH)
}

// SupportedPixelFormats lists every format in ascending tag order.
func SupportedPixelFormats() []PixelFormat {
	return []PixelFormat{
		PixelFormatYUV420P,
		PixelFormatYUV422P,
		PixelFormatYUV444P,
		PixelFormatYUV410P,
		PixelFormatYUV411P,
		PixelFormatGray8,
		PixelFormatYUV440P,
	}
}

// ParsePixelFormat accepts a format name ("yuv420p", "gray8") or a numeric tag.
func ParsePixelFormat(s string) (PixelFormat, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "gray8" || name == "y8" {
		name = "gray"
	}
	for f, d := range formatDescriptors {
		if d.Name == name {
			return f, nil
		}
	}
	if n, err := strconv.Atoi(name); err == nil {
		if f := PixelFormat(n); f.IsSupported() {
			return f, nil
		}
	}
	return PixelFormatNone, fmt.Errorf("unsupported pixel format %q", s)
}

func ceilShift(v int, shift uint) int {
	return -((-v) >> shift)
}
