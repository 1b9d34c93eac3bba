package video

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// ScaleAlgorithm selects the interpolation kernel used by the Scaler.
type ScaleAlgorithm int

const (
	// ScaleBilinear is the default kernel.
	ScaleBilinear ScaleAlgorithm = iota
	ScaleNearest
	ScaleBicubic
	ScaleArea
)

var scaleAlgorithmNames = map[string]ScaleAlgorithm{
	"bilinear":      ScaleBilinear,
	"fast_bilinear": ScaleBilinear,
	"neighbor":      ScaleNearest,
	"point":         ScaleNearest,
	"bicubic":       ScaleBicubic,
	"area":          ScaleArea,
}

// ParseScaleAlgorithm maps FFmpeg-style sws flag names to an algorithm.
func ParseScaleAlgorithm(name string) (ScaleAlgorithm, error) {
	alg, ok := scaleAlgorithmNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ScaleBilinear, fmt.Errorf("unknown scaling algorithm %q", name)
	}
	return alg, nil
}

func (a ScaleAlgorithm) String() string {
	switch a {
	case ScaleNearest:
		return "neighbor"
	case ScaleBicubic:
		return "bicubic"
	case ScaleArea:
		return "area"
	default:
		return "bilinear"
	}
}

// Scaler resizes planar frames.
//
// Bilinear scaling is done in place over the plane views; the other kernels
// run through golang.org/x/image/draw on *image.Gray wrappers that share the
// plane memory.
type Scaler struct {
	Algorithm ScaleAlgorithm
}

// NewScaler creates a scaler using the given algorithm.
func NewScaler(alg ScaleAlgorithm) *Scaler {
	return &Scaler{Algorithm: alg}
}

// Scale returns a newly allocated copy of frame resized to the target
// dimensions.
func (s *Scaler) Scale(frame *VideoFrame, targetWidth, targetHeight int) (*VideoFrame, error) {
	if frame == nil {
		return nil, fmt.Errorf("source frame cannot be nil")
	}
	if targetWidth <= 0 || targetHeight <= 0 {
		return nil, fmt.Errorf("invalid target dimensions: %dx%d", targetWidth, targetHeight)
	}

	result, err := NewVideoFrame(targetWidth, targetHeight, frame.Format)
	if err != nil {
		return nil, err
	}
	if err := s.ScaleInto(result, frame); err != nil {
		return nil, err
	}
	return result, nil
}

// ScaleInto resizes src into dst. Both frames must share a pixel format;
// dst geometry selects the output size.
func (s *Scaler) ScaleInto(dst, src *VideoFrame) error {
	if dst == nil || src == nil {
		return fmt.Errorf("source and destination frames cannot be nil")
	}
	if dst.Format != src.Format {
		return fmt.Errorf("pixel format mismatch: %v != %v", dst.Format, src.Format)
	}
	for i := 0; i < src.PlaneCount(); i++ {
		if err := s.ScalePlane(dst.Plane(i), src.Plane(i)); err != nil {
			return fmt.Errorf("failed to scale plane %d: %w", i, err)
		}
	}
	return nil
}

// ScalePlane resamples one plane from src into dst.
func (s *Scaler) ScalePlane(dst, src PlaneView) error {
	if err := src.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := dst.Validate(); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if src.Width == 0 || src.Height == 0 || dst.Width == 0 || dst.Height == 0 {
		return nil
	}

	if !s.IsScalingRequired(src.Width, src.Height, dst.Width, dst.Height) {
		dst.CopyFrom(src)
		return nil
	}

	switch s.Algorithm {
	case ScaleNearest:
		drawScale(draw.NearestNeighbor, dst, src)
	case ScaleBicubic:
		drawScale(draw.CatmullRom, dst, src)
	case ScaleArea:
		drawScale(areaKernel, dst, src)
	default:
		bilinear(dst, src)
	}
	return nil
}

// areaKernel is a box filter. Its support grows with the downscale factor,
// so every destination sample is the mean of the source samples it covers.
var areaKernel = &draw.Kernel{
	Support: 0.5,
	At: func(float64) float64 {
		return 1
	},
}

func grayImage(p PlaneView) *image.Gray {
	return &image.Gray{
		Pix:    p.Data,
		Stride: p.Stride,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
}

func drawScale(kernel draw.Scaler, dst, src PlaneView) {
	d := grayImage(dst)
	sImg := grayImage(src)
	kernel.Scale(d, d.Bounds(), sImg, sImg.Bounds(), draw.Src, nil)
}

// bilinear scales a single plane using bilinear interpolation.
func bilinear(dst, src PlaneView) {
	xRatio := float64(src.Width) / float64(dst.Width)
	yRatio := float64(src.Height) / float64(dst.Height)

	for y := 0; y < dst.Height; y++ {
		srcY := float64(y) * yRatio
		y1 := int(srcY)
		y2 := y1 + 1
		if y2 >= src.Height {
			y2 = src.Height - 1
		}
		fy := srcY - float64(y1)
		row1 := src.Row(y1)
		row2 := src.Row(y2)
		out := dst.Row(y)

		for x := 0; x < dst.Width; x++ {
			srcX := float64(x) * xRatio
			x1 := int(srcX)
			x2 := x1 + 1
			if x2 >= src.Width {
				x2 = src.Width - 1
			}
			fx := srcX - float64(x1)

			top := float64(row1[x1])*(1-fx) + float64(row1[x2])*fx
			bottom := float64(row2[x1])*(1-fx) + float64(row2[x2])*fx
			out[x] = byte(top*(1-fy) + bottom*fy + 0.5)
		}
	}
}

// GetScaleFactors calculates the scaling factors for given dimensions.
func (s *Scaler) GetScaleFactors(srcWidth, srcHeight, dstWidth, dstHeight int) (xFactor, yFactor float64) {
	xFactor = float64(dstWidth) / float64(srcWidth)
	yFactor = float64(dstHeight) / float64(srcHeight)
	return
}

// IsScalingRequired checks if scaling is needed for given dimensions.
func (s *Scaler) IsScalingRequired(srcWidth, srcHeight, dstWidth, dstHeight int) bool {
	return srcWidth != dstWidth || srcHeight != dstHeight
}
