package video

import (
	"fmt"
	"math"
)

// LUT maps every 8-bit sample value to a new one.
type LUT [256]byte

// IdentityLUT returns a table that leaves samples unchanged.
func IdentityLUT() *LUT {
	var l LUT
	for i := range l {
		l[i] = byte(i)
	}
	return &l
}

// NegateLUT returns a table that inverts samples.
func NegateLUT() *LUT {
	var l LUT
	for i := range l {
		l[i] = byte(255 - i)
	}
	return &l
}

// BrightnessContrastLUT builds a luma table. brightness is an offset in the
// range [-1, 1] of full scale; contrast scales around the mid level 128.
func BrightnessContrastLUT(brightness, contrast float64) *LUT {
	const midpoint = 128.0

	var l LUT
	for i := range l {
		v := midpoint + (float64(i)-midpoint)*contrast + brightness*255
		l[i] = clampByte(v)
	}
	return &l
}

// SaturationLUT builds a chroma table scaling the distance from neutral.
func SaturationLUT(saturation float64) *LUT {
	var l LUT
	for i := range l {
		l[i] = clampByte(128 + (float64(i)-128)*saturation)
	}
	return &l
}

// IsIdentity reports whether the table changes nothing.
func (l *LUT) IsIdentity() bool {
	for i, v := range l {
		if int(v) != i {
			return false
		}
	}
	return true
}

// Apply maps every visible sample of src through the table into dst. dst
// and src may be the same plane.
func (l *LUT) Apply(dst, src PlaneView) {
	w := min(dst.Width, src.Width)
	h := min(dst.Height, src.Height)
	for y := 0; y < h; y++ {
		srow, drow := src.Row(y)[:w], dst.Row(y)[:w]
		for x, v := range srow {
			drow[x] = l[v]
		}
	}
}

// BoxBlurPlane averages every sample of src over a (2*radius+1)² window,
// applied power times, writing into dst. Only samples inside the plane take
// part in an average, so edges are not darkened.
func BoxBlurPlane(dst, src PlaneView, radius, power int) error {
	if radius < 0 {
		return fmt.Errorf("invalid blur radius: %d", radius)
	}
	if dst.Width != src.Width || dst.Height != src.Height {
		return fmt.Errorf("plane size mismatch: %dx%d vs %dx%d", dst.Width, dst.Height, src.Width, src.Height)
	}
	dst.CopyFrom(src)
	if radius == 0 || power == 0 {
		return nil
	}

	width, height := src.Width, src.Height
	temp := make([]byte, max(width, height))
	for ; power > 0; power-- {
		for y := 0; y < height; y++ {
			row := dst.Row(y)
			copy(temp, row)
			blurLine(row, temp[:width], 1, radius)
		}
		for x := 0; x < width; x++ {
			for y := 0; y < height; y++ {
				temp[y] = dst.Data[y*dst.Stride+x]
			}
			blurLine(dst.Data[x:], temp[:height], dst.Stride, radius)
		}
	}
	return nil
}

// blurLine writes the running average of line into out, stepping by stride.
func blurLine(out, line []byte, stride, radius int) {
	n := len(line)
	sum, count := 0, 0
	for i := 0; i < radius && i < n; i++ {
		sum += int(line[i])
		count++
	}
	for i := 0; i < n; i++ {
		if j := i + radius; j < n {
			sum += int(line[j])
			count++
		}
		if j := i - radius - 1; j >= 0 {
			sum -= int(line[j])
			count--
		}
		out[i*stride] = byte((sum + count/2) / count)
	}
}

// SharpenPlane applies a 3x3 cross kernel that pushes every inner sample
// away from the mean of its four neighbours by amount. Negative amounts
// blur. Border samples are copied unchanged.
func SharpenPlane(dst, src PlaneView, amount float64) error {
	if dst.Width != src.Width || dst.Height != src.Height {
		return fmt.Errorf("plane size mismatch: %dx%d vs %dx%d", dst.Width, dst.Height, src.Width, src.Height)
	}
	dst.CopyFrom(src)
	if amount == 0 {
		return nil
	}

	width, height := src.Width, src.Height
	for y := 1; y < height-1; y++ {
		up, row, down := src.Row(y-1), src.Row(y), src.Row(y+1)
		out := dst.Row(y)
		for x := 1; x < width-1; x++ {
			center := float64(row[x])
			sum := center * (1.0 + 4.0*amount)
			sum -= float64(up[x]) * amount
			sum -= float64(down[x]) * amount
			sum -= float64(row[x-1]) * amount
			sum -= float64(row[x+1]) * amount
			out[x] = clampByte(sum)
		}
	}
	return nil
}

func clampByte(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(math.Round(v))
}
