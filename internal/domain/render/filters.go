package render

import (
	"math"

	"github.com/bnema/ico256/internal/domain/entity"
)

// kernel3 is a 3x3 convolution kernel, row-major.
type kernel3 [9]int

var (
	superSharpenKernel = kernel3{
		-1, -1, -1,
		-1, 9, -1,
		-1, -1, -1,
	}
	sharpenKernel = kernel3{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	}
)

const (
	superSharpenOriginal  = 0.5
	superSharpenConvolved = 0.5

	sharpenOriginal  = 0.7
	sharpenConvolved = 0.3

	// DesktopContrastAmount is the contrast applied to small icons.
	DesktopContrastAmount = 1.3

	unsharpAmount = 0.5
	unsharpRadius = 1

	bytesPerPixel = 4
	colorChannels = 3
)

// SuperSharpen applies the aggressive 3x3 sharpen used on the small-band
// intermediate surface, blended half and half with the original.
func SuperSharpen(src *entity.Surface) *entity.Surface {
	return convolveBlend(src, &superSharpenKernel, superSharpenOriginal, superSharpenConvolved)
}

// Sharpen applies the mild 3x3 sharpen used on every edge up to 64px.
func Sharpen(src *entity.Surface) *entity.Surface {
	return convolveBlend(src, &sharpenKernel, sharpenOriginal, sharpenConvolved)
}

// convolveBlend convolves the RGB channels of interior pixels and blends the
// clamped result with the original. Border pixels and alpha are copied as is.
func convolveBlend(src *entity.Surface, k *kernel3, wOrig, wConv float64) *entity.Surface {
	dst := src.Clone()
	w, h := src.Width(), src.Height()
	if w < 3 || h < 3 {
		return dst
	}

	in, out := src.Pix(), dst.Pix()
	stride := src.Stride()

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := src.Offset(x, y)
			for c := 0; c < colorChannels; c++ {
				sum := 0
				for ky := -1; ky <= 1; ky++ {
					row := i + ky*stride + c
					for kx := -1; kx <= 1; kx++ {
						sum += int(in[row+kx*bytesPerPixel]) * k[(ky+1)*3+kx+1]
					}
				}
				conv := float64(clampInt(sum))
				orig := float64(in[i+c])
				// The conversions round each product so it is never fused into an FMA.
				out[i+c] = roundHalfUp(float64(wOrig*orig) + float64(wConv*conv))
			}
		}
	}
	return dst
}

// DesktopContrast stretches RGB values away from mid-grey so small icons
// read well on a desktop. Alpha is untouched.
func DesktopContrast(src *entity.Surface) *entity.Surface {
	lut := contrastTable(DesktopContrastAmount)
	dst := src.Clone()
	pix := dst.Pix()
	for y := 0; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			i := dst.Offset(x, y)
			pix[i] = lut[pix[i]]
			pix[i+1] = lut[pix[i+1]]
			pix[i+2] = lut[pix[i+2]]
		}
	}
	return dst
}

func contrastTable(contrast float64) [256]uint8 {
	factor := (259 * (contrast + 1)) / (259 - contrast)
	var lut [256]uint8
	for v := range lut {
		// Rounded before the add; see convolveBlend.
		lut[v] = storeClamped(float64(factor*float64(v-128)) + 128)
	}
	return lut
}

// UnsharpMask restores clarity lost to resampling: each RGB value moves away
// from its 3x3 box-blurred neighbourhood (edges clamped) by unsharpAmount.
func UnsharpMask(src *entity.Surface) *entity.Surface {
	w, h := src.Width(), src.Height()
	in := src.Pix()
	blurred := boxBlur(src, unsharpRadius)

	dst := src.Clone()
	out := dst.Pix()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.Offset(x, y)
			for c := 0; c < colorChannels; c++ {
				orig := float64(in[i+c])
				diff := orig - float64(blurred[i+c])
				// Rounded before the add; see convolveBlend.
				out[i+c] = storeClamped(orig + float64(unsharpAmount*diff))
			}
		}
	}
	return dst
}

// boxBlur returns blurred RGB values laid out like src.Pix(). Alpha bytes are left zero.
func boxBlur(src *entity.Surface, radius int) []uint8 {
	w, h := src.Width(), src.Height()
	in := src.Pix()
	blurred := make([]uint8, len(in))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum [colorChannels]int
			count := 0
			for dy := -radius; dy <= radius; dy++ {
				ny := clampIndex(y+dy, h)
				for dx := -radius; dx <= radius; dx++ {
					j := src.Offset(clampIndex(x+dx, w), ny)
					sum[0] += int(in[j])
					sum[1] += int(in[j+1])
					sum[2] += int(in[j+2])
					count++
				}
			}
			i := src.Offset(x, y)
			for c := 0; c < colorChannels; c++ {
				blurred[i+c] = storeClamped(float64(sum[c]) / float64(count))
			}
		}
	}
	return blurred
}

func clampIndex(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

func clampInt(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func clampFloat(v float64) float64 {
	return math.Max(0, math.Min(255, v))
}

// roundHalfUp rounds .5 upwards, then clamps to a byte.
func roundHalfUp(v float64) uint8 {
	return uint8(clampFloat(math.Floor(v + 0.5)))
}

// storeClamped clamps to [0,255] and rounds half to even, the semantics of
// an 8-bit clamped pixel store.
func storeClamped(v float64) uint8 {
	return uint8(math.RoundToEven(clampFloat(v)))
}
