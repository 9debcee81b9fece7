package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/mat"
)

// ToGray maps a raster onto a 16-bit grayscale image, stretching its
// minimum to black and its maximum to white. Row 0 is the top of the image.
// A constant raster is black and NaN samples are drawn black.
func ToGray(data mat.Matrix) *image.Gray16 {
	rows, cols := data.Dims()
	img := image.NewGray16(image.Rect(0, 0, cols, rows))

	lo, hi := math.Inf(1), math.Inf(-1)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := data.At(y, x)
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}

	span := hi - lo
	if !(span > 0) || math.IsInf(span, 0) {
		return img
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := data.At(y, x)
			if math.IsNaN(v) {
				continue
			}
			value := uint16(math.Max(0, math.Min(65535, (v-lo)/span*65535)))
			img.SetGray16(x, y, color.Gray16{Y: value})
		}
	}
	return img
}

// Upscale enlarges an image by an integer factor with nearest neighbour
// sampling so that pixel membership stays visible
func Upscale(src image.Image, factor int) image.Image {
	if factor <= 1 {
		return src
	}

	b := src.Bounds()
	dst := image.NewGray16(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// SaveRaster writes a raster as a grayscale PNG enlarged by factor
func SaveRaster(data mat.Matrix, factor int, filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer closeFile(file, &err)

	if err := png.Encode(file, Upscale(ToGray(data), factor)); err != nil {
		return fmt.Errorf("failed to encode raster: %w", err)
	}
	return nil
}

// closeFile closes f and reports its error through errp unless an earlier
// error is already set. A failed close can mean buffered data was lost.
func closeFile(f io.Closer, errp *error) {
	if cerr := f.Close(); cerr != nil && *errp == nil {
		*errp = fmt.Errorf("failed to close file: %w", cerr)
	}
}
