package imagestats

import (
	"image"
	"image/draw"
)

// toRGBA normalizes any decoded image to 8-bit RGBA so every analysis
// works off the same pixel layout.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// rgbValues flattens the RGB channels (alpha dropped) into a single
// float64 slice in pixel-major order: r, g, b, r, g, b, ...
func rgbValues(img *image.RGBA) []float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]float64, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			out = append(out, float64(row[x*4]), float64(row[x*4+1]), float64(row[x*4+2]))
		}
	}
	return out
}

// grayValues converts the image to a row-major luminance matrix using the
// BT.601 weights.
func grayValues(img *image.RGBA) [][]float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([][]float64, h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		line := make([]float64, w)
		for x := 0; x < w; x++ {
			r := float64(row[x*4])
			g := float64(row[x*4+1])
			b := float64(row[x*4+2])
			line[x] = 0.299*r + 0.587*g + 0.114*b
		}
		out[y] = line
	}
	return out
}
