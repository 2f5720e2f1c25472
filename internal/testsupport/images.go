// Package testsupport generates deterministic synthetic media for tests.
package testsupport

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"
)

// UniformImage returns a w×h image filled with a single color. Its noise
// floor is exactly zero, which drives the AI-suspicion paths.
func UniformImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

// NoisyImage returns a w×h image of seeded random pixel noise, approximating
// the sensor noise of a real capture. The same seed always produces the
// same image.
func NoisyImage(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

// GradientImage returns a smooth horizontal gradient, useful where a low
// but nonzero texture is needed.
func GradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(255 * x / maxInt(w-1, 1))
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// DuplicatedPatchImage builds a dark image carrying the same high-contrast
// motif stamped at two well-separated locations, the canonical copy-move
// forgery shape.
func DuplicatedPatchImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{A: 255}}, image.Point{}, draw.Src)
	stampMotif(img, w/6, h/6)
	stampMotif(img, 2*w/3, 2*h/3)
	return img
}

// stampMotif draws an asymmetric arrangement of bright blocks whose corners
// give feature detectors strong, repeatable keypoints.
func stampMotif(img *image.RGBA, ox, oy int) {
	blocks := []image.Rectangle{
		image.Rect(0, 0, 12, 12),
		image.Rect(20, 4, 36, 16),
		image.Rect(6, 22, 16, 40),
		image.Rect(26, 26, 44, 44),
		image.Rect(44, 8, 52, 20),
	}
	for i, b := range blocks {
		shade := uint8(200 + 10*i)
		fill := color.RGBA{R: shade, G: shade, B: shade, A: 255}
		draw.Draw(img, b.Add(image.Pt(ox, oy)), &image.Uniform{C: fill}, image.Point{}, draw.Src)
	}
}

// EncodeJPEG serializes img at the given quality.
func EncodeJPEG(t testing.TB, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// EncodePNG serializes img as PNG.
func EncodePNG(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// RecompressJPEG decodes data and re-encodes it at quality, simulating an
// additional save generation.
func RecompressJPEG(t testing.TB, data []byte, quality int) []byte {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	return EncodeJPEG(t, img, quality)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
