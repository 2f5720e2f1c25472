package analyzer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"verisure/internal/signal"
)

// ImageProperties holds the basic shape of a decoded image.
type ImageProperties struct {
	Format          string
	Width           int
	Height          int
	AspectRatio     float64
	HasTransparency bool
}

// analyzeProperties reads the image header and derives the
// dimension-based evidence. AI generators favor power-of-two friendly
// canvases; editors export PNGs on 8-pixel grids.
func analyzeProperties(data []byte) (ImageProperties, signal.Bucket) {
	var bucket signal.Bucket

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		bucket.AddInconclusive("Image property analysis failed - undecodable header")
		return ImageProperties{}, bucket
	}

	props := ImageProperties{
		Format:          format,
		Width:           cfg.Width,
		Height:          cfg.Height,
		HasTransparency: modelHasAlpha(cfg.ColorModel),
	}
	if cfg.Height > 0 {
		props.AspectRatio = math.Round(float64(cfg.Width)/float64(cfg.Height)*100) / 100
	}

	w, h := props.Width, props.Height
	if w > 0 && h > 0 {
		if w%512 == 0 && h%512 == 0 {
			bucket.AddAI(fmt.Sprintf("Dimensions (%dx%d) are multiples of 512 (typical of AI generators)", w, h))
		} else if w%64 == 0 && h%64 == 0 && w == h {
			bucket.AddAI(fmt.Sprintf("Square dimensions (%dx%d) in multiples of 64 (typical of AI models)", w, h))
		}
		if format == "png" && w%8 == 0 && h%8 == 0 {
			bucket.AddManipulation("PNG with editor-typical dimensions")
		}
	}
	return props, bucket
}

func modelHasAlpha(model color.Model) bool {
	switch model {
	case color.RGBAModel, color.NRGBAModel, color.RGBA64Model, color.NRGBA64Model, color.NYCbCrAModel:
		return true
	}
	_, paletted := model.(color.Palette)
	return paletted
}
