// Package ghost detects traces of earlier JPEG compression passes.
//
// Re-encoding an image across a ladder of quality levels and measuring
// the error against the original exposes "ghosts": the error dips at
// quality levels the image was previously saved at. Multiple dips mean
// multiple editing sessions.
package ghost

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"verisure/internal/signal"
)

// QualityMSE is one point on the recompression error curve.
type QualityMSE struct {
	Quality int
	MSE     float64
}

// Report summarizes a ghost-detection pass.
type Report struct {
	Curve              []QualityMSE
	MinimaDetected     int
	SuspectedQualities []int
	BestMatchQuality   int
	BestMatchMSE       float64

	EditingDetected bool
	Confidence      signal.Confidence
	Interpretation  string
}

// Detect re-encodes img at every quality in the ladder, computes the
// mean squared error against the original, and classifies the resulting
// curve. The ladder must hold at least three qualities in ascending
// order for local minima to be meaningful.
func Detect(img image.Image, qualities []int) (Report, error) {
	if len(qualities) < 3 {
		return Report{}, fmt.Errorf("ghost: quality ladder too short (%d)", len(qualities))
	}

	original := flattenRGB(img)
	curve := make([]QualityMSE, 0, len(qualities))
	var buf bytes.Buffer
	for _, q := range qualities {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return Report{}, fmt.Errorf("ghost encode q%d: %w", q, err)
		}
		recompressed, err := jpeg.Decode(&buf)
		if err != nil {
			return Report{}, fmt.Errorf("ghost decode q%d: %w", q, err)
		}
		comp := flattenRGB(recompressed)
		if len(comp) != len(original) {
			return Report{}, fmt.Errorf("ghost size mismatch at q%d", q)
		}
		curve = append(curve, QualityMSE{Quality: q, MSE: meanSquaredError(original, comp)})
	}
	return Classify(curve), nil
}

// Classify evaluates a recompression error curve. A local minimum is a
// point strictly below both neighbors. Two or more minima read as
// repeated save cycles; a single minimum as one earlier compression; a
// low global minimum below the top of the ladder as a possible earlier
// save.
func Classify(curve []QualityMSE) Report {
	report := Report{Curve: curve, Confidence: signal.ConfidenceNone}
	if len(curve) == 0 {
		report.Interpretation = "No clear JPEG ghost signatures detected"
		return report
	}

	var minima []QualityMSE
	for i := 1; i < len(curve)-1; i++ {
		if curve[i].MSE < curve[i-1].MSE && curve[i].MSE < curve[i+1].MSE {
			minima = append(minima, curve[i])
		}
	}
	report.MinimaDetected = len(minima)
	for _, m := range minima {
		report.SuspectedQualities = append(report.SuspectedQualities, m.Quality)
	}

	best := curve[0]
	for _, p := range curve[1:] {
		if p.MSE < best.MSE {
			best = p
		}
	}
	report.BestMatchQuality = best.Quality
	report.BestMatchMSE = best.MSE

	switch {
	case len(minima) >= 2:
		report.EditingDetected = true
		report.Confidence = signal.ConfidenceHigh
		report.Interpretation = fmt.Sprintf("Multiple compression artifacts detected at quality levels %v", report.SuspectedQualities)
	case len(minima) == 1:
		report.EditingDetected = true
		report.Confidence = signal.ConfidenceMedium
		report.Interpretation = fmt.Sprintf("Previous JPEG compression detected at quality %d", minima[0].Quality)
	case best.Quality < 95 && best.MSE < 50:
		report.EditingDetected = true
		report.Confidence = signal.ConfidenceLow
		report.Interpretation = fmt.Sprintf("Possible previous compression at quality %d", best.Quality)
	default:
		report.Interpretation = "No clear JPEG ghost signatures detected"
	}
	return report
}

func meanSquaredError(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum / float64(len(a))
}

// flattenRGB reads the image through the generic At interface so every
// source format compares on the same 8-bit RGB footing.
func flattenRGB(img image.Image) []float64 {
	bounds := img.Bounds()
	out := make([]float64, 0, bounds.Dx()*bounds.Dy()*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			out = append(out, float64(r>>8), float64(g>>8), float64(b>>8))
		}
	}
	return out
}
