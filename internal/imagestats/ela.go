package imagestats

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	"gonum.org/v1/gonum/stat"

	"verisure/internal/signal"
)

// ELAReport summarizes an error-level analysis pass.
type ELAReport struct {
	MeanError    float64
	MaxError     float64
	StdError     float64
	HighErrorPct float64

	Suspected      bool
	Confidence     signal.Confidence
	Interpretation string
}

// ErrorLevel re-encodes the image at the reference quality and measures
// the normalized per-pixel error against the original. Localized error
// spikes mark regions whose compression history differs from the rest of
// the image.
func ErrorLevel(img image.Image, quality int) (ELAReport, error) {
	original := toRGBA(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, original, &jpeg.Options{Quality: quality}); err != nil {
		return ELAReport{}, fmt.Errorf("ela re-encode: %w", err)
	}
	recompressed, err := jpeg.Decode(&buf)
	if err != nil {
		return ELAReport{}, fmt.Errorf("ela decode: %w", err)
	}

	origValues := rgbValues(original)
	compValues := rgbValues(toRGBA(recompressed))
	if len(origValues) != len(compValues) || len(origValues) == 0 {
		return ELAReport{}, fmt.Errorf("ela size mismatch: %d vs %d", len(origValues), len(compValues))
	}

	diff := make([]float64, len(origValues))
	maxDiff := 0.0
	for i := range origValues {
		d := math.Abs(origValues[i] - compValues[i])
		diff[i] = d
		if d > maxDiff {
			maxDiff = d
		}
	}
	// Normalize so the strongest error maps to 255.
	if maxDiff > 0 {
		scale := 255 / maxDiff
		for i := range diff {
			diff[i] = math.Floor(diff[i] * scale)
		}
	}

	mean, std := stat.MeanStdDev(diff, nil)
	if math.IsNaN(std) {
		std = 0
	}
	maxErr := 0.0
	threshold := mean + 2*std
	high := 0
	for _, d := range diff {
		if d > maxErr {
			maxErr = d
		}
		if d > threshold {
			high++
		}
	}
	highPct := float64(high) / float64(len(diff)) * 100

	report := ELAReport{
		MeanError:    mean,
		MaxError:     maxErr,
		StdError:     std,
		HighErrorPct: highPct,
	}
	report.Suspected, report.Confidence = classifyELA(highPct, std)
	report.Interpretation = interpretELA(highPct, std)
	return report, nil
}

func classifyELA(highPct, std float64) (bool, signal.Confidence) {
	switch {
	case highPct > 15 && std > 20:
		return true, signal.ConfidenceHigh
	case highPct > 10 || std > 15:
		return true, signal.ConfidenceMedium
	case highPct > 5:
		return true, signal.ConfidenceLow
	}
	return false, signal.ConfidenceNone
}

func interpretELA(highPct, std float64) string {
	switch {
	case highPct > 15 && std > 20:
		return "Strong indication of manipulation - significant regions show inconsistent compression"
	case highPct > 10:
		return "Moderate indication of manipulation - some regions show unusual error levels"
	case highPct > 5:
		return "Weak indication of manipulation - minor inconsistencies detected"
	}
	return "Error levels appear consistent - no clear manipulation"
}
