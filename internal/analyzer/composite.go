package analyzer

import "verisure/internal/signal"

// compositeScore condenses the advanced manipulation analyses into a
// single 0 (authentic) to 1 (manipulated) score. Error-level and noise
// findings weigh slightly more than ghost and copy-move findings.
func compositeScore(report *ImageReport) float64 {
	score := 0.0
	if report.ELA.Suspected {
		score += confidenceWeight(report.ELA.Confidence, 0.3, 0.2, 0.1)
	}
	if report.Noise.Suspected {
		score += confidenceWeight(report.Noise.Confidence, 0.3, 0.2, 0.1)
	}
	if report.Ghost.EditingDetected {
		score += confidenceWeight(report.Ghost.Confidence, 0.2, 0.15, 0.1)
	}
	if report.CopyMove.Suspected {
		score += confidenceWeight(report.CopyMove.Confidence, 0.2, 0.15, 0.1)
	}
	if score > 1 {
		score = 1
	}
	return score
}

func confidenceWeight(c signal.Confidence, high, medium, low float64) float64 {
	switch c {
	case signal.ConfidenceHigh:
		return high
	case signal.ConfidenceMedium:
		return medium
	}
	return low
}
