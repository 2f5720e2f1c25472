package imagestats

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"

	"verisure/internal/config"
)

// ChannelReport holds per-channel pixel statistics over a bounded sample.
type ChannelReport struct {
	Mean   [3]float64
	Std    [3]float64
	AvgStd float64

	// Patterns are the statistical-anomaly findings, in report wording.
	Patterns []string
}

// ChannelStats samples up to th.PixelSampleLimit pixels on a uniform
// stride and computes per-channel mean and standard deviation. A uniform
// stride keeps the result deterministic for identical input.
func ChannelStats(img image.Image, th config.Analysis) ChannelReport {
	rgba := toRGBA(img)
	bounds := rgba.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return ChannelReport{}
	}

	step := 1
	if limit := th.PixelSampleLimit; limit > 0 && total > limit {
		step = total / limit
	}

	var channels [3][]float64
	w := bounds.Dx()
	for i := 0; i < total; i += step {
		x := i % w
		y := i / w
		offset := y*rgba.Stride + x*4
		channels[0] = append(channels[0], float64(rgba.Pix[offset]))
		channels[1] = append(channels[1], float64(rgba.Pix[offset+1]))
		channels[2] = append(channels[2], float64(rgba.Pix[offset+2]))
	}

	var report ChannelReport
	for c := 0; c < 3; c++ {
		mean, std := stat.MeanStdDev(channels[c], nil)
		if math.IsNaN(std) {
			std = 0
		}
		report.Mean[c] = mean
		report.Std[c] = std
	}
	report.AvgStd = (report.Std[0] + report.Std[1] + report.Std[2]) / 3

	if report.AvgStd < th.ChannelStdLow {
		report.Patterns = append(report.Patterns, "Very low color variance (unnatural uniformity)")
	} else if report.AvgStd > th.ChannelStdHigh {
		report.Patterns = append(report.Patterns, "Very high color variance (possible noise injection)")
	}
	return report
}
