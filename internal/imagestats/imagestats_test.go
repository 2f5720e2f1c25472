package imagestats

import (
	"image/color"
	"testing"

	"verisure/internal/config"
	"verisure/internal/signal"
	"verisure/internal/testsupport"
)

func TestErrorLevelUniformImageClean(t *testing.T) {
	img := testsupport.UniformImage(128, 128, color.RGBA{R: 120, G: 130, B: 140, A: 255})

	report, err := ErrorLevel(img, 95)
	if err != nil {
		t.Fatalf("ela: %v", err)
	}
	if report.Confidence == signal.ConfidenceHigh {
		t.Fatalf("uniform image should not be high-confidence manipulated: %+v", report)
	}
	if report.HighErrorPct < 0 || report.HighErrorPct > 100 {
		t.Fatalf("high error pct out of range: %v", report.HighErrorPct)
	}
}

func TestErrorLevelDeterministic(t *testing.T) {
	img := testsupport.NoisyImage(96, 96, 42)
	a, err := ErrorLevel(img, 95)
	if err != nil {
		t.Fatalf("ela: %v", err)
	}
	b, err := ErrorLevel(img, 95)
	if err != nil {
		t.Fatalf("ela: %v", err)
	}
	if a != b {
		t.Fatalf("ELA not deterministic: %+v vs %+v", a, b)
	}
}

func TestNoisePatternUniformImageSuspected(t *testing.T) {
	img := testsupport.UniformImage(256, 256, color.RGBA{R: 90, G: 90, B: 90, A: 255})

	report := NoisePattern(img, config.DefaultAnalysis())
	if !report.Suspected {
		t.Fatalf("zero-noise image should be suspected AI: %+v", report)
	}
	if report.Confidence != signal.ConfidenceHigh {
		t.Fatalf("expected high confidence for zero noise, got %s", report.Confidence)
	}
	if report.NoiseStd > 1 {
		t.Fatalf("expected near-zero noise std, got %v", report.NoiseStd)
	}
}

func TestNoisePatternNoisyImageNatural(t *testing.T) {
	img := testsupport.NoisyImage(256, 256, 11)

	report := NoisePattern(img, config.DefaultAnalysis())
	if report.Suspected {
		t.Fatalf("full random noise flagged as AI: %+v", report)
	}
	if report.NoiseStd < 10 {
		t.Fatalf("expected strong noise std, got %v", report.NoiseStd)
	}
	if report.HighFreqRatio < 0.2 {
		t.Fatalf("white noise should be high-frequency heavy, got %v", report.HighFreqRatio)
	}
}

func TestChannelStatsUniformImage(t *testing.T) {
	img := testsupport.UniformImage(64, 64, color.RGBA{R: 200, G: 10, B: 60, A: 255})

	report := ChannelStats(img, config.DefaultAnalysis())
	if report.AvgStd != 0 {
		t.Fatalf("expected zero std for uniform image, got %v", report.AvgStd)
	}
	if len(report.Patterns) != 1 {
		t.Fatalf("expected uniformity pattern, got %#v", report.Patterns)
	}
	if report.Mean[0] < 199 || report.Mean[0] > 201 {
		t.Fatalf("unexpected red mean: %v", report.Mean[0])
	}
}

func TestChannelStatsNoisyImageNoPattern(t *testing.T) {
	img := testsupport.NoisyImage(128, 128, 5)

	report := ChannelStats(img, config.DefaultAnalysis())
	if report.AvgStd < 20 || report.AvgStd > 100 {
		t.Fatalf("uniform random noise std should sit in the natural band, got %v", report.AvgStd)
	}
	if len(report.Patterns) != 0 {
		t.Fatalf("unexpected anomaly patterns: %#v", report.Patterns)
	}
}

func TestChannelStatsSamplingBounded(t *testing.T) {
	img := testsupport.NoisyImage(300, 300, 8)
	th := config.DefaultAnalysis()
	th.PixelSampleLimit = 1000

	a := ChannelStats(img, th)
	b := ChannelStats(img, th)
	if a.AvgStd != b.AvgStd {
		t.Fatal("channel sampling must be deterministic")
	}
}
