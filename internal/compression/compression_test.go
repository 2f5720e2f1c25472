package compression

import (
	"image/color"
	"strings"
	"testing"

	"verisure/internal/config"
	"verisure/internal/testsupport"
)

func TestEstimateQualityRoundTrip(t *testing.T) {
	img := testsupport.NoisyImage(96, 96, 7)
	for _, quality := range []int{40, 60, 85, 95} {
		data := testsupport.EncodeJPEG(t, img, quality)
		got, nonStandard := estimateQuality(data)
		if got < quality-5 || got > quality+5 {
			t.Fatalf("quality %d: estimated %d", quality, got)
		}
		if nonStandard {
			t.Fatalf("quality %d: stdlib tables flagged as non-standard", quality)
		}
	}
}

func TestAnalyzeLowQualityJPEG(t *testing.T) {
	img := testsupport.NoisyImage(64, 64, 3)
	data := testsupport.EncodeJPEG(t, img, 40)

	report := Analyze(data, config.DefaultAnalysis())
	if report.Format != "jpeg" {
		t.Fatalf("unexpected format: %q", report.Format)
	}
	if report.EstimatedQuality >= 75 {
		t.Fatalf("expected low quality estimate, got %d", report.EstimatedQuality)
	}
	found := false
	for _, msg := range report.Bucket.Manipulation {
		if strings.Contains(msg, "Low JPEG quality") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected low-quality manipulation signal, got %#v", report.Bucket)
	}
}

func TestAnalyzeHighQualityJPEGClean(t *testing.T) {
	img := testsupport.NoisyImage(64, 64, 3)
	data := testsupport.EncodeJPEG(t, img, 95)

	report := Analyze(data, config.DefaultAnalysis())
	for _, msg := range report.Bucket.Manipulation {
		if strings.Contains(msg, "Low JPEG quality") {
			t.Fatalf("quality-95 image flagged low quality: %#v", report.Bucket)
		}
	}
}

func TestAnalyzeComputesRatio(t *testing.T) {
	img := testsupport.NoisyImage(50, 40, 9)
	data := testsupport.EncodeJPEG(t, img, 90)

	report := Analyze(data, config.DefaultAnalysis())
	if report.Width != 50 || report.Height != 40 {
		t.Fatalf("unexpected dimensions: %dx%d", report.Width, report.Height)
	}
	if report.CompressionRatio <= 0 {
		t.Fatalf("expected positive ratio, got %v", report.CompressionRatio)
	}
}

func TestAnalyzeUndecodable(t *testing.T) {
	report := Analyze([]byte{0x00, 0x01, 0x02}, config.DefaultAnalysis())
	if len(report.Bucket.Inconclusive) != 1 {
		t.Fatalf("expected inconclusive note, got %#v", report.Bucket)
	}
}

func TestAnalyzePlainPNGClean(t *testing.T) {
	data := testsupport.EncodePNG(t, testsupport.UniformImage(16, 16, color.RGBA{R: 5, A: 255}))
	report := Analyze(data, config.DefaultAnalysis())
	if len(report.Bucket.Manipulation) != 0 {
		t.Fatalf("plain PNG should carry no manipulation signals: %#v", report.Bucket)
	}
}

func TestPNGCarriesJPEGMetadata(t *testing.T) {
	data := testsupport.EncodePNG(t, testsupport.UniformImage(8, 8, color.RGBA{A: 255}))
	if pngCarriesJPEGMetadata(data) {
		t.Fatal("stdlib PNG should not report JPEG metadata")
	}
}
