package copymove

import (
	"image/color"
	"testing"

	"verisure/internal/config"
	"verisure/internal/signal"
	"verisure/internal/testsupport"
)

func TestDetectDuplicatedMotif(t *testing.T) {
	img := testsupport.DuplicatedPatchImage(256, 256)

	report := Detect(img, config.DefaultAnalysis())
	if report.KeypointsFound < config.DefaultAnalysis().MinDescriptors {
		t.Fatalf("expected plenty of corners on the motif image, got %d", report.KeypointsFound)
	}
	if report.FeatureMatches == 0 {
		t.Fatalf("identical motifs must produce cross-checked matches: %+v", report)
	}
	if !report.Suspected {
		t.Fatalf("duplicated motif not flagged: %+v", report)
	}
	if report.Confidence == signal.ConfidenceNone {
		t.Fatalf("suspected result must carry a confidence: %+v", report)
	}
}

func TestDetectSmoothImageInsufficientFeatures(t *testing.T) {
	img := testsupport.GradientImage(128, 128)

	report := Detect(img, config.DefaultAnalysis())
	if report.Suspected {
		t.Fatalf("gradient image flagged as copy-move: %+v", report)
	}
	if report.Interpretation != "Insufficient features for analysis" {
		t.Fatalf("unexpected interpretation: %q", report.Interpretation)
	}
}

func TestDetectRandomNoiseNotSuspected(t *testing.T) {
	img := testsupport.NoisyImage(192, 192, 77)

	report := Detect(img, config.DefaultAnalysis())
	if report.Suspected {
		t.Fatalf("random noise flagged as copy-move: %+v", report)
	}
}

func TestDetectDeterministic(t *testing.T) {
	img := testsupport.DuplicatedPatchImage(224, 224)
	th := config.DefaultAnalysis()

	a := Detect(img, th)
	b := Detect(img, th)
	if a != b {
		t.Fatalf("detection must be deterministic: %+v vs %+v", a, b)
	}
}

func TestDetectCornersFindsBlockCorners(t *testing.T) {
	img := testsupport.UniformImage(64, 64, color.RGBA{A: 255})
	for y := 20; y < 40; y++ {
		for x := 20; x < 40; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 220, G: 220, B: 220, A: 255})
		}
	}

	plane, w, h := grayPlane(img)
	corners := detectCorners(plane, w, h, 100)
	if len(corners) == 0 {
		t.Fatal("bright square on dark field must yield FAST corners")
	}
	for _, kp := range corners {
		if kp.Score <= 0 {
			t.Fatalf("corner with non-positive score: %+v", kp)
		}
	}
}

func TestHammingDistance(t *testing.T) {
	var a, b descriptor
	if hamming(a, b) != 0 {
		t.Fatal("identical descriptors must have zero distance")
	}
	b[0] = 0xFF
	b[3] = 1 << 63
	if got := hamming(a, b); got != 9 {
		t.Fatalf("hamming = %d, want 9", got)
	}
}
