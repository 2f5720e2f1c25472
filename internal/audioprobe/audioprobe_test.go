package audioprobe

import (
	"strings"
	"testing"

	"verisure/internal/config"
	"verisure/internal/testsupport"
)

func TestAnalyzeSineToneReadsSynthetic(t *testing.T) {
	data := testsupport.SineWAV(t, 44100, 2.0, 440)

	report, bucket, err := Analyze(data, config.DefaultAnalysis())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.SampleRate != 44100 {
		t.Fatalf("sample rate = %d", report.SampleRate)
	}
	if report.Duration < 1.9 || report.Duration > 2.1 {
		t.Fatalf("duration = %v", report.Duration)
	}
	if report.SilenceRatio > 0.05 {
		t.Fatalf("constant tone should have no silence, got %v", report.SilenceRatio)
	}
	if report.EnergyStd >= 0.01 {
		t.Fatalf("constant tone should have uniform energy, got %v", report.EnergyStd)
	}

	_, ai, _, _ := bucket.Counts()
	if ai < 2 {
		t.Fatalf("expected silence and energy AI signals, got %+v", bucket)
	}
	if !containsSignal(bucket.Human, "Standard recording sample rate (44100 Hz)") {
		t.Fatalf("sample-rate human signal missing: %+v", bucket.Human)
	}
}

func TestAnalyzeSpeechLikeReadsNatural(t *testing.T) {
	data := testsupport.SpeechLikeWAV(t, 44100, 6)

	report, bucket, err := Analyze(data, config.DefaultAnalysis())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.SpeechSegments < 4 {
		t.Fatalf("expected distinct voiced bursts, got %d", report.SpeechSegments)
	}
	if report.SilenceRatio <= 0.1 {
		t.Fatalf("expected clear pauses, got silence ratio %v", report.SilenceRatio)
	}
	if !containsSignal(bucket.Human, "Natural speech patterns with pauses") {
		t.Fatalf("pause human signal missing: %+v", bucket.Human)
	}
	if len(bucket.AI) != 0 {
		t.Fatalf("natural cadence flagged as AI: %+v", bucket.AI)
	}
}

func TestAnalyzeShortClipNotesLimitedAnalysis(t *testing.T) {
	data := testsupport.SineWAV(t, 44100, 0.5, 330)

	report, bucket, err := Analyze(data, config.DefaultAnalysis())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.Duration >= 1 {
		t.Fatalf("duration = %v", report.Duration)
	}
	if !containsSignal(bucket.Inconclusive, "Very short audio clip - limited analysis") {
		t.Fatalf("short-clip note missing: %+v", bucket.Inconclusive)
	}
}

func TestAnalyzeLowSampleRateFlagged(t *testing.T) {
	data := testsupport.SineWAV(t, 16000, 2.0, 220)

	_, bucket, err := Analyze(data, config.DefaultAnalysis())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	found := false
	for _, msg := range bucket.AI {
		if strings.Contains(msg, "16000 Hz") {
			found = true
		}
	}
	if !found {
		t.Fatalf("low sample rate not flagged: %+v", bucket.AI)
	}
}

func TestAnalyzeRejectsGarbage(t *testing.T) {
	if _, _, err := Analyze([]byte("definitely not audio"), config.DefaultAnalysis()); err == nil {
		t.Fatal("expected error for non-audio buffer")
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	data := testsupport.SpeechLikeWAV(t, 44100, 4)
	th := config.DefaultAnalysis()

	a, _, err := Analyze(data, th)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	b, _, err := Analyze(data, th)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if a != b {
		t.Fatalf("analysis must be deterministic: %+v vs %+v", a, b)
	}
}

func containsSignal(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
