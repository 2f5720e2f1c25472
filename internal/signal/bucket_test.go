package signal_test

import (
	"testing"

	"verisure/internal/signal"
)

func TestBucketCounts(t *testing.T) {
	var b signal.Bucket
	b.AddHuman("camera metadata present")
	b.AddHuman("GPS coordinates present")
	b.AddAI("no EXIF metadata")
	b.AddManipulation("low JPEG quality")

	human, ai, manipulation, inconclusive := b.Counts()
	if human != 2 || ai != 1 || manipulation != 1 || inconclusive != 0 {
		t.Fatalf("unexpected counts: %d %d %d %d", human, ai, manipulation, inconclusive)
	}
}

func TestEnsureConclusiveAddsFallback(t *testing.T) {
	var b signal.Bucket
	b.AddManipulation("re-encoding detected")
	b.EnsureConclusive("insufficient forensic evidence")

	if len(b.Inconclusive) != 1 {
		t.Fatalf("expected fallback inconclusive entry, got %#v", b.Inconclusive)
	}
	if b.Inconclusive[0] != "insufficient forensic evidence" {
		t.Fatalf("unexpected fallback message: %q", b.Inconclusive[0])
	}
}

func TestEnsureConclusiveNoopWhenConclusive(t *testing.T) {
	var b signal.Bucket
	b.AddAI("dimensions are multiples of 512")
	b.EnsureConclusive("should not appear")
	if len(b.Inconclusive) != 0 {
		t.Fatalf("unexpected inconclusive entries: %#v", b.Inconclusive)
	}
}

func TestEnsureConclusiveNoopWhenAlreadyInconclusive(t *testing.T) {
	b := signal.Inconclusive("analysis failed")
	b.EnsureConclusive("should not appear")
	if len(b.Inconclusive) != 1 {
		t.Fatalf("expected single inconclusive entry, got %#v", b.Inconclusive)
	}
}

func TestMergePreservesOrder(t *testing.T) {
	var a, b signal.Bucket
	a.AddHuman("first")
	b.AddHuman("second")
	b.AddAI("third")
	a.Merge(b)

	if len(a.Human) != 2 || a.Human[0] != "first" || a.Human[1] != "second" {
		t.Fatalf("unexpected human ordering: %#v", a.Human)
	}
	if len(a.AI) != 1 {
		t.Fatalf("unexpected ai signals: %#v", a.AI)
	}
}

func TestSignalsOrdering(t *testing.T) {
	var b signal.Bucket
	b.AddInconclusive("note")
	b.AddHuman("camera")
	b.AddAI("keyword")

	signals := b.Signals()
	if len(signals) != 3 {
		t.Fatalf("expected 3 signals, got %d", len(signals))
	}
	if signals[0].Category != signal.CategoryHuman {
		t.Fatalf("expected human first, got %s", signals[0].Category)
	}
	if signals[2].Category != signal.CategoryInconclusive {
		t.Fatalf("expected inconclusive last, got %s", signals[2].Category)
	}
}

func TestAddUnknownCategoryFallsBack(t *testing.T) {
	var b signal.Bucket
	b.Add(signal.Category("bogus"), "stray evidence")
	if len(b.Inconclusive) != 1 {
		t.Fatalf("expected stray evidence recorded as inconclusive, got %#v", b)
	}
}
