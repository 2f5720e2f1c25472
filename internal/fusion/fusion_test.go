package fusion

import (
	"reflect"
	"strings"
	"testing"

	"verisure/internal/signal"
)

func bucketWith(human, ai, manipulation, inconclusive int) signal.Bucket {
	var b signal.Bucket
	for i := 0; i < human; i++ {
		b.AddHuman("human evidence")
	}
	for i := 0; i < ai; i++ {
		b.AddAI("ai evidence")
	}
	for i := 0; i < manipulation; i++ {
		b.AddManipulation("edit evidence")
	}
	for i := 0; i < inconclusive; i++ {
		b.AddInconclusive("no evidence")
	}
	return b
}

func strongAIOpinion() SecondaryOpinion {
	return SecondaryOpinion{Classification: ClassAIGenerated, Confidence: "high"}
}

func strongOriginalOpinion() SecondaryOpinion {
	return SecondaryOpinion{Classification: ClassOriginal, Confidence: "medium"}
}

func TestFuseRuleLadder(t *testing.T) {
	cases := []struct {
		name           string
		bucket         signal.Bucket
		opinion        SecondaryOpinion
		wantClass      string
		wantConfidence signal.Confidence
	}{
		{"three ai no human", bucketWith(0, 3, 0, 0), NeutralOpinion(), ClassAIGenerated, signal.ConfidenceHigh},
		{"two ai opinion agrees", bucketWith(0, 2, 0, 0), strongAIOpinion(), ClassAIGenerated, signal.ConfidenceHigh},
		{"two ai opinion neutral", bucketWith(0, 2, 0, 0), NeutralOpinion(), ClassAIGenerated, signal.ConfidenceMedium},
		{"one ai strong opinion", bucketWith(0, 1, 0, 0), strongAIOpinion(), ClassAIGenerated, signal.ConfidenceMedium},
		{"three human no ai", bucketWith(3, 0, 0, 0), NeutralOpinion(), ClassOriginal, signal.ConfidenceHigh},
		{"two human opinion agrees", bucketWith(2, 0, 0, 0), strongOriginalOpinion(), ClassOriginal, signal.ConfidenceHigh},
		{"two human opinion neutral", bucketWith(2, 0, 0, 0), NeutralOpinion(), ClassOriginal, signal.ConfidenceMedium},
		{"one human strong opinion", bucketWith(1, 0, 0, 0), strongOriginalOpinion(), ClassOriginal, signal.ConfidenceMedium},
		{"human with heavy manipulation", bucketWith(1, 1, 3, 0), NeutralOpinion(), ClassHybrid, signal.ConfidenceHigh},
		{"human with two manipulation", bucketWith(2, 1, 2, 0), NeutralOpinion(), ClassHybrid, signal.ConfidenceMedium},
		{"human with one manipulation", bucketWith(1, 1, 1, 0), NeutralOpinion(), ClassHybrid, signal.ConfidenceMedium},
		{"conflict leaning ai", bucketWith(1, 2, 0, 0), strongAIOpinion(), ClassAIGenerated, signal.ConfidenceLow},
		{"conflict leaning original", bucketWith(2, 1, 0, 0), strongOriginalOpinion(), ClassOriginal, signal.ConfidenceLow},
		{"conflict unresolved", bucketWith(1, 1, 0, 0), NeutralOpinion(), ClassUnclear, signal.ConfidenceLow},
		{"single ai weak path", bucketWith(0, 1, 0, 0), NeutralOpinion(), ClassInconclusive, signal.ConfidenceLow},
		{"empty with ai lean", bucketWith(0, 0, 0, 1), strongAIOpinion(), ClassUnclear, signal.ConfidenceLow},
		{"empty with original lean", bucketWith(0, 0, 0, 1), strongOriginalOpinion(), ClassUnclear, signal.ConfidenceLow},
		{"empty everything", bucketWith(0, 0, 0, 1), NeutralOpinion(), ClassInconclusive, signal.ConfidenceLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Fuse(tc.bucket, tc.opinion)
			if got.Classification != tc.wantClass {
				t.Fatalf("classification = %q, want %q", got.Classification, tc.wantClass)
			}
			if got.Confidence != tc.wantConfidence {
				t.Fatalf("confidence = %q, want %q", got.Confidence, tc.wantConfidence)
			}
			if got.Reason == "" {
				t.Fatal("reason must never be empty")
			}
		})
	}
}

func TestFuseRuleOneDominatesAnyOpinion(t *testing.T) {
	bucket := bucketWith(0, 3, 0, 0)
	opinions := []SecondaryOpinion{
		NeutralOpinion(),
		strongAIOpinion(),
		strongOriginalOpinion(),
		{Classification: "Likely Human Photograph", Confidence: "high"},
		{},
	}
	for _, op := range opinions {
		got := Fuse(bucket, op)
		if got.Classification != ClassAIGenerated || got.Confidence != signal.ConfidenceHigh {
			t.Fatalf("opinion %+v overrode rule 1: %+v", op, got)
		}
	}
}

func TestFuseDeterministic(t *testing.T) {
	bucket := bucketWith(2, 1, 1, 0)
	opinion := strongOriginalOpinion()

	a := Fuse(bucket, opinion)
	b := Fuse(bucket, opinion)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("fuse not deterministic: %+v vs %+v", a, b)
	}
}

func TestFuseIndicatorPrefixes(t *testing.T) {
	var bucket signal.Bucket
	bucket.AddHuman("Complete camera EXIF metadata present")
	bucket.AddAI("No EXIF metadata (common in AI-generated images)")
	bucket.AddManipulation("Unusually high compression (possible multiple re-encodings)")

	opinion := SecondaryOpinion{
		Classification: ClassAIGenerated,
		Confidence:     "high",
		AISignals:      []string{"a", "b", "c", "d"},
	}

	got := Fuse(bucket, opinion)
	wantPrefixes := []string{"[FORENSIC] ", "[FORENSIC AI] ", "[FORENSIC EDIT] ", "[AI OPINION] "}
	for _, prefix := range wantPrefixes {
		found := false
		for _, ind := range got.Indicators {
			if strings.HasPrefix(ind, prefix) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing %q indicator in %v", prefix, got.Indicators)
		}
	}

	opinionCount := 0
	for _, ind := range got.Indicators {
		if strings.HasPrefix(ind, "[AI OPINION] ") {
			opinionCount++
		}
	}
	if opinionCount != 3 {
		t.Fatalf("opinion indicators = %d, want capped at 3", opinionCount)
	}
}

func TestParseOpinionFlat(t *testing.T) {
	got := ParseOpinion([]byte(`{"classification":"Likely AI-Generated","confidence":"HIGH","ai_signals":["too smooth"]}`))
	if !got.AgreesAIGenerated() || !got.Strong() {
		t.Fatalf("unexpected opinion: %+v", got)
	}
	if len(got.AISignals) != 1 {
		t.Fatalf("ai signals lost: %+v", got)
	}
}

func TestParseOpinionNestedOrigin(t *testing.T) {
	got := ParseOpinion([]byte(`{"origin":{"classification":"Likely Original","confidence":"medium"},"human_signals":["natural grain"]}`))
	if !got.AgreesOriginal() || !got.Strong() {
		t.Fatalf("unexpected opinion: %+v", got)
	}
	if len(got.HumanSignals) != 1 {
		t.Fatalf("human signals lost: %+v", got)
	}
}

func TestParseOpinionGarbageDefaultsNeutral(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte(""),
		[]byte("not json"),
		[]byte(`{"classification":""}`),
		[]byte(`{}`),
	}
	for _, data := range cases {
		got := ParseOpinion(data)
		if got.Classification != ClassUnclear || got.Confidence != string(signal.ConfidenceLow) {
			t.Fatalf("ParseOpinion(%q) = %+v, want neutral", data, got)
		}
		if got.AgreesAIGenerated() || got.AgreesOriginal() || got.Strong() {
			t.Fatalf("neutral opinion must not lean: %+v", got)
		}
	}
}
