// Package fusion turns categorized forensic evidence and an optional
// secondary opinion into a final verdict. The decision core is a pure,
// ordered rule ladder: forensic signal counts dominate, and the opinion
// only sharpens confidence or breaks ties.
package fusion

import (
	"fmt"

	"verisure/internal/signal"
)

// Classification labels a fused verdict.
const (
	ClassAIGenerated  = "Likely AI-Generated"
	ClassOriginal     = "Likely Original"
	ClassHybrid       = "Hybrid / Manipulated"
	ClassUnclear      = "Unclear / Mixed Signals"
	ClassInconclusive = "Inconclusive"
)

// maxOpinionIndicators caps how many collaborator observations make it
// into the combined indicator list.
const maxOpinionIndicators = 3

// Verdict is the final output of an analysis.
type Verdict struct {
	Classification string            `json:"classification"`
	Confidence     signal.Confidence `json:"confidence"`
	Reason         string            `json:"reason"`
	Indicators     []string          `json:"indicators"`
}

// Fuse evaluates the rule ladder over the evidence bucket. The first
// matching rule wins; the ladder always terminates with a populated
// reason, so Fuse cannot fail.
func Fuse(bucket signal.Bucket, opinion SecondaryOpinion) Verdict {
	numHuman, numAI, numManipulation, numInconclusive := bucket.Counts()
	totalEvidence := numHuman + numAI + numManipulation

	agreesAI := opinion.AgreesAIGenerated()
	agreesOriginal := opinion.AgreesOriginal()
	opinionStrong := opinion.Strong()

	indicators := buildIndicators(bucket, opinion)
	verdict := func(class string, conf signal.Confidence, reason string) Verdict {
		return Verdict{Classification: class, Confidence: conf, Reason: reason, Indicators: indicators}
	}

	// Synthetic-evidence rules.
	switch {
	case numAI >= 3 && numHuman == 0:
		return verdict(ClassAIGenerated, signal.ConfidenceHigh,
			fmt.Sprintf("Strong forensic evidence: %d AI generation indicators detected with no authentic signals", numAI))
	case numAI >= 2 && numHuman == 0:
		if agreesAI && opinionStrong {
			return verdict(ClassAIGenerated, signal.ConfidenceHigh,
				fmt.Sprintf("Forensic analysis (%d AI indicators) strongly supported by AI opinion analysis", numAI))
		}
		return verdict(ClassAIGenerated, signal.ConfidenceMedium,
			fmt.Sprintf("Forensic analysis detected %d AI generation indicators with no human capture signals", numAI))
	case numAI >= 1 && numHuman == 0 && agreesAI && opinionStrong:
		return verdict(ClassAIGenerated, signal.ConfidenceMedium,
			"Forensic AI indicator combined with strong AI opinion suggests synthetic content")
	}

	// Authentic-evidence rules.
	switch {
	case numHuman >= 3 && numAI == 0:
		return verdict(ClassOriginal, signal.ConfidenceHigh,
			fmt.Sprintf("Strong authenticity: %d genuine capture signals with no AI indicators", numHuman))
	case numHuman >= 2 && numAI == 0:
		if agreesOriginal && opinionStrong {
			return verdict(ClassOriginal, signal.ConfidenceHigh,
				fmt.Sprintf("Forensic authenticity (%d signals) confirmed by AI visual analysis", numHuman))
		}
		return verdict(ClassOriginal, signal.ConfidenceMedium,
			fmt.Sprintf("Forensic analysis detected %d authentic capture signals with no AI indicators", numHuman))
	case numHuman >= 1 && numAI == 0 && agreesOriginal && opinionStrong:
		return verdict(ClassOriginal, signal.ConfidenceMedium,
			"Authentic metadata combined with AI opinion suggests original content")
	}

	// Authentic source carrying editing artifacts.
	if numHuman >= 1 && numManipulation >= 2 {
		conf := signal.ConfidenceMedium
		if numManipulation >= 3 {
			conf = signal.ConfidenceHigh
		}
		return verdict(ClassHybrid, conf,
			fmt.Sprintf("Original content detected with %d manipulation indicators (edited/processed)", numManipulation))
	}
	if numHuman >= 1 && numManipulation >= 1 {
		return verdict(ClassHybrid, signal.ConfidenceMedium,
			"Authentic source with editing artifacts detected")
	}

	// Conflicting evidence, tie-broken by count and opinion lean.
	if numHuman >= 1 && numAI >= 1 {
		switch {
		case numAI > numHuman && agreesAI:
			return verdict(ClassAIGenerated, signal.ConfidenceLow,
				fmt.Sprintf("Mixed signals: %d AI vs %d human indicators, leaning AI-generated", numAI, numHuman))
		case numHuman > numAI && agreesOriginal:
			return verdict(ClassOriginal, signal.ConfidenceLow,
				fmt.Sprintf("Mixed signals: %d human vs %d AI indicators, leaning original", numHuman, numAI))
		}
		return verdict(ClassUnclear, signal.ConfidenceLow,
			fmt.Sprintf("Conflicting evidence: %d human signals vs %d AI indicators", numHuman, numAI))
	}

	// A single indicator backed by a strong opinion.
	if totalEvidence == 1 {
		switch {
		case numAI == 1 && agreesAI && opinionStrong:
			return verdict(ClassAIGenerated, signal.ConfidenceLow,
				"Limited forensic evidence supported by AI opinion suggests synthetic content")
		case numHuman == 1 && agreesOriginal && opinionStrong:
			return verdict(ClassOriginal, signal.ConfidenceLow,
				"Limited forensic evidence supported by AI opinion suggests original content")
		}
	}

	// Insufficient evidence: the opinion alone is only a weak lean.
	if totalEvidence < 1 || numInconclusive > 0 {
		switch {
		case agreesAI && opinionStrong:
			return verdict(ClassUnclear, signal.ConfidenceLow,
				"No forensic evidence available; AI opinion suggests synthetic content (weak signal)")
		case agreesOriginal && opinionStrong:
			return verdict(ClassUnclear, signal.ConfidenceLow,
				"No forensic evidence available; AI opinion suggests original content (weak signal)")
		}
		return verdict(ClassInconclusive, signal.ConfidenceLow,
			fmt.Sprintf("Insufficient evidence for classification (%d indicators detected)", totalEvidence))
	}

	return verdict(ClassInconclusive, signal.ConfidenceLow,
		"Evidence pattern does not match classification rules")
}

func buildIndicators(bucket signal.Bucket, opinion SecondaryOpinion) []string {
	indicators := make([]string, 0, len(bucket.Human)+len(bucket.AI)+len(bucket.Manipulation)+maxOpinionIndicators)
	for _, s := range bucket.Human {
		indicators = append(indicators, "[FORENSIC] "+s)
	}
	for _, s := range bucket.AI {
		indicators = append(indicators, "[FORENSIC AI] "+s)
	}
	for _, s := range bucket.Manipulation {
		indicators = append(indicators, "[FORENSIC EDIT] "+s)
	}
	opinionSignals := opinion.AISignals
	if len(opinionSignals) > maxOpinionIndicators {
		opinionSignals = opinionSignals[:maxOpinionIndicators]
	}
	for _, s := range opinionSignals {
		indicators = append(indicators, "[AI OPINION] "+s)
	}
	return indicators
}
