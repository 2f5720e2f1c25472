package fusion

import (
	"encoding/json"
	"strings"

	"verisure/internal/signal"
)

// SecondaryOpinion is the completed judgment of an external collaborator
// (typically a vision model). It is advisory input only; the rule ladder
// always weighs forensic counts first.
type SecondaryOpinion struct {
	Classification string   `json:"classification"`
	Confidence     string   `json:"confidence"`
	AISignals      []string `json:"ai_signals"`
	HumanSignals   []string `json:"human_signals"`
}

// NeutralOpinion is the stance used when no collaborator ran.
func NeutralOpinion() SecondaryOpinion {
	return SecondaryOpinion{
		Classification: ClassUnclear,
		Confidence:     string(signal.ConfidenceLow),
	}
}

// opinionEnvelope covers the two layouts collaborators produce: a flat
// object, or the classification nested under an "origin" key.
type opinionEnvelope struct {
	SecondaryOpinion
	Origin *struct {
		Classification string `json:"classification"`
		Confidence     string `json:"confidence"`
	} `json:"origin"`
}

// ParseOpinion decodes a collaborator response. Garbled payloads and
// missing fields degrade to the neutral stance rather than an error, so
// a broken collaborator can never block a verdict.
func ParseOpinion(data []byte) SecondaryOpinion {
	opinion := NeutralOpinion()
	if len(data) == 0 {
		return opinion
	}

	var envelope opinionEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return opinion
	}
	if envelope.Origin != nil {
		envelope.Classification = envelope.Origin.Classification
		envelope.Confidence = envelope.Origin.Confidence
	}
	if strings.TrimSpace(envelope.Classification) != "" {
		opinion.Classification = envelope.Classification
	}
	if strings.TrimSpace(envelope.Confidence) != "" {
		opinion.Confidence = strings.ToLower(strings.TrimSpace(envelope.Confidence))
	}
	opinion.AISignals = envelope.AISignals
	opinion.HumanSignals = envelope.HumanSignals
	return opinion
}

// AgreesAIGenerated reports whether the opinion leans synthetic.
func (o SecondaryOpinion) AgreesAIGenerated() bool {
	lower := strings.ToLower(o.Classification)
	return strings.Contains(lower, "likely ai") || strings.Contains(lower, "ai-generated")
}

// AgreesOriginal reports whether the opinion leans authentic.
func (o SecondaryOpinion) AgreesOriginal() bool {
	lower := strings.ToLower(o.Classification)
	return strings.Contains(lower, "likely original") || strings.Contains(lower, "likely human")
}

// Strong reports whether the opinion's self-assessed confidence is high
// enough to influence borderline rules.
func (o SecondaryOpinion) Strong() bool {
	switch strings.ToLower(o.Confidence) {
	case string(signal.ConfidenceHigh), string(signal.ConfidenceMedium):
		return true
	}
	return false
}
