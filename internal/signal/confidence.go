package signal

// Confidence grades how strongly a sub-analysis or the final verdict backs
// its finding.
type Confidence string

const (
	ConfidenceNone   Confidence = "none"
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Strong reports whether the confidence is medium or high.
func (c Confidence) Strong() bool {
	return c == ConfidenceMedium || c == ConfidenceHigh
}
