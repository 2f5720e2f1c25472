package analyzer

import (
	"context"
	"fmt"

	"verisure/internal/audioprobe"
	"verisure/internal/logging"
	"verisure/internal/signal"
)

// AnalyzeAudio decodes the buffer and derives evidence from its signal
// characteristics. Undecodable audio degrades to inconclusive evidence.
func (a *Analyzer) AnalyzeAudio(ctx context.Context, data []byte, filename string) (*ForensicResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("analyze audio: %w", ErrDecode)
	}
	result := &ForensicResult{MediaType: MediaAudio}

	report, bucket, err := audioprobe.Analyze(data, a.cfg.Analysis)
	if err != nil {
		a.logger.Warn("audio analysis failed",
			logging.String("filename", filename),
			logging.Error(err))
		result.Bucket = signal.Inconclusive("Audio analysis failed - insufficient data")
		return result, nil
	}
	result.Audio = &report
	result.Bucket = bucket
	return result, nil
}
