package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sort"
	"sync"

	"verisure/internal/compression"
	"verisure/internal/copymove"
	"verisure/internal/ghost"
	"verisure/internal/imagestats"
	"verisure/internal/logging"
	"verisure/internal/metadata"
	"verisure/internal/signal"
)

// imageOutputs is the join point of the extractor fan-out. Every stage
// writes only its own fields; failed names are the one shared slice.
type imageOutputs struct {
	report ImageReport

	metaBucket  signal.Bucket
	propsBucket signal.Bucket
	elaErr      error
	ghostErr    error

	mu     sync.Mutex
	failed []string
}

// AnalyzeImage runs the full image pipeline over one buffer. A corrupt
// buffer still yields a result whose bucket explains the failure; only
// an empty buffer is a hard error.
func (a *Analyzer) AnalyzeImage(ctx context.Context, data []byte) (*ForensicResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("analyze image: %w", ErrDecode)
	}

	result := &ForensicResult{MediaType: MediaImage}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		a.logger.Warn("image decode failed", logging.Error(err))
		result.Bucket = signal.Inconclusive("Analysis failed - insufficient data")
		return result, nil
	}
	a.logger.Debug("image decoded",
		logging.String("format", format),
		logging.Int("bytes", len(data)))

	th := a.cfg.Analysis
	out := &imageOutputs{}
	var wg sync.WaitGroup
	stage := func(name string, fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					a.logger.Warn("extractor panicked",
						logging.String("extractor", name),
						logging.Any("panic", r))
					out.mu.Lock()
					out.failed = append(out.failed, name)
					out.mu.Unlock()
				}
			}()
			fn()
		}()
	}

	stage("metadata", func() {
		out.report.Metadata, out.metaBucket = metadata.Analyze(data, th.AIKeywords)
	})
	stage("properties", func() {
		out.report.Properties, out.propsBucket = analyzeProperties(data)
	})
	stage("compression", func() {
		out.report.Compression = compression.Analyze(data, th)
	})
	stage("statistics", func() {
		out.report.ELA, out.elaErr = imagestats.ErrorLevel(img, th.ELAQuality)
		out.report.Noise = imagestats.NoisePattern(img, th)
		out.report.Channels = imagestats.ChannelStats(img, th)
	})
	stage("jpeg ghost", func() {
		out.report.Ghost, out.ghostErr = ghost.Detect(img, th.GhostQualities)
	})
	stage("copy-move", func() {
		out.report.CopyMove = copymove.Detect(img, th)
	})
	wg.Wait()

	result.Bucket = mergeImageEvidence(out)
	out.report.CompositeScore = compositeScore(&out.report)
	result.Image = &out.report
	return result, nil
}

// mergeImageEvidence folds the extractor outputs into one bucket in a
// fixed order so the result is independent of goroutine scheduling.
func mergeImageEvidence(out *imageOutputs) signal.Bucket {
	var bucket signal.Bucket
	bucket.Merge(out.metaBucket)
	bucket.Merge(out.propsBucket)
	bucket.Merge(out.report.Compression.Bucket)

	for _, pattern := range out.report.Channels.Patterns {
		bucket.AddAI("Statistical anomaly: " + pattern)
	}
	if out.report.Noise.Suspected {
		bucket.AddAI(out.report.Noise.Interpretation)
	}

	if out.elaErr != nil {
		bucket.AddInconclusive("Error level analysis unavailable")
	} else if out.report.ELA.Suspected {
		bucket.AddManipulation(out.report.ELA.Interpretation)
	}
	if out.ghostErr != nil {
		bucket.AddInconclusive("JPEG ghost analysis unavailable")
	} else if out.report.Ghost.EditingDetected {
		bucket.AddManipulation(out.report.Ghost.Interpretation)
	}
	if out.report.CopyMove.Suspected {
		bucket.AddManipulation(out.report.CopyMove.Interpretation)
	}

	sort.Strings(out.failed)
	for _, name := range out.failed {
		bucket.AddInconclusive(fmt.Sprintf("%s analysis failed", name))
	}

	bucket.EnsureConclusive("Insufficient forensic evidence to determine origin")
	return bucket
}
