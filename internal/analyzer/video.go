package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"verisure/internal/logging"
	"verisure/internal/signal"
	"verisure/internal/videoprobe"
)

// AnalyzeVideo probes the container and derives evidence from its
// structure. When ffprobe is missing or the buffer is not a readable
// container, the result degrades to inconclusive evidence instead of an
// error. Extracted key frames ride along for the secondary-opinion
// collaborator.
func (a *Analyzer) AnalyzeVideo(ctx context.Context, data []byte, filename string) (*ForensicResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("analyze video: %w", ErrDecode)
	}
	result := &ForensicResult{MediaType: MediaVideo}

	tmpPath, cleanup, err := writeTempMedia(data, filename, ".mp4")
	if err != nil {
		return nil, fmt.Errorf("analyze video: %w", err)
	}
	defer cleanup()

	probe, err := videoprobe.Inspect(ctx, a.cfg.Tools.FFprobe, tmpPath)
	if err != nil {
		if toolMissing(err) {
			a.logger.Warn("ffprobe not available", logging.Error(err))
			result.Bucket = signal.Inconclusive("Video forensics unavailable - install ffmpeg")
		} else {
			a.logger.Warn("video probe failed",
				logging.String("filename", filename),
				logging.Error(err))
			result.Bucket = signal.Inconclusive("Video analysis failed - insufficient data")
		}
		return result, nil
	}

	report, bucket := videoprobe.DeriveBucket(probe)
	result.Video = &report
	result.Bucket = bucket

	frames, err := videoprobe.ExtractKeyFrames(ctx, a.cfg.Tools.FFmpeg, tmpPath, report.Duration, a.cfg.Analysis.KeyFrameCount)
	if err != nil {
		a.logger.Debug("key frame extraction skipped", logging.Error(err))
	} else {
		result.KeyFrames = frames
	}
	return result, nil
}

// writeTempMedia persists the buffer for tools that need a seekable
// file. The cleanup func removes it.
func writeTempMedia(data []byte, filename, fallbackExt string) (string, func(), error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = fallbackExt
	}
	tmp, err := os.CreateTemp("", "verisure-media-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("temp media file: %w", err)
	}
	path := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("temp media write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("temp media close: %w", err)
	}
	return path, func() { os.Remove(path) }, nil
}

func toolMissing(err error) bool {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return errors.Is(execErr.Err, exec.ErrNotFound)
	}
	return errors.Is(err, exec.ErrNotFound)
}
