package videoprobe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ExtractKeyFrames pulls up to maxFrames JPEG frames from the video at
// 10%, 50%, and 90% of its duration. When the duration is unknown it
// samples the first seconds instead. Frames that fail to extract are
// skipped rather than failing the whole pass.
func ExtractKeyFrames(ctx context.Context, binary, path string, duration float64, maxFrames int) ([][]byte, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if maxFrames <= 0 {
		return nil, nil
	}

	var timestamps []float64
	if duration > 0 {
		timestamps = []float64{duration * 0.1, duration * 0.5, duration * 0.9}
	} else {
		timestamps = []float64{0, 1, 2}
	}
	if len(timestamps) > maxFrames {
		timestamps = timestamps[:maxFrames]
	}

	var frames [][]byte
	for _, ts := range timestamps {
		frame, err := extractFrame(ctx, binary, path, ts)
		if err != nil {
			continue
		}
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("key frames: no frame extracted from %s", path)
	}
	return frames, nil
}

func extractFrame(ctx context.Context, binary, path string, timestamp float64) ([]byte, error) {
	tmp, err := os.CreateTemp("", "verisure-frame-*.jpg")
	if err != nil {
		return nil, fmt.Errorf("frame temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	cmd := exec.CommandContext(ctx, binary,
		"-y", "-v", "error",
		"-ss", strconv.FormatFloat(timestamp, 'f', 3, 64),
		"-i", path,
		"-frames:v", "1", "-q:v", "2",
		tmpPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("frame extract at %.1fs: %w: %s", timestamp, err, strings.TrimSpace(string(output)))
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("frame read: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("frame extract at %.1fs: empty output", timestamp)
	}
	return data, nil
}
