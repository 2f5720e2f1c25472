package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"verisure/internal/config"
)

// Requirement defines an external dependency verisure relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the external binaries used for video analysis.
// Both are optional: image and audio forensics are pure Go, and the
// video path degrades to an inconclusive verdict when they are missing.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "ffprobe",
			Command:     ResolveFFprobePath(cfg),
			Description: "Container and stream metadata for video forensics",
			Optional:    true,
		},
		{
			Name:        "ffmpeg",
			Command:     ResolveFFmpegPath(cfg),
			Description: "Key frame extraction from video input",
			Optional:    true,
		},
	}
}

// ResolveFFprobePath returns the configured ffprobe binary, falling back
// to PATH lookup by name.
func ResolveFFprobePath(cfg *config.Config) string {
	if cfg != nil {
		if path := strings.TrimSpace(cfg.Tools.FFprobe); path != "" {
			return path
		}
	}
	return "ffprobe"
}

// ResolveFFmpegPath returns the configured ffmpeg binary, falling back
// to PATH lookup by name.
func ResolveFFmpegPath(cfg *config.Config) string {
	if cfg != nil {
		if path := strings.TrimSpace(cfg.Tools.FFmpeg); path != "" {
			return path
		}
	}
	return "ffmpeg"
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
