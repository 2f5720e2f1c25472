// Package analyzer exposes the forensic entry points. Each entry point
// consumes one immutable media buffer, fans independent extractors out,
// joins their evidence into a single bucket, and returns a
// ForensicResult ready for fusion. Extractor failures degrade to
// inconclusive signals; only a completely unreadable input is an error.
package analyzer

import (
	"log/slog"

	"verisure/internal/config"
	"verisure/internal/logging"
)

// Analyzer runs forensic analyses with a fixed configuration. It holds
// no mutable state and is safe for concurrent use.
type Analyzer struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New constructs an Analyzer. A nil logger disables logging.
func New(cfg *config.Config, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Analyzer{cfg: cfg, logger: logger}
}
