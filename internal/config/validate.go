package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateOpinion(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json", "auto":
	default:
		return fmt.Errorf("logging.format must be console, json, or auto (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	a := c.Analysis
	if a.ELAQuality < 1 || a.ELAQuality > 100 {
		return errors.New("analysis.ela_quality must be between 1 and 100")
	}
	if len(a.GhostQualities) < 3 {
		return errors.New("analysis.ghost_qualities needs at least 3 quality levels")
	}
	prev := 0
	for _, q := range a.GhostQualities {
		if q < 1 || q > 100 {
			return fmt.Errorf("analysis.ghost_qualities entry %d out of range", q)
		}
		if q <= prev {
			return errors.New("analysis.ghost_qualities must be strictly increasing")
		}
		prev = q
	}
	if a.CompressionRatioFloor <= 0 {
		return errors.New("analysis.compression_ratio_floor must be positive")
	}
	if a.QualityFloor < 1 || a.QualityFloor > 100 {
		return errors.New("analysis.quality_floor must be between 1 and 100")
	}
	if a.PixelSampleLimit < 100 {
		return errors.New("analysis.pixel_sample_limit must be at least 100")
	}
	if a.MaxKeypoints < a.MinDescriptors {
		return errors.New("analysis.max_keypoints must be at least analysis.min_descriptors")
	}
	if a.MinMatchSeparation <= 0 || a.ClusterRadius <= 0 {
		return errors.New("analysis.min_match_separation and analysis.cluster_radius must be positive")
	}
	if a.KeyFrameCount < 0 || a.KeyFrameCount > 10 {
		return errors.New("analysis.key_frame_count must be between 0 and 10")
	}
	if len(a.AIKeywords) == 0 {
		return errors.New("analysis.ai_keywords must not be empty")
	}
	return nil
}

func (c *Config) validateOpinion() error {
	if !c.Opinion.Enabled {
		return nil
	}
	if c.Opinion.APIKey == "" {
		return errors.New("opinion.api_key is required when opinion.enabled is true (or set OPENAI_API_KEY)")
	}
	if c.Opinion.Model == "" {
		return errors.New("opinion.model must be set when opinion.enabled is true")
	}
	if c.Opinion.TimeoutSeconds <= 0 {
		return errors.New("opinion.timeout_seconds must be positive")
	}
	return nil
}
