package analyzer

import (
	"verisure/internal/audioprobe"
	"verisure/internal/compression"
	"verisure/internal/copymove"
	"verisure/internal/ghost"
	"verisure/internal/imagestats"
	"verisure/internal/metadata"
	"verisure/internal/signal"
	"verisure/internal/videoprobe"
)

// Media kinds accepted by the analyzer.
const (
	MediaImage = "image"
	MediaVideo = "video"
	MediaAudio = "audio"
)

// ForensicResult is the complete forensic view of one media buffer. The
// evidence bucket always satisfies the completeness invariant: when no
// human and no AI signal was found, at least one inconclusive entry
// explains why.
type ForensicResult struct {
	MediaType string
	Bucket    signal.Bucket

	Image *ImageReport
	Video *videoprobe.Report
	Audio *audioprobe.Report

	// KeyFrames are representative stills extracted from video input,
	// for handing to a secondary-opinion collaborator.
	KeyFrames [][]byte
}

// ImageReport bundles the per-extractor measurements behind an image
// verdict.
type ImageReport struct {
	Properties  ImageProperties
	Metadata    metadata.Fields
	Compression compression.Report
	ELA         imagestats.ELAReport
	Noise       imagestats.NoiseReport
	Channels    imagestats.ChannelReport
	Ghost       ghost.Report
	CopyMove    copymove.Report

	// CompositeScore summarizes manipulation likelihood in [0, 1].
	CompositeScore float64
}
