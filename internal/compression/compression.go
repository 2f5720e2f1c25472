package compression

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"verisure/internal/config"
	"verisure/internal/signal"
)

// Report carries the measured compression properties plus the derived
// manipulation signals.
type Report struct {
	Format           string
	FileSize         int
	Width            int
	Height           int
	Channels         int
	CompressionRatio float64
	EstimatedQuality int // 0 when not recoverable
	NonStandardQuant bool
	Bucket           signal.Bucket
}

// Analyze inspects the raw image bytes. It never fails; undecodable input
// yields an empty report with an inconclusive note.
func Analyze(data []byte, th config.Analysis) Report {
	report := Report{FileSize: len(data)}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		report.Bucket.AddInconclusive("Compression analysis failed - undecodable image")
		return report
	}
	report.Format = format
	report.Width = cfg.Width
	report.Height = cfg.Height
	report.Channels = channelCount(cfg)

	if raw := cfg.Width * cfg.Height * report.Channels; raw > 0 {
		report.CompressionRatio = float64(len(data)) / float64(raw)
	}

	switch format {
	case "jpeg":
		analyzeJPEG(data, th, &report)
	case "png":
		analyzePNG(data, &report)
	}

	return report
}

func analyzeJPEG(data []byte, th config.Analysis, report *Report) {
	if report.CompressionRatio > 0 && report.CompressionRatio < th.CompressionRatioFloor {
		report.Bucket.AddManipulation("Unusually high compression (possible multiple re-encodings)")
	}

	quality, nonStandard := estimateQuality(data)
	report.EstimatedQuality = quality
	report.NonStandardQuant = nonStandard

	if quality > 0 && quality < th.QualityFloor {
		report.Bucket.AddManipulation(fmt.Sprintf("Low JPEG quality (%d) suggests re-encoding", quality))
	}
	if nonStandard {
		report.Bucket.AddManipulation("Non-standard quantization tables detected")
	}
}

func analyzePNG(data []byte, report *Report) {
	if pngCarriesJPEGMetadata(data) {
		report.Bucket.AddManipulation("PNG contains JPEG metadata (format conversion)")
	}
}

// channelCount mirrors the decoded channel layout the stdlib codecs
// produce, so the ratio denominator matches raw pixel bytes.
func channelCount(cfg image.Config) int {
	switch cfg.ColorModel {
	case color.GrayModel, color.Gray16Model:
		return 1
	case color.YCbCrModel:
		return 3
	case color.RGBAModel, color.NRGBAModel, color.RGBA64Model, color.NRGBA64Model, color.NYCbCrAModel, color.CMYKModel:
		return 4
	}
	if _, ok := cfg.ColorModel.(color.Palette); ok {
		return 1
	}
	return 3
}

// pngCarriesJPEGMetadata walks PNG chunks looking for embedded EXIF or
// textual metadata mentioning JPEG, both of which indicate the PNG was
// converted from a lossy original.
func pngCarriesJPEGMetadata(data []byte) bool {
	const headerLen = 8
	if len(data) < headerLen {
		return false
	}
	pos := headerLen
	for pos+8 <= len(data) {
		length := int(uint32(data[pos])<<24 | uint32(data[pos+1])<<16 | uint32(data[pos+2])<<8 | uint32(data[pos+3]))
		chunkType := string(data[pos+4 : pos+8])
		dataStart := pos + 8
		dataEnd := dataStart + length
		if length < 0 || dataEnd+4 > len(data) {
			return false
		}
		switch chunkType {
		case "eXIf":
			return true
		case "tEXt", "iTXt", "zTXt":
			if strings.Contains(strings.ToLower(string(data[dataStart:dataEnd])), "jpeg") {
				return true
			}
		case "IEND":
			return false
		}
		pos = dataEnd + 4
	}
	return false
}
