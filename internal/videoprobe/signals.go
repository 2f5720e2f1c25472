package videoprobe

import (
	"fmt"

	"verisure/internal/signal"
)

// Report is the forensic view of a probed video.
type Report struct {
	Format     string
	Duration   float64
	Size       int64
	BitRate    int64
	VideoCodec string
	Profile    string
	FrameRate  float64
	Width      int
	Height     int
	HasAudio   bool
	AudioCodec string
	Tags       map[string]string
}

// standardFrameRates are the frame rates real cameras record at.
var standardFrameRates = []float64{24, 25, 30, 60, 120}

// standardResolutions are common camera capture dimensions, portrait
// 1080x1920 included.
var standardResolutions = [][2]int{
	{1920, 1080}, {1280, 720}, {3840, 2160}, {2560, 1440},
	{720, 480}, {1080, 1920},
}

// deviceTagKeys mark recordings straight off a phone camera.
var deviceTagKeys = []string{"com.android.version", "com.apple.quicktime.make"}

// DeriveBucket reduces a probe result to a report and an evidence
// bucket. It never calls ffprobe, so the rules can run on synthetic
// results.
func DeriveBucket(r Result) (Report, signal.Bucket) {
	report := Report{
		Format:   r.Format.FormatName,
		Duration: r.DurationSeconds(),
		Size:     r.SizeBytes(),
		BitRate:  r.BitRate(),
		Tags:     r.Format.Tags,
	}
	if vs, ok := r.VideoStream(); ok {
		report.VideoCodec = vs.CodecName
		report.Profile = vs.Profile
		report.FrameRate = vs.FrameRate()
		report.Width = vs.Width
		report.Height = vs.Height
	}
	if as, ok := r.AudioStream(); ok {
		report.HasAudio = true
		report.AudioCodec = as.CodecName
	}

	var bucket signal.Bucket

	for _, key := range deviceTagKeys {
		if _, ok := report.Tags[key]; ok {
			bucket.AddHuman("Device metadata present (mobile device recording)")
			break
		}
	}
	if _, ok := report.Tags["creation_time"]; ok {
		bucket.AddHuman("Original creation timestamp present")
	}

	switch {
	case report.VideoCodec == "h264" && (report.Profile == "High" || report.Profile == "Main"):
		bucket.AddHuman(fmt.Sprintf("Standard camera codec (H.264 %s)", report.Profile))
	case report.VideoCodec == "hevc":
		bucket.AddHuman("Modern camera codec (HEVC/H.265)")
	}

	if fps := report.FrameRate; fps > 0 {
		if isStandardFrameRate(fps) {
			bucket.AddHuman(fmt.Sprintf("Standard camera frame rate (%g fps)", fps))
		} else if fps < 20 || fps > 120 {
			bucket.AddAI(fmt.Sprintf("Unusual frame rate (%g fps) - uncommon for real cameras", fps))
		}
	}

	if report.Width > 0 && report.Height > 0 {
		if report.Width%256 == 0 && report.Height%256 == 0 {
			bucket.AddAI(fmt.Sprintf("Dimensions (%dx%d) are multiples of 256 (typical of AI video generators)", report.Width, report.Height))
		}
		if isStandardResolution(report.Width, report.Height) {
			bucket.AddHuman(fmt.Sprintf("Standard camera resolution (%dx%d)", report.Width, report.Height))
		}
	}

	if !report.HasAudio {
		bucket.AddAI("No audio track (uncommon for real video recordings)")
	}

	if report.Duration > 0 && report.BitRate > 0 {
		expected := float64(report.BitRate) * report.Duration / 8
		ratio := float64(report.Size) / expected
		if ratio < 0.8 || ratio > 1.2 {
			bucket.AddManipulation("File size inconsistent with bit rate (possible re-encoding)")
		}
	}

	if len(bucket.Human) == 0 && len(bucket.AI) == 0 {
		bucket.AddInconclusive("Insufficient video forensic evidence")
	}
	return report, bucket
}

func isStandardFrameRate(fps float64) bool {
	for _, std := range standardFrameRates {
		if fps == std {
			return true
		}
	}
	return false
}

func isStandardResolution(w, h int) bool {
	for _, res := range standardResolutions {
		if w == res[0] && h == res[1] {
			return true
		}
	}
	return false
}
