package metadata

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"verisure/internal/signal"
)

// Fields holds the normalized EXIF values the origin rules consume.
type Fields struct {
	CameraMake       string
	CameraModel      string
	LensMake         string
	LensModel        string
	Software         string
	DateTime         string
	DateTimeOriginal string
	ExifVersion      string
	HasGPS           bool
}

// HasExif reports whether any field was recovered at all.
func (f Fields) HasExif() bool {
	return f != Fields{}
}

// CameraInfo returns the first available camera identification tag, or "".
func (f Fields) CameraInfo() string {
	switch {
	case f.CameraMake != "":
		return "Make: " + f.CameraMake
	case f.CameraModel != "":
		return "Model: " + f.CameraModel
	case f.LensModel != "":
		return "LensModel: " + f.LensModel
	case f.LensMake != "":
		return "LensMake: " + f.LensMake
	}
	return ""
}

// Timestamp returns the preferred capture timestamp, or "".
func (f Fields) Timestamp() string {
	if f.DateTimeOriginal != "" {
		return f.DateTimeOriginal
	}
	return f.DateTime
}

// missingExpected lists the camera EXIF fields a genuine capture is
// expected to carry but this one lacks.
func (f Fields) missingExpected() []string {
	var missing []string
	if f.CameraMake == "" {
		missing = append(missing, "Make")
	}
	if f.CameraModel == "" {
		missing = append(missing, "Model")
	}
	if f.DateTimeOriginal == "" {
		missing = append(missing, "DateTimeOriginal")
	}
	if f.ExifVersion == "" {
		missing = append(missing, "ExifVersion")
	}
	return missing
}

// Extract parses EXIF metadata from raw image bytes. An image without an
// EXIF segment returns zero Fields and a nil error; only a hard parse
// failure surfaces as an error, and callers treat that the same way.
func Extract(data []byte) (Fields, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return Fields{}, fmt.Errorf("decode exif: %w", err)
	}

	var f Fields
	f.CameraMake = stringField(x, exif.Make)
	f.CameraModel = stringField(x, exif.Model)
	f.LensMake = stringField(x, exif.LensMake)
	f.LensModel = stringField(x, exif.LensModel)
	f.Software = stringField(x, exif.Software)
	f.DateTime = stringField(x, exif.DateTime)
	f.DateTimeOriginal = stringField(x, exif.DateTimeOriginal)
	f.ExifVersion = stringField(x, exif.ExifVersion)
	if _, _, err := x.LatLong(); err == nil {
		f.HasGPS = true
	}
	return f, nil
}

func stringField(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	value, err := tag.StringVal()
	if err != nil {
		// Undefined-type tags (ExifVersion) still carry usable bytes.
		value = strings.Trim(tag.String(), `"`)
	}
	return strings.TrimSpace(value)
}

// Analyze extracts EXIF metadata and converts it into origin signals.
// keywords is the case-insensitive AI generator substring set.
func Analyze(data []byte, keywords []string) (Fields, signal.Bucket) {
	fields, err := Extract(data)
	if err != nil {
		// Missing or unreadable EXIF collapses to the no-metadata case,
		// which is evidence in its own right.
		fields = Fields{}
	}
	return fields, deriveBucket(fields, keywords)
}

func deriveBucket(f Fields, keywords []string) signal.Bucket {
	var bucket signal.Bucket

	if !f.HasExif() {
		bucket.AddAI("No EXIF metadata (common in AI-generated images)")
		return bucket
	}

	suspiciousSoftware := false
	if f.Software != "" {
		lowered := strings.ToLower(f.Software)
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				bucket.AddAI(fmt.Sprintf("Software field contains %q", kw))
				suspiciousSoftware = true
			}
		}
	}

	if info := f.CameraInfo(); info != "" {
		bucket.AddHuman("Camera metadata present: " + info)
	}
	if f.HasGPS {
		bucket.AddHuman("GPS coordinates present (typical of real photos)")
	}
	if f.Timestamp() != "" && !suspiciousSoftware {
		bucket.AddHuman("Original capture timestamp present")
	}

	missing := f.missingExpected()
	if len(missing) == 0 {
		bucket.AddHuman("Complete camera EXIF metadata present")
	} else if len(missing) >= 3 {
		bucket.AddAI(fmt.Sprintf("Missing %d expected camera fields", len(missing)))
	}

	return bucket
}
