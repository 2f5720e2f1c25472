// Package metadata extracts embedded EXIF metadata from image bytes and
// derives human-vs-synthetic origin signals from it.
//
// Real camera captures carry make/model/lens tags, capture timestamps, and
// often GPS coordinates. Generated images usually carry no EXIF at all, or
// a software tag naming the generator. The extractor never fails: absent
// or unreadable metadata is itself evidence.
package metadata
