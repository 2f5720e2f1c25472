// Package videoprobe inspects video containers with ffprobe and derives
// authenticity signals from the stream layout, codec choice, frame rate,
// resolution, and container metadata.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Report: the derived forensic view of a single video
//
// Primary entry points:
//   - Inspect: executes ffprobe against a path and returns a parsed Result
//   - InspectBytes: same, for an in-memory buffer
//   - DeriveBucket: turns a Result into signals without touching ffprobe
//
// DeriveBucket is pure so the signal rules stay testable on machines
// without ffmpeg installed.
package videoprobe
