// Package logging constructs the slog loggers used across verisure.
//
// Two output formats are supported: a compact console format for
// interactive use and JSON for machine consumption. The "auto" format
// picks console when stderr is a terminal. Typed attribute helpers keep
// call sites consistent, and NewNop supplies a discard logger for tests.
package logging
