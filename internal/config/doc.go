// Package config loads, normalizes, and validates verisure configuration.
//
// It supplies repository defaults, expands tilde paths, reads TOML files,
// and honours environment fallbacks such as OPENAI_API_KEY. Every forensic
// threshold the analyzers consume lives here as a named, overridable value
// so behavior can be tuned without touching analyzer code.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
