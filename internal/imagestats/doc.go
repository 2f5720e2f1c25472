// Package imagestats implements the numerically heavy image analyses:
// error-level analysis, noise pattern analysis with a frequency-domain
// energy ratio, and per-channel pixel statistics.
//
// All three are pure functions over decoded pixel data and are
// deterministic for identical input: the channel sampler uses a uniform
// stride rather than random sampling, and the JPEG re-encode inside ELA is
// the stdlib codec at a fixed quality.
package imagestats
