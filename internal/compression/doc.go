// Package compression inspects container-level compression characteristics
// of an image to surface re-save and re-encode evidence.
//
// The JPEG quality estimate is recovered from the quantization tables using
// the IJG scaling relationship, so no decoder metadata is required. A ratio
// of stored bytes to raw pixel bytes far below normal, a low estimated
// quality, or quantization tables that match no standard scaling all point
// at additional save generations.
package compression
