package analyzer

import "errors"

// ErrDecode marks input bytes that cannot be read at all. Partially
// corrupt media never surfaces this; it degrades to inconclusive
// signals instead.
var ErrDecode = errors.New("unreadable media input")

// ErrUnsupportedMedia marks a media kind this analyzer cannot handle.
var ErrUnsupportedMedia = errors.New("unsupported media type")
