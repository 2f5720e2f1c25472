package testsupport

import (
	"errors"
	"math"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// SineWAV synthesizes a mono 16-bit PCM WAV holding a constant-frequency
// sine tone. Constant pitch and uniform energy make it land firmly on the
// synthetic-audio side of the feature thresholds.
func SineWAV(t testing.TB, sampleRate int, seconds, freq float64) []byte {
	t.Helper()
	n := int(float64(sampleRate) * seconds)
	samples := make([]int, n)
	for i := range samples {
		v := math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
		samples[i] = int(v * 0.6 * 32767)
	}
	return encodeWAV(t, sampleRate, samples)
}

// SpeechLikeWAV synthesizes alternating voiced bursts and silent pauses
// with drifting pitch, approximating natural speech cadence.
func SpeechLikeWAV(t testing.TB, sampleRate int, bursts int) []byte {
	t.Helper()
	var samples []int
	burstLen := sampleRate / 2
	pauseLen := sampleRate / 5
	for b := 0; b < bursts; b++ {
		freq := 120 + 60*float64(b%3)
		for i := 0; i < burstLen; i++ {
			// Amplitude envelope plus vibrato keeps energy non-uniform.
			env := math.Sin(math.Pi * float64(i) / float64(burstLen))
			v := math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)) * env
			samples = append(samples, int(v*0.5*32767))
		}
		for i := 0; i < pauseLen; i++ {
			samples = append(samples, 0)
		}
	}
	return encodeWAV(t, sampleRate, samples)
}

func encodeWAV(t testing.TB, sampleRate int, samples []int) []byte {
	t.Helper()
	ws := &memWriteSeeker{}
	enc := wav.NewEncoder(ws, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
	return ws.data
}

// memWriteSeeker satisfies io.WriteSeeker over a byte slice; the wav
// encoder seeks backwards to patch chunk sizes on Close.
type memWriteSeeker struct {
	data []byte
	pos  int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	if need := m.pos + len(p); need > len(m.data) {
		grown := make([]byte, need)
		copy(grown, m.data)
		m.data = grown
	}
	copy(m.data[m.pos:], p)
	m.pos += len(p)
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int
	switch whence {
	case 0:
		next = int(offset)
	case 1:
		next = m.pos + int(offset)
	case 2:
		next = len(m.data) + int(offset)
	default:
		return 0, errors.New("unsupported whence")
	}
	if next < 0 {
		return 0, errors.New("negative position")
	}
	m.pos = next
	return int64(next), nil
}
