package audioprobe

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

const (
	analysisFrame = 2048
	analysisHop   = 512

	// silenceTopDB mirrors the usual voice-activity split: frames more
	// than 30 dB below the loudest frame count as silence.
	silenceTopDB = 30

	pitchMinHz = 50
	pitchMaxHz = 1000

	// voicedThreshold is the minimum normalized autocorrelation peak for
	// a frame to contribute a pitch estimate.
	voicedThreshold = 0.5
)

// frameRMS computes root-mean-square energy over consecutive hops.
func frameRMS(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}
	var out []float64
	for start := 0; start < len(samples); start += analysisHop {
		end := start + analysisHop
		if end > len(samples) {
			end = len(samples)
		}
		var sum float64
		for _, s := range samples[start:end] {
			sum += s * s
		}
		out = append(out, math.Sqrt(sum/float64(end-start)))
	}
	return out
}

// silenceProfile splits the signal into voiced segments using an energy
// gate relative to the loudest frame. It returns the fraction of silent
// frames and the number of contiguous voiced segments.
func silenceProfile(rms []float64) (silenceRatio float64, segments int) {
	if len(rms) == 0 {
		return 1, 0
	}
	maxRMS := 0.0
	for _, r := range rms {
		if r > maxRMS {
			maxRMS = r
		}
	}
	if maxRMS == 0 {
		return 1, 0
	}

	gate := maxRMS * math.Pow(10, -silenceTopDB/20.0)
	silent := 0
	inSegment := false
	for _, r := range rms {
		if r > gate {
			if !inSegment {
				segments++
				inSegment = true
			}
		} else {
			silent++
			inSegment = false
		}
	}
	return float64(silent) / float64(len(rms)), segments
}

// pitchTrack estimates a fundamental frequency per voiced frame via
// normalized autocorrelation and returns the per-frame estimates.
func pitchTrack(samples []float64, sampleRate int) []float64 {
	if sampleRate <= 0 || len(samples) < analysisFrame {
		return nil
	}
	minLag := sampleRate / pitchMaxHz
	maxLag := sampleRate / pitchMinHz
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= analysisFrame {
		maxLag = analysisFrame - 1
	}

	var pitches []float64
	for start := 0; start+analysisFrame <= len(samples); start += analysisHop {
		frame := samples[start : start+analysisFrame]

		var energy float64
		for _, s := range frame {
			energy += s * s
		}
		if energy == 0 {
			continue
		}

		bestLag, bestCorr := 0, 0.0
		for lag := minLag; lag <= maxLag; lag++ {
			var corr float64
			for i := 0; i+lag < len(frame); i++ {
				corr += frame[i] * frame[i+lag]
			}
			if corr > bestCorr {
				bestCorr = corr
				bestLag = lag
			}
		}
		if bestLag == 0 || bestCorr/energy < voicedThreshold {
			continue
		}
		pitches = append(pitches, float64(sampleRate)/float64(bestLag))
	}
	return pitches
}

// spectralCentroids computes the magnitude-weighted mean frequency of
// each full analysis frame.
func spectralCentroids(samples []float64, sampleRate int) []float64 {
	if sampleRate <= 0 || len(samples) < analysisFrame {
		return nil
	}
	fft := fourier.NewFFT(analysisFrame)
	freqStep := float64(sampleRate) / analysisFrame

	var centroids []float64
	coeffs := make([]complex128, analysisFrame/2+1)
	for start := 0; start+analysisFrame <= len(samples); start += analysisHop {
		fft.Coefficients(coeffs, samples[start:start+analysisFrame])

		var weighted, total float64
		for k, c := range coeffs {
			mag := math.Hypot(real(c), imag(c))
			weighted += float64(k) * freqStep * mag
			total += mag
		}
		if total == 0 {
			continue
		}
		centroids = append(centroids, weighted/total)
	}
	return centroids
}

// meanStd is stat.MeanStdDev with the NaN of a single-element slice
// flattened to zero.
func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}
