// Package copymove finds duplicated regions inside a single image, the
// signature of clone-stamp style forgeries. Corners are detected with a
// FAST segment test, described with binary BRIEF signatures, and matched
// against each other; spatially coherent groups of long-range matches
// mark cloned regions.
package copymove

import (
	"fmt"
	"image"
	"math"

	"verisure/internal/config"
	"verisure/internal/signal"
)

// maxMatchDistance is the Hamming ceiling for two descriptors to count
// as the same content.
const maxMatchDistance = 32

// Report summarizes a copy-move detection pass.
type Report struct {
	KeypointsFound int
	FeatureMatches int
	SimilarRegions int

	Suspected      bool
	Confidence     signal.Confidence
	Interpretation string
}

type match struct {
	A, B keypoint
}

// Detect searches img for internally duplicated regions using the
// thresholds in th.
func Detect(img image.Image, th config.Analysis) Report {
	plane, w, h := grayPlane(img)
	corners := detectCorners(plane, w, h, th.MaxKeypoints)
	points, descs := describe(plane, w, h, corners)

	if len(descs) < th.MinDescriptors {
		return Report{
			KeypointsFound: len(points),
			Confidence:     signal.ConfidenceNone,
			Interpretation: "Insufficient features for analysis",
		}
	}

	matches := matchDescriptors(points, descs, th.MinMatchSeparation)
	clusters := clusterMatches(matches, th.ClusterRadius)
	significant := 0
	largest := 0
	for _, c := range clusters {
		if len(c) >= 3 {
			significant++
		}
		if len(c) > largest {
			largest = len(c)
		}
	}

	report := Report{
		KeypointsFound: len(points),
		FeatureMatches: len(matches),
		SimilarRegions: significant,
		Confidence:     signal.ConfidenceNone,
	}
	switch {
	case significant >= 2:
		report.Suspected = true
		report.Confidence = signal.ConfidenceHigh
		report.Interpretation = fmt.Sprintf("Multiple similar regions detected (%d clusters)", significant)
	case significant == 1 && largest >= 5:
		report.Suspected = true
		report.Confidence = signal.ConfidenceMedium
		report.Interpretation = "Large duplicated region detected"
	case len(matches) > 20:
		report.Suspected = true
		report.Confidence = signal.ConfidenceLow
		report.Interpretation = "Suspicious number of feature matches"
	default:
		report.Interpretation = "No clear copy-move patterns detected"
	}
	return report
}

// matchDescriptors pairs every keypoint with its nearest neighbor by
// Hamming distance, keeps only mutual (cross-checked) pairs within the
// distance ceiling, and drops pairs closer than minSeparation pixels,
// which are self-similar texture rather than cloning.
func matchDescriptors(points []keypoint, descs []descriptor, minSeparation float64) []match {
	n := len(descs)
	nearest := make([]int, n)
	for i := 0; i < n; i++ {
		best, bestDist := -1, maxMatchDistance+1
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			if d := hamming(descs[i], descs[j]); d < bestDist {
				best, bestDist = j, d
			}
		}
		nearest[i] = best
	}

	var matches []match
	for i := 0; i < n; i++ {
		j := nearest[i]
		if j <= i || j < 0 || nearest[j] != i {
			continue
		}
		if pointDistance(points[i], points[j]) <= minSeparation {
			continue
		}
		matches = append(matches, match{A: points[i], B: points[j]})
	}
	return matches
}

// clusterMatches greedily groups matches whose source keypoints sit
// within radius of a cluster's existing members.
func clusterMatches(matches []match, radius float64) [][]keypoint {
	var clusters [][]keypoint
	for _, m := range matches {
		placed := false
		for ci, cluster := range clusters {
			var total float64
			for _, kp := range cluster {
				total += pointDistance(m.A, kp)
			}
			if total/float64(len(cluster)) < radius {
				clusters[ci] = append(cluster, m.A)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []keypoint{m.A})
		}
	}
	return clusters
}

func pointDistance(a, b keypoint) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
