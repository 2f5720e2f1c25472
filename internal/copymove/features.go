package copymove

import (
	"image"
	"math/bits"
	"math/rand"
	"sort"
)

const (
	fastRadius       = 3
	fastArcLength    = 9
	fastThreshold    = 20
	briefPatchRadius = 15
	briefBits        = 256
	briefPairSpread  = 13
	briefSeed        = 42
)

// keypoint is a detected corner with its FAST score.
type keypoint struct {
	X, Y  int
	Score int
}

// descriptor is a 256-bit binary patch signature.
type descriptor [4]uint64

func hamming(a, b descriptor) int {
	return bits.OnesCount64(a[0]^b[0]) +
		bits.OnesCount64(a[1]^b[1]) +
		bits.OnesCount64(a[2]^b[2]) +
		bits.OnesCount64(a[3]^b[3])
}

// grayPlane converts the image to a row-major 8-bit luminance plane.
func grayPlane(img image.Image) ([]uint8, int, int) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	plane := make([]uint8, w*h)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			lum := (299*(r>>8) + 587*(g>>8) + 114*(b>>8)) / 1000
			plane[i] = uint8(lum)
			i++
		}
	}
	return plane, w, h
}

// fastCircle is the Bresenham circle of radius 3 used by the FAST-9
// segment test, in clockwise order from twelve o'clock.
var fastCircle = [16][2]int{
	{0, -3}, {1, -3}, {2, -2}, {3, -1},
	{3, 0}, {3, 1}, {2, 2}, {1, 3},
	{0, 3}, {-1, 3}, {-2, 2}, {-3, 1},
	{-3, 0}, {-3, -1}, {-2, -2}, {-1, -3},
}

// detectCorners runs a FAST-9 segment test with non-maximum suppression
// and returns at most limit corners ranked by score. The scan order and
// the tie-break on position keep the output deterministic.
func detectCorners(plane []uint8, w, h, limit int) []keypoint {
	if w <= 2*fastRadius || h <= 2*fastRadius {
		return nil
	}

	scores := make([]int, w*h)
	var corners []keypoint
	for y := fastRadius; y < h-fastRadius; y++ {
		for x := fastRadius; x < w-fastRadius; x++ {
			score := cornerScore(plane, w, x, y)
			if score > 0 {
				scores[y*w+x] = score
				corners = append(corners, keypoint{X: x, Y: y, Score: score})
			}
		}
	}

	// 3x3 non-maximum suppression over the score map.
	kept := corners[:0]
	for _, kp := range corners {
		max := true
		for dy := -1; dy <= 1 && max; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := kp.X+dx, kp.Y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				n := scores[ny*w+nx]
				if n > kp.Score || (n == kp.Score && (ny < kp.Y || (ny == kp.Y && nx < kp.X))) {
					max = false
					break
				}
			}
		}
		if max {
			kept = append(kept, kp)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		if kept[i].Y != kept[j].Y {
			return kept[i].Y < kept[j].Y
		}
		return kept[i].X < kept[j].X
	})
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// cornerScore returns the FAST-9 strength of the pixel, or zero when the
// segment test fails. Strength is the summed absolute contrast along the
// qualifying arc.
func cornerScore(plane []uint8, w, x, y int) int {
	center := int(plane[y*w+x])
	bright := center + fastThreshold
	dark := center - fastThreshold

	var states [32]int8
	anyBright, anyDark := false, false
	for i, off := range fastCircle {
		v := int(plane[(y+off[1])*w+x+off[0]])
		switch {
		case v > bright:
			states[i] = 1
			anyBright = true
		case v < dark:
			states[i] = -1
			anyDark = true
		}
		states[i+16] = states[i]
	}
	if !anyBright && !anyDark {
		return 0
	}

	best := 0
	run := 0
	var runState int8
	var runSum int
	for i := 0; i < 32; i++ {
		s := states[i]
		if s != 0 && s == runState {
			run++
		} else {
			run = 1
			runState = s
		}
		if s == 0 {
			run = 0
			runSum = 0
			continue
		}
		v := int(plane[(y+fastCircle[i%16][1])*w+x+fastCircle[i%16][0]])
		d := v - int(plane[y*w+x])
		if d < 0 {
			d = -d
		}
		if run == 1 {
			runSum = d
		} else {
			runSum += d
		}
		if run >= fastArcLength && runSum > best {
			best = runSum
		}
	}
	return best
}

// briefPattern holds the fixed point-pair sampling layout shared by all
// descriptors. A constant seed keeps descriptors comparable across runs.
var briefPattern = makeBriefPattern()

func makeBriefPattern() [briefBits][4]int {
	rng := rand.New(rand.NewSource(briefSeed))
	var pattern [briefBits][4]int
	for i := range pattern {
		pattern[i] = [4]int{
			rng.Intn(2*briefPairSpread+1) - briefPairSpread,
			rng.Intn(2*briefPairSpread+1) - briefPairSpread,
			rng.Intn(2*briefPairSpread+1) - briefPairSpread,
			rng.Intn(2*briefPairSpread+1) - briefPairSpread,
		}
	}
	return pattern
}

// describe computes BRIEF descriptors over a smoothed plane for every
// corner far enough from the border to fit the sampling patch. Corners
// too close to the edge are dropped along with their slot.
func describe(plane []uint8, w, h int, corners []keypoint) ([]keypoint, []descriptor) {
	smoothed := boxSmooth(plane, w, h)

	var kept []keypoint
	var descs []descriptor
	for _, kp := range corners {
		if kp.X < briefPatchRadius || kp.Y < briefPatchRadius ||
			kp.X >= w-briefPatchRadius || kp.Y >= h-briefPatchRadius {
			continue
		}
		var d descriptor
		for i, p := range briefPattern {
			a := smoothed[(kp.Y+p[1])*w+kp.X+p[0]]
			b := smoothed[(kp.Y+p[3])*w+kp.X+p[2]]
			if a < b {
				d[i/64] |= 1 << uint(i%64)
			}
		}
		kept = append(kept, kp)
		descs = append(descs, d)
	}
	return kept, descs
}

// boxSmooth applies a 5x5 mean filter, enough to stabilize the pairwise
// intensity tests against pixel noise.
func boxSmooth(plane []uint8, w, h int) []uint8 {
	const r = 2
	out := make([]uint8, len(plane))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum, n int
			for dy := -r; dy <= r; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -r; dx <= r; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					sum += int(plane[yy*w+xx])
					n++
				}
			}
			out[y*w+x] = uint8(sum / n)
		}
	}
	return out
}
