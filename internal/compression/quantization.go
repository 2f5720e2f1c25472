package compression

import "math"

// stdLuminanceQuant is the IJG reference luminance quantization table in
// zigzag order (ITU-T T.81 Annex K).
var stdLuminanceQuant = [64]int{
	16, 11, 12, 14, 12, 10, 16, 14,
	13, 14, 18, 17, 16, 19, 24, 40,
	26, 24, 22, 22, 24, 49, 35, 37,
	29, 40, 58, 51, 61, 60, 57, 51,
	56, 55, 64, 72, 92, 78, 64, 68,
	87, 69, 55, 56, 80, 109, 81, 87,
	95, 98, 103, 104, 103, 62, 77, 113,
	121, 112, 100, 120, 92, 101, 103, 99,
}

// estimateQuality recovers the approximate IJG quality setting from the
// luminance quantization table embedded in the JPEG stream, and reports
// whether the table deviates from a standard scaling of the reference
// table. Returns quality 0 when no table is found.
func estimateQuality(data []byte) (quality int, nonStandard bool) {
	table, ok := findLuminanceTable(data)
	if !ok {
		return 0, false
	}

	// Invert the IJG scale: q >= 50 uses scale = 200 - 2q, q < 50 uses
	// scale = 5000 / q. Average the per-coefficient scale estimates.
	var scaleSum float64
	for i := 0; i < 64; i++ {
		scaleSum += float64(table[i]*100) / float64(stdLuminanceQuant[i])
	}
	scale := scaleSum / 64
	if scale <= 100 {
		quality = int(math.Round((200 - scale) / 2))
	} else {
		quality = int(math.Round(5000 / scale))
	}
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}

	// Rebuild the standard table at the estimated quality and measure how
	// far the embedded one strays from it.
	expectedScale := float64(200 - 2*quality)
	if quality < 50 {
		expectedScale = 5000 / float64(quality)
	}
	var deviation float64
	for i := 0; i < 64; i++ {
		expected := math.Floor((float64(stdLuminanceQuant[i])*expectedScale + 50) / 100)
		if expected < 1 {
			expected = 1
		}
		deviation += math.Abs(float64(table[i])-expected) / expected
	}
	nonStandard = deviation/64 > 0.15

	return quality, nonStandard
}

// findLuminanceTable walks the JPEG segment stream for the first DQT
// segment carrying table id 0.
func findLuminanceTable(data []byte) ([64]int, bool) {
	var table [64]int
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return table, false
	}
	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			pos++
			continue
		}
		marker := data[pos+1]
		if marker == 0xD8 || (marker >= 0xD0 && marker <= 0xD7) {
			pos += 2
			continue
		}
		if marker == 0xD9 || marker == 0xDA {
			// End of image or start of entropy-coded data.
			return table, false
		}
		length := int(data[pos+2])<<8 | int(data[pos+3])
		if length < 2 || pos+2+length > len(data) {
			return table, false
		}
		if marker == 0xDB {
			if tbl, ok := parseDQT(data[pos+4 : pos+2+length]); ok {
				return tbl, true
			}
		}
		pos += 2 + length
	}
	return table, false
}

func parseDQT(segment []byte) ([64]int, bool) {
	var table [64]int
	pos := 0
	for pos < len(segment) {
		pqtq := segment[pos]
		precision := pqtq >> 4
		id := pqtq & 0x0F
		pos++
		size := 64
		if precision == 1 {
			size = 128
		}
		if pos+size > len(segment) {
			return table, false
		}
		if id == 0 {
			for i := 0; i < 64; i++ {
				if precision == 1 {
					table[i] = int(segment[pos+2*i])<<8 | int(segment[pos+2*i+1])
				} else {
					table[i] = int(segment[pos+i])
				}
				if table[i] == 0 {
					table[i] = 1
				}
			}
			return table, true
		}
		pos += size
	}
	return table, false
}
