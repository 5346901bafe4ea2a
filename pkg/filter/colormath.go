package filter

// Luma weights for the saturation matrix and for luminance-preserving
// desaturation (Rec. 709 primaries).
const (
	lumR = 0.213
	lumG = 0.715
	lumB = 0.072
)

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// saturateRGB applies the linear saturation matrix with factor s
// (1 = unchanged, 0 = luminance only). Result is not clamped.
func saturateRGB(r, g, b float32, s float64) (float32, float32, float32) {
	sf := float32(s)
	r1 := (lumR+(1-lumR)*sf)*r + (lumG-lumG*sf)*g + (lumB-lumB*sf)*b
	g1 := (lumR-lumR*sf)*r + (lumG+(1-lumG)*sf)*g + (lumB-lumB*sf)*b
	b1 := (lumR-lumR*sf)*r + (lumG-lumG*sf)*g + (lumB+(1-lumB)*sf)*b
	return r1, g1, b1
}

// grayscaleRGB interpolates toward full luminance desaturation by amount a
// in [0,1]. Equivalent to saturateRGB with factor 1-a.
func grayscaleRGB(r, g, b float32, a float64) (float32, float32, float32) {
	return saturateRGB(r, g, b, 1-a)
}

// sepiaRGB interpolates between identity and the sepia tone matrix by amount
// a in [0,1]. Result is not clamped; rows can sum above one.
func sepiaRGB(r, g, b float32, a float64) (float32, float32, float32) {
	t := float32(1 - a)
	r1 := (0.393+0.607*t)*r + (0.769-0.769*t)*g + (0.189-0.189*t)*b
	g1 := (0.349-0.349*t)*r + (0.686+0.314*t)*g + (0.168-0.168*t)*b
	b1 := (0.272-0.272*t)*r + (0.534-0.534*t)*g + (0.131+0.869*t)*b
	return r1, g1, b1
}
