package filter

// BatchModifiers is the filter representation for the raster pipeline:
// a saturation/brightness modulation (multiplier basis 100) and an optional
// linear contrast remap. ContrastLow/ContrastHigh are nil when contrast is at
// its baseline. The pair maps [ContrastLow, ContrastHigh] onto [0,255]:
// output = slope*input + ContrastLow with slope = (ContrastHigh-ContrastLow)/255.
type BatchModifiers struct {
	Saturation   float64  `json:"saturation"`
	Brightness   float64  `json:"brightness"`
	ContrastLow  *float64 `json:"contrastLow"`
	ContrastHigh *float64 `json:"contrastHigh"`
}

// IdentityModifiers returns modifiers with no visible effect.
func IdentityModifiers() BatchModifiers {
	return BatchModifiers{Saturation: BaselineNeutral, Brightness: BaselineNeutral}
}

// IsIdentity reports whether applying m would leave an image unchanged.
func (m BatchModifiers) IsIdentity() bool {
	return m.Saturation == BaselineNeutral &&
		m.Brightness == BaselineNeutral &&
		m.ContrastLow == nil && m.ContrastHigh == nil
}

// ProjectBatch projects parameters at the given intensity into batch
// modifiers. Grayscale forces saturation to zero outright. Sepia, when
// grayscale is absent, desaturates proportionally: the raster pipeline has no
// native sepia operation, so a sepia tone is approximated with the
// saturation primitive alone.
func ProjectBatch(p Parameters, intensity float64) BatchModifiers {
	if intensity <= 0 {
		return IdentityModifiers()
	}

	s := p.scale(intensity)
	m := BatchModifiers{
		Saturation: s.Saturation,
		Brightness: s.Brightness,
	}

	switch {
	case s.Grayscale > 0:
		m.Saturation = 0
	case s.Sepia > 0:
		m.Saturation *= 1 - s.Sepia/200
	}

	if s.Contrast != BaselineNeutral {
		slope := s.Contrast / 100
		var low, high float64
		if slope > 1 {
			low = -255 * (slope - 1)
			high = 255 + 255*(slope-1)
		} else {
			low = 255 * (1 - slope)
			high = 255 - 255*(1-slope)
		}
		m.ContrastLow = &low
		m.ContrastHigh = &high
	}

	return m
}
