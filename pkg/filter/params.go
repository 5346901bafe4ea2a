package filter

// Parameters is an immutable bundle of color-filter values. Grayscale and
// sepia are percentages in [0,100] with 0 meaning "off". Saturation is a
// percentage in [0,200], brightness and contrast percentages in [50,150];
// for those three, 100 is the neutral baseline.
type Parameters struct {
	Grayscale  float64 `json:"grayscale"`
	Sepia      float64 `json:"sepia"`
	Saturation float64 `json:"saturation"`
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
}

// Neutral baselines for parameter scaling.
const (
	BaselineOff     = 0.0
	BaselineNeutral = 100.0
)

// ScaleParameter interpolates a parameter value linearly between its baseline
// and the raw value. At intensity 0 the result is the baseline; at 100 it is
// the raw value. Intensity must already be clamped to [0,100] by the caller.
func ScaleParameter(value, intensity, baseline float64) float64 {
	return baseline + (value-baseline)*(intensity/100)
}

// scale returns a copy of p with every field interpolated toward its baseline
// by the given intensity.
func (p Parameters) scale(intensity float64) Parameters {
	return Parameters{
		Grayscale:  ScaleParameter(p.Grayscale, intensity, BaselineOff),
		Sepia:      ScaleParameter(p.Sepia, intensity, BaselineOff),
		Saturation: ScaleParameter(p.Saturation, intensity, BaselineNeutral),
		Brightness: ScaleParameter(p.Brightness, intensity, BaselineNeutral),
		Contrast:   ScaleParameter(p.Contrast, intensity, BaselineNeutral),
	}
}

// PresetID identifies one of the known filter presets.
type PresetID string

// The closed set of preset ids.
const (
	PresetOriginal PresetID = "original"
	PresetNoir     PresetID = "noir"
	PresetSilver   PresetID = "silver"
	PresetVivid    PresetID = "vivid"
	PresetGolden   PresetID = "golden"
	PresetArctic   PresetID = "arctic"
	PresetMatte    PresetID = "matte"
	PresetSoft     PresetID = "soft"
)

// Category groups presets in pickers.
type Category string

// Preset categories.
const (
	CategoryClassic Category = "classic"
	CategoryMono    Category = "mono"
	CategoryColor   Category = "color"
	CategoryFilm    Category = "film"
)

// Preset is a named stylistic look: an id, a display name, a grouping
// category and one set of parameters.
type Preset struct {
	ID       PresetID   `json:"id"`
	Name     string     `json:"name"`
	Category Category   `json:"category"`
	Params   Parameters `json:"params"`
}
