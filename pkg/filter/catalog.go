package filter

// neutral is the identity parameter set shared by field defaults below.
func neutral() Parameters {
	return Parameters{
		Grayscale:  0,
		Sepia:      0,
		Saturation: 100,
		Brightness: 100,
		Contrast:   100,
	}
}

// catalog is the static preset list, built once at init and never mutated.
var catalog = []Preset{
	{
		ID:       PresetOriginal,
		Name:     "Original",
		Category: CategoryClassic,
		Params:   neutral(),
	},
	{
		ID:       PresetNoir,
		Name:     "Noir",
		Category: CategoryMono,
		Params:   Parameters{Grayscale: 100, Saturation: 100, Brightness: 105, Contrast: 118},
	},
	{
		ID:       PresetSilver,
		Name:     "Silver",
		Category: CategoryMono,
		Params:   Parameters{Grayscale: 100, Saturation: 100, Brightness: 100, Contrast: 100},
	},
	{
		ID:       PresetVivid,
		Name:     "Vivid",
		Category: CategoryColor,
		Params:   Parameters{Saturation: 140, Brightness: 105, Contrast: 110},
	},
	{
		ID:       PresetGolden,
		Name:     "Golden Hour",
		Category: CategoryColor,
		Params:   Parameters{Sepia: 6, Saturation: 110, Brightness: 106, Contrast: 100},
	},
	{
		ID:       PresetArctic,
		Name:     "Arctic",
		Category: CategoryColor,
		Params:   Parameters{Saturation: 90, Brightness: 102, Contrast: 100},
	},
	{
		ID:       PresetMatte,
		Name:     "Matte",
		Category: CategoryFilm,
		Params:   Parameters{Saturation: 85, Brightness: 110, Contrast: 100},
	},
	{
		ID:       PresetSoft,
		Name:     "Soft Glow",
		Category: CategoryFilm,
		Params:   Parameters{Saturation: 95, Brightness: 112, Contrast: 100},
	},
}

// Presets returns the static preset catalog. The returned slice is shared;
// callers must not modify it.
func Presets() []Preset {
	return catalog
}

// Lookup resolves a preset id. Unknown ids resolve to the Original preset;
// an unknown id is an expected input, not an error.
func Lookup(id PresetID) Preset {
	for _, p := range catalog {
		if p.ID == id {
			return p
		}
	}
	return catalog[0]
}
