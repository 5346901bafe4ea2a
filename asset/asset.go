package asset

import (
	"fmt"
	"sync"

	"github.com/ourbooth/booth/util/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// typefaces maps the font family names used by templates to embedded TTF data.
var typefaces = map[string][]byte{
	"sans":      goregular.TTF,
	"sans-bold": gobold.TTF,
	"mono":      gomono.TTF,
	"italic":    goitalic.TTF,
}

// DefaultFamily is used when a template names an unknown font family.
const DefaultFamily = "sans"

// Manager manages the loading of render assets.
type Manager struct {
	mu     sync.Mutex
	parsed map[string]*opentype.Font
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{parsed: make(map[string]*opentype.Font)}
}

// GetFace returns a font face for the given family at the given pixel size.
// Unknown families fall back to DefaultFamily.
func (am *Manager) GetFace(family string, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %v", size)
	}

	fnt, err := am.getFont(family)
	if err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face for %q: %w", family, err)
	}
	return face, nil
}

// getFont parses and caches the underlying typeface.
func (am *Manager) getFont(family string) (*opentype.Font, error) {
	am.mu.Lock()
	defer am.mu.Unlock()

	if fnt, ok := am.parsed[family]; ok {
		return fnt, nil
	}

	ttf, ok := typefaces[family]
	if !ok {
		log.Printf("Unknown font family %q, using %q", family, DefaultFamily)
		family = DefaultFamily
		if fnt, ok := am.parsed[family]; ok {
			return fnt, nil
		}
		ttf = typefaces[family]
	}

	fnt, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parsing typeface %q: %w", family, err)
	}
	am.parsed[family] = fnt
	return fnt, nil
}
