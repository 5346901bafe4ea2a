package composite

import (
	"fmt"
	"strings"
)

// Sticker scale bounds. 1.0 renders at BaseStickerFraction of canvas width.
const (
	MinStickerScale = 0.3
	MaxStickerScale = 3.0

	// BaseStickerFraction is the sticker base size as a fraction of
	// canvas width at scale 1.0.
	BaseStickerFraction = 0.15
)

// StickerType distinguishes emoji overlays from image-asset overlays.
type StickerType string

const (
	StickerEmoji StickerType = "emoji"
	StickerImage StickerType = "image"
)

// Sticker is one decorative overlay. X and Y are percentages of the canvas
// in [0,100] marking the sticker's center.
type Sticker struct {
	ID    string      `json:"id"`
	Type  StickerType `json:"type"`
	Emoji string      `json:"emoji,omitempty"`
	Src   string      `json:"src,omitempty"`
	X     float64     `json:"x"`
	Y     float64     `json:"y"`
	Scale float64     `json:"scale"`
}

// ClampedScale returns the sticker scale bounded to the allowed range.
// A zero value is treated as 1.0 so a sparsely-populated sticker still
// renders at base size.
func (s Sticker) ClampedScale() float64 {
	scale := s.Scale
	if scale == 0 {
		scale = 1.0
	}
	if scale < MinStickerScale {
		return MinStickerScale
	}
	if scale > MaxStickerScale {
		return MaxStickerScale
	}
	return scale
}

// EmojiAssetPath converts an emoji string into the CDN asset path used by
// twemoji-style image sets: lowercase hex code points joined with hyphens.
// The variation selector U+FE0F is dropped unless the sequence contains a
// zero-width joiner, matching the CDN's file naming.
func EmojiAssetPath(emoji string) string {
	runes := []rune(emoji)
	hasZWJ := false
	for _, r := range runes {
		if r == 0x200d {
			hasZWJ = true
			break
		}
	}

	parts := make([]string, 0, len(runes))
	for _, r := range runes {
		if r == 0xfe0f && !hasZWJ {
			continue
		}
		parts = append(parts, fmt.Sprintf("%x", r))
	}
	return strings.Join(parts, "-")
}
