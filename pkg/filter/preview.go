package filter

import (
	"fmt"
	"strings"
)

// Preview operation names, in their fixed emission order.
const (
	OpGrayscale  = "grayscale"
	OpSepia      = "sepia"
	OpSaturate   = "saturate"
	OpBrightness = "brightness"
	OpContrast   = "contrast"
)

// PreviewOp is one named operation of a preview descriptor, carrying a scaled
// percentage value.
type PreviewOp struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// PreviewDescriptor is the filter representation for a live-rendering
// surface: an ordered operation list. An empty list is the no-op sentinel.
type PreviewDescriptor struct {
	Ops []PreviewOp `json:"ops"`
}

// IsNoop reports whether the descriptor has no visible effect.
func (d PreviewDescriptor) IsNoop() bool {
	return len(d.Ops) == 0
}

// CSS renders the descriptor as a CSS filter value, or "none" for the no-op
// sentinel.
func (d PreviewDescriptor) CSS() string {
	if d.IsNoop() {
		return "none"
	}
	parts := make([]string, 0, len(d.Ops))
	for _, op := range d.Ops {
		parts = append(parts, fmt.Sprintf("%s(%g%%)", op.Name, op.Value))
	}
	return strings.Join(parts, " ")
}

// ProjectPreview projects parameters at the given intensity into a preview
// descriptor. Operations at their neutral baseline are omitted: omission
// means "no visible effect", not precision loss. The emission order is fixed:
// grayscale, sepia, saturate, brightness, contrast.
func ProjectPreview(p Parameters, intensity float64) PreviewDescriptor {
	if intensity <= 0 {
		return PreviewDescriptor{}
	}

	s := p.scale(intensity)
	var ops []PreviewOp

	if s.Grayscale > 0 {
		ops = append(ops, PreviewOp{OpGrayscale, s.Grayscale})
	}
	if s.Sepia > 0 {
		ops = append(ops, PreviewOp{OpSepia, s.Sepia})
	}
	if s.Saturation != BaselineNeutral && s.Saturation > 0 {
		ops = append(ops, PreviewOp{OpSaturate, s.Saturation})
	}
	if s.Brightness != BaselineNeutral {
		ops = append(ops, PreviewOp{OpBrightness, s.Brightness})
	}
	if s.Contrast != BaselineNeutral {
		ops = append(ops, PreviewOp{OpContrast, s.Contrast})
	}

	return PreviewDescriptor{Ops: ops}
}
