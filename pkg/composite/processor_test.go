package composite

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(c color.NRGBA, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func pngPayload(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodePayloadDataURL(t *testing.T) {
	p := NewProcessor(false, nil, 90)
	src := solidImage(color.NRGBA{R: 10, G: 200, B: 30, A: 255}, 20, 30)

	img, err := p.DecodePayload(context.Background(), pngPayload(t, src))

	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestDecodePayloadBareBase64(t *testing.T) {
	p := NewProcessor(false, nil, 90)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(color.NRGBA{A: 255}, 4, 4)))

	img, err := p.DecodePayload(context.Background(), base64.StdEncoding.EncodeToString(buf.Bytes()))

	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestDecodePayloadMismatchedMIMELabel(t *testing.T) {
	p := NewProcessor(false, nil, 90)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(color.NRGBA{A: 255}, 4, 4)))

	// The label claims JPEG but the bytes are PNG; decode goes by content.
	payload := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	img, err := p.DecodePayload(context.Background(), payload)

	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestDecodePayloadErrors(t *testing.T) {
	p := NewProcessor(false, nil, 90)

	tests := []struct {
		name    string
		payload string
	}{
		{"malformed data URL", "data:image/png;base64"},
		{"invalid base64", "data:image/png;base64,!!!!"},
		{"not an image", base64.StdEncoding.EncodeToString([]byte("plain text"))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.DecodePayload(context.Background(), tc.payload)
			assert.Error(t, err)
		})
	}
}

func TestDecodePayloadCanceledContext(t *testing.T) {
	p := NewProcessor(false, nil, 90)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.DecodePayload(ctx, pngPayload(t, solidImage(color.NRGBA{A: 255}, 4, 4)))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodeImage(t *testing.T) {
	p := NewProcessor(false, nil, 90)
	src := solidImage(color.NRGBA{R: 128, G: 64, B: 32, A: 255}, 8, 8)

	t.Run("png roundtrip", func(t *testing.T) {
		data, err := p.EncodeImage(context.Background(), src, "image/png")
		require.NoError(t, err)

		decoded, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, src.Bounds(), decoded.Bounds())
	})

	t.Run("jpeg", func(t *testing.T) {
		data, err := p.EncodeImage(context.Background(), src, "image/jpeg")
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := p.EncodeImage(context.Background(), src, "image/tiff")
		assert.Error(t, err)
	})
}

func TestCoverFitExactTarget(t *testing.T) {
	p := NewProcessor(false, nil, 90)
	src := solidImage(color.NRGBA{R: 40, G: 80, B: 120, A: 255}, 200, 100)

	fitted, err := p.CoverFit(context.Background(), src, 50, 50)

	require.NoError(t, err)
	assert.Equal(t, 50, fitted.Bounds().Dx())
	assert.Equal(t, 50, fitted.Bounds().Dy())

	got := imaging.Clone(fitted).NRGBAAt(25, 25)
	assert.InDelta(t, 40, int(got.R), 2)
	assert.InDelta(t, 80, int(got.G), 2)
	assert.InDelta(t, 120, int(got.B), 2)
}

func TestCoverFitInvalidTarget(t *testing.T) {
	p := NewProcessor(false, nil, 90)
	src := solidImage(color.NRGBA{A: 255}, 10, 10)

	_, err := p.CoverFit(context.Background(), src, 0, 50)

	assert.Error(t, err)
}

func TestContainFitPadsTransparently(t *testing.T) {
	p := NewProcessor(false, nil, 90)
	src := solidImage(color.NRGBA{R: 255, A: 255}, 100, 50)

	fitted, err := p.ContainFit(context.Background(), src, 60, 60)

	require.NoError(t, err)
	require.Equal(t, 60, fitted.Bounds().Dx())
	require.Equal(t, 60, fitted.Bounds().Dy())

	canvas := imaging.Clone(fitted)
	assert.Zero(t, canvas.NRGBAAt(30, 2).A, "top padding stays transparent")
	assert.Zero(t, canvas.NRGBAAt(30, 57).A, "bottom padding stays transparent")
	assert.Equal(t, uint8(255), canvas.NRGBAAt(30, 30).A, "content is opaque")
}

func TestApplyRoundedCorners(t *testing.T) {
	src := solidImage(color.NRGBA{R: 200, G: 100, B: 50, A: 255}, 100, 100)

	out := ApplyRoundedCorners(src, 20)

	assert.Zero(t, out.NRGBAAt(0, 0).A, "corner outside the radius is transparent")
	assert.Zero(t, out.NRGBAAt(99, 0).A)
	assert.Zero(t, out.NRGBAAt(0, 99).A)
	assert.Zero(t, out.NRGBAAt(99, 99).A)
	assert.Equal(t, uint8(255), out.NRGBAAt(50, 50).A, "center stays opaque")
	assert.Equal(t, uint8(255), out.NRGBAAt(50, 0).A, "edge midpoint stays opaque")
	assert.Equal(t, uint8(255), out.NRGBAAt(20, 20).A, "inside the corner circle stays opaque")
}

func TestApplyRoundedCornersZeroRadius(t *testing.T) {
	src := solidImage(color.NRGBA{R: 1, G: 2, B: 3, A: 255}, 10, 10)

	out := ApplyRoundedCorners(src, 0)

	assert.Equal(t, uint8(255), out.NRGBAAt(0, 0).A)
	assert.Equal(t, src.NRGBAAt(5, 5), out.NRGBAAt(5, 5))
}
