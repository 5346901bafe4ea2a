package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFace(t *testing.T) {
	am := NewManager()

	t.Run("Known Families", func(t *testing.T) {
		for family := range typefaces {
			face, err := am.GetFace(family, 16)
			require.NoError(t, err, family)
			require.NotNil(t, face, family)
			assert.Greater(t, face.Metrics().Ascent.Ceil(), 0)
		}
	})

	t.Run("Unknown Family Falls Back", func(t *testing.T) {
		face, err := am.GetFace("comic-sans", 16)
		require.NoError(t, err)
		assert.NotNil(t, face)
	})

	t.Run("Invalid Size", func(t *testing.T) {
		_, err := am.GetFace("sans", 0)
		assert.Error(t, err)
	})
}

func TestGetFont_Caches(t *testing.T) {
	am := NewManager()

	first, err := am.getFont("sans")
	require.NoError(t, err)
	second, err := am.getFont("sans")
	require.NoError(t, err)
	assert.Same(t, first, second)
}
