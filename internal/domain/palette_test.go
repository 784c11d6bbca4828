package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaletteSizes(t *testing.T) {
	sizes := map[ColorGroup]int{
		ColorGroupReds:    4,
		ColorGroupBlues:   4,
		ColorGroupGreens:  3,
		ColorGroupPurples: 2,
		ColorGroupGolds:   3,
		ColorGroupPinks:   4,
		ColorGroupCosmic:  4,
		ColorGroupOcean:   4,
		ColorGroupSunset:  4,
		ColorGroupNeon:    4,
	}

	require.Len(t, ColorGroups(), len(sizes))
	for group, size := range sizes {
		assert.Equal(t, size, PaletteFor(group).Size(), group)
	}
}

func TestPaletteFor_UnknownFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultColorGroup, PaletteFor("Mauves").Group)
}

func TestPalette_ColorAtWraps(t *testing.T) {
	p := PaletteFor(ColorGroupPurples)

	name, rgb := p.ColorAt(3)
	assert.Equal(t, TaskColor("Glacial Orchid"), name)
	assert.Equal(t, "#735aaa", rgb.Hex())

	name, _ = p.ColorAt(-2)
	assert.Equal(t, TaskColor("Obsidian Rose"), name)
}

func TestColorIndexFor_StableAndBounded(t *testing.T) {
	for _, id := range []string{"a", "0192f0c4-7d33-7c9e-b1a5-3b8f0e2f6d10", "zzz"} {
		first := ColorIndexFor(id, 4)
		assert.Equal(t, first, ColorIndexFor(id, 4))
		assert.GreaterOrEqual(t, first, 0)
		assert.Less(t, first, 4)
	}
	assert.Equal(t, 0, ColorIndexFor("a", 0))
}

func TestNextColorIndex(t *testing.T) {
	assert.Equal(t, 1, NextColorIndex(0, 3))
	assert.Equal(t, 0, NextColorIndex(2, 3))
	assert.Equal(t, 0, NextColorIndex(5, 0))
}

func TestLookups(t *testing.T) {
	group, err := NewColorGroup("Ocean Depths")
	require.NoError(t, err)
	assert.Equal(t, ColorGroupOcean, group)

	_, err = NewColorGroup("Mauves")
	assert.ErrorIs(t, err, ErrInvalidColorGroup)

	color, err := NewTaskColor("Coral Reef")
	require.NoError(t, err)
	g, ok := GroupOf(color)
	assert.True(t, ok)
	assert.Equal(t, ColorGroupOcean, g)

	rgb, ok := ColorRGB(DefaultImportantColor)
	assert.True(t, ok)
	assert.Equal(t, RGB{134, 0, 0}, rgb)

	_, err = NewTaskColor("Beige")
	assert.ErrorIs(t, err, ErrInvalidTaskColor)

	scheme, err := NewButtonScheme("Neon Green")
	require.NoError(t, err)
	assert.Equal(t, "Neon Green Glow", scheme.Description())
	assert.Equal(t, RGB{57, 255, 20}, scheme.PreviewColor())

	_, err = NewButtonScheme("Plaid")
	assert.ErrorIs(t, err, ErrInvalidButtonScheme)
}
