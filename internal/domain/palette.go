package domain

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// RGB is an 8-bit per channel color.
type RGB struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// TaskColor is a named color used for important tasks.
type TaskColor string

// ColorGroup is a themed group of task colors. Its size bounds ImportantColorIndex.
type ColorGroup string

const (
	ColorGroupReds    ColorGroup = "Reds & Crimsons"
	ColorGroupBlues   ColorGroup = "Blues & Cobalts"
	ColorGroupGreens  ColorGroup = "Greens & Teals"
	ColorGroupPurples ColorGroup = "Purples & Violets"
	ColorGroupGolds   ColorGroup = "Golds & Oranges"
	ColorGroupPinks   ColorGroup = "Pinks & Magentas"
	ColorGroupCosmic  ColorGroup = "Cosmic & Galaxy"
	ColorGroupOcean   ColorGroup = "Ocean Depths"
	ColorGroupSunset  ColorGroup = "Sunset & Dawn"
	ColorGroupNeon    ColorGroup = "Neon & Electric"
)

// DefaultColorGroup is the group selected on a fresh install.
const DefaultColorGroup = ColorGroupReds

// DefaultImportantColor is the default background for important tasks.
const DefaultImportantColor TaskColor = "Bloodstone"

type namedColor struct {
	name TaskColor
	rgb  RGB
}

// colorGroups lists groups in display order; member order defines color indexes.
var colorGroups = []struct {
	group  ColorGroup
	colors []namedColor
}{
	{ColorGroupReds, []namedColor{
		{"Bloodstone", RGB{134, 0, 0}},
		{"Cursed Ruby", RGB{90, 0, 0}},
		{"Blood Garnet", RGB{120, 0, 20}},
		{"Deep Amaranth", RGB{155, 0, 75}},
	}},
	{ColorGroupBlues, []namedColor{
		{"Sapphire Storm", RGB{20, 50, 180}},
		{"Frozen Lapis", RGB{0, 80, 150}},
		{"Celestial Void", RGB{10, 15, 40}},
		{"Nocturne Cyanide", RGB{0, 210, 170}},
	}},
	{ColorGroupGreens, []namedColor{
		{"Emerald Abyss", RGB{0, 100, 80}},
		{"Midnight Malachite", RGB{0, 90, 60}},
		{"Peacock Vein", RGB{0, 170, 140}},
	}},
	{ColorGroupPurples, []namedColor{
		{"Obsidian Rose", RGB{40, 0, 40}},
		{"Glacial Orchid", RGB{115, 90, 170}},
	}},
	{ColorGroupGolds, []namedColor{
		{"Solar Citrine", RGB{255, 204, 0}},
		{"Crushed Topaz", RGB{204, 85, 0}},
		{"Dragonite Bronze", RGB{160, 110, 50}},
	}},
	{ColorGroupPinks, []namedColor{
		{"Rose Petal", RGB{255, 105, 180}},
		{"Hot Magenta", RGB{255, 0, 144}},
		{"Cherry Blossom", RGB{255, 183, 197}},
		{"Electric Pink", RGB{255, 20, 147}},
	}},
	{ColorGroupCosmic, []namedColor{
		{"Nebula Purple", RGB{138, 43, 226}},
		{"Stardust Blue", RGB{72, 61, 139}},
		{"Galaxy Void", RGB{25, 25, 112}},
		{"Cosmic Pink", RGB{199, 21, 133}},
	}},
	{ColorGroupOcean, []namedColor{
		{"Deep Ocean", RGB{0, 51, 102}},
		{"Coral Reef", RGB{255, 127, 80}},
		{"Bioluminescent", RGB{0, 255, 255}},
		{"Midnight Wave", RGB{0, 75, 130}},
	}},
	{ColorGroupSunset, []namedColor{
		{"Sunset Orange", RGB{255, 99, 71}},
		{"Dawn Pink", RGB{255, 182, 193}},
		{"Twilight Purple", RGB{147, 112, 219}},
		{"Golden Hour", RGB{255, 215, 0}},
	}},
	{ColorGroupNeon, []namedColor{
		{"Neon Green", RGB{57, 255, 20}},
		{"Cyber Pink", RGB{255, 16, 240}},
		{"Electric Blue", RGB{125, 249, 255}},
		{"Toxic Yellow", RGB{223, 255, 0}},
	}},
}

// Palette is the ordered set of colors an important task's color index points into.
type Palette struct {
	Group  ColorGroup
	colors []namedColor
}

// ColorGroups returns every known group in display order.
func ColorGroups() []ColorGroup {
	groups := make([]ColorGroup, 0, len(colorGroups))
	for _, g := range colorGroups {
		groups = append(groups, g.group)
	}
	return groups
}

// NewColorGroup validates a group name.
func NewColorGroup(s string) (ColorGroup, error) {
	for _, g := range colorGroups {
		if string(g.group) == s {
			return g.group, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidColorGroup, s)
}

// NewTaskColor validates a color name against every group.
func NewTaskColor(s string) (TaskColor, error) {
	for _, g := range colorGroups {
		for _, c := range g.colors {
			if string(c.name) == s {
				return c.name, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidTaskColor, s)
}

// PaletteFor returns the palette of a group. Unknown groups fall back to DefaultColorGroup.
func PaletteFor(group ColorGroup) Palette {
	for _, g := range colorGroups {
		if g.group == group {
			return Palette{Group: g.group, colors: g.colors}
		}
	}
	return PaletteFor(DefaultColorGroup)
}

// Size returns the number of colors in the palette.
func (p Palette) Size() int {
	return len(p.colors)
}

// Colors returns the color names in index order.
func (p Palette) Colors() []TaskColor {
	names := make([]TaskColor, len(p.colors))
	for i, c := range p.colors {
		names[i] = c.name
	}
	return names
}

// ColorAt returns the color for an index, wrapping modulo the palette size.
func (p Palette) ColorAt(index int) (TaskColor, RGB) {
	if len(p.colors) == 0 {
		return "", RGB{}
	}
	c := p.colors[NextColorIndex(index-1, len(p.colors))]
	return c.name, c.rgb
}

// ColorRGB looks up the RGB value of a named color.
func ColorRGB(name TaskColor) (RGB, bool) {
	for _, g := range colorGroups {
		for _, c := range g.colors {
			if c.name == name {
				return c.rgb, true
			}
		}
	}
	return RGB{}, false
}

// GroupOf returns the group that contains the color.
func GroupOf(name TaskColor) (ColorGroup, bool) {
	for _, g := range colorGroups {
		for _, c := range g.colors {
			if c.name == name {
				return g.group, true
			}
		}
	}
	return "", false
}

// ColorIndexFor derives a stable color index for a task ID so that important
// tasks created together rarely share a color.
func ColorIndexFor(id string, paletteSize int) int {
	if paletteSize <= 0 {
		return 0
	}
	return int(xxhash.Sum64String(id) % uint64(paletteSize))
}

// NextColorIndex advances index by one modulo paletteSize.
func NextColorIndex(index, paletteSize int) int {
	if paletteSize <= 0 {
		return 0
	}
	next := (index + 1) % paletteSize
	if next < 0 {
		next += paletteSize
	}
	return next
}

// ButtonScheme is the accent color scheme of primary actions.
type ButtonScheme string

const (
	ButtonSchemeDefault   ButtonScheme = "Default"
	ButtonSchemeBlue      ButtonScheme = "Blue"
	ButtonSchemePurple    ButtonScheme = "Purple"
	ButtonSchemeTeal      ButtonScheme = "Teal"
	ButtonSchemeOrange    ButtonScheme = "Orange"
	ButtonSchemePink      ButtonScheme = "Pink"
	ButtonSchemeNeonGreen ButtonScheme = "Neon Green"
)

// DefaultButtonScheme is the scheme selected on a fresh install.
const DefaultButtonScheme = ButtonSchemeBlue

var buttonSchemes = []struct {
	scheme      ButtonScheme
	description string
	rgb         RGB
}{
	{ButtonSchemeDefault, "Adapts to Light/Dark Mode", RGB{128, 128, 128}},
	{ButtonSchemeBlue, "Classic Blue", RGB{0, 122, 255}},
	{ButtonSchemePurple, "Cosmic Purple", RGB{138, 43, 226}},
	{ButtonSchemeTeal, "Peacock Teal", RGB{0, 170, 140}},
	{ButtonSchemeOrange, "Coral Orange", RGB{255, 127, 80}},
	{ButtonSchemePink, "Electric Pink", RGB{255, 20, 147}},
	{ButtonSchemeNeonGreen, "Neon Green Glow", RGB{57, 255, 20}},
}

// ButtonSchemes returns every scheme in display order.
func ButtonSchemes() []ButtonScheme {
	out := make([]ButtonScheme, len(buttonSchemes))
	for i, b := range buttonSchemes {
		out[i] = b.scheme
	}
	return out
}

// NewButtonScheme validates a button scheme name.
func NewButtonScheme(s string) (ButtonScheme, error) {
	for _, b := range buttonSchemes {
		if string(b.scheme) == s {
			return b.scheme, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidButtonScheme, s)
}

// Description returns the human readable label of the scheme.
func (b ButtonScheme) Description() string {
	for _, s := range buttonSchemes {
		if s.scheme == b {
			return s.description
		}
	}
	return ""
}

// PreviewColor returns the swatch color of the scheme.
func (b ButtonScheme) PreviewColor() RGB {
	for _, s := range buttonSchemes {
		if s.scheme == b {
			return s.rgb
		}
	}
	return RGB{}
}
