package compose

import "sort"

// Icon identifies a glyph from the fixed icon set. Unknown identifiers are
// rejected by Validate instead of rendering nothing.
type Icon string

const (
	IconSearch        Icon = "search"
	IconBrush         Icon = "brush"
	IconCode          Icon = "code"
	IconCheckmark     Icon = "checkmark-circle"
	IconColorPalette  Icon = "color-palette"
	IconBook          Icon = "book"
	IconRocket        Icon = "rocket"
	IconBarChart      Icon = "bar-chart"
	IconPeople        Icon = "people"
	IconLayers        Icon = "layers"
	IconGitHub        Icon = "github"
	IconFigma         Icon = "figma"
	IconStorybook     Icon = "storybook"
	IconExternalLink  Icon = "link"
	IconDocumentation Icon = "documentation"
)

type glyph struct {
	symbol string
	label  string
}

var icons = map[Icon]glyph{
	IconSearch:        {"⌕", "Research"},
	IconBrush:         {"✎", "Design"},
	IconCode:          {"</>", "Code"},
	IconCheckmark:     {"✓", "Done"},
	IconColorPalette:  {"◐", "Palette"},
	IconBook:          {"❏", "Documentation"},
	IconRocket:        {"➚", "Launch"},
	IconBarChart:      {"▤", "Metrics"},
	IconPeople:        {"☺", "People"},
	IconLayers:        {"≡", "Layers"},
	IconGitHub:        {"GH", "GitHub"},
	IconFigma:         {"F", "Figma"},
	IconStorybook:     {"SB", "Storybook"},
	IconExternalLink:  {"↗", "Link"},
	IconDocumentation: {"¶", "Docs"},
}

func (i Icon) Known() bool {
	_, ok := icons[i]
	return ok
}

// Glyph returns the symbol and accessible label of a known icon.
func (i Icon) Glyph() (symbol, label string, ok bool) {
	g, ok := icons[i]
	return g.symbol, g.label, ok
}

func KnownIcons() []Icon {
	out := make([]Icon, 0, len(icons))
	for icon := range icons {
		out = append(out, icon)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
