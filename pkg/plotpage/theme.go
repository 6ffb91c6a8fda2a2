package plotpage

// Theme represents a color theme for the report document.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ThemeConfig holds all theme-specific styling values.
type ThemeConfig struct {
	// Page colors.
	Background string
	Surface    string
	Border     string
	TextMain   string
	TextMuted  string
	Link       string

	// Navbar classes (bootstrap).
	NavbarClass string

	// Chart-specific.
	ChartBackground string
	ChartGrid       string
	ChartAxis       string
	ChartText       string
	ChartTextMuted  string

	// Palette cycles through series colors.
	Palette []string
}

// GetThemeConfig returns the configuration for a given theme.
// Unknown themes fall back to light.
func GetThemeConfig(theme Theme) ThemeConfig {
	if theme == ThemeDark {
		return darkTheme
	}

	return lightTheme
}

// ParseTheme maps a config value to a Theme, defaulting to light.
func ParseTheme(name string) Theme {
	if Theme(name) == ThemeDark {
		return ThemeDark
	}

	return ThemeLight
}

// SeriesColor returns the palette color for the i-th series.
func (tc ThemeConfig) SeriesColor(i int) string {
	if len(tc.Palette) == 0 {
		return ""
	}

	return tc.Palette[i%len(tc.Palette)]
}

var lightTheme = ThemeConfig{
	Background:  "#fafaf9", // stone-50.
	Surface:     "#ffffff",
	Border:      "#e7e5e4", // stone-200.
	TextMain:    "#1c1917", // stone-900.
	TextMuted:   "#78716c", // stone-500.
	Link:        "#0369a1", // sky-700.
	NavbarClass: "navbar-dark bg-dark",

	ChartBackground: "transparent",
	ChartGrid:       "#e7e5e4", // stone-200.
	ChartAxis:       "#a8a29e", // stone-400.
	ChartText:       "#44403c", // stone-700.
	ChartTextMuted:  "#78716c", // stone-500.

	Palette: []string{
		"#a16207", // amber-700.
		"#0369a1", // sky-700.
		"#4d7c0f", // lime-700.
		"#7c3aed", // violet-600.
		"#be185d", // pink-700.
	},
}

var darkTheme = ThemeConfig{
	Background:  "#0c0a09", // stone-950.
	Surface:     "#1c1917", // stone-900.
	Border:      "#44403c", // stone-700.
	TextMain:    "#fafaf9", // stone-50.
	TextMuted:   "#a8a29e", // stone-400.
	Link:        "#38bdf8", // sky-400.
	NavbarClass: "navbar-dark bg-black",

	ChartBackground: "transparent",
	ChartGrid:       "#44403c", // stone-700.
	ChartAxis:       "#57534e", // stone-600.
	ChartText:       "#d6d3d1", // stone-300.
	ChartTextMuted:  "#a8a29e", // stone-400.

	Palette: []string{
		"#fbbf24", // amber-400.
		"#38bdf8", // sky-400.
		"#a3e635", // lime-400.
		"#a78bfa", // violet-400.
		"#f472b6", // pink-400.
	},
}
