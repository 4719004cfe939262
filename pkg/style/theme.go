package style

type Colors struct {
	White  string
	Black  string
	Grey10 string
	Grey20 string
	Grey30 string
	Grey40 string
	Grey50 string
	Grey60 string
	Grey70 string
	Grey80 string
	Grey90 string
	Blue40 string
	Blue50 string
	Blue60 string
	Blue70 string
	Orange string
}

type Fonts struct {
	SansSerif string
	Serif     string
	Monospace string
}

// Breakpoints are in pixels.
type Breakpoints struct {
	SM float64
	MD float64
	LG float64
	XL float64
}

// Theme is the data every stylesheet template is executed with.
type Theme struct {
	Colors      Colors
	Fonts       Fonts
	Breakpoints Breakpoints

	// rem
	ContainerPadding float64
	HeadingH4        float64

	// px
	ContainerWidths map[string]float64
}

var Default = Theme{
	Colors: Colors{
		White:  "#ffffff",
		Black:  "#000000",
		Grey10: "#f4f5f7",
		Grey20: "#e2e4e9",
		Grey30: "#c9ccd4",
		Grey40: "#a3a8b4",
		Grey50: "#7d8394",
		Grey60: "#5f6576",
		Grey70: "#454a58",
		Grey80: "#2d313b",
		Grey90: "#1b1e24",
		Blue40: "#5fa8f5",
		Blue50: "#3b8de8",
		Blue60: "#2170c9",
		Blue70: "#1556a0",
		Orange: "#f28c28",
	},
	Fonts: Fonts{
		SansSerif: `-apple-system, BlinkMacSystemFont, "Segoe UI", "Roboto", "Helvetica Neue", Arial, sans-serif`,
		Serif:     `"Zilla Slab", Georgia, "Times New Roman", serif`,
		Monospace: `"SF Mono", Menlo, Consolas, "Liberation Mono", monospace`,
	},
	Breakpoints: Breakpoints{
		SM: 576,
		MD: 768,
		LG: 992,
		XL: 1200,
	},
	ContainerPadding: 1.5,
	HeadingH4:        1.25,
	ContainerWidths: map[string]float64{
		"md": 720,
		"lg": 960,
		"xl": 1140,
	},
}
