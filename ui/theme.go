// Package ui draws the on-screen controls and readouts over the particle cloud.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFillLow     rl.Color
	BarFillMedium  rl.Color
	BarFillHigh    rl.Color
	ErrorBg        rl.Color
	Selected       rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
	ButtonHeight   int32
	SwatchSize     int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 10, G: 10, B: 14, A: 200},
		PanelBorder:    rl.Color{R: 60, G: 60, B: 80, A: 255},
		SectionHeader:  rl.Color{R: 165, G: 180, B: 252, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.White,
		BarBg:          rl.Color{R: 40, G: 40, B: 48, A: 255},
		BarFillLow:     rl.Color{R: 16, G: 185, B: 129, A: 255},
		BarFillMedium:  rl.Color{R: 245, G: 158, B: 11, A: 255},
		BarFillHigh:    rl.Color{R: 239, G: 68, B: 68, A: 255},
		ErrorBg:        rl.Color{R: 127, G: 29, B: 29, A: 230},
		Selected:       rl.White,
		Padding:        10,
		LineHeight:     18,
		LabelWidth:     70,
		BarHeight:      10,
		FontSize:       12,
		HeaderFontSize: 14,
		ButtonHeight:   24,
		SwatchSize:     22,
	}
}
