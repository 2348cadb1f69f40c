package ui

import (
	"github.com/fatih/color"
)

// Palette holds the colors used for console output.
type Palette struct {
	Step    *color.Color
	Success *color.Color
	Warning *color.Color
	Failure *color.Color
	Muted   *color.Color
}

// NewPalette constructs the console palette. Colors are forced on or stripped according to enabled,
// regardless of what fatih/color detects for the process stdout.
func NewPalette(enabled bool) Palette {
	palette := Palette{
		Step:    color.New(color.FgCyan, color.Bold),
		Success: color.New(color.FgGreen),
		Warning: color.New(color.FgYellow),
		Failure: color.New(color.FgRed, color.Bold),
		Muted:   color.New(color.Faint),
	}
	for _, paletteColor := range []*color.Color{palette.Step, palette.Success, palette.Warning, palette.Failure, palette.Muted} {
		if enabled {
			paletteColor.EnableColor()
			continue
		}
		paletteColor.DisableColor()
	}
	return palette
}
