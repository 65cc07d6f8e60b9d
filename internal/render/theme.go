// Package render draws crazyhouse positions as PNG board diagrams.
package render

import "image/color"

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare   color.RGBA
	DarkSquare    color.RGBA
	LastMoveColor color.NRGBA // blended over the square
	CheckColor    color.NRGBA
	PromotedMark  color.RGBA
	Background    color.RGBA
	TextColor     color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() Theme {
	return Theme{
		LightSquare:   color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:    color.RGBA{181, 136, 99, 255},  // Brown
		LastMoveColor: color.NRGBA{180, 190, 100, 110},
		CheckColor:    color.NRGBA{255, 100, 100, 160},
		PromotedMark:  color.RGBA{200, 40, 40, 255},
		Background:    color.RGBA{40, 44, 52, 255},
		TextColor:     color.RGBA{220, 220, 220, 255},
	}
}

// Options controls the layout of a diagram.
type Options struct {
	SquareSize int  // pixels per square, 64 when zero
	Flip       bool // draw with Black at the bottom
	Theme      Theme
}

// DefaultOptions returns the options used by the engine and the render tool.
func DefaultOptions() Options {
	return Options{SquareSize: 64, Theme: DefaultTheme()}
}
