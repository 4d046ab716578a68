package ui

import (
	lib "github.com/charmbracelet/charm/ui/common"
	te "github.com/muesli/termenv"
)

type StyleFunc func(string) string

var (
	NormalFg    = NewFgStyle(lib.NewColorPair("#dddddd", "#1a1a1a"))
	DimNormalFg = NewFgStyle(lib.NewColorPair("#777777", "#A49FA5"))

	BrightGrayFg    = NewFgStyle(lib.NewColorPair("#979797", "#847A85"))
	DimBrightGrayFg = NewFgStyle(lib.NewColorPair("#4D4D4D", "#C2B8C2"))

	GrayFg    = NewFgStyle(lib.NewColorPair("#626262", "#909090"))
	MidGrayFg = NewFgStyle(lib.NewColorPair("#4A4A4A", "#B2B2B2"))

	GreenFg    = NewFgStyle(lib.NewColorPair("#04B575", "#04B575"))
	DimGreenFg = NewFgStyle(lib.NewColorPair("#0B5137", "#72D2B0"))

	FuchsiaFg     = NewFgStyle(lib.Fuschia)
	DullFuchsiaFg = NewFgStyle(lib.NewColorPair("#AD58B4", "#F793FF"))

	YellowFg   = NewFgStyle(lib.YellowGreen)
	RedFg      = NewFgStyle(lib.Red)
	FaintRedFg = NewFgStyle(lib.FaintRed)
)

// Returns a termenv style with foreground and background options.
func NewStyle(fg, bg lib.ColorPair, bold bool) func(string) string {
	s := te.Style{}.Foreground(fg.Color()).Background(bg.Color())
	if bold {
		s = s.Bold()
	}
	return s.Styled
}

// Returns a new termenv style with background options only.
func NewFgStyle(c lib.ColorPair) StyleFunc {
	return te.Style{}.Foreground(c.Color()).Styled
}
