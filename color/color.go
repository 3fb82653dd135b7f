// Package color names the terminal colors the rest of the app styles with.
package color

import "github.com/charmbracelet/lipgloss"

// New initializes a lipgloss.Color from an ANSI index or hex value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// The ANSI 16-color table. Indexed colors follow the user's terminal theme,
// so these are preferred wherever output must blend in.
var (
	Black   = New("0")
	Red     = New("1")
	Green   = New("2")
	Yellow  = New("3")
	Blue    = New("4")
	Magenta = New("5")
	Cyan    = New("6")
	White   = New("7")

	HiBlack   = New("8")
	HiRed     = New("9")
	HiGreen   = New("10")
	HiYellow  = New("11")
	HiBlue    = New("12")
	HiMagenta = New("13")
	HiCyan    = New("14")
	HiWhite   = New("15")
)

// Orange has no slot in the ANSI table, so it keeps a fixed tone everywhere.
var Orange = New("#ff9f1c")
