// Package style renders the cmd/tessera CLI's status and summary output,
// with colors degrading automatically on a non-TTY or NO_COLOR terminal
// (termenv.ColorProfile already handles that detection for us).
package style

import "github.com/muesli/termenv"

var profile = termenv.ColorProfile()

func paint(text string, color termenv.Color) string {
	return termenv.String(text).Foreground(color).String()
}

// Success renders text in the profile's green.
func Success(text string) string {
	return paint(text, profile.Color("2"))
}

// Warning renders text in the profile's yellow.
func Warning(text string) string {
	return paint(text, profile.Color("3"))
}

// Failure renders text in the profile's red.
func Failure(text string) string {
	return paint(text, profile.Color("1"))
}

// Info renders text in the profile's blue.
func Info(text string) string {
	return paint(text, profile.Color("4"))
}

// Bold renders text bold with no color change.
func Bold(text string) string {
	return termenv.String(text).Bold().String()
}

// Dim renders text faint, for secondary detail lines.
func Dim(text string) string {
	return termenv.String(text).Faint().String()
}

// Heading renders a bold cyan section title.
func Heading(text string) string {
	return termenv.String(text).Bold().Foreground(profile.Color("6")).String()
}
