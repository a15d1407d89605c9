package ui

import "fmt"

// ANSI256 color codes used by the CLI output.
const (
	colorID    = 74  // blue, record ids
	colorZone  = 114 // green, zone names
	colorMuted = 245 // medium gray, timestamps and secondary text
)

var noColor bool

// RenderID returns s styled as a record id.
func RenderID(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorID, s)
}

// RenderZone returns s styled as a time zone name.
func RenderZone(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorZone, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
