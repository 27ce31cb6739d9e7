package common

import (
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// Truncate shortens s to at most width terminal cells, ending in "…" when
// something was cut. Escape sequences do not count towards the width.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// FormatDate renders a timestamp the way the profile line shows it, or "-"
// when unknown.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 02 2006")
}
