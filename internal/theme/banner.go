package theme

import (
	"fmt"
	"io"
)

// Banner returns the calendar banner shown by init and version.
func Banner() string {
	const cyan = "\033[36m"
	const yellow = "\033[33m"
	const reset = "\033[0m"

	return "" +
		cyan + "  ┌──┬──┬──┬──┬──┬──┬──┐\n" + reset +
		cyan + "  │Mo│Tu│We│Th│Fr│" + reset + yellow + "Sa│Su" + reset + cyan + "│\n" + reset +
		cyan + "  └──┴──┴──┴──┴──┴──┴──┘\n" + reset +
		"   WORKDAYS  08:00-12:00 · 13:00-17:00\n" +
		yellow + "   ───────────────────────────────\n" + reset
}

// PrintBanner writes the banner to w.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, Banner())
}
