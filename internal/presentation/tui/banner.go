package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the strand banner, coloured when the terminal allows it.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"      _                       _ ", "#34d399"},
		{"  ___| |_ _ __ __ _ _ __   __| |", "#2dd4bf"},
		{" / __| __| '__/ _` | '_ \\ / _` |", "#22d3ee"},
		{" \\__ \\ |_| | | (_| | | | | (_| |", "#38bdf8"},
		{" |___/\\__|_|  \\__,_|_| |_|\\__,_|", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
