package display

import (
	"fmt"
	"io"

	"github.com/backmassage/themis/internal/term"
)

// PrintBanner prints the ASCII art banner to w, in magenta when colors are on.
func PrintBanner(w io.Writer) {
	if term.Magenta != "" {
		fmt.Fprint(w, "\033[1;95m")
	}
	fmt.Fprint(w, ` _____ _                    _
|_   _| |__   ___ _ __ ___ (_)___
  | | | '_ \ / _ \ '_ `+"`"+` _ \| / __|
  | | | | | |  __/ | | | | | \__ \
  |_| |_| |_|\___|_| |_| |_|_|___/
`)
	if term.Magenta != "" {
		fmt.Fprintln(w, term.NC)
	}
}
