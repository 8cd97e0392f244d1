package display

import (
	"fmt"
	"os"

	"github.com/Cylae/vcheck/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Magenta != "" {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, `__     ______ _               _
\ \   / / ___| |__   ___  ___| | __
 \ \ / / |   | '_ \ / _ \/ __| |/ /
  \ V /| |___| | | |  __/ (__|   <
   \_/  \____|_| |_|\___|\___|_|\_\
`)
	if term.Magenta != "" {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
