package outwriter

import (
	"os"

	"github.com/huangsam/bountyviz/internal/contract"
	"golang.org/x/term"
)

// GetMaxTablePathWidth calculates the maximum width for category paths in table output
// based on terminal width.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Value columns plus borders and padding
	baseWidth := 40

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 90 {
		return 90
	}
	return available
}
