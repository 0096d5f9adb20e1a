package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs an ASCII art banner for Arbor.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Subtle gradient-like color scheme (Teal/Green)
	s1 := termenv.String("     /\\         | |         ").Foreground(p.Color("#34d399"))
	s2 := termenv.String("    /  \\   _ __| |__   ___  _ __ ").Foreground(p.Color("#2dd4bf"))
	s3 := termenv.String("   / /\\ \\ | '__| '_ \\ / _ \\| '__|").Foreground(p.Color("#22d3ee"))
	s4 := termenv.String("  / ____ \\| |  | |_) | (_) | |   ").Foreground(p.Color("#38bdf8"))
	s5 := termenv.String(" /_/    \\_\\_|  |_.__/ \\___/|_|   ").Foreground(p.Color("#60a5fa"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}

// Semaphore returns a colored validity indicator for terminal output.
func Semaphore(valid bool) string {
	p := termenv.ColorProfile()
	if valid {
		return termenv.String("● valid").Foreground(p.Color("#22c55e")).String()
	}
	return termenv.String("● invalid").Foreground(p.Color("#ef4444")).String()
}
