package cmd

import (
	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

// formatPresence colors a Yes/No report cell.
func formatPresence(present bool, label string) string {
	if present {
		return colorSuccess(label)
	}
	return colorError(label)
}
