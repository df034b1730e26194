package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// ─── colors ───────────────────────────────────────────────────────────────────

var (
	colorSuccess = color.New(color.FgGreen, color.Bold)
	colorWarn    = color.New(color.FgYellow)
	colorError   = color.New(color.FgRed, color.Bold)
	colorMuted   = color.New(color.FgHiBlack)
	colorBold    = color.New(color.Bold)
)

// ─── terminal ─────────────────────────────────────────────────────────────────

func isTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return width
}

func contentWidth(content string) int {
	w := 0
	for _, line := range strings.Split(content, "\n") {
		w = max(w, lipgloss.Width(line))
	}
	return w
}

// ─── status lines ─────────────────────────────────────────────────────────────

// Status lines go to stderr so that stdout stays pipeable.

func printSuccess(format string, args ...any) {
	colorSuccess.Fprint(os.Stderr, "✓ ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func printWarning(format string, args ...any) {
	colorWarn.Fprintf(os.Stderr, "! "+format+"\n", args...)
}

func printInfo(format string, args ...any) {
	colorMuted.Fprintf(os.Stderr, format+"\n", args...)
}

func printError(msg string) {
	colorError.Fprintln(os.Stderr, msg)
}
