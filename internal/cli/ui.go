package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// statusOut receives status lines. Artifacts go to stdout, so status goes
// to stderr to keep pipes clean.
var statusOut io.Writer = os.Stderr

// =============================================================================
// Palette
// =============================================================================

// Colors adapt to the terminal background so labels stay readable on light
// themes.
var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#22D3EE"}
	colorOK     = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	colorFail   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	colorLink   = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#93C5FD"}
	colorText   = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F3F4F6"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	colorFaint  = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}
)

// Exported styles are shared with the explorer and the inspect output.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleDim     = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue   = lipgloss.NewStyle().Foreground(colorText)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorAccent)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleFail    = lipgloss.NewStyle().Foreground(colorFail)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey     = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
)

// Status markers.
const (
	markOK    = "✓"
	markFail  = "✗"
	markWarn  = "!"
	markInfo  = "›"
	markFile  = "→"
	markHit   = "cache hit"
	markMiss  = "rendered"
	statsSep  = " · "
	detailPad = "  "
)

// =============================================================================
// Status Output
// =============================================================================

// statusLine writes one status line: a marker and the formatted message.
func statusLine(mark string, markStyle, msgStyle lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(statusOut, markStyle.Render(mark)+" "+msgStyle.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) {
	statusLine(markOK, styleOK, lipgloss.NewStyle(), format, args...)
}

func printError(format string, args ...any) {
	statusLine(markFail, styleFail, lipgloss.NewStyle(), format, args...)
}

func printWarning(format string, args ...any) {
	statusLine(markWarn, StyleWarning, StyleWarning, format, args...)
}

func printInfo(format string, args ...any) {
	statusLine(markInfo, styleMuted, lipgloss.NewStyle(), format, args...)
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, detailPad+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written artifact.
func printFile(path string) {
	fmt.Fprintln(statusOut, detailPad+StyleDim.Render(markFile)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value to w.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints the tree size and whether the artifacts came from the
// cache.
func printStats(nodes, edges, depth int, cached bool) {
	source := styleMuted.Render(markMiss)
	if cached {
		source = styleOK.Render(markHit)
	}
	fmt.Fprintln(statusOut, detailPad+StyleDim.Render(strings.Join([]string{
		fmt.Sprintf("%d nodes", nodes),
		fmt.Sprintf("%d edges", edges),
		fmt.Sprintf("depth %d", depth),
	}, statsSep)+statsSep)+source)
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
