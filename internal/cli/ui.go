package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mcl/pkg/semantic"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleError for diagnostic codes of errors.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// stdout receives all status output.
var stdout io.Writer = os.Stdout

func line(s string) { fmt.Fprintln(stdout, s) }

func status(icon lipgloss.Style, glyph, format string, args []any) {
	line(icon.Render(glyph) + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(styleIconSuccess, iconSuccess, format, args) }
func printError(format string, args ...any)   { status(styleIconError, iconError, format, args) }
func printInfo(format string, args ...any)    { status(styleIconInfo, iconInfo, format, args) }

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// =============================================================================
// Diagnostics
// =============================================================================

// formatDiagnostic renders d as "source:start..end: error[CODE] message".
func formatDiagnostic(source string, d semantic.Diagnostic) string {
	style := StyleError
	if d.Severity == semantic.SeverityWarning {
		style = StyleWarning
	}
	loc := StyleDim.Render(fmt.Sprintf("%s:%s:", source, d.Span))
	tag := style.Render(fmt.Sprintf("%s[%s]", d.Severity, d.Code))
	return loc + " " + tag + " " + d.Message
}

// printDiagnostics prints every diagnostic of one microcontroller.
func printDiagnostics(source string, ds semantic.Diagnostics) {
	for _, d := range ds {
		icon := styleIconError.Render(iconError)
		if d.Severity == semantic.SeverityWarning {
			icon = styleIconWarning.Render(iconWarning)
		}
		line("  " + icon + " " + formatDiagnostic(source, d))
	}
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	line("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	line(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// statsLine formats netlist statistics on a single line.
func statsLine(pins, components, islands int, cached bool) string {
	parts := []string{
		plural(pins, "pin"),
		plural(components, "component"),
		plural(islands, "island"),
	}

	state, stateStyle := iconFresh, styleComputed
	if cached {
		state, stateStyle = iconCached, styleCached
	}

	out := "  "
	for _, part := range parts {
		out += StyleDim.Render(part + " · ")
	}
	return out + stateStyle.Render(state)
}

// printStats prints netlist statistics on a single line.
func printStats(pins, components, islands int, cached bool) {
	line(statsLine(pins, components, islands, cached))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	line(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { line("") }
