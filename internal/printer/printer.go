package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Style definitions for consistent console output across the application.
var (
	faintStyle   = lipgloss.NewStyle().Faint(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // Red
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // Yellow
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4")) // Blue
)

// out is where the Print* helpers write. Tests swap it with SetOutput.
var out io.Writer = os.Stdout

// SetOutput redirects the Print* helpers and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	if w == nil {
		w = os.Stdout
	}
	out = w
	return prev
}

// SetNoColor disables (or re-enables) ANSI styling for all render helpers.
func SetNoColor(disabled bool) {
	if disabled {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}

// Faint returns text with faint styling.
func Faint(text string) string {
	return faintStyle.Render(text)
}

// Bold returns text with bold styling.
func Bold(text string) string {
	return boldStyle.Render(text)
}

// Success returns text with success (green) styling.
func Success(text string) string {
	return successStyle.Render(text)
}

// Error returns text with error (red) styling.
func Error(text string) string {
	return errorStyle.Render(text)
}

// Warning returns text with warning (yellow) styling.
func Warning(text string) string {
	return warningStyle.Render(text)
}

// Info returns text with info (blue) styling.
func Info(text string) string {
	return infoStyle.Render(text)
}

// SuccessBadge renders a short marker such as "✓" in bold green.
func SuccessBadge(text string) string {
	return successStyle.Bold(true).Render(text)
}

// WarningBadge renders a short marker such as "-" in bold yellow.
func WarningBadge(text string) string {
	return warningStyle.Bold(true).Render(text)
}

func PrintFaint(text string) {
	fmt.Fprintln(out, Faint(text))
}

func PrintBold(text string) {
	fmt.Fprintln(out, Bold(text))
}

func PrintSuccess(text string) {
	fmt.Fprintln(out, Success(text))
}

// PrintError styles the first line of text only; lipgloss pads every line of a
// block to the same width, which leaves trailing spaces on hint lines.
func PrintError(text string) {
	head, rest, found := strings.Cut(text, "\n")
	fmt.Fprintln(out, Error(head))
	if found {
		fmt.Fprintln(out, rest)
	}
}

func PrintWarning(text string) {
	fmt.Fprintln(out, Warning(text))
}

func PrintInfo(text string) {
	fmt.Fprintln(out, Info(text))
}

// Println writes an unstyled line.
func Println(a ...any) {
	fmt.Fprintln(out, a...)
}

// Printf writes unstyled formatted text.
func Printf(format string, a ...any) {
	fmt.Fprintf(out, format, a...)
}
