// Package output renders user-facing CLI output. Log records go to the
// logger; everything a user is meant to read goes through here.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	gray   = color.New(color.FgHiBlack)
	bold   = color.New(color.Bold)

	// Stdout and Stdin can be overridden in tests.
	Stdout io.Writer = os.Stdout
	Stdin  io.Reader = os.Stdin
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

// Success prints a success message with a checkmark.
func Success(format string, a ...any) {
	fmt.Fprintf(Stdout, green.Sprint("✓")+" "+format+"\n", a...)
}

// Info prints an informational message with an arrow.
func Info(format string, a ...any) {
	fmt.Fprintf(Stdout, cyan.Sprint("→")+" "+format+"\n", a...)
}

// Warning prints a warning message.
func Warning(format string, a ...any) {
	fmt.Fprintf(Stdout, yellow.Sprint("⚠")+" "+format+"\n", a...)
}

// Error prints an error message.
func Error(format string, a ...any) {
	fmt.Fprintf(Stdout, red.Sprint("✗")+" "+format+"\n", a...)
}

// Header prints a section header with a separator line.
func Header(text string) {
	fmt.Fprintln(Stdout)
	fmt.Fprintln(Stdout, bold.Sprint(text))
	fmt.Fprintln(Stdout, gray.Sprint(strings.Repeat("━", 50)))
}

// KeyValue prints an indented key-value pair.
func KeyValue(key, value string) {
	fmt.Fprintf(Stdout, "  %s: %s\n", gray.Sprint(key), value)
}

// Blank prints a blank line.
func Blank() {
	fmt.Fprintln(Stdout)
}

// List prints a bulleted list.
func List(items []string) {
	for _, item := range items {
		fmt.Fprintf(Stdout, "  %s %s\n", cyan.Sprint("•"), item)
	}
}

// Table prints a simple aligned table with headers.
func Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, h := range headers {
		fmt.Fprintf(Stdout, "%-*s  ", widths[i], bold.Sprint(h))
	}
	fmt.Fprintln(Stdout)
	for i := range headers {
		fmt.Fprintf(Stdout, "%s  ", gray.Sprint(strings.Repeat("─", widths[i])))
	}
	fmt.Fprintln(Stdout)
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(Stdout, "%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(Stdout)
	}
}

// Bold returns text in bold.
func Bold(text string) string { return bold.Sprint(text) }

// Green returns text in green.
func Green(text string) string { return green.Sprint(text) }

// Red returns text in red.
func Red(text string) string { return red.Sprint(text) }

// Yellow returns text in yellow.
func Yellow(text string) string { return yellow.Sprint(text) }

// Gray returns text in gray.
func Gray(text string) string { return gray.Sprint(text) }

// StateBadge returns a colored badge for a resource lifecycle state.
func StateBadge(state string) string {
	switch strings.ToLower(state) {
	case "active":
		return green.Sprint("● " + state)
	case "creating", "updating", "deleting":
		return yellow.Sprint("● " + state)
	case "failed":
		return red.Sprint("● " + state)
	case "absent":
		return gray.Sprint("● " + state)
	default:
		return cyan.Sprint("● " + state)
	}
}

// IsInteractive reports whether stdin is attached to a terminal.
// Confirmation prompts are only offered when it returns true.
func IsInteractive() bool {
	f, ok := Stdin.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Confirm prompts the user for yes/no confirmation and returns true on
// an explicit yes.
func Confirm(prompt string) bool {
	fmt.Fprintf(Stdout, "%s %s [y/N]: ", yellow.Sprint("?"), prompt)

	reader := bufio.NewReader(Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	response := strings.ToLower(strings.TrimSpace(line))
	return response == "y" || response == "yes"
}
