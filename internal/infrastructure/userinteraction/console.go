package userinteraction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"iblipper/internal/application/port/output"

	"github.com/fatih/color"
)

var _ output.ProgressPort = (*ConsoleProgress)(nil)

// ConsoleProgress prints agent progress to stderr, leaving stdout for the
// final answer.
type ConsoleProgress struct {
	out io.Writer
}

func NewConsoleProgress() *ConsoleProgress {
	return &ConsoleProgress{out: color.Error}
}

// NewWriterProgress prints to w without colors.
func NewWriterProgress(w io.Writer) *ConsoleProgress {
	return &ConsoleProgress{out: w}
}

func (u *ConsoleProgress) colored(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if u.out != color.Error && u.out != os.Stderr {
		c.DisableColor()
	}
	return c
}

func (u *ConsoleProgress) ShowIteration(ctx context.Context, iteration, maxIterations int) {
	u.colored(color.FgCyan, color.Bold).Fprintf(u.out, "\n--- step %d/%d ---\n", iteration, maxIterations)
}

func (u *ConsoleProgress) ShowToolStart(ctx context.Context, toolName, arguments string) {
	icon, name := toolDisplay(toolName)
	u.colored(color.FgYellow, color.Bold).Fprintf(u.out, "%s %s\n", icon, name)

	if summary := formatToolArguments(toolName, arguments); summary != "" {
		u.colored(color.Faint).Fprintf(u.out, "   %s\n", summary)
	}
}

func (u *ConsoleProgress) ShowToolResult(ctx context.Context, toolName, result string, isError bool) {
	if isError {
		u.colored(color.FgRed).Fprint(u.out, "x ")
		u.colored(color.Faint).Fprintln(u.out, truncate(result, 300))
		return
	}
	u.colored(color.FgGreen).Fprintf(u.out, "ok %s\n", truncate(firstLine(result), 150))
}

func toolDisplay(toolName string) (string, string) {
	switch toolName {
	case "generate_url":
		return "[url]", "Generate link"
	case "render_gif":
		return "[gif]", "Render GIF"
	case "render_snapshot":
		return "[png]", "Capture snapshot"
	}
	return "[tool]", toolName
}

func formatToolArguments(toolName, arguments string) string {
	var args struct {
		Message  string `json:"message"`
		Emotion  string `json:"emotion"`
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil || args.Message == "" {
		return ""
	}

	parts := []string{fmt.Sprintf("%q", truncate(args.Message, 60))}
	if args.Emotion != "" {
		parts = append(parts, args.Emotion)
	}
	if args.Filename != "" {
		parts = append(parts, "-> "+args.Filename)
	}
	return strings.Join(parts, " ")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	s = s[:maxLen]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s + "..."
}
