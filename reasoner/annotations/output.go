package annotations

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// OutputFormatter formats events for human-readable display.
type OutputFormatter struct {
	useColor bool
	writer   io.Writer
}

// NewOutputFormatter creates a formatter with color support detection.
func NewOutputFormatter(w io.Writer) *OutputFormatter {
	if w == nil {
		w = os.Stdout
	}

	// Auto-detect color support
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isTerminal(f.Fd()) && !color.NoColor
	}

	return &OutputFormatter{
		useColor: useColor,
		writer:   w,
	}
}

// Handle implements the Handler interface - prints events as they occur
func (f *OutputFormatter) Handle(event Event) {
	output := f.Format(event)
	if output != "" {
		fmt.Fprintln(f.writer, output)
	}
}

// Format converts an event to a human-readable string.
// Events the formatter does not know render as their name and data.
func (f *OutputFormatter) Format(event Event) string {
	latency := f.formatLatency(event.Latency)
	d := event.Data

	switch event.Name {
	case ChainInvoked:
		return fmt.Sprintf("%s %s %s chaining %s and %s (max %d passes)",
			latency,
			f.colorize("===", color.FgYellow),
			d["engine"],
			f.colorizeCount("facts", intOf(d["facts.count"])),
			f.colorizeCount("rules", intOf(d["rules.count"])),
			intOf(d["max.iterations"]))

	case ChainPassBegin:
		return ""

	case ChainPassComplete:
		if msg, ok := d["error"]; ok {
			return fmt.Sprintf("%s %s Pass %d failed: %v",
				latency, f.colorize("✗", color.FgRed), intOf(d["iteration"]), msg)
		}
		return fmt.Sprintf("%s Pass %d added %s and %s",
			latency,
			intOf(d["iteration"]),
			f.colorizeCount("facts", intOf(d["facts.added"])),
			f.colorizeCount("rules", intOf(d["rules.added"])))

	case ChainFixpoint:
		return fmt.Sprintf("%s %s Fixpoint after pass %d",
			latency, f.colorize("✓", color.FgGreen), intOf(d["iteration"]))

	case ChainBoundReached:
		return fmt.Sprintf("%s %s Stopped at the %d pass bound",
			latency, f.colorize("⚠", color.FgYellow), intOf(d["max.iterations"]))

	case ChainComplete:
		if success, _ := d["success"].(bool); !success {
			return fmt.Sprintf("%s %s Chaining failed: %v",
				latency, f.colorize("✗", color.FgRed), d["error"])
		}
		return fmt.Sprintf("%s %s Chaining done in %d passes with %s.",
			latency,
			f.colorize("===", color.FgGreen),
			intOf(d["iterations"]),
			f.colorizeCount("facts", intOf(d["facts.added"])))

	case RuleFired:
		return fmt.Sprintf("%s   %s %s → %s",
			latency,
			f.colorize("Rule", color.FgBlue),
			d["rule"],
			f.colorizeCount("derived", intOf(d["derived.count"])))

	case SkolemMinted:
		return fmt.Sprintf("%s   %s %s for %s",
			latency, f.colorize("Skolem", color.FgMagenta), d["constant"], d["fact"])

	case FactContradiction:
		action := "aborting"
		if discarded, _ := d["discarded"].(bool); discarded {
			action = "discarded"
		}
		return fmt.Sprintf("%s %s %s contradicts %s (%s)",
			latency, f.colorize("✗", color.FgRed), d["fact"], d["existing"], action)

	case QueryInvoked:
		return fmt.Sprintf("%s Query: %s", latency, truncate(fmt.Sprint(d["pattern"])))

	case QueryComplete:
		if success, _ := d["success"].(bool); !success {
			return fmt.Sprintf("%s %s Query failed: %v",
				latency, f.colorize("✗", color.FgRed), d["error"])
		}
		return fmt.Sprintf("%s Query done with %s",
			latency, f.colorizeCount("results", intOf(d["results.count"])))

	case ErrorStore:
		return fmt.Sprintf("%s %s Store %s failed: %v",
			latency, f.colorize("✗", color.FgRed), d["op"], d["error"])

	default:
		return fmt.Sprintf("%s %s %v", latency, event.Name, d)
	}
}

// formatLatency formats a duration with color based on magnitude.
func (f *OutputFormatter) formatLatency(d time.Duration) string {
	// Use microseconds for sub-millisecond durations
	if d < time.Millisecond {
		s := fmt.Sprintf("[%dµs]", d.Microseconds())
		if !f.useColor {
			return s
		}
		return color.GreenString(s)
	}

	ms := float64(d.Microseconds()) / 1000.0
	s := fmt.Sprintf("[%.1fms]", ms)
	if !f.useColor {
		return s
	}

	switch {
	case ms < 50:
		return color.GreenString(s)
	case ms < 200:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

// colorizeCount formats a count with a label, using color based on the label type.
func (f *OutputFormatter) colorizeCount(label string, count int) string {
	text := fmt.Sprintf("%d %s", count, label)

	if !f.useColor {
		return text
	}

	switch strings.ToLower(label) {
	case "facts":
		return color.CyanString(text)
	case "rules":
		return color.MagentaString(text)
	case "derived", "results":
		return color.BlueString(text)
	default:
		return text
	}
}

// colorize applies color if enabled.
func (f *OutputFormatter) colorize(text string, attrs ...color.Attribute) string {
	if !f.useColor {
		return text
	}
	return color.New(attrs...).Sprint(text)
}

func intOf(v interface{}) int {
	n, _ := v.(int)
	return n
}

// truncate shortens long patterns for display.
func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")

	const maxLen = 80
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// ConsoleHandler creates a handler that prints formatted events to stdout.
func ConsoleHandler() Handler {
	return NewOutputFormatter(os.Stdout).Handle
}

// isTerminal checks if the file descriptor is a terminal.
func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
