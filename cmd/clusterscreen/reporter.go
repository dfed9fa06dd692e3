package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/screenlab/clusterscreen/internal/orchestration"
)

// countPrinter formats sample counts with locale-aware separators.
var countPrinter = message.NewPrinter(language.English)

// formatDuration formats a duration in a consistent, human-readable way.
// This ensures stable output regardless of Go version changes.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// truncateName shortens a name to maxLen runes, replacing the last rune with "…" if needed.
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// terminalWidth returns the display width of stdout, or a default when
// stdout is not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 100
}

// formatParams renders a parameter tuple with stable key order.
func formatParams(params map[string]float64) string {
	if len(params) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, formatValue(params[k])))
	}
	return strings.Join(parts, " ")
}

// formatValue drops trailing zeros from grid values so integer-valued
// parameters read as integers.
func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e9 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.4g", v)
}

// formatMetric renders a metric value, showing undefined ones explicitly.
func formatMetric(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}

// progressReporter returns a listener that narrates the run.
func progressReporter(w io.Writer) orchestration.ProgressListener {
	return func(e orchestration.ProgressEvent) {
		switch e.EventType {
		case orchestration.EventSuiteStart:
			fmt.Fprintf(w, "Sweeping %d detector(s)...\n", e.TotalDetectors)
		case orchestration.EventDetectorStart:
			fmt.Fprintf(w, "[%d/%d] %s...\n", e.DetectorNum, e.TotalDetectors, e.Detector)
		case orchestration.EventDetectorComplete:
			fmt.Fprintf(w, "[%d/%d] %s: combined %.3f (%s)\n",
				e.DetectorNum, e.TotalDetectors, e.Detector, e.Combined,
				formatDuration(time.Duration(e.DurationMs)*time.Millisecond))
		case orchestration.EventDetectorFailed:
			fmt.Fprintf(w, "[%d/%d] %s: %v\n", e.DetectorNum, e.TotalDetectors, e.Detector, e.Err)
		}
	}
}

// PrintSuiteOutcome writes the human-readable results table.
func PrintSuiteOutcome(w io.Writer, outcome *orchestration.SuiteOutcome) {
	fmt.Fprintf(w, "\nSuite: %s\n", outcome.SuiteName)
	fmt.Fprintf(w, "Dataset: %s (%s samples, %d features, %s positive)\n",
		outcome.Dataset.Path,
		countPrinter.Sprintf("%d", outcome.Dataset.Samples),
		outcome.Dataset.Features,
		countPrinter.Sprintf("%d", outcome.Dataset.Positives))
	if outcome.Dataset.ReducedFeatures > 0 {
		fmt.Fprintf(w, "Projection: %d principal component(s)\n", outcome.Dataset.ReducedFeatures)
	}
	fmt.Fprintf(w, "Duration: %s\n\n", formatDuration(time.Duration(outcome.DurationMs)*time.Millisecond))

	nameWidth := len("Detector")
	paramsWidth := len("Best Params")
	for _, d := range outcome.Detectors {
		name := truncateName(d.Name, 24)
		if w := runewidth.StringWidth(name); w > nameWidth {
			nameWidth = w
		}
		if d.Result != nil {
			if w := runewidth.StringWidth(formatParams(d.Result.Params)); w > paramsWidth {
				paramsWidth = w
			}
		}
	}

	fmt.Fprintf(w, "%s  %s  %5s  %5s  %5s  %8s  %s\n",
		padRight("Detector", nameWidth), padRight("Best Params", paramsWidth),
		"Sens", "Spec", "Prec", "Combined", "Accuracy CI")
	fmt.Fprintln(w, strings.Repeat("-", min(terminalWidth(), nameWidth+paramsWidth+50)))

	for _, d := range outcome.Detectors {
		name := padRight(truncateName(d.Name, 24), nameWidth)
		if d.Result == nil {
			fmt.Fprintf(w, "%s  %s\n", name, d.Error)
			continue
		}
		ci := "-"
		if d.CI != nil {
			ci = fmt.Sprintf("%.3f [%.3f, %.3f]", d.CI.Mean, d.CI.Lower, d.CI.Upper)
		}
		m := d.Result.Metrics
		fmt.Fprintf(w, "%s  %s  %5s  %5s  %5s  %8s  %s\n",
			name,
			padRight(formatParams(d.Result.Params), paramsWidth),
			formatMetric(m.Sensitivity), formatMetric(m.Specificity),
			formatMetric(m.Precision), formatMetric(m.Combined), ci)
	}

	if n := outcome.Failures(); n > 0 {
		fmt.Fprintf(w, "\n[WARN] %d detector(s) produced no valid configuration\n", n)
	}
}
