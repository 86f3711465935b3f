package output

import (
	"fmt"
	"math"
	"strings"
)

// ScoreBar renders a visual progress bar for a 0-100 score.
// Example: "████████░░ 80/100"
func ScoreBar(score int, width int) string {
	if width <= 0 {
		width = 20
	}
	score = min(max(score, 0), 100)
	bar := bar(float64(score), width)

	var style func(string) string
	switch {
	case score >= 80:
		style = func(s string) string { return StyleSuccess.Render(s) }
	case score >= 50:
		style = func(s string) string { return StyleWarning.Render(s) }
	default:
		style = func(s string) string { return StyleError.Render(s) }
	}

	return fmt.Sprintf("%s %s", style(bar), StyleMuted.Render(fmt.Sprintf("%d/100", score)))
}

// ProgressBar renders a neutral bar for a 0-100 percentage followed by
// the percentage.
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		width = 20
	}
	if math.IsNaN(percent) {
		percent = 0
	}
	return fmt.Sprintf("%s %s", StyleHeader.Render(bar(percent, width)),
		StyleMuted.Render(fmt.Sprintf("%3.0f%%", percent)))
}

// bar is the raw filled/empty run for a 0-100 value.
func bar(value float64, width int) string {
	filled := int((value / 100.0) * float64(width))
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a single line of block glyphs scaled to the
// largest value. An all-zero series renders as the lowest glyph.
func Sparkline[N int | float64](values []N) string {
	var peak N
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}

	var sb strings.Builder
	for _, v := range values {
		idx := 0
		if peak > 0 && v > 0 {
			idx = int(math.Round(float64(v) / float64(peak) * float64(len(sparkLevels)-1)))
		}
		sb.WriteRune(sparkLevels[max(0, min(idx, len(sparkLevels)-1))])
	}
	return sb.String()
}

// Minutes formats a minute count as "1h 15m", "45m", or "0m".
func Minutes(m int) string {
	if m < 0 {
		m = 0
	}
	h, rem := m/60, m%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", rem)
	case rem == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, rem)
	}
}

// Money formats an amount with two decimals and a sign for negatives.
func Money(amount float64) string {
	if amount < 0 {
		return fmt.Sprintf("-$%.2f", -amount)
	}
	return fmt.Sprintf("$%.2f", amount)
}

// Check renders a met/unmet marker.
func Check(ok bool) string {
	if ok {
		return StyleSuccess.Render("✓")
	}
	return StyleMuted.Render("·")
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// KeyValue renders a label/value line indented under a section.
func KeyValue(label, value string) string {
	return fmt.Sprintf(" %s %s", StyleLabel.Render(label), value)
}
