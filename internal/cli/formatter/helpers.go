package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"casedesk/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// StatusPill returns a colored status indicator for a case or assignment
// status string.
func StatusPill(status string) string {
	switch {
	case status == "":
		return StyleDim.Render("--")
	case strings.HasPrefix(status, "New"), strings.HasPrefix(status, "Open"):
		return StyleBlue.Render("○ " + status)
	case strings.HasPrefix(status, "Pending"):
		return StyleYellow.Render("◐ " + status)
	case strings.HasPrefix(status, "Resolved"), strings.HasPrefix(status, "Completed"):
		return StyleGreen.Render("✔ " + status)
	case strings.HasPrefix(status, "Withdrawn"), strings.HasPrefix(status, "Cancelled"):
		return StyleDim.Render("✖ " + status)
	default:
		return StyleFg.Render(status)
	}
}

// StageRail renders the case lifecycle as a one-line rail, marking visited,
// active, and future stages. Alternate stages are shown in purple.
func StageRail(stages []domain.StageInfo) string {
	if len(stages) == 0 {
		return ""
	}
	parts := make([]string, 0, len(stages))
	for _, s := range stages {
		icon, style := stageIcon(s.VisitedStatus)
		if s.Kind == domain.StageAlternate {
			style = StylePurple
		}
		parts = append(parts, style.Render(icon+" "+s.Name))
	}
	return strings.Join(parts, Dim(" ─ "))
}

func stageIcon(visitedStatus string) (string, lipgloss.Style) {
	switch strings.ToLower(visitedStatus) {
	case "completed", "visited":
		return "✔", StyleGreen
	case "active", "current":
		return "●", StyleHeader
	default:
		return "○", StyleDim
	}
}

// StepIndicator renders a navigation step with its visited marker.
func StepIndicator(step domain.NavigationStep, active bool) string {
	icon, style := stageIcon(step.VisitedStatus)
	if active {
		style = StyleHeader
	}
	return style.Render(icon + " " + step.Name)
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	now := time.Now()
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()

	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return HumanDate(t)
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return HumanDate(t)
	}
}

// PlatformTime parses the wire timestamp format used by the platform
// (RFC3339 or the compact GMT form) and falls back to the raw string.
func PlatformTime(s string) string {
	if s == "" {
		return Dim("--")
	}
	for _, layout := range []string{time.RFC3339, "20060102T150405.000 GMT", "2006-01-02T15:04:05.000Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return HumanTimestamp(t)
		}
	}
	return s
}

// TruncID shortens long case handles for list rendering, keeping the tail
// where the sequence number lives.
func TruncID(id string) string {
	if len(id) > 24 {
		id = "…" + id[len(id)-23:]
	}
	return StyleDim.Render(id)
}

// Amount formats a monetary value with its currency code.
func Amount(v float64, currency string) string {
	s := fmt.Sprintf("%.2f", v)
	if currency != "" {
		s += " " + currency
	}
	if v < 0 {
		return StyleRed.Render(s)
	}
	return StyleFg.Render(s)
}
