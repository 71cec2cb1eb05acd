package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	stylePass        = lipgloss.NewStyle().Foreground(colorGreen)
	styleFail        = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Plan Summary
// =============================================================================

// printSummary prints the generated plan's key numbers: unit counts per
// type, efficiency, and egress verdicts.
func printSummary(p *plan.FloorPlanData) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)

	fmt.Println(StyleTitle.Render("Floor plan"))
	fmt.Println(keyStyle.Render("units") + " " + StyleValue.Render(fmt.Sprintf("%d", p.Stats.TotalUnits)))
	for _, t := range plan.AllUnitTypes() {
		name := t.String()
		if n, ok := p.Stats.PerTypeCounts[name]; ok && n > 0 {
			fmt.Println(keyStyle.Render("  "+name) + " " +
				StyleValue.Render(fmt.Sprintf("%d", n)) + " " +
				StyleDim.Render(fmt.Sprintf("(%.0f sqm)", p.Stats.PerTypeAreas[name])))
		}
	}
	fmt.Println(keyStyle.Render("cores") + " " + StyleValue.Render(fmt.Sprintf("%d", len(p.Cores))))
	fmt.Println(keyStyle.Render("efficiency") + " " + StyleValue.Render(fmt.Sprintf("%.1f%%", p.Stats.Efficiency*100)))
	fmt.Println(keyStyle.Render("dead end") + " " + egressLine(p.Egress.MaxDeadEnd, p.Egress.DeadEndStatus))
	fmt.Println(keyStyle.Render("travel") + " " + egressLine(p.Egress.MaxTravelDistance, p.Egress.TravelDistanceStatus))

	for _, w := range p.Warnings {
		printWarning("%s", w)
	}
}

func egressLine(dist float64, status plan.EgressStatus) string {
	verdict := stylePass.Render(string(status))
	if status == plan.EgressFail {
		verdict = styleFail.Render(string(status))
	}
	return StyleValue.Render(fmt.Sprintf("%.1f m", dist)) + " " + verdict
}
