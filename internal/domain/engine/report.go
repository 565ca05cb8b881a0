package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/meferspb/erpnext-debian13-install/internal/domain/step"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// RenderReport formats the run summary for the console. credentialsPath
// points the operator at the summary file; it is empty when no secrets
// were written.
func RenderReport(report RunReport, credentialsPath string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Installation summary"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("run %s, mode %s, %s", report.RunID, report.Mode, report.Duration.Round(time.Second))))
	b.WriteString("\n\n")

	for _, r := range report.Results {
		var mark string
		switch r.Status {
		case step.StatusDone:
			mark = doneStyle.Render("done   ")
		case step.StatusSkipped:
			mark = skippedStyle.Render("skipped")
		case step.StatusFailed:
			mark = failedStyle.Render("failed ")
		default:
			mark = dimStyle.Render(string(r.Status))
		}
		fmt.Fprintf(&b, "  %s  %s\n", mark, r.Title)
	}

	done, skipped, failed := report.Counts()
	fmt.Fprintf(&b, "\n%d done, %d skipped, %d failed\n", done, skipped, failed)

	if len(report.Recoverables) > 0 {
		b.WriteString(warnStyle.Render("\nNon-fatal failures:"))
		b.WriteString("\n")
		for _, r := range report.Recoverables {
			fmt.Fprintf(&b, "  - %s: %v\n", r.Title, r.Err)
		}
	}

	if report.RolledBack {
		b.WriteString(warnStyle.Render("\nCompleted steps were rolled back:"))
		b.WriteString("\n")
		for _, u := range report.UndoResults {
			switch {
			case u.Skipped:
				fmt.Fprintf(&b, "  - %s: no undo action\n", u.ID.String())
			case u.Err != nil:
				fmt.Fprintf(&b, "  - %s: undo failed: %v\n", u.ID.String(), u.Err)
			default:
				fmt.Fprintf(&b, "  - %s: undone\n", u.ID.String())
			}
		}
	}

	if credentialsPath != "" && report.FinalState == StateCompleted {
		fmt.Fprintf(&b, "\nCredentials written to %s (owner-only access).\n", credentialsPath)
	}

	return b.String()
}
