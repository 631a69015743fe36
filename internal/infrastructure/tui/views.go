package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/aimodel"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/live"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/session"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/tolerance"
)

// renderCards draws the tolerance control center for p.
func renderCards(p tolerance.Profile) string {
	cards := tolerance.Cards(p)
	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		rendered = append(rendered, cardStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left, cardTitle.Render(c.Title), cardValue.Render(c.Label)),
		))
	}

	grid := mutedStyle.Render("No tolerances defined")
	if len(rendered) > 0 {
		grid = lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	}

	// Editing and import are not available in this client.
	actions := lipgloss.JoinHorizontal(lipgloss.Top,
		disabledStyle.Render("Import TAB Spec (PDF)"),
		disabledStyle.Render("Edit Profile"),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render("Tolerance Control Center"),
		"Profile: "+p.Name,
		grid,
		actions,
	)
}

// renderModels lists the registry with the cursor and current selection marked.
func renderModels(reg *aimodel.Registry, current aimodel.Model, cursor int, focused bool) string {
	var b strings.Builder
	for i, m := range reg.All() {
		pointer := "  "
		if focused && i == cursor {
			pointer = "> "
		}
		line := m.Name
		if m.ID == current.ID {
			line = selectedStyle.Render("● " + m.Name)
		} else {
			line = "○ " + line
		}
		b.WriteString(pointer + line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderReview draws the drop zone status plus either the findings or the error banner.
func renderReview(r *session.Review, spinnerView string) string {
	var status string
	switch {
	case r.Processing() && r.File != nil:
		status = statusWIP.Render(fmt.Sprintf("%s Processing: %s...", spinnerView, r.File.Name))
	case r.File != nil:
		status = fmt.Sprintf("File ready for review: %s", r.File.Name)
	default:
		status = "Drag & Drop a PDF or Excel Report Here"
	}

	parts := []string{status}
	switch {
	case r.Processing():
	case r.Error != "":
		parts = append(parts, errorStyle.Render(lipgloss.JoinVertical(lipgloss.Left, headingStyle.Render("Error"), r.Error)))
	case r.Result != nil:
		parts = append(parts, renderFindings(r))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderFindings(r *session.Review) string {
	lines := []string{headingStyle.Render("Review Findings")}
	if len(r.Result.Findings) == 0 {
		lines = append(lines, statusOK.Render("No issues found."))
	}
	for _, f := range r.Result.Findings {
		lines = append(lines, "• "+f.String())
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderConnection is the header indicator for the live channel.
func renderConnection(state live.ConnState) string {
	switch state {
	case live.Connected:
		return statusOK.Render("● live")
	case live.Connecting:
		return statusWIP.Render("● connecting")
	default:
		return statusErr.Render("● offline")
	}
}

// renderNotice describes the last profile update pushed by the server.
func renderNotice(n *session.ProfileNotice) string {
	if n == nil {
		return ""
	}
	text := fmt.Sprintf("Profile %q was updated on the server", n.Name)
	if n.Applied {
		text += " and reloaded"
	} else {
		text += "; the active profile is unchanged"
	}
	return noticeStyle.Render(text + " · esc to dismiss")
}
