package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rogersnm/fieldwork/internal/model"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	openStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	inProgStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cancelledSty = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// StatusStyle picks a color for a canonical status code.
func StatusStyle(code string) lipgloss.Style {
	switch strings.ToUpper(code) {
	case model.StatusComplete, model.StatusClosed:
		return doneStyle
	case model.StatusInProgress:
		return inProgStyle
	case model.StatusCancelled:
		return cancelledSty
	default:
		return openStyle
	}
}

func RenderField(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}

func RenderStatus(code string) string {
	return StatusStyle(code).Render(code)
}

func RenderEntityHeader(title string, fields []string) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(title))
	sb.WriteString("\n")
	for _, f := range fields {
		sb.WriteString("  " + f + "\n")
	}
	return sb.String()
}

// RenderChangeResult describes a completed change. trace adds the visited
// protocol states.
func RenderChangeResult(res *model.ChangeResult, trace bool) string {
	var sb strings.Builder
	sb.WriteString(RenderField("Status", RenderStatus(res.Code)))
	if res.Confirmed {
		sb.WriteString(fmt.Sprintf(" (confirmed, via %s)", res.Strategy))
	} else {
		sb.WriteString(" " + warnStyle.Render("(not confirmed: the status could not be read back)"))
	}
	sb.WriteString("\n")
	if trace && len(res.Trace) > 0 {
		states := make([]string, len(res.Trace))
		for i, s := range res.Trace {
			states[i] = string(s)
		}
		sb.WriteString(RenderField("Trace", strings.Join(states, " -> ")) + "\n")
	}
	return sb.String()
}

// RenderWorkOrder prints the header fields and, below them, the long
// description. pretty runs the description through glamour.
func RenderWorkOrder(wo *model.WorkOrder, pretty bool) (string, error) {
	title := wo.WONum
	if wo.Description != "" {
		title += " " + wo.Description
	}
	fields := []string{
		RenderField("Site", wo.SiteID),
		RenderField("Status", RenderStatus(wo.Status)+" "+labelStyle.Render(model.StatusLabel(wo.Status))),
	}
	if !wo.StatusDate.IsZero() {
		fields = append(fields, RenderField("Status date", wo.StatusDate.Format("2006-01-02 15:04")))
	}
	if wo.WorkType != "" {
		fields = append(fields, RenderField("Work type", wo.WorkType))
	}
	if wo.Location != "" {
		fields = append(fields, RenderField("Location", wo.Location))
	}
	if wo.AssetNum != "" {
		fields = append(fields, RenderField("Asset", wo.AssetNum))
	}
	fields = append(fields, RenderField("Href", wo.Href))

	out := RenderEntityHeader(title, fields)
	if wo.LongDescription == "" {
		return out, nil
	}
	if !pretty {
		return out + "\n" + wo.LongDescription + "\n", nil
	}
	body, err := RenderMarkdown(wo.LongDescription)
	if err != nil {
		return "", err
	}
	return out + body, nil
}
