package markdown

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rogersnm/fieldwork/internal/model"
)

var (
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle      = lipgloss.NewStyle()
	currentStyle   = lipgloss.NewStyle().Bold(true)
)

// RenderStatusTable lists options in the order given, marking the one that
// matches current.
func RenderStatusTable(opts []model.StatusOption, current string) string {
	if len(opts) == 0 {
		return "No statuses found."
	}
	cur := model.CurrentIndex(opts, current)
	rows := make([][]string, len(opts))
	for i, o := range opts {
		mark := ""
		if i == cur {
			mark = "*"
		}
		rows[i] = []string{mark, o.Value, RenderStatus(o.Code), o.Label}
	}
	return renderTable([]string{"", "Value", "Code", "Label"}, rows, func(row int) bool { return row == cur })
}

func RenderDocLinkTable(links []model.DocLink) string {
	if len(links) == 0 {
		return "No attachments found."
	}
	rows := make([][]string, len(links))
	for i, l := range links {
		rows[i] = []string{l.Title, l.FileName, l.Format, l.Href}
	}
	return renderTable([]string{"Title", "File", "Format", "Href"}, rows, nil)
}

func renderTable(headers []string, rows [][]string, highlight func(row int) bool) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerRowStyle
			}
			if highlight != nil && highlight(row) {
				return currentStyle
			}
			return cellStyle
		})
	return t.Render()
}
