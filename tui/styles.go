package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lukemcguire/zombiecheck/result"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	successStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	cellStyle     = lipgloss.NewStyle()
	messageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// attentionOrder lists the categories shown as tables, most actionable first.
var attentionOrder = []result.Category{
	result.CategoryInvalid,
	result.CategoryRedirect,
	result.CategoryError,
}

// RenderSummary produces a Lip Gloss styled summary of run results. Valid
// entries are counted but not listed.
func RenderSummary(res *result.Result) string {
	if res == nil {
		return errorStyle.Render("No results available.")
	}

	var builder strings.Builder
	elapsed := res.Stats.Duration.Round(time.Millisecond)

	attention := 0
	for _, cat := range attentionOrder {
		attention += res.Buckets.Count(cat)
	}
	if attention == 0 {
		builder.WriteString(successStyle.Render("All platforms look alive!"))
		builder.WriteString("\n")
		builder.WriteString(dimStyle.Render(fmt.Sprintf("Checked %d platforms in %s", res.Stats.Total, elapsed)))
		builder.WriteString("\n")
		return builder.String()
	}

	for _, cat := range attentionOrder {
		entries := res.Buckets[cat]
		if len(entries) == 0 {
			continue
		}

		builder.WriteString(categoryStyle.Render(fmt.Sprintf("## %s (%d)", result.FormatCategory(cat), len(entries))))
		builder.WriteString("\n")

		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{strconv.Itoa(e.Index), e.Name, e.URL, e.Message})
		}

		catTable := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("#", "Platform", "URL", "Detail").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == 3 {
					return messageStyle
				}
				return cellStyle
			}).
			Rows(rows...)

		builder.WriteString(catTable.Render())
		builder.WriteString("\n\n")
	}

	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"%d of %d platforms need attention (%d valid, %s)",
		attention,
		res.Stats.Total,
		res.Buckets.Count(result.CategoryValid),
		elapsed,
	)))
	builder.WriteString("\n")

	return builder.String()
}
