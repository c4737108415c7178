package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"IndexTracker/internal/exporter"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Report is what a finished run hands to the notifiers.
type Report struct {
	Table      exporter.Table
	Missing    []string
	OutputPath string
	Bytes      int
	At         time.Time
}

// FormatTable renders rows as a boxed text table. Numeric columns are right-aligned.
func FormatTable(columns []string, rows []exporter.Row) string {
	tw := table.NewWriter()
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, 0, len(columns))
	for i, c := range columns {
		header[i] = c
		if c != exporter.ColLabel {
			configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, r := range rows {
		cells := make(table.Row, len(columns))
		for i, c := range columns {
			cells[i] = r.Cell(c)
		}
		tw.AppendRow(cells)
	}
	return tw.Render() + "\n"
}

// FormatConsoleReport prints where the export went and a validation sample:
// the first calendar month and the last three.
func FormatConsoleReport(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File written: %s (%s)\n", r.OutputPath, humanize.Bytes(uint64(r.Bytes)))
	fmt.Fprintf(&b, "Records: %d\n", len(r.Table.Rows))
	fmt.Fprintf(&b, "Indicators: %s\n", strings.Join(r.Table.Indicators(), ", "))
	if len(r.Missing) > 0 {
		fmt.Fprintf(&b, "Missing: %s\n", strings.Join(r.Missing, ", "))
	}

	b.WriteString("\n--- First month ---\n")
	b.WriteString(FormatTable(r.Table.Columns, r.Table.Head(1)))
	b.WriteString("\n--- Last 3 months (current included) ---\n")
	b.WriteString(FormatTable(r.Table.Columns, r.Table.Tail(3)))
	return b.String()
}

// FormatRunSummary formats the run outcome as a Telegram HTML message.
func FormatRunSummary(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>Índices acumulados</b> | %s\n\n", r.At.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Registros: %d\n", len(r.Table.Rows))
	fmt.Fprintf(&b, "Índices: %s\n", html.EscapeString(strings.Join(r.Table.Indicators(), ", ")))
	if len(r.Missing) > 0 {
		fmt.Fprintf(&b, "⚠️ Sem dados: %s\n", html.EscapeString(strings.Join(r.Missing, ", ")))
	}
	if len(r.Table.Rows) > 1 {
		// the last row is always 0 for forward sums, the previous one is more telling
		prev := r.Table.Tail(2)[0]
		fmt.Fprintf(&b, "\n<pre>%s</pre>", html.EscapeString(FormatTable(r.Table.Columns, []exporter.Row{prev})))
	}
	return b.String()
}

// FormatFailure formats a failed run as a Telegram HTML message.
func FormatFailure(err error, at time.Time) string {
	return fmt.Sprintf("❌ <b>Índices acumulados</b> | %s\n\nFalha na exportação: %s",
		at.Format("2006-01-02 15:04"), html.EscapeString(err.Error()))
}
