package processor

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"codeberg.org/snonux/hyphipa/internal/language"
)

func (p *Processor) printSummary(inputFile, outputFile string, lines int) {
	writeSummary(p.config.Summary, inputFile, outputFile, p.config.Language, lines, p.stats.Counts())
}

func writeSummary(w io.Writer, inputFile, outputFile, lang string, lines int, c Counts) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Metric", "Value"})

	if lang != "" {
		tw.AppendRow(table.Row{"Language", fmt.Sprintf("%s (%s)", language.DisplayName(lang), lang)})
	}
	tw.AppendRow(table.Row{"Input", inputFile})
	tw.AppendRow(table.Row{"Output", outputFile})
	tw.AppendRow(table.Row{"Words", humanize.Comma(c.Words)})
	tw.AppendRow(table.Row{"Lines written", humanize.Comma(int64(lines))})
	tw.AppendRow(table.Row{"Skipped lines", humanize.Comma(c.Skipped)})
	tw.AppendRow(table.Row{"Cache hits", humanize.Comma(c.CacheHits)})
	tw.AppendRow(table.Row{"Cache misses", humanize.Comma(c.CacheMisses)})
	tw.AppendRow(table.Row{"Ties", fmt.Sprintf("%s (%.2f%%)", humanize.Comma(c.Ties), c.TiePercent())})
	tw.AppendRow(table.Row{"Placeholders", humanize.Comma(c.Placeholders)})
	tw.AppendRow(table.Row{"Fallbacks", humanize.Comma(c.Fallbacks)})
	tw.AppendRow(table.Row{"Alignment fallbacks", humanize.Comma(c.AlignmentFallbacks)})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	fmt.Fprintf(w, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintln(w, tw.Render())
}
