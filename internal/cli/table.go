package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ressKim-io/NewsMind/api-service/internal/usecase"
)

const (
	headlineColumnWidth = 72
	resultColumnWidth   = 40
)

// renderFeed prints feed classifications as a table, or the warning when
// the feed could not be read
func renderFeed(w io.Writer, output *usecase.FeedOutput) {
	if output.Warning != "" {
		fmt.Fprintln(w, output.Warning)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMax: headlineColumnWidth},
		{Number: 3, WidthMax: resultColumnWidth},
	})
	if output.Title != "" {
		t.SetTitle(output.Title)
	}

	t.AppendHeader(table.Row{"#", "Headline", "Leaning"})
	counts := make(map[string]int)
	for i, item := range output.Items {
		t.AppendRow(table.Row{i + 1, item.Title, item.Result.Result})
		if item.Result.Category != "" {
			counts[item.Result.Category]++
		}
	}
	t.AppendFooter(table.Row{
		"",
		fmt.Sprintf("%d headlines", len(output.Items)),
		fmt.Sprintf("L %d / C %d / R %d", counts["left"], counts["center"], counts["right"]),
	})
	t.Render()
}
