package renderer

import (
	"bytes"
	"fmt"

	"github.com/khsu/riskfolio"
	"github.com/khsu/riskfolio/date"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the normalized balance series of an account as a
// markdown table.
func HistoryMarkdown(account, currency string, series date.History[float64]) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Balance History for %s", account))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Date", "Balance"},
		Rows:      [][]string{},
	}
	for on, v := range series.Values() {
		table.Rows = append(table.Rows, []string{
			on.String(),
			riskfolio.M(v, currency).String(),
		})
	}
	doc.Table(table)

	return doc.String()
}
