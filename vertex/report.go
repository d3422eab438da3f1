package vertex

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/neurogrid/region"
)

// ReportRow is one vertex slice to include in a resource report.
type ReportRow struct {
	Vertex *Vertex
	Slice  region.Slice
}

// ResourceReport renders a table of per-slice resource usage, the form
// in which placement results are usually eyeballed.
func ResourceReport(rows []ReportRow) (string, error) {
	t := table.NewWriter()
	t.SetTitle("Resource usage per slice")
	t.AppendHeader(table.Row{
		"Vertex", "Slice", "CPU cycles", "DTCM (bytes)", "SDRAM (bytes)",
	})

	for _, row := range rows {
		res, err := row.Vertex.ResourcesFor(row.Slice)
		if err != nil {
			return "", err
		}

		t.AppendRow(table.Row{
			row.Vertex.Label,
			fmt.Sprintf("[%d, %d)", row.Slice.Start, row.Slice.Stop),
			res.CPUCycles,
			res.DTCMBytes,
			res.SDRAMBytes,
		})
	}

	return t.Render(), nil
}
