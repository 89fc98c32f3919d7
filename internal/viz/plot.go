package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/catchsim/internal/dataset"
)

// DefaultPlotColumns are charted by PlotColumns when none are given.
var DefaultPlotColumns = []string{"train_position", "falling_object_position", "applied_force", "train_velocity"}

// PlotColumns renders one asciigraph chart per column, separated by blank
// lines. Legacy tables only carry the four shared columns.
func PlotColumns(table *dataset.Table, columns []string, width, height int) (string, error) {
	if table.Len() == 0 {
		return "", fmt.Errorf("no data to plot")
	}
	if len(columns) == 0 {
		columns = DefaultPlotColumns
		if table.Kind == dataset.Legacy {
			columns = columns[:3]
		}
	}

	var b strings.Builder
	for _, name := range columns {
		data, err := table.Column(name)
		if err != nil {
			return "", err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(fmt.Sprintf("%s vs time (%.2fs)", name, table.Records[table.Len()-1].Time)),
		)
		b.WriteString(graph)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

// PlotTracking charts the train position against the constant ball x.
func PlotTracking(table *dataset.Table, ballX float64, width, height int) string {
	pos, _ := table.Column("train_position")
	target := make([]float64, len(pos))
	for i := range target {
		target[i] = ballX
	}
	return asciigraph.PlotMany([][]float64{pos, target},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.Caption("train position vs ball x"),
	)
}
