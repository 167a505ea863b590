package report

import (
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/simcheck/internal/fsutil"
)

// echarts skips "-" values, which stand in for NaN (not valid JSON).
const missingValue = "-"

// WriteHTML renders the tilt trajectories as a self-contained go-echarts
// line chart with a zoom slider.
func WriteHTML(fsys fsutil.FileSystem, path string, d TiltData) error {
	n := d.Ticks()
	ticks := make([]int, n)
	for i := range ticks {
		ticks[i] = i
	}

	subtitle := fmt.Sprintf("threshold %.1f deg", d.Threshold)
	for _, s := range d.Series {
		if tick, angle, ok := s.Worst(); ok {
			subtitle += fmt.Sprintf(" | %s worst %.1f deg @ tick %d", s.Name, angle, tick)
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: d.Title, ChartID: "tilt", Width: "1200px", Height: "520px"}),
		charts.WithTitleOpts(opts.Title{Title: d.Title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "tick", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "tilting angle [deg]", Min: 0}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	line.SetXAxis(ticks)

	for _, s := range d.Series {
		data := make([]opts.LineData, n)
		for i := range data {
			data[i] = opts.LineData{Value: missingValue}
			if i < len(s.Angles) && !math.IsNaN(s.Angles[i]) && !math.IsInf(s.Angles[i], 0) {
				data[i] = opts.LineData{Value: s.Angles[i]}
			}
		}
		line.AddSeries(s.Name, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}

	thre := make([]opts.LineData, n)
	for i := range thre {
		thre[i] = opts.LineData{Value: d.Threshold}
	}
	line.AddSeries("threshold", thre,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed", Color: "#d62728"}),
	)

	f, err := fsutil.CreateWithDirs(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := line.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return f.Close()
}
