package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/simcheck/internal/fsutil"
)

var seriesColors = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
}

var thresholdColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}

// WritePNG draws every series against the tick index with the threshold as
// a dashed line, and marks each series' worst tick.
func WritePNG(fsys fsutil.FileSystem, path string, d TiltData) error {
	p := plot.New()
	p.Title.Text = d.Title
	p.X.Label.Text = "tick"
	p.Y.Label.Text = "tilting angle [deg]"
	p.X.Min = 0
	p.Y.Min = 0
	p.Add(plotter.NewGrid())

	for i, s := range d.Series {
		pts := make(plotter.XYs, 0, len(s.Angles))
		for tick, a := range s.Angles {
			// plotter rejects non-finite points
			if math.IsNaN(a) || math.IsInf(a, 0) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(tick), Y: a})
		}
		if len(pts) == 0 {
			continue
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("failed to create %s line: %w", s.Name, err)
		}
		line.Color = seriesColors[i%len(seriesColors)]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.Name, line)

		if tick, angle, ok := s.Worst(); ok {
			mark, err := plotter.NewScatter(plotter.XYs{{X: float64(tick), Y: angle}})
			if err != nil {
				return fmt.Errorf("failed to mark %s worst tick: %w", s.Name, err)
			}
			mark.GlyphStyle.Color = line.Color
			mark.GlyphStyle.Shape = draw.CircleGlyph{}
			mark.GlyphStyle.Radius = vg.Points(3)
			p.Add(mark)
		}
	}

	thre := plotter.NewFunction(func(float64) float64 { return d.Threshold })
	thre.Color = thresholdColor
	thre.Width = vg.Points(1)
	thre.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(thre)
	p.Legend.Add(fmt.Sprintf("threshold %.1f", d.Threshold), thre)
	p.Y.Max = math.Max(p.Y.Max, d.Threshold*1.1)
	if n := d.Ticks(); n > 1 {
		p.X.Max = math.Max(p.X.Max, float64(n-1))
	} else {
		p.X.Max = 1
	}

	wt, err := p.WriterTo(10*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}

	f, err := fsutil.CreateWithDirs(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
