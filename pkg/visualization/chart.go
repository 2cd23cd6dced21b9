// Package visualization renders decoded profile cross-sections and pipe
// fits to standalone HTML charts and static PNG images. It consumes the
// core's outputs only; the interactive display layer lives elsewhere.
package visualization

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/cbailey25/Laser-Anaylzer-Tool/internal/models"
	"github.com/cbailey25/Laser-Anaylzer-Tool/pkg/pipedetect"
)

// circleSamples is the number of vertices used to draw a fitted circle.
const circleSamples = 120

// RenderCrossSection writes an HTML scatter chart of a profile's
// cross-section (x versus depth z) to w. When a detection is supplied its
// fitted circle is overlaid as a closed line so the fit can be judged
// against the raw points.
func RenderCrossSection(w io.Writer, points []models.Point3D, det *pipedetect.PipeDetection, title string) error {
	if len(points) == 0 {
		return fmt.Errorf("no points to render")
	}

	data := make([]opts.ScatterData, 0, len(points))
	minX, maxX := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		data = append(data, opts.ScatterData{Value: []interface{}{p.X, p.Z}})
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minZ = math.Min(minZ, p.Z)
		maxZ = math.Max(maxZ, p.Z)
	}

	// Pad the axes a little so edge points stay visible.
	padX := (maxX - minX) * 0.05
	padZ := (maxZ - minZ) * 0.05
	if padX == 0 {
		padX = 1
	}
	if padZ == 0 {
		padZ = 1
	}

	subtitle := fmt.Sprintf("points=%d", len(points))
	if det != nil {
		subtitle = fmt.Sprintf("points=%d diameter=%.1fmm rms=%.2fmm", len(points), det.Diameter, det.RMS)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: minX - padX, Max: maxX + padX, Name: "x (mm)"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: minZ - padZ, Max: maxZ + padZ, Name: "z (mm)"}),
	)
	scatter.AddSeries("profile", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	if det != nil {
		circle := make([]opts.LineData, 0, circleSamples+1)
		for i := 0; i <= circleSamples; i++ {
			phi := 2 * math.Pi * float64(i) / circleSamples
			circle = append(circle, opts.LineData{Value: []interface{}{
				det.CenterX + det.Radius*math.Cos(phi),
				det.CenterZ + det.Radius*math.Sin(phi),
			}})
		}

		line := charts.NewLine()
		line.AddSeries("fitted pipe", circle)
		scatter.Overlap(line)
	}

	return scatter.Render(w)
}

// SaveCrossSectionHTML renders the cross-section chart to an HTML file.
func SaveCrossSectionHTML(path string, points []models.Point3D, det *pipedetect.PipeDetection, title string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return RenderCrossSection(file, points, det, title)
}
