package visualization

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cbailey25/Laser-Anaylzer-Tool/internal/models"
	"github.com/cbailey25/Laser-Anaylzer-Tool/pkg/pipedetect"
)

// SaveCrossSectionPNG renders the cross-section to a static image, for
// reports and environments without a browser. Depth grows downward in the
// image, matching how the scene is actually oriented under the camera.
func SaveCrossSectionPNG(path string, points []models.Point3D, det *pipedetect.PipeDetection, title string) error {
	if len(points) == 0 {
		return fmt.Errorf("no points to render")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "z (mm)"

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		// Negate depth so the seabed renders below the pipe.
		xys[i] = plotter.XY{X: pt.X, Y: -pt.Z}
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("error building scatter: %w", err)
	}
	scatter.Radius = vg.Points(1.5)
	p.Add(scatter)
	p.Legend.Add("profile", scatter)

	if det != nil {
		circle := make(plotter.XYs, circleSamples+1)
		for i := 0; i <= circleSamples; i++ {
			phi := 2 * math.Pi * float64(i) / circleSamples
			circle[i] = plotter.XY{
				X: det.CenterX + det.Radius*math.Cos(phi),
				Y: -(det.CenterZ + det.Radius*math.Sin(phi)),
			}
		}

		line, err := plotter.NewLine(circle)
		if err != nil {
			return fmt.Errorf("error building circle overlay: %w", err)
		}
		p.Add(line)
		p.Legend.Add("fitted pipe", line)
	}

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}
