package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

const (
	diagramWidth  = 1200
	diagramHeight = 800
	boxWidth      = 220.0
	boxHeight     = 90.0
)

// RenderDiagram draws the component boxes in a grid and connects them with
// straight lines. Layout is deterministic: components keep their slice order.
func (e *FileExporter) RenderDiagram(diagram *contractx.Diagram, outputPath string) error {
	if diagram == nil || len(diagram.Components) == 0 {
		return fmt.Errorf("%w: diagram has no components", contractx.ErrExportFailed)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("%w: create diagram directory: %v", contractx.ErrExportFailed, err)
	}

	dc := gg.NewContext(diagramWidth, diagramHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored(diagram.Type+" diagram", diagramWidth/2, 30, 0.5, 0.5)

	centers := layoutCenters(len(diagram.Components))

	// Connections first so the lines sit under the boxes.
	index := make(map[string]int, len(diagram.Components))
	for i, c := range diagram.Components {
		index[c.Name] = i
	}
	dc.SetRGB(0.45, 0.45, 0.45)
	dc.SetLineWidth(2)
	for i, c := range diagram.Components {
		from := centers[i]
		for _, target := range c.Connections {
			j, ok := index[target]
			if !ok {
				continue
			}
			to := centers[j]
			dc.DrawLine(from[0], from[1], to[0], to[1])
			dc.Stroke()
		}
	}

	for i, c := range diagram.Components {
		x, y := centers[i][0], centers[i][1]
		dc.SetRGB(0.88, 0.93, 1)
		dc.DrawRoundedRectangle(x-boxWidth/2, y-boxHeight/2, boxWidth, boxHeight, 10)
		dc.FillPreserve()
		dc.SetRGB(0.2, 0.35, 0.65)
		dc.SetLineWidth(2)
		dc.Stroke()

		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawStringAnchored(c.Name, x, y-10, 0.5, 0.5)
		dc.SetRGB(0.4, 0.4, 0.4)
		dc.DrawStringAnchored(c.Kind, x, y+14, 0.5, 0.5)
	}

	if err := dc.SavePNG(outputPath); err != nil {
		return fmt.Errorf("%w: save diagram png: %v", contractx.ErrExportFailed, err)
	}
	return nil
}

// layoutCenters spreads n boxes over a near-square grid inside the canvas.
func layoutCenters(n int) [][2]float64 {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	centers := make([][2]float64, n)
	cellW := float64(diagramWidth) / float64(cols)
	cellH := (float64(diagramHeight) - 60) / float64(rows)
	for i := range centers {
		col := i % cols
		row := i / cols
		centers[i] = [2]float64{
			cellW*float64(col) + cellW/2,
			60 + cellH*float64(row) + cellH/2,
		}
	}
	return centers
}
