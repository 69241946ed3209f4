// Package export renders rack layout data into printable artifacts. It
// consumes per-component world bounds from the scene core; it never
// reaches into the render registry.
package export

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/rackwise/rackwise/internal/scene"
)

// RackDrawingPDF renders a top-down plan and a front elevation of one
// rack on a single A4 landscape page, annotated with overall dimensions.
func RackDrawingPDF(rack scene.Rack) ([]byte, error) {
	cfg := rack.Config.Normalize()
	instances := scene.Layout(rack.ID, cfg, scene.PalletRand(rack.ID, cfg))

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)

	pageWidth, pageHeight := 297.0, 210.0

	pdf.SetXY(10, 8)
	pdf.CellFormat(pageWidth-20, 8, fmt.Sprintf("%s  -  %d bays x %d levels", rack.Name, cfg.Bays, cfg.Levels), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	pdf.SetXY(10, 16)
	pdf.CellFormat(pageWidth-20, 5,
		fmt.Sprintf("Bay %.2fm x %.2fm, level height %.2fm, total %.2fm x %.2fm",
			cfg.BayWidth, cfg.BayDepth, cfg.LevelHeight, cfg.Width(), cfg.Height()),
		"", 0, "L", false, 0, "")

	// Two stacked views: plan on top, elevation below.
	planArea := viewArea{x: 15, y: 28, w: pageWidth - 30, h: 55}
	elevArea := viewArea{x: 15, y: 95, w: pageWidth - 30, h: pageHeight - 105}

	drawPlan(pdf, planArea, cfg, instances)
	drawElevation(pdf, elevArea, cfg, instances)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type viewArea struct{ x, y, w, h float64 }

// fit computes a uniform meters-to-millimeters scale for a view.
func (a viewArea) fit(spanW, spanH float64) float64 {
	return math.Min(a.w/spanW, a.h/spanH)
}

// drawPlan projects structural members onto the floor plane (X across,
// Z down the page). Pallets and decks are omitted for legibility.
func drawPlan(pdf *gofpdf.Fpdf, area viewArea, cfg scene.RackConfig, instances []scene.Instance) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetXY(area.x, area.y-6)
	pdf.CellFormat(40, 5, "PLAN", "", 0, "L", false, 0, "")

	span := cfg.Width() * 1.1
	spanD := cfg.BayDepth * 1.4
	s := area.fit(span, spanD)
	cx := area.x + area.w/2
	cy := area.y + area.h/2

	pdf.SetDrawColor(60, 60, 60)
	for _, inst := range instances {
		b := scene.BoxBounds(inst.Local, inst.Size)
		switch inst.Kind {
		case scene.KindUpright:
			pdf.SetFillColor(40, 40, 40)
			pdf.Rect(cx+b.Min.X*s, cy+b.Min.Z*s, (b.Max.X-b.Min.X)*s, (b.Max.Z-b.Min.Z)*s, "F")
		case scene.KindConnector:
			pdf.Line(cx+(b.Min.X+b.Max.X)/2*s, cy+b.Min.Z*s, cx+(b.Min.X+b.Max.X)/2*s, cy+b.Max.Z*s)
		case scene.KindBeam:
			pdf.Line(cx+b.Min.X*s, cy+(b.Min.Z+b.Max.Z)/2*s, cx+b.Max.X*s, cy+(b.Min.Z+b.Max.Z)/2*s)
		}
	}
}

// drawElevation projects the front face (X across, Y up the page).
func drawElevation(pdf *gofpdf.Fpdf, area viewArea, cfg scene.RackConfig, instances []scene.Instance) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetXY(area.x, area.y-6)
	pdf.CellFormat(40, 5, "FRONT ELEVATION", "", 0, "L", false, 0, "")

	s := area.fit(cfg.Width()*1.1, cfg.Height()*1.1)
	cx := area.x + area.w/2
	floor := area.y + area.h - 4

	pdf.SetDrawColor(60, 60, 60)
	pdf.Line(area.x, floor, area.x+area.w, floor)

	for _, inst := range instances {
		b := scene.BoxBounds(inst.Local, inst.Size)
		switch inst.Kind {
		case scene.KindUpright:
			if inst.Meta.Side != scene.SideFront {
				continue
			}
			pdf.SetFillColor(40, 40, 40)
			pdf.Rect(cx+b.Min.X*s, floor-b.Max.Y*s, (b.Max.X-b.Min.X)*s, (b.Max.Y-b.Min.Y)*s, "F")
		case scene.KindBeam:
			if inst.Meta.Side != scene.SideFront {
				continue
			}
			pdf.SetFillColor(150, 150, 150)
			pdf.Rect(cx+b.Min.X*s, floor-b.Max.Y*s, (b.Max.X-b.Min.X)*s, (b.Max.Y-b.Min.Y)*s, "FD")
		}
	}
}
