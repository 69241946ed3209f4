package export

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelConfig holds the grid layout for a component label sheet.
type LabelConfig struct {
	Cols       int     `json:"cols"`
	Rows       int     `json:"rows"`
	MarginTop  float64 `json:"marginTop"`
	MarginLeft float64 `json:"marginLeft"`
	GapX       float64 `json:"gapX"`
	GapY       float64 `json:"gapY"`
}

// DefaultLabelConfig is a 3x8 sheet on A4 with cutting gaps.
func DefaultLabelConfig() LabelConfig {
	return LabelConfig{Cols: 3, Rows: 8, MarginTop: 10, MarginLeft: 8, GapX: 3, GapY: 3}
}

// ComponentLabelsPDF creates a printable QR label sheet, one label per
// componentId. Scanning the QR in the field resolves straight to the
// component's maintenance history.
func ComponentLabelsPDF(componentIDs []string, cfg LabelConfig) ([]byte, error) {
	if cfg.Cols < 1 || cfg.Rows < 1 {
		cfg = DefaultLabelConfig()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Arial", "B", 10)

	pageWidth, pageHeight := 210.0, 297.0

	totalGapX := float64(cfg.Cols-1) * cfg.GapX
	totalGapY := float64(cfg.Rows-1) * cfg.GapY
	availW := pageWidth - (cfg.MarginLeft * 2)
	availH := pageHeight - (cfg.MarginTop * 2)
	labelW := (availW - totalGapX) / float64(cfg.Cols)
	labelH := (availH - totalGapY) / float64(cfg.Rows)

	labelsPerPage := cfg.Cols * cfg.Rows

	for i, componentID := range componentIDs {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		indexOnPage := i % labelsPerPage
		col := indexOnPage % cfg.Cols
		row := indexOnPage / cfg.Cols

		x := cfg.MarginLeft + float64(col)*(labelW+cfg.GapX)
		y := cfg.MarginTop + float64(row)*(labelH+cfg.GapY)

		qrPng, err := qrcode.Encode(componentID, qrcode.Medium, 256)
		if err != nil {
			return nil, err
		}

		imgName := "qr_" + componentID
		imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		_ = pdf.RegisterImageOptionsReader(imgName, imgOptions, bytes.NewReader(qrPng))

		qrSize := labelH * 0.7
		if qrSize > labelW {
			qrSize = labelW * 0.9
		}
		qrX := x + (labelW-qrSize)/2
		qrY := y + (labelH-qrSize)/2 - 2

		pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, imgOptions, 0, "")

		// Component id below the code, truncated to the suffix that
		// matters on the floor (kind + indices).
		text := componentID
		if len(text) > 40 {
			text = "..." + text[len(text)-37:]
		}
		pdf.SetXY(x, y+labelH-5)
		pdf.SetFontSize(6)
		pdf.CellFormat(labelW, 4, text, "", 0, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
