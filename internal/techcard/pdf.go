// Package techcard renders a nesting Result as a printable work order: one
// page per sheet with a to-scale cut layout and a QR-coded label on each
// placed part large enough to hold one, followed by a summary page with the
// tech card totals.
package techcard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/nestcore/internal/engine"
	"github.com/piwi3910/nestcore/internal/part"
)

type partColor struct{ R, G, B int }

var partColors = []partColor{
	{R: 76, G: 175, B: 80},
	{R: 33, G: 150, B: 243},
	{R: 255, G: 152, B: 0},
	{R: 156, G: 39, B: 176},
	{R: 0, G: 188, B: 212},
	{R: 244, G: 67, B: 54},
	{R: 255, G: 235, B: 59},
	{R: 121, G: 85, B: 72},
}

const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0

	qrSize    = 12.0
	qrPadding = 1.5
)

// labelPayload is the JSON body encoded into each placed part's QR code.
type labelPayload struct {
	PartID     int     `json:"part_id"`
	SheetIndex int     `json:"sheet"`
	X          float64 `json:"x_mm"`
	Y          float64 `json:"y_mm"`
	AngleDeg   float64 `json:"angle_deg"`
}

// RenderPDF writes a work order for res to path: one landscape A4 page per
// sheet followed by a summary page built from
// BuildTechCard(res, cuttingSpeedMmPerSec).
func RenderPDF(path string, res engine.Result, cuttingSpeedMmPerSec float64) error {
	if len(res.Sheets) == 0 {
		return fmt.Errorf("no sheets to render")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, sh := range res.Sheets {
		pdf.AddPage()
		if err := renderSheetPage(pdf, sh, i+1); err != nil {
			return fmt.Errorf("sheet %d: %w", i+1, err)
		}
	}

	pdf.AddPage()
	renderSummaryPage(pdf, res, engine.BuildTechCard(res, cuttingSpeedMmPerSec))

	return pdf.OutputFileAndClose(path)
}

func renderSheetPage(pdf *fpdf.Fpdf, sh engine.SheetResult, sheetNum int) error {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Sheet %d (%.0f x %.0f mm)", sheetNum, sh.Width, sh.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Parts: %d | Used area: %.0f mm² | Utilization: %.1f%%",
		len(sh.Placed), sh.PlacedArea(), sh.Utilization()*100)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom

	scale := math.Min(drawWidth/sh.Width, drawHeight/sh.Height)
	canvasW := sh.Width * scale
	canvasH := sh.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, p := range sh.Placed {
		col := partColors[i%len(partColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)

		pts := make([]fpdf.PointType, len(p.Shape.Verts))
		for j, v := range p.Shape.Verts {
			pts[j] = fpdf.PointType{X: offsetX + v.X*scale, Y: offsetY + v.Y*scale}
		}
		pdf.Polygon(pts, "FD")

		bb := p.Shape.BoundingBox()
		px := offsetX + bb.X*scale
		py := offsetY + bb.Y*scale
		pw := bb.W * scale
		ph := bb.H * scale

		if pw > 14 && ph > 7 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			label := fmt.Sprintf("#%d", p.PartID)
			labelW := pdf.GetStringWidth(label)
			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+2)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
		}

		if pw > qrSize+2*qrPadding && ph > qrSize+2*qrPadding {
			if err := drawPartQR(pdf, p, sheetNum, px+qrPadding, py+ph-qrSize-qrPadding); err != nil {
				return err
			}
		}
	}

	return nil
}

// drawPartQR embeds a QR code encoding p's placement metadata at (x, y).
func drawPartQR(pdf *fpdf.Fpdf, p part.Placed, sheetNum int, x, y float64) error {
	payload := labelPayload{PartID: p.PartID, SheetIndex: sheetNum, X: p.Pos.X, Y: p.Pos.Y, AngleDeg: p.Angle}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal label payload: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_s%d_p%d", sheetNum, p.PartID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(imgName, x, y, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

func renderSummaryPage(pdf *fpdf.Fpdf, res engine.Result, tc engine.TechCard) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Nesting Work Order Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Tech Card", "", 0, "L", false, 0, "")
	y += 9

	items := []struct{ label, value string }{
		{"Sheets Used", fmt.Sprintf("%d", tc.SheetsUsed)},
		{"Parts Placed / Total", fmt.Sprintf("%d / %d", tc.PartsPlaced, tc.PartsTotal)},
		{"Material Used Area", fmt.Sprintf("%.0f mm²", tc.MaterialUsedArea)},
		{"Material Waste Area", fmt.Sprintf("%.0f mm²", tc.MaterialWasteArea)},
		{"Total Cut Length", fmt.Sprintf("%.0f mm", tc.TotalCutLengthMm)},
		{"Estimated Cut Time", fmt.Sprintf("%.1f s", tc.EstimatedCutTimeSec)},
		{"Mode Used", res.ModeUsed.String()},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(70, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	if len(res.Diagnostics) > 0 {
		y += 6
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "Diagnostics", "", 0, "L", false, 0, "")
		y += 7
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, d := range res.Diagnostics {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, "- "+d, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by nestcore", "", 0, "C", false, 0, "")
}
