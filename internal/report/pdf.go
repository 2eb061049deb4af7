package report

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jung-kurt/gofpdf"

	"github.com/parikshit-sat/cansat-ground/internal/mission"
)

const (
	pdfLineHeight   = 6
	pdfHeaderHeight = 10
)

// WritePDF renders the report as a single page A4 PDF at path. An
// optional chart image (PNG) is embedded below the flight section when
// chartPath is not empty.
func WritePDF(path string, r Report, chartPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, pdfHeaderHeight, "CanSat Mission Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, pdfLineHeight, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, pdfLineHeight, value, "", 1, "L", false, 0, "")
	}

	if m := r.Mission; m != nil {
		row("Mission", m.RunID)
		row("Source", fmt.Sprintf("%s (%s)", m.SourceType, m.SourceID))
		row("Started", m.StartTime.Local().Format(time.DateTime))
	}

	s := r.Summary
	row("Samples", humanize.Comma(int64(s.SampleCount)))
	row("Duration", fmt.Sprintf("%.1f s", s.Duration))
	row("Final phase", s.FinalPhase.String())
	pdf.Ln(4)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, pdfLineHeight+2, title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
	}

	section("Flight")
	row("Apogee", fmt.Sprintf("%s m at t=%.1f s", humanize.CommafWithDigits(s.MaxAltitude, 1), s.ApogeeTime))
	row("Max speed", fmt.Sprintf("%.1f m/s", s.MaxSpeed))
	row("Temperature", fmt.Sprintf("%.1f to %.1f C", s.MinTemperature, s.MaxTemperature))
	row("Max rotation", fmt.Sprintf("%.1f deg/s", s.MaxRotationRate))
	pdf.Ln(4)

	section("Phases")
	for phase := mission.PhasePreLaunch; phase <= mission.PhaseLanding; phase++ {
		row(phase.String(), fmt.Sprintf("%.1f s", s.PhaseDurations[phase]))
	}
	pdf.Ln(4)

	section("Alerts")
	if len(r.Alerts) == 0 {
		pdf.CellFormat(0, pdfLineHeight, "none", "", 1, "L", false, 0, "")
	}
	for _, a := range r.Alerts {
		line := fmt.Sprintf("[%s] %s  %s", a.Timestamp.Local().Format("15:04:05"), a.Severity, a.Message)
		pdf.CellFormat(0, pdfLineHeight, line, "", 1, "L", false, 0, "")
	}

	if chartPath != "" {
		pdf.Ln(6)
		// Full content width; gofpdf keeps the aspect ratio when height is 0.
		pageWidth, _ := pdf.GetPageSize()
		left, _, right, _ := pdf.GetMargins()
		pdf.ImageOptions(chartPath, left, pdf.GetY(), pageWidth-left-right, 0, false,
			gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}
