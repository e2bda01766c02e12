package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/opsreport/alb-status-report/pkg/models"
)

const reportTitle = "ALB API Status Report"

var tableHeader = []string{"API Name", "2xx (Success)", "4xx (Client Error)", "5xx (Server Error)"}

// Column widths in mm, sized to fill an A4 page inside 10mm margins.
var columnWidths = []float64{80, 35, 37.5, 37.5}

// Render produces the report PDF. Output is deterministic for a given report
// and date: the document timestamps are pinned to the run date so identical
// inputs yield identical bytes. An empty report still renders a valid
// document with the table header and no rows.
func Render(report *models.Report, runDate time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Resource catalogs are written in map iteration order unless sorting
	// is on; both that and the timestamps must be pinned for identical
	// inputs to produce identical bytes.
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(runDate.UTC())
	pdf.SetModificationDate(runDate.UTC())
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Title block.
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, reportTitle, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Report Date: %s", runDate.Format("2006-01-02")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	drawTableHeader(pdf)

	printer := message.NewPrinter(language.English)
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottomMargin := pdf.GetMargins()

	for i, api := range report.APIs() {
		counters, _ := report.Get(api)

		if pdf.GetY()+8 > pageHeight-bottomMargin {
			pdf.AddPage()
			drawTableHeader(pdf)
		}

		fill := i%2 == 1
		pdf.SetFillColor(248, 249, 250)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 9)

		pdf.CellFormat(columnWidths[0], 8, api, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(columnWidths[1], 8, printer.Sprintf("%d", counters.Success), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(columnWidths[2], 8, printer.Sprintf("%d", counters.ClientError), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(columnWidths[3], 8, printer.Sprintf("%d", counters.ServerError), "1", 1, "R", fill, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFillColor(44, 62, 80)
	pdf.SetTextColor(245, 245, 245)
	pdf.SetFont("Helvetica", "B", 11)

	for i, name := range tableHeader {
		align := "C"
		if i == 0 {
			align = "L"
		}
		last := 0
		if i == len(tableHeader)-1 {
			last = 1
		}
		pdf.CellFormat(columnWidths[i], 9, name, "1", last, align, true, 0, "")
	}
}
