// Package report renders owner reports as PDF documents.
package report

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf"

	"github.com/tireweb/tire-shop-api/internal/model"
	"github.com/tireweb/tire-shop-api/internal/repository"
)

// BookingReportPDF renders the booking report rows plus per-month totals
// into a landscape A4 table and returns the PDF bytes.
func BookingReportPDF(from, to string, rows []repository.ReportRow, monthly map[string]int) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Booking Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Booking Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Service dates %s to %s", from, to), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	headers := []string{"ID", "Customer", "Plate", "Date", "Time", "Status", "Services"}
	widths := []float64{15, 55, 30, 25, 18, 28, 100}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rows {
		cells := []string{
			fmt.Sprintf("%d", r.BookingID),
			r.CustomerName,
			r.LicensePlate,
			r.ServiceDate,
			r.ServiceTime,
			statusLabel(r.Status),
			r.Services,
		}
		for i, v := range cells {
			pdf.CellFormat(widths[i], 6, truncate(pdf, v, widths[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Bookings per month", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, ym := range sortedKeys(monthly) {
		pdf.CellFormat(30, 6, ym, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", monthly[ym]), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// VisitStatsPDF renders visit statistics (top pages, device split and the
// daily trend) and returns the PDF bytes.
func VisitStatsPDF(top []repository.PageCount, devices map[string]int, daily []repository.DailyCount) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Visit Statistics", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Visit Statistics", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Top pages", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(110, 7, "Page", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, "Views", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, p := range top {
		pdf.CellFormat(110, 6, truncate(pdf, p.PageID, 110), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", p.Views), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Views by device", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, dev := range sortedKeys(devices) {
		pdf.CellFormat(40, 6, dev, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", devices[dev]), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Daily views", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, d := range daily {
		pdf.CellFormat(40, 6, d.Day, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", d.Views), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// statusLabel maps the stored status strings onto ASCII labels the core
// PDF fonts can render.
func statusLabel(status string) string {
	return model.BookingStatus(status).English()
}

func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	for pdf.GetStringWidth(s) > width-2 && len(s) > 3 {
		s = s[:len(s)-4] + "..."
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
