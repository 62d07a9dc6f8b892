package statistics

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

func renderReportPDF(stats *StatisticsDTO, series []DayCount, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 8, "Stockline", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 7, "Business Statistics", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Snapshot Date: %s", stats.Date), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated At: %s UTC", generatedAt.UTC().Format("02 Jan 2006 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Summary", "1", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 7, fmt.Sprintf("Orders: %d", stats.NumberOfOrders), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Total Revenue: %s", stats.TotalRevenue.StringFixed(2)), "1", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Products: %d", stats.NumberOfProducts), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Average Order Value: %s", stats.AverageOrderValue.StringFixed(2)), "1", 1, "L", false, 0, "")
	pdf.CellFormat(190, 7, fmt.Sprintf("Parties: %d", stats.NumberOfParties), "1", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Highlights", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	highlights := []string{
		fmt.Sprintf("Most ordered product: %s (%d)", safeValue(stats.MostOrderedProduct.ProductName), stats.MostOrderedProduct.OrderCount),
		fmt.Sprintf("Least ordered product: %s (%d)", safeValue(stats.LeastOrderedProduct.ProductName), stats.LeastOrderedProduct.OrderCount),
		fmt.Sprintf("Party with most orders: %s (%d)", safeValue(stats.PartyWithMostOrders.PartyName), stats.PartyWithMostOrders.OrderCount),
		fmt.Sprintf("Party with least orders: %s (%d)", safeValue(stats.PartyWithLeastOrders.PartyName), stats.PartyWithLeastOrders.OrderCount),
	}
	for _, h := range highlights {
		pdf.MultiCell(0, 5, h, "", "L", false)
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Product Order Counts", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if len(stats.ProductOrderCounts) == 0 {
		pdf.CellFormat(0, 6, "No orders recorded.", "", 1, "L", false, 0, "")
	}
	for _, c := range stats.ProductOrderCounts {
		ensurePageSpace(pdf, 7)
		pdf.CellFormat(150, 6, safeValue(c.ProductName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", c.OrderCount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	ensurePageSpace(pdf, 20)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Orders per Day (last %d days)", timeSeriesDays), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if len(series) == 0 {
		pdf.CellFormat(0, 6, "No orders in this range.", "", 1, "L", false, 0, "")
	}
	for _, point := range series {
		ensurePageSpace(pdf, 7)
		pdf.CellFormat(150, 6, point.Date, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", point.Count), "1", 1, "R", false, 0, "")
	}

	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buffer.Bytes(), nil
}

func ensurePageSpace(pdf *gofpdf.Fpdf, minSpace float64) {
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottomMargin := pdf.GetMargins()
	if pdf.GetY()+minSpace > pageHeight-bottomMargin {
		pdf.AddPage()
	}
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
