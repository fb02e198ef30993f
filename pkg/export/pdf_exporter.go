package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/noah-isme/mockmate-api/internal/models"
)

// PDFExporter renders interview feedback into a downloadable report.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// RenderFeedback produces a one-page report for a scored interview.
func (e *PDFExporter) RenderFeedback(title string, feedback *models.Feedback) ([]byte, error) {
	if feedback == nil {
		return nil, fmt.Errorf("pdf requires feedback data")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Score: %d / 100", feedback.TotalScore), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 8, "Category", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Score", "1", 0, "C", false, 0, "")
	pdf.CellFormat(80, 8, "Comment", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, category := range feedback.CategoryScores {
		pdf.CellFormat(90, 7, category.Name, "1", 0, "", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", category.Score), "1", 0, "C", false, 0, "")
		pdf.CellFormat(80, 7, category.Comment, "1", 0, "", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	e.listSection(pdf, "Strengths", feedback.Strengths)
	e.listSection(pdf, "Areas for Improvement", feedback.AreasForImprovement)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 7, "Final Assessment", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(0, 5, feedback.FinalAssessment, "", "L", false)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) listSection(pdf *gofpdf.Fpdf, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 7, heading, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, item := range items {
		pdf.MultiCell(0, 5, "- "+item, "", "L", false)
	}
	pdf.Ln(2)
}
