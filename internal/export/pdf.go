package export

import (
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/voxarena/voxarena/internal/core"
)

// PDFExporter exports debates to PDF format.
type PDFExporter struct{}

// Export writes the debate as PDF.
func (e *PDFExporter) Export(debate *core.Debate, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	// Add first page
	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(0, 10, e.sanitizeText(debate.Title), "", "C", false)
	pdf.Ln(5)

	if debate.Topic != "" {
		pdf.SetFont("Arial", "I", 11)
		pdf.MultiCell(0, 6, e.sanitizeText(debate.Topic), "", "C", false)
		pdf.Ln(5)
	}

	// Metadata section
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Debate Information")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	e.addMetadataRow(pdf, "ID:", debate.ID[:8]+"...")
	e.addMetadataRow(pdf, "Format:", capitalize(string(debate.Format)))
	e.addMetadataRow(pdf, "Status:", string(debate.Status))
	e.addMetadataRow(pdf, "Created:", debate.CreatedAt.Format("January 2, 2006 at 3:04 PM"))
	e.addMetadataRow(pdf, "Updated:", debate.UpdatedAt.Format("January 2, 2006 at 3:04 PM"))
	pdf.Ln(5)

	// Description
	if debate.Description != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Description")
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, e.sanitizeText(debate.Description), "", "", false)
		pdf.Ln(5)
	}

	// Participants section
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Participants")
	pdf.Ln(8)

	if len(debate.Participants) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 6, "No participants assigned.")
		pdf.Ln(6)
	} else {
		for i, p := range debate.Participants {
			// Check if we need a new page
			if pdf.GetY() > 250 {
				pdf.AddPage()
			}

			if i%2 == 0 {
				pdf.SetFillColor(200, 230, 255) // Light blue
			} else {
				pdf.SetFillColor(200, 255, 200) // Light green
			}

			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(0, 7, e.sanitizeText(formatParticipant(p)), "", 1, "", true, 0, "")

			pdf.SetFont("Arial", "", 9)
			pdf.SetFillColor(255, 255, 255)
			pdf.Cell(25, 5, "Role:")
			pdf.Cell(0, 5, string(p.Role))
			pdf.Ln(5)
			if p.PersonaName != "" {
				pdf.Cell(25, 5, "Persona:")
				pdf.Cell(0, 5, e.sanitizeText(p.PersonaName))
				pdf.Ln(5)
			}
			if p.VoiceID != "" {
				pdf.Cell(25, 5, "Voice:")
				pdf.Cell(0, 5, p.VoiceID)
				pdf.Ln(5)
			}
			pdf.Ln(3)
		}
	}

	// Footer
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 10, "Exported from voxarena", "", 0, "C", false, 0, "")

	return pdf.Output(w)
}

// FileExtension returns the file extension for PDF.
func (e *PDFExporter) FileExtension() string {
	return "pdf"
}

// capitalize upper-cases the first byte; format names are plain ASCII.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Helper to add a metadata row
func (e *PDFExporter) addMetadataRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(30, 5, label)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, value)
	pdf.Ln(5)
}

// Sanitize text for PDF (remove problematic characters)
func (e *PDFExporter) sanitizeText(text string) string {
	// gofpdf uses Windows-1252 encoding by default
	// Replace common Unicode characters that might cause issues
	replacer := strings.NewReplacer(
		"‘", "'", // Left single quote
		"’", "'", // Right single quote
		"“", "\"", // Left double quote
		"”", "\"", // Right double quote
		"–", "-", // En dash
		"—", "--", // Em dash
		"…", "...", // Ellipsis
		"•", "*", // Bullet
		" ", " ", // Non-breaking space
	)
	return replacer.Replace(text)
}
