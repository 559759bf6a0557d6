package infra

// Intervention report generation using go-pdf/fpdf. One A4 page per report:
// header, ticket and site details, work summary, consumed parts table and the
// client sign-off block. The output file is saved to
// storagePath/intervention_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lesdavils/MedimexResolv/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateInterventionReport renders the report for a completed intervention.
// movements are the consumption entries linked to it (Part preloaded).
// Returns the absolute path to the generated file.
func GenerateInterventionReport(intervention *model.Intervention, movements []model.StockMovement, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("intervention_%s.pdf", intervention.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Intervention Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, intervention.CreatedAt.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(4)

	// ── Ticket details ───────────────────────────────────────────────────────
	writeField := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(40, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW-40, 6, value, "", 1, "L", false, 0, "")
	}

	if t := intervention.Ticket; t != nil {
		writeField("Ticket", t.Title)
		writeField("Priority", t.Priority)
		if t.Client != nil {
			site := t.Client.Name
			if t.Client.City != "" {
				site += " — " + t.Client.City
			}
			writeField("Site", site)
		}
		if t.Machine != nil {
			writeField("Machine", fmt.Sprintf("%s (%s, s/n %s)", t.Machine.Name, t.Machine.Model, t.Machine.Serial))
		}
	}
	writeField("Time spent", fmt.Sprintf("%d min", intervention.MinutesSpent))
	pdf.Ln(4)

	// ── Work summary ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Work performed", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(contentW, 5, intervention.WorkReport, "", "L", false)
	pdf.Ln(4)

	// ── Parts table ──────────────────────────────────────────────────────────
	if len(movements) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Parts used", "", 1, "L", false, 0, "")

		col1 := contentW * 0.45 // part name
		col2 := contentW * 0.30 // reference
		col3 := contentW * 0.25 // quantity

		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(col1, 6, "Part", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, "Reference", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, "Qty", "B", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for _, m := range movements {
			name, reference := "", ""
			if m.Part != nil {
				name = m.Part.Name
				reference = m.Part.Reference
			}
			qty := m.Quantity
			if qty < 0 {
				qty = -qty
			}
			pdf.CellFormat(col1, 6, name, "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 6, reference, "", 0, "L", false, 0, "")
			pdf.CellFormat(col3, 6, fmt.Sprintf("x%d", qty), "", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	// ── Client sign-off ──────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Client sign-off", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if intervention.Satisfaction != nil {
		pdf.CellFormat(contentW, 5, fmt.Sprintf("Satisfaction: %d / 5", *intervention.Satisfaction), "", 1, "L", false, 0, "")
	}
	if intervention.ClientComment != nil && *intervention.ClientComment != "" {
		pdf.MultiCell(contentW, 5, *intervention.ClientComment, "", "L", false)
	}
	if intervention.Signature != nil {
		pdf.CellFormat(contentW, 5, "Signed on site.", "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
