package pdf

import (
	"context"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin   = 15.0
	labelWidth   = 0.30
	rowHeight    = 8.0
	lineHeight   = 6.0
	headerSize   = 22
	subheadSize  = 16
	bodySize     = 11
	documentFont = "Helvetica"
)

// FPDFRenderer draws the CV template with the core PDF fonts.
type FPDFRenderer struct {
	now func() time.Time
}

func NewFPDFRenderer() *FPDFRenderer {
	return &FPDFRenderer{now: time.Now}
}

func (r *FPDFRenderer) Render(ctx context.Context, doc CVDocument, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate so accented French text survives.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(doc.Title(), true)
	pdf.SetCreator("cv-platform-backend", true)
	pdf.SetCreationDate(r.now())
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pageMargin

	// Header
	pdf.SetFont(documentFont, "B", headerSize)
	pdf.Ln(4)
	pdf.CellFormat(0, 12, tr(doc.Title()), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	subheader := func(text string) {
		pdf.Ln(4)
		pdf.SetFont(documentFont, "B", subheadSize)
		pdf.CellFormat(0, 9, tr(text), "", 1, "L", false, 0, "")
		pdf.Ln(1)
		pdf.SetFont(documentFont, "", bodySize)
	}

	// Profile table, zebra striped on even rows
	subheader("Informations personnelles")
	pdf.SetLineWidth(0.3)
	pdf.SetFillColor(243, 243, 243)
	for i, row := range doc.Rows() {
		fill := i%2 == 0
		pdf.CellFormat(contentWidth*labelWidth, rowHeight, tr(row.Label), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(contentWidth*(1-labelWidth), rowHeight, tr(row.Value), "1", 1, "L", fill, 0, "")
	}
	pdf.Ln(4)

	subheader("Compétences")
	for _, skill := range doc.Skills {
		pdf.SetX(pageMargin + 4)
		pdf.MultiCell(contentWidth-4, lineHeight, tr("• "+skill), "", "L", false)
	}

	subheader("Expérience")
	pdf.MultiCell(0, lineHeight, tr(doc.Experience), "", "L", false)

	if err := ctx.Err(); err != nil {
		return err
	}
	return pdf.Output(w)
}
