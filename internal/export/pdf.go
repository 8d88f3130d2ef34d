package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/scrim-network/pubstats/internal/report"
	"github.com/scrim-network/pubstats/internal/roster"
	"github.com/scrim-network/pubstats/internal/stats"
)

// PDFName is the default file name of the PDF report.
const PDFName = "pubstats.pdf"

const (
	pdfFont       = "Helvetica"
	pdfLineHeight = 5.0
	pdfMarkerW    = 7.0
	pdfCountW     = 14.0
	pdfMargin     = 15.0
	keyAuthorMark = "*"
)

// scriptDigits maps sub- and superscript characters, common in chemistry
// titles, to plain ASCII the core fonts can show.
var scriptDigits = strings.NewReplacer(
	"₀", "0", "₁", "1", "₂", "2", "₃", "3", "₄", "4",
	"₅", "5", "₆", "6", "₇", "7", "₈", "8", "₉", "9",
	"₊", "+", "₋", "-",
	"⁰", "0", "¹", "1", "²", "2", "³", "3", "⁴", "4",
	"⁵", "5", "⁶", "6", "⁷", "7", "⁸", "8", "⁹", "9",
	"ⁱ", "i", "⁺", "+", "⁻", "-",
)

// pdfReport wraps the document with the code page translator of the core
// fonts.
type pdfReport struct {
	doc *fpdf.Fpdf
	tr  func(string) string
}

func (p *pdfReport) text(s string) string {
	return p.tr(scriptDigits.Replace(s))
}

// WritePDF renders the report as a PDF document. Key authors are flagged
// with an asterisk in citations.
func WritePDF(w io.Writer, rep *report.Report) error {
	doc := fpdf.New("P", "mm", "Letter", "")
	doc.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	doc.SetAutoPageBreak(true, pdfMargin)
	doc.SetTitle("Publication Statistics", true)
	doc.SetCreator("pubstats", true)
	doc.SetCreationDate(rep.Generated)
	doc.SetModificationDate(rep.Generated)

	p := &pdfReport{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
	hl := func(name string) string { return name + keyAuthorMark }

	doc.AddPage()
	p.heading("Publication Statistics", 18)
	p.heading("Authors", 14)

	for _, rec := range rep.Authors.Records() {
		p.author(rep, rec, hl)
	}

	doc.AddPage()
	p.heading("Bibliography", 14)
	doc.SetFont(pdfFont, "", 9)
	for i, pub := range rep.Publications {
		doc.CellFormat(10, pdfLineHeight, strconv.Itoa(i+1)+".", "", 0, "R", false, 0, "")
		doc.MultiCell(0, pdfLineHeight, p.text(Citation(pub, rep.Translation, hl)), "", "L", false)
		doc.Ln(1)
	}
	doc.Ln(2)
	doc.SetFont(pdfFont, "I", 8)
	doc.CellFormat(0, pdfLineHeight, keyAuthorMark+" key author", "", 1, "L", false, 0, "")

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func (p *pdfReport) heading(title string, size float64) {
	p.doc.SetFont(pdfFont, "B", size)
	p.doc.CellFormat(0, size/2, p.text(title), "", 1, "L", false, 0, "")
	p.doc.Ln(2)
}

func (p *pdfReport) author(rep *report.Report, rec *roster.Record, hl Highlighter) {
	doc := p.doc
	doc.SetFont(pdfFont, "B", 12)
	doc.CellFormat(0, 7, p.text(rec.FullName()), "", 1, "L", false, 0, "")

	doc.SetFont(pdfFont, "", 9)
	if !rec.Has(stats.PubsAuthor) {
		doc.CellFormat(0, pdfLineHeight, "no publications", "", 1, "L", false, 0, "")
		doc.Ln(4)
		return
	}

	p.statRow("total publications:", rec.Len(stats.PubsAuthor))
	for _, l := range statLines {
		if rec.Has(l.name) {
			p.statRow(l.label+":", rec.Len(l.name))
		}
	}
	p.statRow("cross-unit co-authorship:", rec.CrossUnitScore)
	doc.Ln(3)

	doc.SetFont(pdfFont, "B", 10)
	doc.CellFormat(0, 6, "Publications", "", 1, "L", false, 0, "")
	p.publicationTable(rep, rec, hl)

	doc.SetFont(pdfFont, "I", 8)
	for i, c := range markerColumns {
		doc.CellFormat(0, 4, fmt.Sprintf("%c. %s", 'a'+i, c.label), "", 1, "L", false, 0, "")
	}
	doc.Ln(5)
}

func (p *pdfReport) statRow(label string, n int) {
	p.doc.CellFormat(70, pdfLineHeight, label, "", 0, "R", false, 0, "")
	p.doc.CellFormat(15, pdfLineHeight, strconv.Itoa(n), "", 1, "L", false, 0, "")
}

func (p *pdfReport) publicationTable(rep *report.Report, rec *roster.Record, hl Highlighter) {
	doc := p.doc
	pageW, pageH := doc.GetPageSize()
	left, _, right, bottom := doc.GetMargins()
	citeW := pageW - left - right - float64(len(markerColumns))*pdfMarkerW - 3*pdfCountW

	doc.SetFont(pdfFont, "B", 8)
	doc.SetFillColor(230, 230, 230)
	for i := range markerColumns {
		doc.CellFormat(pdfMarkerW, 6, string(rune('a'+i)), "1", 0, "C", true, 0, "")
	}
	doc.CellFormat(citeW, 6, "publication", "1", 0, "C", true, 0, "")
	doc.CellFormat(pdfCountW, 6, "n auth", "1", 0, "C", true, 0, "")
	doc.CellFormat(pdfCountW, 6, "key", "1", 0, "C", true, 0, "")
	doc.CellFormat(pdfCountW, 6, "other", "1", 1, "C", true, 0, "")

	doc.SetFont(pdfFont, "", 8)
	for _, idx := range rec.Pubs(stats.PubsAuthor) {
		pub := rep.Publications[idx]
		cite := p.text(fmt.Sprintf("[%d] %s", idx+1, Citation(pub, rep.Translation, hl)))
		lines := doc.SplitLines([]byte(cite), citeW)
		if len(lines) == 0 {
			lines = [][]byte{nil}
		}
		rowH := float64(len(lines)) * 4

		if doc.GetY()+rowH > pageH-bottom {
			doc.AddPage()
		}
		x, y := doc.GetXY()

		for _, m := range markers(rec, idx, "X") {
			doc.CellFormat(pdfMarkerW, rowH, m, "1", 0, "C", false, 0, "")
		}
		citeX := doc.GetX()
		for i, line := range lines {
			border := "LR"
			if i == 0 {
				border += "T"
			}
			if i == len(lines)-1 {
				border += "B"
			}
			doc.SetXY(citeX, y+float64(i)*4)
			doc.CellFormat(citeW, 4, string(line), border, 0, "L", false, 0, "")
		}
		doc.SetXY(citeX+citeW, y)
		total := len(pub.Authors)
		doc.CellFormat(pdfCountW, rowH, strconv.Itoa(total), "1", 0, "R", false, 0, "")
		doc.CellFormat(pdfCountW, rowH, strconv.Itoa(pub.MatchedAuthors), "1", 0, "R", false, 0, "")
		doc.CellFormat(pdfCountW, rowH, strconv.Itoa(total-pub.MatchedAuthors), "1", 0, "R", false, 0, "")
		doc.SetXY(x, y+rowH)
	}
	doc.Ln(2)
}
