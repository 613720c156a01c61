package document

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/linesmerrill/case-tracker-api/report"
)

// the core PDF fonts only cover cp1252
var asciiFallback = strings.NewReplacer(
	"≤", "<=",
	"≥", ">=",
	"—", "-",
	"–", "-",
)

type pdfMeasurer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// Wrap splits text using the metrics of the style's font
func (m pdfMeasurer) Wrap(text string, style Style, width float64) []string {
	f := Fonts[style]
	m.pdf.SetFont(f.Family, f.Style, f.Size)
	var out []string
	for _, para := range strings.Split(m.tr(asciiFallback.Replace(text)), "\n") {
		lines := m.pdf.SplitText(para, width)
		if len(lines) == 0 {
			lines = []string{""}
		}
		out = append(out, lines...)
	}
	return out
}

func newPDF(spec PageSpec) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: spec.Width, Ht: spec.Height},
	})
	pdf.SetMargins(spec.MarginLeft, spec.MarginTop, spec.MarginRight)
	pdf.SetAutoPageBreak(false, spec.MarginBottom)
	return pdf
}

// Generate lays out sections on A4 pages and writes the PDF to w
func Generate(w io.Writer, title string, sections []report.Section, generatedAt time.Time, loc *time.Location) error {
	spec := A4()
	pdf := newPDF(spec)
	m := pdfMeasurer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	doc := Layout(title, sections, m, spec)
	doc.StampFooters(generatedAt, loc)
	return draw(w, pdf, doc)
}

func draw(w io.Writer, pdf *fpdf.Fpdf, doc *Document) error {
	spec := doc.Spec
	for _, p := range doc.Pages {
		pdf.AddPage()
		for _, l := range p.Lines {
			f := Fonts[l.Style]
			pdf.SetFont(f.Family, f.Style, f.Size)
			pdf.SetXY(l.X, l.Y)
			pdf.CellFormat(l.Width, LineHeight(l.Style), l.Text, "", 0, "L", false, 0, "")
		}
		if p.Footer != "" {
			f := Fonts[StyleFooter]
			pdf.SetFont(f.Family, f.Style, f.Size)
			pdf.SetXY(spec.MarginLeft, spec.Height-spec.MarginBottom+LineHeight(StyleFooter))
			pdf.CellFormat(spec.Width-spec.MarginLeft-spec.MarginRight, LineHeight(StyleFooter), p.Footer, "", 0, "C", false, 0, "")
		}
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to draw report: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
