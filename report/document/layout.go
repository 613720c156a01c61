// Package document paginates report sections into printable pages and draws
// them as a PDF. Layout is pure and works against a Measurer so pagination
// can be tested without a PDF backend; Render does the drawing.
package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/linesmerrill/case-tracker-api/dates"
	"github.com/linesmerrill/case-tracker-api/report"
)

// Style selects the font of a laid out line
type Style int

// Line styles
const (
	StyleBody Style = iota
	StyleTitle
	StyleHeading
	StyleSubheading
	StyleFooter
)

// Font describes the font used for a style
type Font struct {
	Family string
	Style  string
	Size   float64
}

// Fonts maps every style to its font
var Fonts = map[Style]Font{
	StyleTitle:      {Family: "Helvetica", Style: "B", Size: 16},
	StyleHeading:    {Family: "Helvetica", Style: "B", Size: 13},
	StyleSubheading: {Family: "Helvetica", Style: "B", Size: 11},
	StyleBody:       {Family: "Helvetica", Size: 10},
	StyleFooter:     {Family: "Helvetica", Style: "I", Size: 8},
}

// LineHeight is the vertical space a line of the given style takes
func LineHeight(s Style) float64 {
	return Fonts[s].Size * 1.4
}

// Measurer wraps text to a width using the metrics of a style
type Measurer interface {
	Wrap(text string, style Style, width float64) []string
}

// PageSpec is the page geometry in points
type PageSpec struct {
	Width        float64
	Height       float64
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64
}

// A4 is the default page geometry
func A4() PageSpec {
	return PageSpec{
		Width:        595.28,
		Height:       841.89,
		MarginTop:    50,
		MarginBottom: 50,
		MarginLeft:   40,
		MarginRight:  40,
	}
}

// PrintableBottom is the lowest cursor position content may reach
func (p PageSpec) PrintableBottom() float64 {
	return p.Height - p.MarginBottom
}

// Line is a laid out line; Y is the top of the line box
type Line struct {
	X     float64
	Y     float64
	Width float64
	Text  string
	Style Style
}

// Page holds the lines placed on one page
type Page struct {
	Number int
	Lines  []Line
	Footer string
}

// Document is a fully paginated report
type Document struct {
	Spec  PageSpec
	Pages []Page
}

const (
	indentStep    = 14
	sectionGap    = 10
	subsectionGap = 4
	// headerReserve is how many body lines must fit below a header before it
	// is drawn, so a header never ends up alone at the foot of a page.
	headerReserve = 2
)

type layouter struct {
	spec   PageSpec
	m      Measurer
	doc    *Document
	cursor float64
}

// Layout paginates sections. Before any line is placed the cursor is checked
// against the printable height and a new page is started when the line would
// cross it. Headers additionally reserve room for themselves plus a couple of
// body lines.
func Layout(title string, sections []report.Section, m Measurer, spec PageSpec) *Document {
	l := &layouter{spec: spec, m: m, doc: &Document{Spec: spec}}
	l.newPage()

	if title != "" {
		l.text(title, StyleTitle, 0)
	}
	for _, s := range sections {
		l.section(s, 0)
	}
	return l.doc
}

// StampFooters writes the page footer once the final page count is known
func (d *Document) StampFooters(generatedAt time.Time, loc *time.Location) {
	ts := dates.FormatTimestamp(generatedAt, loc)
	total := len(d.Pages)
	for i := range d.Pages {
		d.Pages[i].Footer = Footer(ts, i+1, total)
	}
}

// Footer formats the footer of one page
func Footer(timestamp string, page, total int) string {
	return fmt.Sprintf("Generated on %s - Page %d of %d", timestamp, page, total)
}

func (l *layouter) newPage() {
	l.doc.Pages = append(l.doc.Pages, Page{Number: len(l.doc.Pages) + 1})
	l.cursor = l.spec.MarginTop
}

func (l *layouter) page() *Page {
	return &l.doc.Pages[len(l.doc.Pages)-1]
}

func (l *layouter) atTop() bool {
	return l.cursor == l.spec.MarginTop
}

func (l *layouter) ensure(h float64) {
	if l.cursor+h > l.spec.PrintableBottom() && !l.atTop() {
		l.newPage()
	}
}

func (l *layouter) place(text string, style Style, indent float64) {
	h := LineHeight(style)
	l.ensure(h)
	x := l.spec.MarginLeft + indent
	p := l.page()
	p.Lines = append(p.Lines, Line{
		X:     x,
		Y:     l.cursor,
		Width: l.spec.Width - l.spec.MarginRight - x,
		Text:  text,
		Style: style,
	})
	l.cursor += h
}

func (l *layouter) text(text string, style Style, indent float64) {
	width := l.spec.Width - l.spec.MarginLeft - l.spec.MarginRight - indent
	for _, line := range l.m.Wrap(text, style, width) {
		l.place(line, style, indent)
	}
}

func (l *layouter) header(title string, style Style, indent, gap float64) {
	if !l.atTop() {
		l.cursor += gap
	}
	l.ensure(LineHeight(style) + headerReserve*LineHeight(StyleBody))
	l.text(title, style, indent)
}

func (l *layouter) section(s report.Section, depth int) {
	indent := float64(depth * indentStep)
	if depth == 0 {
		l.header(s.Title, StyleHeading, indent, sectionGap)
	} else {
		l.header(s.Title, StyleSubheading, indent, subsectionGap)
	}
	for _, r := range s.Rows {
		l.text(rowText(r), StyleBody, indent+indentStep/2)
	}
	for _, sub := range s.Subsections {
		l.section(sub, depth+1)
	}
}

func rowText(r report.Row) string {
	v := strings.TrimSpace(r.Value)
	if v == "" {
		v = dates.Placeholder
	}
	return r.Label + ": " + v
}
