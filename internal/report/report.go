// Package report renders the settlement suggestions of a dispute as a PDF.
package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"unicode"
	"unicode/utf8"

	"SettleKaro/internal/domain/dispute"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily = "Helvetica"

	marginX      = 14.0
	ruleEndX     = 196.0
	bulletX      = 16.0
	wrapWidth    = 180.0
	lineAdvance  = 5.0
	itemGap      = 5.0
	firstItemY   = 75.0
	pageBottomY  = 280.0
	pageRestartY = 20.0

	titleSize   = 18.0
	fieldSize   = 12.0
	headingSize = 14.0
	bulletSize  = 11.0
)

// Line is one piece of text placed on a page, in millimetres from the top left.
type Line struct {
	Page int
	X, Y float64
	Size float64
	Text string
}

// Rule is a horizontal separator.
type Rule struct {
	Page      int
	X1, X2, Y float64
}

type Document struct {
	disputeID string
	lines     []Line
	rules     []Rule
	pages     int
}

// Render lays out the report for d. It returns nil when there is nothing to
// report: no dispute or no suggestions.
func Render(d *dispute.Dispute) *Document {
	if d == nil || len(d.SettlementSuggestions) == 0 {
		return nil
	}

	measure := newPDF()
	tr := measure.UnicodeTranslatorFromDescriptor("")

	doc := &Document{disputeID: d.ID, pages: 1}
	doc.text(marginX, 22, titleSize, "Settlement Suggestions Report")
	doc.text(marginX, 32, fieldSize, "Dispute Title: "+d.Title)
	doc.text(marginX, 40, fieldSize, fmt.Sprintf("Parties: %s vs %s", d.Parties.Plaintiff, d.Parties.Defendant))
	doc.text(marginX, 48, fieldSize, "Amount: $"+formatAmount(d.Amount))
	doc.rules = append(doc.rules, Rule{Page: 1, X1: marginX, X2: ruleEndX, Y: 55})
	doc.text(marginX, 65, headingSize, "AI-Generated Settlement Suggestions:")

	measure.SetFont(fontFamily, "", bulletSize)

	y := firstItemY
	for _, s := range d.SettlementSuggestions {
		wrapped := splitLines(measure, tr, "• "+s, wrapWidth)
		for i, line := range wrapped {
			if y+float64(i)*lineAdvance > pageBottomY {
				doc.pages++
				y = pageRestartY - float64(i)*lineAdvance
			}
			doc.text(bulletX, y+float64(i)*lineAdvance, bulletSize, line)
		}
		y += float64(len(wrapped))*lineAdvance + itemGap
	}
	return doc
}

// Name is the file name of the report without extension.
func (d *Document) Name() string {
	return "settlement-suggestions-" + d.disputeID
}

func (d *Document) Lines() []Line {
	return append([]Line(nil), d.lines...)
}

func (d *Document) Rules() []Rule {
	return append([]Rule(nil), d.rules...)
}

func (d *Document) Pages() int {
	return d.pages
}

// WriteTo emits the PDF to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	pdf := newPDF()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	page := 0
	ensurePage := func(p int) {
		for page < p {
			pdf.AddPage()
			page++
		}
	}
	for _, r := range d.rules {
		ensurePage(r.Page)
		pdf.Line(r.X1, r.Y, r.X2, r.Y)
	}
	for _, l := range d.lines {
		ensurePage(l.Page)
		pdf.SetFont(fontFamily, "", l.Size)
		pdf.Text(l.X, l.Y, tr(l.Text))
	}
	ensurePage(d.pages)

	cw := &countingWriter{w: w}
	if err := pdf.Output(cw); err != nil {
		return cw.n, fmt.Errorf("render report %s: %w", d.disputeID, err)
	}
	return cw.n, nil
}

// Save writes the report into dir as <name>.pdf and returns the path.
func (d *Document) Save(dir string) (path string, err error) {
	path = filepath.Join(dir, d.Name()+".pdf")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if _, err := d.WriteTo(f); err != nil {
		return "", err
	}
	return path, nil
}

func (d *Document) text(x, y, size float64, s string) {
	d.lines = append(d.lines, Line{Page: d.pages, X: x, Y: y, Size: size, Text: s})
}

func newPDF() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont(fontFamily, "", bulletSize)
	pdf.SetAutoPageBreak(false, 0)
	return pdf
}

// formatAmount prints whole amounts without decimals. Missing and zero
// amounts print as N/A.
func formatAmount(amount *float64) string {
	if amount == nil || *amount == 0 {
		return "N/A"
	}
	v := *amount
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// splitLines wraps text to limit with the current font of pdf. SplitText
// indexes the font width table by rune, so it measures the code page form of
// text and the original runes are cut at the same positions.
func splitLines(pdf *fpdf.Fpdf, tr func(string) string, text string, limit float64) []string {
	encoded := []rune{}
	for _, b := range []byte(tr(text)) {
		encoded = append(encoded, rune(b))
	}
	src := []rune(text)

	var lines []string
	pos := 0
	for _, l := range pdf.SplitText(string(encoded), limit+2*pdf.GetCellMargin()) {
		n := min(utf8.RuneCountInString(l), len(src)-pos)
		lines = append(lines, string(src[pos:pos+n]))
		pos += n
		// the separator a line was broken at is not part of either line
		if pos < len(encoded) && unicode.IsSpace(encoded[pos]) {
			pos++
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
