//go:build !integration

package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"SettleKaro/internal/domain/dispute"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mediated(id string, amount *float64, suggestions ...string) *dispute.Dispute {
	analysis := "analysis"
	return &dispute.Dispute{
		ID:     id,
		Status: dispute.StatusMediated,
		DisputeInfo: dispute.DisputeInfo{
			Title:   "Broken fence",
			Amount:  amount,
			Parties: dispute.Parties{Plaintiff: "A", Defendant: "B"},
		},
		AIAnalysis:            &analysis,
		SettlementSuggestions: suggestions,
	}
}

func ptr(v float64) *float64 { return &v }

func texts(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Text)
	}
	return out
}

func TestRender(t *testing.T) {
	t.Run("nothing to report", func(t *testing.T) {
		assert.Nil(t, Render(nil))
		assert.Nil(t, Render(&dispute.Dispute{ID: "1"}))
		assert.Nil(t, Render(mediated("1", nil)))
	})

	t.Run("fixed layout", func(t *testing.T) {
		// when
		doc := Render(mediated("42", ptr(100), "Pay half", "Repair together"))

		// then
		require.NotNil(t, doc)
		assert.Equal(t, "settlement-suggestions-42", doc.Name())
		assert.Equal(t, []string{
			"Settlement Suggestions Report",
			"Dispute Title: Broken fence",
			"Parties: A vs B",
			"Amount: $100",
			"AI-Generated Settlement Suggestions:",
			"• Pay half",
			"• Repair together",
		}, texts(doc.Lines()))

		lines := doc.Lines()
		assert.Equal(t, Line{Page: 1, X: 14, Y: 22, Size: 18, Text: "Settlement Suggestions Report"}, lines[0])
		assert.Equal(t, 48.0, lines[3].Y)
		assert.Equal(t, Line{Page: 1, X: 16, Y: 75, Size: 11, Text: "• Pay half"}, lines[5])
		assert.Equal(t, 85.0, lines[6].Y)
		assert.Equal(t, []Rule{{Page: 1, X1: 14, X2: 196, Y: 55}}, doc.Rules())
		assert.Equal(t, 1, doc.Pages())
	})

	tests := []struct {
		name   string
		amount *float64
		want   string
	}{
		{name: "missing", amount: nil, want: "Amount: $N/A"},
		{name: "zero", amount: ptr(0), want: "Amount: $N/A"},
		{name: "whole", amount: ptr(2500), want: "Amount: $2500"},
		{name: "fraction", amount: ptr(99.5), want: "Amount: $99.50"},
	}
	for _, tt := range tests {
		t.Run("amount "+tt.name, func(t *testing.T) {
			doc := Render(mediated("1", tt.amount, "x"))

			assert.Equal(t, tt.want, doc.Lines()[3].Text)
		})
	}

	t.Run("long suggestions wrap and advance the cursor", func(t *testing.T) {
		long := strings.Repeat("settle the invoice in instalments ", 12)

		doc := Render(mediated("1", nil, long, "next"))

		bullets := doc.Lines()[5:]
		require.Greater(t, len(bullets), 2)
		last := bullets[len(bullets)-1]
		assert.Equal(t, "• next", last.Text)
		wrapped := len(bullets) - 1
		assert.Equal(t, 75+float64(wrapped)*5+5, last.Y)
		for i, l := range bullets[:wrapped] {
			assert.Equal(t, 75+float64(i)*5, l.Y)
		}
	})

	t.Run("many suggestions break pages", func(t *testing.T) {
		items := make([]string, 40)
		for i := range items {
			items[i] = "option"
		}

		doc := Render(mediated("1", nil, items...))

		assert.Greater(t, doc.Pages(), 1)
		for _, l := range doc.Lines() {
			assert.LessOrEqual(t, l.Y, pageBottomY)
		}
	})
}

func bulletWidth(t *testing.T) func(string) float64 {
	t.Helper()
	pdf := newPDF()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont(fontFamily, "", bulletSize)
	return func(s string) float64 { return pdf.GetStringWidth(tr(s)) }
}

// SplitText rounds the limit up to whole font units.
const widthSlack = 0.01

func TestRender_Wrapping(t *testing.T) {
	width := bulletWidth(t)

	t.Run("breaks between words and keeps every word", func(t *testing.T) {
		long := strings.TrimSpace(strings.Repeat("settle the invoice in instalments ", 12))

		doc := Render(mediated("1", nil, long))

		bullets := texts(doc.Lines()[5:])
		require.Greater(t, len(bullets), 1)
		for _, l := range bullets {
			assert.LessOrEqual(t, width(l), wrapWidth+widthSlack, l)
			assert.False(t, strings.HasPrefix(l, " "), l)
		}
		assert.Equal(t, "• "+long, strings.Join(bullets, " "))
	})

	t.Run("splits a word longer than a line", func(t *testing.T) {
		word := strings.Repeat("x", 120)

		doc := Render(mediated("1", nil, word))

		bullets := texts(doc.Lines()[5:])
		require.Len(t, bullets, 3)
		assert.Equal(t, "•", bullets[0])
		for _, l := range bullets[1:] {
			assert.LessOrEqual(t, width(l), wrapWidth+widthSlack)
		}
		assert.Equal(t, word, bullets[1]+bullets[2])
	})

	t.Run("short suggestion stays on one line", func(t *testing.T) {
		doc := Render(mediated("1", nil, "Pay half"))

		assert.Equal(t, []string{"• Pay half"}, texts(doc.Lines()[5:]))
	})
}

func TestDocument_WriteToAndSave(t *testing.T) {
	doc := Render(mediated("42", ptr(100), "Pay half"))

	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	dir := t.TempDir()
	path, err := doc.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "settlement-suggestions-42.pdf"), path)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
}

func TestExportAll(t *testing.T) {
	dir := t.TempDir()
	disputes := []dispute.Dispute{
		*mediated("1", nil, "a"),
		{ID: "2", Status: dispute.StatusSubmitted},
		*mediated("3", ptr(5), "b", "c"),
	}

	paths, err := ExportAll(context.Background(), disputes, dir)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "settlement-suggestions-1.pdf"),
		filepath.Join(dir, "settlement-suggestions-3.pdf"),
	}, paths)
	for _, p := range paths {
		assert.FileExists(t, p)
	}
}
