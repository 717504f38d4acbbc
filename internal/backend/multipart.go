package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"SettleKaro/internal/domain/dispute"
)

// EvidenceField is the positional form field name of the i-th evidence file.
func EvidenceField(i int) string {
	return "evidence_" + strconv.Itoa(i)
}

// encodeDraft packages the draft as the multipart body of the create call.
// Text fields come first, evidence files follow in staging order.
func encodeDraft(d *dispute.Draft) (io.Reader, string, error) {
	parties, err := json.Marshal(d.Parties)
	if err != nil {
		return nil, "", fmt.Errorf("marshal parties: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"title", d.Title},
		{"description", d.Description},
		{"category", string(d.Category)},
		{"amount", d.AmountField()},
		{"parties", string(parties)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	for i, file := range d.Evidence {
		part, err := w.CreateFormFile(EvidenceField(i), file.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create evidence part %d: %w", i, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", fmt.Errorf("write evidence %s: %w", file.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
