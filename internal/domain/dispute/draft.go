package dispute

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Draft is the client-only staging object for a new dispute.
type Draft struct {
	DisputeInfo
	Evidence []EvidenceFile
}

// NewDraft returns a draft in its empty shape.
func NewDraft() *Draft {
	d := &Draft{}
	d.Reset()
	return d
}

// Reset clears the draft back to its empty shape.
func (d *Draft) Reset() {
	*d = Draft{DisputeInfo: DisputeInfo{Category: CategoryContract}}
}

// AddEvidence appends files; submission keeps this order.
func (d *Draft) AddEvidence(files ...EvidenceFile) {
	d.Evidence = append(d.Evidence, files...)
}

// AddEvidencePath reads a file from disk and stages it.
func (d *Draft) AddEvidencePath(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read evidence %s: %w", path, err)
	}
	d.AddEvidence(EvidenceFile{Name: filepath.Base(path), Content: content})
	return nil
}

// Validate checks presence of the required text fields only.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(d.Description) == "" {
		return &ValidationError{Field: "description", Reason: "required"}
	}
	return nil
}

// AmountField is the form value sent for the amount, empty when unset.
func (d *Draft) AmountField() string {
	if d.Amount == nil {
		return ""
	}
	return strconv.FormatFloat(*d.Amount, 'f', -1, 64)
}

// Clone copies the draft including staged evidence.
func (d *Draft) Clone() *Draft {
	out := *d
	if d.Amount != nil {
		a := *d.Amount
		out.Amount = &a
	}
	out.Evidence = append([]EvidenceFile(nil), d.Evidence...)
	return &out
}

type draftFile struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Amount      *float64 `yaml:"amount"`
	Parties     struct {
		Plaintiff string `yaml:"plaintiff"`
		Defendant string `yaml:"defendant"`
	} `yaml:"parties"`
	Evidence []string `yaml:"evidence"`
}

// LoadDraft reads a YAML draft. Evidence paths are relative to the draft file.
func LoadDraft(path string) (*Draft, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read draft: %w", err)
	}
	var f draftFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse draft %s: %w", path, err)
	}

	d := NewDraft()
	d.Title = f.Title
	d.Description = f.Description
	d.Amount = f.Amount
	d.Parties = Parties{Plaintiff: f.Parties.Plaintiff, Defendant: f.Parties.Defendant}
	if f.Category != "" {
		c, err := NewCategory(f.Category)
		if err != nil {
			return nil, err
		}
		d.Category = c
	}
	if d.Amount != nil && *d.Amount < 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	base := filepath.Dir(path)
	for _, p := range f.Evidence {
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		if err := d.AddEvidencePath(p); err != nil {
			return nil, err
		}
	}
	return d, nil
}
