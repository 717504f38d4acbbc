package dispute

type Dispute struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
	DisputeInfo
	Evidence      []EvidenceRef `json:"evidence,omitempty"`
	EvidenceTexts []string      `json:"evidence_texts,omitempty"`

	// AIAnalysis and SettlementSuggestions are written together by one mediation.
	AIAnalysis            *string     `json:"ai_analysis,omitempty"`
	SettlementSuggestions Suggestions `json:"settlement_suggestions,omitempty"`

	CreatedAt Timestamp  `json:"created_at"`
	UpdatedAt *Timestamp `json:"updated_at,omitempty"`
}

// DisputeInfo is the user supplied part of a dispute, shared with Draft.
type DisputeInfo struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Amount      *float64 `json:"amount"`
	Parties     Parties  `json:"parties"`
}

type Parties struct {
	Plaintiff string `json:"plaintiff"`
	Defendant string `json:"defendant"`
}

type Category string

const (
	CategoryContract   Category = "contract"
	CategoryPayment    Category = "payment"
	CategoryProperty   Category = "property"
	CategoryEmployment Category = "employment"
	CategoryOther      Category = "other"
)

var AvailableCategories = []Category{CategoryContract, CategoryPayment, CategoryProperty, CategoryEmployment, CategoryOther}

func NewCategory(raw string) (Category, error) {
	for _, c := range AvailableCategories {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", &ValidationError{Field: "category", Reason: "unknown category " + raw}
}

// Mediated reports whether a mediation result has been merged into the dispute.
func (d Dispute) Mediated() bool {
	return d.AIAnalysis != nil
}

// Clone returns a deep copy so snapshots never share slices with the store.
func (d Dispute) Clone() Dispute {
	out := d
	if d.Amount != nil {
		a := *d.Amount
		out.Amount = &a
	}
	if d.AIAnalysis != nil {
		a := *d.AIAnalysis
		out.AIAnalysis = &a
	}
	if d.UpdatedAt != nil {
		u := *d.UpdatedAt
		out.UpdatedAt = &u
	}
	out.Evidence = append([]EvidenceRef(nil), d.Evidence...)
	out.EvidenceTexts = append([]string(nil), d.EvidenceTexts...)
	out.SettlementSuggestions = d.SettlementSuggestions.Clone()
	return out
}

// Patch is a partial update merged into a dispute by id.
type Patch struct {
	Status      *Status
	AIAnalysis  *string
	Suggestions Suggestions
}

// StatusPatch builds the patch applied after a successful status change.
func StatusPatch(s Status) Patch {
	return Patch{Status: &s}
}

// MediationPatch sets the analysis, the suggestions and the mediated status in one merge.
func MediationPatch(analysis string, suggestions Suggestions) Patch {
	status := StatusMediated
	if suggestions == nil {
		suggestions = Suggestions{}
	}
	return Patch{
		Status:      &status,
		AIAnalysis:  &analysis,
		Suggestions: suggestions.Clone(),
	}
}

// Apply merges p into d. Analysis and suggestions are only ever written as a pair.
func (p Patch) Apply(d Dispute) Dispute {
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.AIAnalysis != nil {
		a := *p.AIAnalysis
		d.AIAnalysis = &a
		d.SettlementSuggestions = p.Suggestions.Clone()
		if d.SettlementSuggestions == nil {
			d.SettlementSuggestions = Suggestions{}
		}
	}
	return d
}
