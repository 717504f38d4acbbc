package fakebackend

import (
	"fmt"
	"strconv"
	"strings"

	"SettleKaro/internal/domain/dispute"
)

// Mediator stands in for the AI inference service.
type Mediator interface {
	Analyze(d dispute.Dispute) (analysis string, suggestions dispute.Suggestions)
	Reply(d dispute.Dispute, message string) string
}

// CannedMediator answers with fixed, dispute-aware text.
type CannedMediator struct{}

func (CannedMediator) Analyze(d dispute.Dispute) (string, dispute.Suggestions) {
	analysis := fmt.Sprintf(
		"The %s dispute %q between %s and %s turns on the obligations described by both parties. %d evidence item(s) were reviewed.",
		d.Category, d.Title, partyOr(d.Parties.Plaintiff, "Party A"), partyOr(d.Parties.Defendant, "Party B"), len(d.Evidence),
	)

	partial := "the disputed amount"
	if d.Amount != nil && *d.Amount > 0 {
		partial = strconv.FormatFloat(*d.Amount*0.7, 'f', 2, 64)
	}
	return analysis, dispute.Suggestions{
		"Mediated Settlement: Both parties engage in formal mediation to reach a mutually acceptable resolution",
		"Partial Payment: Structured payment plan for " + partial,
		"Alternative Resolution: Non-monetary compensation or service-based settlement",
		"Legal Documentation: Create formal agreement outlining resolution terms and future obligations",
	}
}

func (CannedMediator) Reply(d dispute.Dispute, message string) string {
	topic := []rune(strings.TrimSpace(message))
	if len(topic) > 60 {
		topic = append(topic[:60], []rune("...")...)
	}
	return fmt.Sprintf("Regarding %q in %q: both parties should document their position and consider the suggested settlement options.", string(topic), d.Title)
}

func partyOr(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}
