package fakebackend

import "SettleKaro/internal/domain/dispute"

// Seed loads a handful of sample disputes.
func Seed(m *Memory) {
	amount := func(v float64) *float64 { return &v }
	samples := []dispute.DisputeInfo{
		{
			Title:       "Unpaid web design invoice",
			Description: "Client has not paid the final 40% after site delivery.",
			Category:    dispute.CategoryPayment,
			Amount:      amount(1200),
			Parties:     dispute.Parties{Plaintiff: "Studio North", Defendant: "Bright Bakery"},
		},
		{
			Title:       "Security deposit withheld",
			Description: "Landlord kept the full deposit citing wear and tear.",
			Category:    dispute.CategoryProperty,
			Amount:      amount(850),
			Parties:     dispute.Parties{Plaintiff: "R. Mehta", Defendant: "Lakeview Rentals"},
		},
		{
			Title:       "Missed delivery deadline",
			Description: "Supplier delivered components three weeks late, breaching the contract.",
			Category:    dispute.CategoryContract,
			Parties:     dispute.Parties{Plaintiff: "Voltline", Defendant: "Parts & Co"},
		},
	}
	for _, info := range samples {
		m.Create(dispute.Dispute{DisputeInfo: info})
	}
}
