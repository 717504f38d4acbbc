package workflow

import (
	"context"

	"SettleKaro/internal/backend"
	"SettleKaro/internal/domain/dispute"
)

//go:generate mockgen -source ports.go -destination mock_ports.go -package workflow

// Backend is the part of the dispute API the workflows drive.
type Backend interface {
	ListDisputes(ctx context.Context) ([]dispute.Dispute, error)
	CreateDispute(ctx context.Context, draft *dispute.Draft) (*dispute.Dispute, error)
	UpdateStatus(ctx context.Context, id string, status dispute.Status) error
	Mediate(ctx context.Context, id string) (backend.MediationResult, error)
}

// View is a surface of the client UI.
type View string

const (
	ViewSubmit  View = "submit"
	ViewTrack   View = "track"
	ViewMediate View = "mediate"
)

// Navigator switches the active UI surface.
type Navigator interface {
	Show(v View)
}
