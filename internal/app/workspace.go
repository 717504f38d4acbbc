// Package app wires the dispute client: backend, store, workflows, chat
// session and reports, plus the UI state shared by every surface.
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"SettleKaro/config"
	"SettleKaro/internal/backend"
	"SettleKaro/internal/chat"
	"SettleKaro/internal/domain/dispute"
	"SettleKaro/internal/report"
	"SettleKaro/internal/store"
	"SettleKaro/internal/workflow"
	"SettleKaro/pkg/health"
)

// ErrNothingToReport is returned when the selected dispute has no suggestions.
var ErrNothingToReport = errors.New("selected dispute has no settlement suggestions")

type Workspace struct {
	client backend.Client
	log    *slog.Logger

	Store     *store.Store
	Submitter *workflow.Submitter
	Status    *workflow.StatusController
	Mediator  *workflow.Mediator
	Chat      *chat.Session

	health    *health.Registry
	reportDir string

	busy atomic.Int32

	mu            sync.Mutex
	view          workflow.View
	viewListeners []func(workflow.View)
}

// New builds a workspace talking HTTP to cfg.BaseURL.
func New(cfg config.ClientConfig, log *slog.Logger) *Workspace {
	client := backend.NewHTTPClient(backend.HTTPClientConfig{
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.HTTPTimeout,
		RetryAttempts:  cfg.RetryAttempts,
		RetryBaseDelay: cfg.RetryBaseDelay,
		RetryMaxDelay:  cfg.RetryMaxDelay,
	})
	return NewWithClient(client, cfg.ReportDir, log)
}

func NewWithClient(client backend.Client, reportDir string, log *slog.Logger) *Workspace {
	if log == nil {
		log = slog.Default()
	}
	s := store.New(client, log)
	w := &Workspace{
		client:    client,
		log:       log,
		Store:     s,
		Status:    workflow.NewStatusController(client, s, log),
		Mediator:  workflow.NewMediator(client, s, log),
		Chat:      chat.NewSession(client, s, log),
		health:    health.NewRegistry(health.DefaultTimeout, backend.NewHealthChecker(client)),
		reportDir: reportDir,
		view:      workflow.ViewSubmit,
	}
	w.Submitter = workflow.NewSubmitter(client, s, w, log)
	return w
}

// Close releases the chat subscription and the HTTP client.
func (w *Workspace) Close() error {
	w.Chat.Close()
	return w.client.Close()
}

// Show switches the active surface.
func (w *Workspace) Show(v workflow.View) {
	w.mu.Lock()
	if w.view == v {
		w.mu.Unlock()
		return
	}
	w.view = v
	fns := append(([]func(workflow.View))(nil), w.viewListeners...)
	w.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

func (w *Workspace) View() workflow.View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view
}

// OnViewChange registers fn to run whenever the active surface changes.
func (w *Workspace) OnViewChange(fn func(workflow.View)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.viewListeners = append(w.viewListeners, fn)
}

// Busy reports whether any user initiated operation is in flight. It gates UI
// affordances only; operations on different disputes still overlap.
func (w *Workspace) Busy() bool {
	return w.busy.Load() > 0
}

func (w *Workspace) track() func() {
	w.busy.Add(1)
	return func() { w.busy.Add(-1) }
}

func (w *Workspace) Refresh(ctx context.Context) ([]dispute.Dispute, error) {
	return w.Store.ListAll(ctx)
}

func (w *Workspace) Submit(ctx context.Context, draft *dispute.Draft) (string, error) {
	defer w.track()()
	return w.Submitter.Submit(ctx, draft)
}

func (w *Workspace) SetStatus(ctx context.Context, id string, status dispute.Status) error {
	defer w.track()()
	return w.Status.SetStatus(ctx, id, status)
}

// Resolve is the one status action the tracking surface offers.
func (w *Workspace) Resolve(ctx context.Context, id string) error {
	return w.SetStatus(ctx, id, dispute.StatusResolved)
}

// SelectForMediation activates id and opens the mediation surface.
func (w *Workspace) SelectForMediation(id string) error {
	if err := w.Store.Select(id); err != nil {
		return err
	}
	w.Show(workflow.ViewMediate)
	return nil
}

// Mediate requests mediation for the selected dispute.
func (w *Workspace) Mediate(ctx context.Context) error {
	defer w.track()()
	return w.Mediator.RequestMediationForSelection(ctx)
}

func (w *Workspace) SendChat(ctx context.Context, text string) error {
	defer w.track()()
	return w.Chat.Send(ctx, text)
}

// SaveReport writes the report of the selected dispute into the report
// directory and returns its path.
func (w *Workspace) SaveReport() (string, error) {
	sel, ok := w.Store.Selected()
	if !ok {
		return "", workflow.ErrNoSelection
	}
	doc := report.Render(&sel)
	if doc == nil {
		return "", ErrNothingToReport
	}
	return doc.Save(w.reportDir)
}

// ExportReports writes a report for every mediated dispute in the store.
func (w *Workspace) ExportReports(ctx context.Context) ([]string, error) {
	return report.ExportAll(ctx, w.Store.Snapshot().Disputes, w.reportDir)
}

func (w *Workspace) Stats() store.Stats {
	return w.Store.Stats()
}

func (w *Workspace) Health(ctx context.Context) health.Report {
	return w.health.CheckAll(ctx)
}

// Get fetches one dispute directly from the backend.
func (w *Workspace) Get(ctx context.Context, id string) (*dispute.Dispute, error) {
	return w.client.GetDispute(ctx, id)
}
