// Package handlers contains the HTTP handlers behind the public site:
// landing page, campaign detail, the donation wizard and the donation
// status lookup.
package handlers

import (
	"context"
	"net/http"
	"sync"

	"smpeduli/internal/bankdir"
	"smpeduli/internal/catalog"
	"smpeduli/internal/domain"
	"smpeduli/internal/donation"
	"smpeduli/internal/infra"
	"smpeduli/internal/web"
)

// DonationReader is the slice of the API client the status page needs.
type DonationReader interface {
	Donation(ctx context.Context, id string) (*domain.DonationDetail, error)
}

// Notice is a one-shot message shown on the next wizard page view, then
// discarded.
type Notice struct {
	Kind    string // "info", "warning" or "error"
	Message string
}

// App is the handler container. One instance serves all routes.
type App struct {
	Catalog   *catalog.Provider
	Banks     *bankdir.Provider
	Donations DonationReader
	Workflows *donation.Store
	Gateway   donation.Gateway
	Views     *web.Renderer
	Logger    infra.Logger

	mu      sync.Mutex
	notices map[string]Notice
}

func NewApp(cat *catalog.Provider, banks *bankdir.Provider, donations DonationReader, store *donation.Store, gw donation.Gateway, views *web.Renderer, logger infra.Logger) *App {
	return &App{
		Catalog:   cat,
		Banks:     banks,
		Donations: donations,
		Workflows: store,
		Gateway:   &wizardGateway{Gateway: gw, banks: banks},
		Views:     views,
		Logger:    logger,
		notices:   make(map[string]Notice),
	}
}

// wizardGateway routes the account-list fetch through the shared directory so
// concurrent sessions collapse into one upstream call.
type wizardGateway struct {
	donation.Gateway
	banks *bankdir.Provider
}

func (g *wizardGateway) Banks(ctx context.Context) ([]domain.BankAccount, error) {
	return g.banks.Banks(ctx)
}

// setNotice queues a message for the next render of the given workflow.
func (a *App) setNotice(workflowID string, n Notice) {
	a.mu.Lock()
	a.notices[workflowID] = n
	a.mu.Unlock()
}

// takeNotice pops the queued message, if any.
func (a *App) takeNotice(workflowID string) *Notice {
	a.mu.Lock()
	defer a.mu.Unlock()
	n, ok := a.notices[workflowID]
	if !ok {
		return nil
	}
	delete(a.notices, workflowID)
	return &n
}

func (a *App) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := a.Views.Render(w, name, data); err != nil {
		a.Logger.Error().Err(err).Str("template", name).Msg("handlers: render failed")
	}
}

type messageView struct {
	Title   string
	Heading string
	Detail  string
}

// renderMessage draws the generic standalone message page.
func (a *App) renderMessage(w http.ResponseWriter, status int, heading, detail string) {
	a.render(w, status, "message", messageView{Title: heading, Heading: heading, Detail: detail})
}
