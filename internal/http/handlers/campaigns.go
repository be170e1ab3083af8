package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"smpeduli/internal/domain"
	"smpeduli/internal/gateway"
)

type campaignView struct {
	Title    string
	Campaign domain.Campaign
}

// CampaignDetail renders the full page for one campaign.
func (a *App) CampaignDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	campaign, err := a.Catalog.Campaign(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			a.renderMessage(w, http.StatusNotFound, "Campaign tidak ditemukan", "Campaign yang kamu cari tidak tersedia atau sudah berakhir.")
			return
		}
		a.Logger.Error().Err(err).Str("campaign_id", id).Msg("handlers: load campaign")
		a.renderMessage(w, http.StatusBadGateway, "Layanan sedang bermasalah", "Data campaign gagal dimuat. Silakan coba lagi beberapa saat.")
		return
	}

	a.render(w, http.StatusOK, "campaign", campaignView{Title: campaign.Name, Campaign: *campaign})
}

// isNotFound covers both the local sentinel and an upstream 404.
func isNotFound(err error) bool {
	if errors.Is(err, domain.ErrNotFound) {
		return true
	}
	var se *gateway.StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
