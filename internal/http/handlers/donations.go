package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"smpeduli/internal/domain"
)

type donationStatusView struct {
	Title    string
	Donation *domain.DonationDetail
}

// DonationStatus renders the platform's view of one donation.
func (a *App) DonationStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := a.Donations.Donation(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			a.renderMessage(w, http.StatusNotFound, "Donasi tidak ditemukan", "ID donasi tidak dikenali. Periksa kembali tautannya.")
			return
		}
		a.Logger.Error().Err(err).Str("donation_id", id).Msg("handlers: donation status")
		a.renderMessage(w, http.StatusBadGateway, "Layanan sedang bermasalah", "Status donasi gagal dimuat. Silakan coba lagi beberapa saat.")
		return
	}

	a.render(w, http.StatusOK, "donation_status", donationStatusView{Title: "Status Donasi", Donation: detail})
}
