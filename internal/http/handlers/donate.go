package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"smpeduli/internal/domain"
	"smpeduli/internal/donation"
	"smpeduli/internal/gateway"
	"smpeduli/pkg/metrics"
)

// StartDonation opens a fresh wizard instance for one campaign and sends the
// visitor to it.
func (a *App) StartDonation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	campaign, err := a.Catalog.Campaign(r.Context(), id)
	if err != nil {
		metrics.IncWizardAction("start", "error")
		if isNotFound(err) {
			a.renderMessage(w, http.StatusNotFound, "Campaign tidak ditemukan", "Campaign yang kamu cari tidak tersedia atau sudah berakhir.")
			return
		}
		a.Logger.Error().Err(err).Str("campaign_id", id).Msg("handlers: start donation")
		a.renderMessage(w, http.StatusBadGateway, "Layanan sedang bermasalah", "Donasi belum bisa dimulai. Silakan coba lagi beberapa saat.")
		return
	}

	wf := donation.New(campaign.ID, campaign.Name, a.Gateway, a.Logger)
	a.Workflows.Put(wf)
	metrics.IncWizardAction("start", "ok")
	a.redirectWizard(w, r, wf)
}

// workflow resolves the wizard instance for the request, drawing the
// expired-session page when it is gone.
func (a *App) workflow(w http.ResponseWriter, r *http.Request) (*donation.Workflow, bool) {
	id := chi.URLParam(r, "id")
	wf, ok := a.Workflows.Get(id)
	if !ok {
		a.renderMessage(w, http.StatusNotFound, "Sesi donasi tidak ditemukan", "Sesi mungkin sudah kedaluwarsa. Silakan mulai donasi baru dari halaman campaign.")
		return nil, false
	}
	return wf, true
}

func (a *App) redirectWizard(w http.ResponseWriter, r *http.Request, wf *donation.Workflow) {
	http.Redirect(w, r, "/donate/"+wf.ID, http.StatusSeeOther)
}

type intakeView struct {
	Title        string
	WorkflowID   string
	CampaignName string
	Presets      []int64
	Intake       donation.Intake
	Notice       *Notice
}

type paymentView struct {
	Title        string
	WorkflowID   string
	CampaignName string
	Amount       int64
	Banks        []domain.BankAccount
	SelectedID   string
	Notice       *Notice
}

type proofView struct {
	Title        string
	WorkflowID   string
	CampaignName string
	Amount       int64
	DonationID   string
	Bank         *domain.BankAccount
	Proof        *donation.Proof
	Notice       *Notice
}

type doneView struct {
	Title        string
	WorkflowID   string
	CampaignName string
	DonationID   string
	ShareURL     string
	Notice       *Notice
}

// ShowWizard renders whichever step the workflow is on. Entering the payment
// step with no account list yet triggers the directory fetch.
func (a *App) ShowWizard(w http.ResponseWriter, r *http.Request) {
	wf, ok := a.workflow(w, r)
	if !ok {
		return
	}
	notice := a.takeNotice(wf.ID)

	switch wf.Step() {
	case donation.StepIntake:
		a.render(w, http.StatusOK, "donate_intake", intakeView{
			Title:        "Donasi",
			WorkflowID:   wf.ID,
			CampaignName: wf.CampaignName,
			Presets:      donation.PresetAmounts,
			Intake:       wf.Intake(),
			Notice:       notice,
		})

	case donation.StepPayment:
		if len(wf.Banks()) == 0 {
			if err := wf.LoadBanks(r.Context()); err != nil && !errors.Is(err, donation.ErrActionInFlight) {
				a.Logger.Error().Err(err).Str("workflow_id", wf.ID).Msg("handlers: load banks")
				if notice == nil {
					n := noticeFor(err)
					notice = &n
				}
			}
		}
		a.render(w, http.StatusOK, "donate_payment", paymentView{
			Title:        "Pilih Rekening",
			WorkflowID:   wf.ID,
			CampaignName: wf.CampaignName,
			Amount:       wf.Intake().Amount,
			Banks:        wf.Banks(),
			SelectedID:   wf.SelectedBankID(),
			Notice:       notice,
		})

	case donation.StepProof:
		a.render(w, http.StatusOK, "donate_proof", proofView{
			Title:        "Bukti Transfer",
			WorkflowID:   wf.ID,
			CampaignName: wf.CampaignName,
			Amount:       wf.Intake().Amount,
			DonationID:   wf.DonationID(),
			Bank:         wf.SelectedBank(),
			Proof:        wf.Proof(),
			Notice:       notice,
		})

	case donation.StepCompleted:
		a.render(w, http.StatusOK, "donate_done", doneView{
			Title:        "Terima Kasih",
			WorkflowID:   wf.ID,
			CampaignName: wf.CampaignName,
			DonationID:   wf.DonationID(),
			ShareURL:     wf.WhatsAppShareURL(),
			Notice:       notice,
		})
	}
}

// SubmitIntake applies step 1 of the wizard.
func (a *App) SubmitIntake(w http.ResponseWriter, r *http.Request) {
	wf, ok := a.workflow(w, r)
	if !ok {
		return
	}
	in := donation.Intake{
		Name:     strings.TrimSpace(r.FormValue("name")),
		WhatsApp: strings.TrimSpace(r.FormValue("whatsapp")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Message:  strings.TrimSpace(r.FormValue("message")),
		Amount:   donation.ResolveAmount(r.FormValue("preset"), r.FormValue("custom_amount")),
	}
	a.recordAction(wf, "intake", wf.SubmitIntake(in))
	a.redirectWizard(w, r, wf)
}

// SelectBank switches the receiving account on step 2.
func (a *App) SelectBank(w http.ResponseWriter, r *http.Request) {
	wf, ok := a.workflow(w, r)
	if !ok {
		return
	}
	a.recordAction(wf, "select_bank", wf.SelectBank(r.FormValue("bank_id")))
	a.redirectWizard(w, r, wf)
}

// CreateDonation performs the remote create call and moves to the proof step.
func (a *App) CreateDonation(w http.ResponseWriter, r *http.Request) {
	wf, ok := a.workflow(w, r)
	if !ok {
		return
	}
	err := wf.CreateDonation(r.Context())
	a.recordAction(wf, "create", err)
	if err == nil {
		a.setNotice(wf.ID, Notice{Kind: "info", Message: "Donasi dibuat. Selesaikan transfer lalu unggah buktinya."})
	}
	a.redirectWizard(w, r, wf)
}

// UploadProof attaches the receipt image from the multipart form.
func (a *App) UploadProof(w http.ResponseWriter, r *http.Request) {
	wf, ok := a.workflow(w, r)
	if !ok {
		return
	}

	// Slack over the proof cap so an oversized file reaches the size guard
	// instead of failing as a malformed form.
	if err := r.ParseMultipartForm(donation.MaxProofBytes + 512*1024); err != nil {
		a.recordAction(wf, "proof", &donation.ValidationError{Field: gateway.ReceiptField, Message: "ukuran file maksimal 5MB"})
		a.redirectWizard(w, r, wf)
		return
	}

	file, header, err := r.FormFile(gateway.ReceiptField)
	if err != nil {
		a.recordAction(wf, "proof", &donation.ValidationError{Field: gateway.ReceiptField, Message: "pilih file bukti transfer terlebih dahulu"})
		a.redirectWizard(w, r, wf)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, donation.MaxProofBytes+1))
	if err != nil {
		a.recordAction(wf, "proof", err)
		a.redirectWizard(w, r, wf)
		return
	}

	a.recordAction(wf, "proof", wf.AttachProof(header.Filename, data))
	a.redirectWizard(w, r, wf)
}

// RemoveProof discards the pending receipt image.
func (a *App) RemoveProof(w http.ResponseWriter, r *http.Request) {
	wf, ok := a.workflow(w, r)
	if !ok {
		return
	}
	wf.RemoveProof()
	metrics.IncWizardAction("remove_proof", "ok")
	a.redirectWizard(w, r, wf)
}

// ConfirmReceipt submits the receipt and completes the wizard.
func (a *App) ConfirmReceipt(w http.ResponseWriter, r *http.Request) {
	wf, ok := a.workflow(w, r)
	if !ok {
		return
	}
	err := wf.ConfirmReceipt(r.Context())
	a.recordAction(wf, "confirm", err)
	if err == nil {
		a.setNotice(wf.ID, Notice{Kind: "info", Message: "Bukti transfer diterima. Terima kasih sudah berdonasi."})
	}
	a.redirectWizard(w, r, wf)
}

// RedoUpload steps a completed donation back to the proof step.
func (a *App) RedoUpload(w http.ResponseWriter, r *http.Request) {
	wf, ok := a.workflow(w, r)
	if !ok {
		return
	}
	a.recordAction(wf, "redo", wf.RedoUpload())
	a.redirectWizard(w, r, wf)
}

// recordAction counts the wizard action and, on failure, queues the
// user-facing message for the next page view.
func (a *App) recordAction(wf *donation.Workflow, action string, err error) {
	if err == nil {
		metrics.IncWizardAction(action, "ok")
		return
	}
	metrics.IncWizardAction(action, "error")
	a.Logger.Warn().Err(err).Str("workflow_id", wf.ID).Str("action", action).Msg("handlers: wizard action failed")
	a.setNotice(wf.ID, noticeFor(err))
}

// noticeFor translates workflow errors into the message shown to the donor.
func noticeFor(err error) Notice {
	var verrs donation.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, ve := range verrs {
			msgs = append(msgs, ve.Message)
		}
		return Notice{Kind: "warning", Message: strings.Join(msgs, ", ")}
	}
	var verr *donation.ValidationError
	if errors.As(err, &verr) {
		return Notice{Kind: "warning", Message: verr.Message}
	}
	var se *gateway.StatusError
	if errors.As(err, &se) {
		msg := fmt.Sprintf("Permintaan ke server gagal (%d)", se.StatusCode)
		if body := strings.TrimSpace(se.Body); body != "" {
			msg += ": " + body
		}
		return Notice{Kind: "error", Message: msg + ". Silakan coba lagi."}
	}
	switch {
	case errors.Is(err, donation.ErrActionInFlight):
		return Notice{Kind: "info", Message: "Permintaan sebelumnya masih diproses."}
	case errors.Is(err, donation.ErrNoBankSelected):
		return Notice{Kind: "warning", Message: "Pilih rekening tujuan terlebih dahulu."}
	case errors.Is(err, donation.ErrUnknownBank):
		return Notice{Kind: "warning", Message: "Rekening yang dipilih tidak tersedia."}
	case errors.Is(err, donation.ErrNoProof):
		return Notice{Kind: "warning", Message: "Unggah bukti transfer terlebih dahulu."}
	case errors.Is(err, donation.ErrNotCreated):
		return Notice{Kind: "error", Message: "Donasi belum dibuat. Ulangi dari langkah sebelumnya."}
	case errors.Is(err, donation.ErrWrongStep):
		return Notice{Kind: "warning", Message: "Aksi ini tidak tersedia pada langkah saat ini."}
	}
	return Notice{Kind: "error", Message: "Terjadi kesalahan. Silakan coba lagi."}
}
