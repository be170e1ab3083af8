// Package donation owns the 3-step donation lifecycle: intake,
// payment-account selection with donation creation, and proof upload with
// receipt confirmation. A Workflow instance exclusively owns its intake
// data, bank selection and pending proof; the donation id is issued by the
// remote platform and only copied here.
package donation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"smpeduli/internal/bankdir"
	"smpeduli/internal/domain"
	"smpeduli/internal/gateway"
	"smpeduli/internal/infra"
)

// Step enumerates the wizard states.
type Step int

const (
	StepIntake Step = iota + 1
	StepPayment
	StepProof
	StepCompleted
)

func (s Step) String() string {
	switch s {
	case StepIntake:
		return "intake"
	case StepPayment:
		return "payment"
	case StepProof:
		return "proof"
	case StepCompleted:
		return "completed"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// PresetAmounts are the fixed donation amounts offered on step 1, in whole
// Rupiah.
var PresetAmounts = []int64{25000, 50000, 100000}

var (
	ErrWrongStep      = errors.New("donation: action not allowed in current step")
	ErrActionInFlight = errors.New("donation: action already in progress")
	ErrNoBankSelected = errors.New("donation: no bank account selected")
	ErrUnknownBank    = errors.New("donation: bank account not in directory")
	ErrNotCreated     = errors.New("donation: donation has not been created yet")
	ErrNoProof        = errors.New("donation: no proof of payment attached")
)

// ValidationError reports a guard failure on a single input field. The
// user stays on the current step and the message is shown next to the field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("donation: %s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates per-field guard failures so a step can report
// everything that is still missing at once.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("donation: %d fields invalid", len(e))
}

// Intake holds the donor data collected on step 1. Amount is whole Rupiah.
type Intake struct {
	Name     string
	WhatsApp string
	Email    string
	Message  string
	Amount   int64
}

// Validate applies the intake guard: name, WhatsApp number and email must be
// non-empty and the amount positive.
func (in Intake) Validate() ValidationErrors {
	var errs ValidationErrors
	if in.Name == "" {
		errs = append(errs, &ValidationError{Field: "name", Message: "nama wajib diisi"})
	}
	if in.WhatsApp == "" {
		errs = append(errs, &ValidationError{Field: "whatsapp", Message: "nomor WhatsApp wajib diisi"})
	}
	if in.Email == "" {
		errs = append(errs, &ValidationError{Field: "email", Message: "email wajib diisi"})
	}
	if in.Amount <= 0 {
		errs = append(errs, &ValidationError{Field: "amount", Message: "jumlah donasi wajib diisi"})
	}
	return errs
}

// ResolveAmount applies the amount rules for step 1: free text wins when
// present (non-digits stripped), otherwise the chosen preset counts, and a
// preset outside the fixed set resolves to zero.
func ResolveAmount(presetRaw, customRaw string) int64 {
	if customRaw != "" {
		return domain.ParseAmount(customRaw)
	}
	preset := domain.ParseAmount(presetRaw)
	for _, allowed := range PresetAmounts {
		if preset == allowed {
			return preset
		}
	}
	return 0
}

// Gateway is the slice of remote operations the workflow drives.
type Gateway interface {
	Banks(ctx context.Context) ([]domain.BankAccount, error)
	CreateDonation(ctx context.Context, input gateway.CreateDonationInput) (string, error)
	ConfirmReceipt(ctx context.Context, donationID, filename string, file io.Reader) error
}

// Workflow is one donation wizard instance. Methods are safe for the
// interleaved request handling a single visitor produces; each async action
// carries its own in-flight flag so double-submits do not double-fire.
type Workflow struct {
	ID           string
	CampaignID   string
	CampaignName string

	gw  Gateway
	log infra.Logger

	mu         sync.Mutex
	step       Step
	intake     Intake
	banks      []domain.BankAccount
	bankID     string
	donationID string
	proof      *Proof
	touched    time.Time

	loadingBanks atomic.Bool
	creating     atomic.Bool
	confirming   atomic.Bool
}

// New starts a workflow at the intake step for one campaign.
func New(campaignID, campaignName string, gw Gateway, log infra.Logger) *Workflow {
	return &Workflow{
		ID:           uuid.NewString(),
		CampaignID:   campaignID,
		CampaignName: campaignName,
		gw:           gw,
		log:          log,
		step:         StepIntake,
		touched:      time.Now(),
	}
}

// Step returns the current wizard state.
func (w *Workflow) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Intake returns a copy of the collected donor data.
func (w *Workflow) Intake() Intake {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.intake
}

// Banks returns the loaded receiving-account list in server order.
func (w *Workflow) Banks() []domain.BankAccount {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.banks
}

// SelectedBankID returns the currently chosen receiving-account id.
func (w *Workflow) SelectedBankID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bankID
}

// SelectedBank resolves the chosen account against the loaded list.
func (w *Workflow) SelectedBank() *domain.BankAccount {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.banks {
		if w.banks[i].ID == w.bankID {
			bank := w.banks[i]
			return &bank
		}
	}
	return nil
}

// DonationID returns the platform-issued donation identifier, empty until
// creation succeeds. It remains available for the lifetime of the Completed
// state.
func (w *Workflow) DonationID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.donationID
}

// Proof returns the pending proof of payment, if any.
func (w *Workflow) Proof() *Proof {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.proof
}

// Touch marks the instance as recently active.
func (w *Workflow) Touch() {
	w.mu.Lock()
	w.touched = time.Now()
	w.mu.Unlock()
}

// LastActive reports when the instance was last used.
func (w *Workflow) LastActive() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.touched
}

// SubmitIntake validates step 1 and advances to payment selection. On guard
// failure the workflow stays put and the field-level errors are returned.
func (w *Workflow) SubmitIntake(in Intake) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepIntake {
		return ErrWrongStep
	}
	if errs := in.Validate(); len(errs) > 0 {
		return errs
	}
	w.intake = in
	w.step = StepPayment
	w.log.Debug().Str("workflow_id", w.ID).Msg("donation: intake accepted")
	return nil
}

// LoadBanks fetches the receiving-account list on entry to the payment step.
// A successful non-empty load auto-selects the first entry unless the
// current selection is still valid.
func (w *Workflow) LoadBanks(ctx context.Context) error {
	w.mu.Lock()
	if w.step != StepPayment {
		w.mu.Unlock()
		return ErrWrongStep
	}
	w.mu.Unlock()

	if !w.loadingBanks.CompareAndSwap(false, true) {
		return ErrActionInFlight
	}
	defer w.loadingBanks.Store(false)

	banks, err := w.gw.Banks(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.banks = banks
	if !w.selectionValidLocked() {
		w.bankID = bankdir.DefaultSelection(banks)
	}
	return nil
}

func (w *Workflow) selectionValidLocked() bool {
	if w.bankID == "" {
		return false
	}
	for i := range w.banks {
		if w.banks[i].ID == w.bankID {
			return true
		}
	}
	return false
}

// SelectBank changes the chosen receiving account. Only accounts from the
// loaded directory are accepted.
func (w *Workflow) SelectBank(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepPayment {
		return ErrWrongStep
	}
	for i := range w.banks {
		if w.banks[i].ID == id {
			w.bankID = id
			return nil
		}
	}
	return ErrUnknownBank
}

// CreateDonation performs the create-donation call and advances to the
// proof-upload step. Missing bank selection or a non-positive amount fails
// fast, before any network traffic.
func (w *Workflow) CreateDonation(ctx context.Context) error {
	w.mu.Lock()
	if w.step != StepPayment {
		w.mu.Unlock()
		return ErrWrongStep
	}
	if w.bankID == "" {
		w.mu.Unlock()
		return ErrNoBankSelected
	}
	if w.intake.Amount <= 0 {
		w.mu.Unlock()
		return &ValidationError{Field: "amount", Message: "jumlah donasi tidak valid"}
	}
	input := gateway.CreateDonationInput{
		CampaignID:  w.CampaignID,
		Amount:      w.intake.Amount,
		Name:        w.intake.Name,
		Email:       w.intake.Email,
		PhoneNumber: w.intake.WhatsApp,
		Message:     w.intake.Message,
		BankID:      w.bankID,
	}
	w.mu.Unlock()

	if !w.creating.CompareAndSwap(false, true) {
		return ErrActionInFlight
	}
	defer w.creating.Store(false)

	donationID, err := w.gw.CreateDonation(ctx, input)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.donationID = donationID
	w.step = StepProof
	w.log.Info().Str("workflow_id", w.ID).Str("donation_id", donationID).Msg("donation: created")
	return nil
}

// AttachProof stores the uploaded image and its decoded preview. Attaching
// replaces any pending proof.
func (w *Workflow) AttachProof(filename string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepProof {
		return ErrWrongStep
	}
	proof, err := NewProof(filename, data)
	if err != nil {
		return err
	}
	w.proof = proof
	return nil
}

// RemoveProof clears the pending image and its preview together.
func (w *Workflow) RemoveProof() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.proof = nil
}

// ConfirmReceipt uploads the pending proof for the created donation and
// completes the workflow. The local proof copy is discarded on success; the
// donation id stays available.
func (w *Workflow) ConfirmReceipt(ctx context.Context) error {
	w.mu.Lock()
	if w.step != StepProof {
		w.mu.Unlock()
		return ErrWrongStep
	}
	if w.donationID == "" {
		w.mu.Unlock()
		return ErrNotCreated
	}
	if w.proof == nil {
		w.mu.Unlock()
		return ErrNoProof
	}
	donationID := w.donationID
	proof := w.proof
	w.mu.Unlock()

	if !w.confirming.CompareAndSwap(false, true) {
		return ErrActionInFlight
	}
	defer w.confirming.Store(false)

	if err := w.gw.ConfirmReceipt(ctx, donationID, proof.Filename, proof.Reader()); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.proof = nil
	w.step = StepCompleted
	w.log.Info().Str("workflow_id", w.ID).Str("donation_id", donationID).Msg("donation: receipt confirmed")
	return nil
}

// RedoUpload steps back from Completed to the proof-upload step so the
// receipt can be re-sent. The existing donation id is preserved; no new
// donation is created.
func (w *Workflow) RedoUpload() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepCompleted {
		return ErrWrongStep
	}
	w.proof = nil
	w.step = StepProof
	return nil
}

// ShareMessage is the text offered for sharing a completed donation.
func (w *Workflow) ShareMessage() string {
	return fmt.Sprintf("Saya baru saja berdonasi untuk %q. ID Donasi: %s", w.CampaignName, w.DonationID())
}

// WhatsAppShareURL is the messaging deep link for the Completed pane.
func (w *Workflow) WhatsAppShareURL() string {
	return "https://wa.me/?text=" + url.QueryEscape(w.ShareMessage())
}
