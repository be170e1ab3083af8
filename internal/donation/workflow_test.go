package donation

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"smpeduli/internal/domain"
	"smpeduli/internal/gateway"
)

type fakeGateway struct {
	banks          []domain.BankAccount
	banksErr       error
	createErr      error
	confirmErr     error
	donationID     string
	createCalls    int
	confirmCalls   int
	lastCreate     gateway.CreateDonationInput
	lastConfirmID  string
	lastConfirmed  []byte
	confirmEntered chan struct{}
	confirmRelease chan struct{}
}

func (f *fakeGateway) Banks(ctx context.Context) ([]domain.BankAccount, error) {
	return f.banks, f.banksErr
}

func (f *fakeGateway) CreateDonation(ctx context.Context, input gateway.CreateDonationInput) (string, error) {
	f.createCalls++
	f.lastCreate = input
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.donationID, nil
}

func (f *fakeGateway) ConfirmReceipt(ctx context.Context, donationID, filename string, file io.Reader) error {
	f.confirmCalls++
	f.lastConfirmID = donationID
	if f.confirmEntered != nil {
		f.confirmEntered <- struct{}{}
	}
	if f.confirmRelease != nil {
		<-f.confirmRelease
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	f.lastConfirmed = data
	return f.confirmErr
}

func newTestWorkflow(gw Gateway) *Workflow {
	return New("c1", "Bantu Pembangunan Masjid", gw, zerolog.New(io.Discard))
}

func validIntake() Intake {
	return Intake{Name: "Budi", WhatsApp: "081234567890", Email: "b@x.com", Amount: 100000}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestResolveAmountPresetAndCustom(t *testing.T) {
	// choosing a preset with the custom field cleared yields exactly the preset
	for _, preset := range []string{"25000", "50000", "100000"} {
		got := ResolveAmount(preset, "")
		want := domain.ParseAmount(preset)
		if got != want {
			t.Fatalf("ResolveAmount(%q, \"\") = %d, want %d", preset, got, want)
		}
	}
	// a typed custom amount overrides the preset
	if got := ResolveAmount("25000", "Rp 50.000"); got != 50000 {
		t.Fatalf("custom amount = %d, want 50000", got)
	}
	// garbage or empty custom input resolves to zero
	if got := ResolveAmount("", "abc"); got != 0 {
		t.Fatalf("non-numeric custom = %d, want 0", got)
	}
	if got := ResolveAmount("", ""); got != 0 {
		t.Fatalf("empty input = %d, want 0", got)
	}
	// presets outside the fixed set do not count
	if got := ResolveAmount("99999", ""); got != 0 {
		t.Fatalf("unknown preset = %d, want 0", got)
	}
}

func TestIntakeGuardBlocksIncompleteData(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Intake)
		field  string
	}{
		{"empty name", func(in *Intake) { in.Name = "" }, "name"},
		{"empty whatsapp", func(in *Intake) { in.WhatsApp = "" }, "whatsapp"},
		{"empty email", func(in *Intake) { in.Email = "" }, "email"},
		{"zero amount", func(in *Intake) { in.Amount = 0 }, "amount"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorkflow(&fakeGateway{})
			in := validIntake()
			tc.mutate(&in)

			err := w.SubmitIntake(in)
			if err == nil {
				t.Fatalf("incomplete intake should not advance")
			}
			var errs ValidationErrors
			if !errors.As(err, &errs) {
				t.Fatalf("error %v is not ValidationErrors", err)
			}
			if errs[0].Field != tc.field {
				t.Fatalf("field = %q, want %q", errs[0].Field, tc.field)
			}
			if w.Step() != StepIntake {
				t.Fatalf("step = %v, want unchanged StepIntake", w.Step())
			}
		})
	}
}

func TestSubmitIntakeAdvances(t *testing.T) {
	w := newTestWorkflow(&fakeGateway{})
	if err := w.SubmitIntake(validIntake()); err != nil {
		t.Fatalf("submit intake: %v", err)
	}
	if w.Step() != StepPayment {
		t.Fatalf("step = %v, want StepPayment", w.Step())
	}
	if w.Intake().Amount != 100000 {
		t.Fatalf("amount = %d", w.Intake().Amount)
	}
}

func TestLoadBanksAutoSelectsFirst(t *testing.T) {
	gw := &fakeGateway{banks: []domain.BankAccount{{ID: "B1", BankName: "BCA"}, {ID: "B2", BankName: "BSI"}}}
	w := newTestWorkflow(gw)
	if err := w.SubmitIntake(validIntake()); err != nil {
		t.Fatalf("submit intake: %v", err)
	}

	if err := w.LoadBanks(context.Background()); err != nil {
		t.Fatalf("load banks: %v", err)
	}
	if w.SelectedBankID() != "B1" {
		t.Fatalf("selected = %q, want first entry B1", w.SelectedBankID())
	}

	// the user may still change the selection before creating
	if err := w.SelectBank("B2"); err != nil {
		t.Fatalf("select bank: %v", err)
	}
	if w.SelectedBank().BankName != "BSI" {
		t.Fatalf("selected bank = %+v", w.SelectedBank())
	}

	if err := w.SelectBank("nope"); err != ErrUnknownBank {
		t.Fatalf("unknown bank error = %v, want ErrUnknownBank", err)
	}
}

func TestCreateDonationFailsFastWithoutBank(t *testing.T) {
	gw := &fakeGateway{}
	w := newTestWorkflow(gw)
	if err := w.SubmitIntake(validIntake()); err != nil {
		t.Fatalf("submit intake: %v", err)
	}

	err := w.CreateDonation(context.Background())
	if err != ErrNoBankSelected {
		t.Fatalf("error = %v, want ErrNoBankSelected", err)
	}
	if gw.createCalls != 0 {
		t.Fatalf("create should not reach the network without a bank")
	}
	if w.Step() != StepPayment {
		t.Fatalf("step = %v, want StepPayment", w.Step())
	}
}

func TestConfirmNeverRunsWithoutCreatedDonation(t *testing.T) {
	gw := &fakeGateway{banks: []domain.BankAccount{{ID: "B1"}}}
	w := newTestWorkflow(gw)
	if err := w.SubmitIntake(validIntake()); err != nil {
		t.Fatalf("submit intake: %v", err)
	}
	if err := w.LoadBanks(context.Background()); err != nil {
		t.Fatalf("load banks: %v", err)
	}

	// the proof step is unreachable before creation succeeds
	if err := w.ConfirmReceipt(context.Background()); err != ErrWrongStep {
		t.Fatalf("confirm before create = %v, want ErrWrongStep", err)
	}
	if gw.confirmCalls != 0 {
		t.Fatalf("confirm must never fire without a donation id")
	}
}

func TestEndToEndSuccess(t *testing.T) {
	gw := &fakeGateway{
		banks:      []domain.BankAccount{{ID: "B1", BankName: "BCA", AccountNumber: "123"}},
		donationID: "D123",
	}
	w := newTestWorkflow(gw)

	if err := w.SubmitIntake(Intake{Name: "Budi", WhatsApp: "0812345", Email: "b@x.com", Amount: 100000}); err != nil {
		t.Fatalf("submit intake: %v", err)
	}
	if err := w.LoadBanks(context.Background()); err != nil {
		t.Fatalf("load banks: %v", err)
	}
	if err := w.CreateDonation(context.Background()); err != nil {
		t.Fatalf("create donation: %v", err)
	}
	if w.Step() != StepProof {
		t.Fatalf("step = %v, want StepProof", w.Step())
	}
	if gw.lastCreate.BankID != "B1" || gw.lastCreate.PhoneNumber != "0812345" {
		t.Fatalf("create payload = %+v", gw.lastCreate)
	}

	proof := pngBytes(t)
	if err := w.AttachProof("proof.png", proof); err != nil {
		t.Fatalf("attach proof: %v", err)
	}
	if err := w.ConfirmReceipt(context.Background()); err != nil {
		t.Fatalf("confirm receipt: %v", err)
	}

	if w.Step() != StepCompleted {
		t.Fatalf("step = %v, want StepCompleted", w.Step())
	}
	if w.DonationID() != "D123" {
		t.Fatalf("donation id = %q, want D123", w.DonationID())
	}
	if gw.lastConfirmID != "D123" {
		t.Fatalf("confirm used id %q, want the one creation returned", gw.lastConfirmID)
	}
	if !bytes.Equal(gw.lastConfirmed, proof) {
		t.Fatalf("confirmed bytes differ from the attached file")
	}
	if w.Proof() != nil {
		t.Fatalf("local proof copy should be discarded after confirmation")
	}
}

func TestCreateFailureLeavesStateUntouched(t *testing.T) {
	gw := &fakeGateway{
		banks:     []domain.BankAccount{{ID: "B1"}, {ID: "B2"}},
		createErr: &gateway.StatusError{StatusCode: 500, Body: "internal error"},
	}
	w := newTestWorkflow(gw)
	if err := w.SubmitIntake(validIntake()); err != nil {
		t.Fatalf("submit intake: %v", err)
	}
	if err := w.LoadBanks(context.Background()); err != nil {
		t.Fatalf("load banks: %v", err)
	}
	if err := w.SelectBank("B2"); err != nil {
		t.Fatalf("select bank: %v", err)
	}

	err := w.CreateDonation(context.Background())
	if err == nil {
		t.Fatalf("expected create failure")
	}
	var statusErr *gateway.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 500 {
		t.Fatalf("error = %v, want 500 StatusError", err)
	}
	if w.Step() != StepPayment {
		t.Fatalf("step = %v, want still StepPayment", w.Step())
	}
	if w.SelectedBankID() != "B2" {
		t.Fatalf("selected bank changed to %q", w.SelectedBankID())
	}
	if w.Intake().Amount != 100000 {
		t.Fatalf("amount changed to %d", w.Intake().Amount)
	}

	// the same action may simply be retried
	gw.createErr = nil
	gw.donationID = "D77"
	if err := w.CreateDonation(context.Background()); err != nil {
		t.Fatalf("retry create: %v", err)
	}
	if w.Step() != StepProof || w.DonationID() != "D77" {
		t.Fatalf("retry did not advance: step=%v id=%q", w.Step(), w.DonationID())
	}
}

func TestRedoUploadPreservesDonationID(t *testing.T) {
	gw := &fakeGateway{banks: []domain.BankAccount{{ID: "B1"}}, donationID: "D123"}
	w := completedWorkflow(t, gw)

	if err := w.RedoUpload(); err != nil {
		t.Fatalf("redo upload: %v", err)
	}
	if w.Step() != StepProof {
		t.Fatalf("step = %v, want StepProof", w.Step())
	}
	if w.DonationID() != "D123" {
		t.Fatalf("donation id = %q, want preserved D123", w.DonationID())
	}

	// re-uploading confirms against the same donation, never a new one
	if err := w.AttachProof("proof2.png", pngBytes(t)); err != nil {
		t.Fatalf("attach proof: %v", err)
	}
	if err := w.ConfirmReceipt(context.Background()); err != nil {
		t.Fatalf("confirm receipt: %v", err)
	}
	if gw.createCalls != 1 {
		t.Fatalf("create calls = %d, want exactly 1", gw.createCalls)
	}
	if gw.lastConfirmID != "D123" {
		t.Fatalf("confirm id = %q, want D123", gw.lastConfirmID)
	}
}

func TestRedoUploadOnlyFromCompleted(t *testing.T) {
	w := newTestWorkflow(&fakeGateway{})
	if err := w.RedoUpload(); err != ErrWrongStep {
		t.Fatalf("redo from intake = %v, want ErrWrongStep", err)
	}
}

func TestConfirmRequiresProof(t *testing.T) {
	gw := &fakeGateway{banks: []domain.BankAccount{{ID: "B1"}}, donationID: "D1"}
	w := workflowAtProof(t, gw)

	if err := w.ConfirmReceipt(context.Background()); err != ErrNoProof {
		t.Fatalf("confirm without proof = %v, want ErrNoProof", err)
	}

	// removing a pending proof clears both the file and the preview
	if err := w.AttachProof("proof.png", pngBytes(t)); err != nil {
		t.Fatalf("attach proof: %v", err)
	}
	if w.Proof() == nil || w.Proof().Preview.Width != 2 {
		t.Fatalf("proof preview = %+v", w.Proof())
	}
	w.RemoveProof()
	if w.Proof() != nil {
		t.Fatalf("proof should be cleared")
	}
	if err := w.ConfirmReceipt(context.Background()); err != ErrNoProof {
		t.Fatalf("confirm after removal = %v, want ErrNoProof", err)
	}
}

func TestAttachProofRejectsNonImage(t *testing.T) {
	gw := &fakeGateway{banks: []domain.BankAccount{{ID: "B1"}}, donationID: "D1"}
	w := workflowAtProof(t, gw)

	err := w.AttachProof("notes.txt", []byte("definitely not an image"))
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "receipt_file" {
		t.Fatalf("error = %v, want receipt_file validation error", err)
	}
}

func TestConfirmIsSingleFlight(t *testing.T) {
	gw := &fakeGateway{
		banks:          []domain.BankAccount{{ID: "B1"}},
		donationID:     "D1",
		confirmEntered: make(chan struct{}, 1),
		confirmRelease: make(chan struct{}),
	}
	w := workflowAtProof(t, gw)
	if err := w.AttachProof("proof.png", pngBytes(t)); err != nil {
		t.Fatalf("attach proof: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- w.ConfirmReceipt(context.Background()) }()

	// wait for the first confirm to be inside the gateway call
	<-gw.confirmEntered
	if err := w.ConfirmReceipt(context.Background()); err != ErrActionInFlight {
		t.Fatalf("second confirm = %v, want ErrActionInFlight", err)
	}
	close(gw.confirmRelease)
	if err := <-done; err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if gw.confirmCalls != 1 {
		t.Fatalf("confirm calls = %d, want 1", gw.confirmCalls)
	}
}

func TestShareMessageCarriesDonationID(t *testing.T) {
	gw := &fakeGateway{banks: []domain.BankAccount{{ID: "B1"}}, donationID: "D123"}
	w := completedWorkflow(t, gw)

	msg := w.ShareMessage()
	if !bytes.Contains([]byte(msg), []byte("D123")) {
		t.Fatalf("share message %q missing donation id", msg)
	}
	link := w.WhatsAppShareURL()
	if !bytes.Contains([]byte(link), []byte("https://wa.me/?text=")) {
		t.Fatalf("share link = %q", link)
	}
}

func workflowAtProof(t *testing.T, gw *fakeGateway) *Workflow {
	t.Helper()
	w := newTestWorkflow(gw)
	if err := w.SubmitIntake(validIntake()); err != nil {
		t.Fatalf("submit intake: %v", err)
	}
	if err := w.LoadBanks(context.Background()); err != nil {
		t.Fatalf("load banks: %v", err)
	}
	if err := w.CreateDonation(context.Background()); err != nil {
		t.Fatalf("create donation: %v", err)
	}
	return w
}

func completedWorkflow(t *testing.T, gw *fakeGateway) *Workflow {
	t.Helper()
	w := workflowAtProof(t, gw)
	if err := w.AttachProof("proof.png", pngBytes(t)); err != nil {
		t.Fatalf("attach proof: %v", err)
	}
	if err := w.ConfirmReceipt(context.Background()); err != nil {
		t.Fatalf("confirm receipt: %v", err)
	}
	return w
}
