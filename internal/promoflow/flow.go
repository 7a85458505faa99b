package promoflow

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"bazarBack/internal/models"
)

// Flow states. The purchase dialog moves strictly forward through them;
// Back returns from awaiting_payment to selecting but submitted is terminal.
const (
	StateSelecting       = "selecting"
	StateAwaitingPayment = "awaiting_payment"
	StateSubmitted       = "submitted"
)

const defaultDurationDays = 7

const msgSelectFields = "Please select placement, duration and chain"
const msgProvideProof = "Please provide transaction hash and payment screenshot"
const msgCreateFailed = "Failed to create promotion"
const msgUploadFailed = "Failed to upload screenshot"
const msgSubmitFailed = "Failed to submit payment proof"
const msgNoFile = "Please choose a screenshot file first"

// ErrBusy is returned when an operation is re-triggered while the previous
// call is still in flight.
var ErrBusy = errors.New("operation already in progress")

// Flow drives the promotion purchase dialog for one listing. All methods are
// safe for concurrent use; the busy flags make rapid repeated triggers no-ops
// instead of duplicate backend calls.
type Flow struct {
	api       Backend
	listingID int

	mu    sync.Mutex
	epoch int

	state        string
	placement    string
	durationDays int
	chain        string

	config    *PublicConfig
	promotion *models.Promotion
	payment   PaymentDetails

	txHash        string
	fileName      string
	fileData      []byte
	screenshotURL string

	errMsg string

	creating   bool
	uploading  bool
	submitting bool
}

func NewFlow(api Backend, listingID int) *Flow {
	return &Flow{
		api:          api,
		listingID:    listingID,
		state:        StateSelecting,
		durationDays: defaultDurationDays,
	}
}

// Open resets the draft and fetches the pricing config. A fetch failure is
// swallowed: the duration and chain selectors stay empty, which the
// Configure gate reports later. The epoch bump makes any response still in
// flight from a previous session land in the void.
func (f *Flow) Open(ctx context.Context) {
	f.mu.Lock()
	f.epoch++
	f.state = StateSelecting
	f.placement = ""
	f.durationDays = defaultDurationDays
	f.chain = ""
	f.config = nil
	f.promotion = nil
	f.payment = PaymentDetails{}
	f.txHash = ""
	f.fileName = ""
	f.fileData = nil
	f.screenshotURL = ""
	f.errMsg = ""
	f.creating = false
	f.uploading = false
	f.submitting = false
	epoch := f.epoch
	f.mu.Unlock()

	cfg, err := f.api.GetPublicConfig(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.epoch != epoch || err != nil {
		return
	}
	f.config = &cfg
}

func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.epoch++
}

func (f *Flow) SetPlacement(placement string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placement = placement
}

func (f *Flow) SetDuration(days int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.durationDays = days
}

func (f *Flow) SetChain(chain string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chain = chain
}

func (f *Flow) SetTxHash(txHash string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txHash = txHash
}

// SelectFile stores the picked file locally. Nothing is validated or sent
// until UploadSelectedFile.
func (f *Flow) SelectFile(name string, contents []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fileName = name
	f.fileData = contents
}

// Configure validates the draft against the fetched config and issues the
// single createPromotion call. On success the flow advances to
// awaiting_payment with the price snapshot, wallet address and QR stored.
func (f *Flow) Configure(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateSelecting {
		f.mu.Unlock()
		return errors.New("promotion already created")
	}
	if f.creating {
		f.mu.Unlock()
		return ErrBusy
	}
	if !f.draftComplete() {
		f.errMsg = msgSelectFields
		f.mu.Unlock()
		return errors.New(msgSelectFields)
	}

	f.creating = true
	f.errMsg = ""
	epoch := f.epoch
	req := models.PromotionCreateRequest{
		ListingID:    f.listingID,
		Placement:    f.placement,
		DurationDays: f.durationDays,
		Chain:        f.chain,
	}
	f.mu.Unlock()

	result, err := f.api.CreatePromotion(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.epoch != epoch {
		// The dialog was closed or reopened while the call was in flight.
		return nil
	}
	f.creating = false
	if err != nil {
		f.errMsg = errorMessage(err, msgCreateFailed)
		return errors.New(f.errMsg)
	}
	promotion := result.Promotion
	f.promotion = &promotion
	f.payment = result.Payment
	if f.payment.WalletAddress == "" {
		f.payment.WalletAddress = promotion.Payment.WalletAddress
	}
	if f.payment.QRDataURL == "" {
		f.payment.QRDataURL = promotion.Payment.QRDataURL
	}
	f.state = StateAwaitingPayment
	return nil
}

// Back returns to the selection form. The server-side promotion is not
// discarded, but proceeding again requires a fresh Configure call.
func (f *Flow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateAwaitingPayment {
		return
	}
	f.state = StateSelecting
	f.promotion = nil
	f.payment = PaymentDetails{}
	f.errMsg = ""
}

// UploadSelectedFile sends the picked screenshot to the upload service and
// stores the resulting URL. SubmitProof stays blocked until that URL exists.
func (f *Flow) UploadSelectedFile(ctx context.Context) error {
	f.mu.Lock()
	if f.uploading {
		f.mu.Unlock()
		return ErrBusy
	}
	if len(f.fileData) == 0 {
		f.errMsg = msgNoFile
		f.mu.Unlock()
		return errors.New(msgNoFile)
	}

	f.uploading = true
	f.errMsg = ""
	epoch := f.epoch
	name := f.fileName
	data := f.fileData
	f.mu.Unlock()

	result, err := f.api.UploadImage(ctx, name, data)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.epoch != epoch {
		return nil
	}
	f.uploading = false
	if err != nil {
		f.errMsg = errorMessage(err, msgUploadFailed)
		return errors.New(f.errMsg)
	}
	f.screenshotURL = result.URL
	return nil
}

// SubmitProof sends the transaction hash and screenshot URL for the created
// promotion. Success is terminal for this session.
func (f *Flow) SubmitProof(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateAwaitingPayment || f.promotion == nil {
		f.mu.Unlock()
		return errors.New("no pending promotion to attach proof to")
	}
	if f.submitting {
		f.mu.Unlock()
		return ErrBusy
	}
	if strings.TrimSpace(f.txHash) == "" || strings.TrimSpace(f.screenshotURL) == "" {
		f.errMsg = msgProvideProof
		f.mu.Unlock()
		return errors.New(msgProvideProof)
	}

	f.submitting = true
	f.errMsg = ""
	epoch := f.epoch
	promotionID := f.promotion.ID
	req := models.PaymentProofRequest{
		TxHash:        f.txHash,
		ScreenshotURL: f.screenshotURL,
	}
	f.mu.Unlock()

	updated, err := f.api.SubmitPaymentProof(ctx, promotionID, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.epoch != epoch {
		return nil
	}
	f.submitting = false
	if err != nil {
		f.errMsg = errorMessage(err, msgSubmitFailed)
		return errors.New(f.errMsg)
	}
	f.promotion = &updated
	f.state = StateSubmitted
	f.errMsg = ""
	return nil
}

// TrackClick fires the click-tracking call without waiting for it. Failures
// never reach the caller, so navigation is never blocked.
func (f *Flow) TrackClick(promotionID int) {
	go func() {
		_ = f.api.TrackClick(context.Background(), promotionID)
	}()
}

// PriceLabel renders the price for the current placement and duration, or ""
// when no exact tier matches.
func (f *Flow) PriceLabel() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.config == nil {
		return ""
	}
	for _, opt := range f.config.DurationOptions(f.placement) {
		if opt.Days == f.durationDays {
			return strconv.FormatFloat(opt.Amount, 'f', -1, 64) + " " + opt.Currency
		}
	}
	return ""
}

func (f *Flow) State() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Step reports the dialog step number: 1 selecting, 2 awaiting payment,
// 3 submitted.
func (f *Flow) Step() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case StateAwaitingPayment:
		return 2
	case StateSubmitted:
		return 3
	default:
		return 1
	}
}

func (f *Flow) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

func (f *Flow) Promotion() *models.Promotion {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.promotion == nil {
		return nil
	}
	p := *f.promotion
	return &p
}

func (f *Flow) Payment() PaymentDetails {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payment
}

func (f *Flow) ScreenshotURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.screenshotURL
}

func (f *Flow) Draft() (placement string, durationDays int, chain string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.placement, f.durationDays, f.chain
}

func (f *Flow) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creating || f.uploading || f.submitting
}

// draftComplete checks that all three selections are set and drawn from the
// fetched config. Callers hold f.mu.
func (f *Flow) draftComplete() bool {
	if f.config == nil {
		return false
	}
	if !models.IsAllowedPlacement(f.placement) {
		return false
	}
	durationOK := false
	for _, opt := range f.config.DurationOptions(f.placement) {
		if opt.Days == f.durationDays {
			durationOK = true
			break
		}
	}
	if !durationOK {
		return false
	}
	for _, chain := range f.config.ChainsAvailable {
		if chain == f.chain {
			return true
		}
	}
	return false
}

func errorMessage(err error, fallback string) string {
	if err == nil || strings.TrimSpace(err.Error()) == "" {
		return fallback
	}
	return err.Error()
}
