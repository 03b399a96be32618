package capture

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"snapspend/internal/models"
)

type fakeBlobs struct {
	mu    sync.Mutex
	url   string
	err   error
	calls int
}

func (f *fakeBlobs) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeOCR struct {
	text string
	err  error
}

func (f *fakeOCR) ExtractText(ctx context.Context, imageBytes []byte, mimeType string) (string, error) {
	return f.text, f.err
}

type fakeStructurer struct {
	raw string
	err error

	// optional synchronization for in-flight tests
	started chan struct{}
	release chan struct{}
}

func (f *fakeStructurer) Extract(ctx context.Context, ocrText string) (string, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return "", f.err
	}
	return f.raw, nil
}

type fakeReceiptStore struct {
	mu       sync.Mutex
	err      error
	receipts []*models.Receipt
}

func (f *fakeReceiptStore) Insert(ctx context.Context, receipt *models.Receipt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.receipts = append(f.receipts, receipt)
	return nil
}

func (f *fakeReceiptStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.receipts)
}

func newTestSession(deps Deps) *Session {
	if deps.Blobs == nil {
		deps.Blobs = &fakeBlobs{url: "https://blobs.test/receipt.jpg"}
	}
	if deps.OCR == nil {
		deps.OCR = &fakeOCR{text: "CAFE X\nTOTAL 42000"}
	}
	if deps.Structurer == nil {
		deps.Structurer = &fakeStructurer{raw: `{"merchant_name":"Cafe X","total_amount":42000,"category":"Food"}`}
	}
	if deps.Receipts == nil {
		deps.Receipts = &fakeReceiptStore{}
	}
	return NewSession(uuid.New(), deps, nil)
}

var testImage = []byte{0xff, 0xd8, 0xff}

func TestProcessSuccessLandsInReview(t *testing.T) {
	s := newTestSession(Deps{
		Structurer: &fakeStructurer{raw: "```json\n{\"merchant_name\":\"Cafe X\",\"total_amount\":42000,\"category\":\"Food\"}\n```"},
	})

	if err := s.Process(context.Background(), "receipt.jpg", "image/jpeg", testImage); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	snap := s.Snapshot()
	if snap.Step != StepReview {
		t.Fatalf("step = %q, want %q", snap.Step, StepReview)
	}
	if snap.Draft.ImageURL == "" {
		t.Error("ImageURL not set after upload")
	}
	if snap.Draft.MerchantName != "Cafe X" {
		t.Errorf("MerchantName = %q, want %q", snap.Draft.MerchantName, "Cafe X")
	}
	if snap.Draft.TotalAmount == nil || *snap.Draft.TotalAmount != 42000 {
		t.Errorf("TotalAmount = %v, want 42000", snap.Draft.TotalAmount)
	}
	if snap.Draft.Category != models.CategoryFood {
		t.Errorf("Category = %q, want %q", snap.Draft.Category, models.CategoryFood)
	}
	if snap.Draft.RawOCRText == "" || snap.Draft.RawModelText == "" {
		t.Error("raw pipeline outputs not retained on draft")
	}
}

func TestProcessUnparsableResponseStillReview(t *testing.T) {
	s := newTestSession(Deps{
		Structurer: &fakeStructurer{raw: "Sorry, I could not read the receipt."},
	})

	if err := s.Process(context.Background(), "receipt.jpg", "image/jpeg", testImage); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	snap := s.Snapshot()
	if snap.Step != StepReview {
		t.Fatalf("step = %q, want %q (parse failure never aborts)", snap.Step, StepReview)
	}
	if snap.Draft.MerchantName != "" || snap.Draft.TotalAmount != nil {
		t.Errorf("draft fields = %+v, want empty", snap.Draft)
	}
	if snap.Draft.RawModelText == "" {
		t.Error("raw model text should be retained for the raw-data view")
	}
}

func TestProcessPipelineFailureReturnsToUpload(t *testing.T) {
	s := newTestSession(Deps{
		Blobs: &fakeBlobs{err: errors.New("bucket unavailable")},
	})

	err := s.Process(context.Background(), "receipt.jpg", "image/jpeg", testImage)
	if err == nil {
		t.Fatal("Process succeeded, want upload failure")
	}

	snap := s.Snapshot()
	if snap.Step != StepUpload {
		t.Fatalf("step = %q, want %q", snap.Step, StepUpload)
	}
	if snap.Failure == "" {
		t.Error("failure not surfaced on session")
	}
	if len(snap.Draft.ImageData) == 0 {
		t.Error("image dropped on failure, want it retained for retry")
	}
}

func TestProcessRetryReusesRetainedImage(t *testing.T) {
	blobs := &fakeBlobs{err: errors.New("bucket unavailable")}
	s := newTestSession(Deps{Blobs: blobs})

	if err := s.Process(context.Background(), "receipt.jpg", "image/jpeg", testImage); err == nil {
		t.Fatal("first Process succeeded, want failure")
	}

	blobs.mu.Lock()
	blobs.err = nil
	blobs.url = "https://blobs.test/receipt.jpg"
	blobs.mu.Unlock()

	// No image data this time: the retained one is reused.
	if err := s.Process(context.Background(), "", "", nil); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if snap := s.Snapshot(); snap.Step != StepReview {
		t.Fatalf("step = %q, want %q", snap.Step, StepReview)
	}
}

func TestProcessWithoutImage(t *testing.T) {
	s := newTestSession(Deps{})
	if err := s.Process(context.Background(), "", "", nil); !errors.Is(err, ErrNoImage) {
		t.Fatalf("err = %v, want ErrNoImage", err)
	}
}

func TestProcessNotReentrant(t *testing.T) {
	structurer := &fakeStructurer{
		raw:     "{}",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newTestSession(Deps{Structurer: structurer})

	done := make(chan error, 1)
	go func() {
		done <- s.Process(context.Background(), "receipt.jpg", "image/jpeg", testImage)
	}()
	<-structurer.started

	if err := s.Process(context.Background(), "other.jpg", "image/jpeg", testImage); !errors.Is(err, ErrProcessingInFlight) {
		t.Fatalf("second Process err = %v, want ErrProcessingInFlight", err)
	}

	close(structurer.release)
	if err := <-done; err != nil {
		t.Fatalf("first Process failed: %v", err)
	}
}

func TestCloseWhileProcessingDiscardsResult(t *testing.T) {
	structurer := &fakeStructurer{
		raw:     `{"merchant_name":"Cafe X"}`,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	store := &fakeReceiptStore{}
	s := newTestSession(Deps{Structurer: structurer, Receipts: store})

	done := make(chan error, 1)
	go func() {
		done <- s.Process(context.Background(), "receipt.jpg", "image/jpeg", testImage)
	}()
	<-structurer.started

	if err := s.Close(false); !errors.Is(err, ErrConfirmRequired) {
		t.Fatalf("Close without confirm err = %v, want ErrConfirmRequired", err)
	}
	if err := s.Close(true); err != nil {
		t.Fatalf("confirmed Close failed: %v", err)
	}

	close(structurer.release)
	if err := <-done; err != nil {
		t.Fatalf("Process after close returned %v, want nil discard", err)
	}

	if store.count() != 0 {
		t.Error("closed session persisted a receipt")
	}
	if err := s.EnterManual(); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("action on closed session err = %v, want ErrSessionClosed", err)
	}
}

func TestSaveFromReview(t *testing.T) {
	store := &fakeReceiptStore{}
	s := newTestSession(Deps{Receipts: store})

	if err := s.Process(context.Background(), "receipt.jpg", "image/jpeg", testImage); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if err := s.UpdateDraft(DraftEdit{
		MerchantName: "Cafe X",
		Date:         "2024/01/05",
		TotalAmount:  nil,
		Category:     "Food",
	}); err != nil {
		t.Fatalf("UpdateDraft failed: %v", err)
	}

	receipt, err := s.Save(context.Background())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if receipt.TotalAmount != nil {
		t.Errorf("TotalAmount = %v, want nil (cleared by user)", receipt.TotalAmount)
	}
	if receipt.Date != "2024-01-05" {
		t.Errorf("Date = %q, want repaired %q", receipt.Date, "2024-01-05")
	}
	if snap := s.Snapshot(); snap.Step != StepSuccess {
		t.Fatalf("step = %q, want %q", snap.Step, StepSuccess)
	}
	if store.count() != 1 {
		t.Fatalf("persisted %d receipts, want 1", store.count())
	}
}

func TestManualFlow(t *testing.T) {
	store := &fakeReceiptStore{}
	s := newTestSession(Deps{Receipts: store})

	if err := s.EnterManual(); err != nil {
		t.Fatalf("EnterManual failed: %v", err)
	}
	ignored := 99.0
	if err := s.UpdateDraft(DraftEdit{
		MerchantName: "Corner Deli",
		TotalAmount:  &ignored,
		LineItems: []models.LineItem{
			{Name: "Coffee", Price: 15000, Quantity: 2},
			{Name: "Bagel", Price: 20000, Quantity: 1},
		},
		Category: "Food",
	}); err != nil {
		t.Fatalf("UpdateDraft failed: %v", err)
	}

	receipt, err := s.SaveManual(context.Background())
	if err != nil {
		t.Fatalf("SaveManual failed: %v", err)
	}
	if receipt.TotalAmount == nil || *receipt.TotalAmount != 50000 {
		t.Errorf("TotalAmount = %v, want recomputed 50000", receipt.TotalAmount)
	}
	if snap := s.Snapshot(); snap.Step != StepSuccess {
		t.Fatalf("step = %q, want %q", snap.Step, StepSuccess)
	}
}

func TestBackKeepsImageOnly(t *testing.T) {
	s := newTestSession(Deps{})

	if err := s.Process(context.Background(), "receipt.jpg", "image/jpeg", testImage); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if err := s.Back(); err != nil {
		t.Fatalf("Back failed: %v", err)
	}

	snap := s.Snapshot()
	if snap.Step != StepUpload {
		t.Fatalf("step = %q, want %q", snap.Step, StepUpload)
	}
	if len(snap.Draft.ImageData) == 0 {
		t.Error("image dropped on Back, want it retained")
	}
	if snap.Draft.MerchantName != "" || snap.Draft.RawOCRText != "" {
		t.Errorf("extracted state retained after Back: %+v", snap.Draft)
	}
}

func TestResetStartsFresh(t *testing.T) {
	s := newTestSession(Deps{})

	if err := s.Process(context.Background(), "receipt.jpg", "image/jpeg", testImage); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if _, err := s.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	snap := s.Snapshot()
	if snap.Step != StepUpload {
		t.Fatalf("step = %q, want %q", snap.Step, StepUpload)
	}
	if len(snap.Draft.ImageData) != 0 || snap.Draft.ImageURL != "" {
		t.Errorf("draft not cleared on Reset: %+v", snap.Draft)
	}
}

func TestInvalidStepTransitions(t *testing.T) {
	s := newTestSession(Deps{})

	if _, err := s.Save(context.Background()); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("Save from upload err = %v, want ErrInvalidStep", err)
	}
	if _, err := s.SaveManual(context.Background()); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("SaveManual from upload err = %v, want ErrInvalidStep", err)
	}
	if err := s.Back(); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("Back from upload err = %v, want ErrInvalidStep", err)
	}
	if err := s.Reset(); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("Reset from upload err = %v, want ErrInvalidStep", err)
	}

	if err := s.Process(context.Background(), "receipt.jpg", "image/jpeg", testImage); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if err := s.EnterManual(); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("EnterManual from review err = %v, want ErrInvalidStep", err)
	}
	if err := s.Process(context.Background(), "", "", nil); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("Process from review err = %v, want ErrInvalidStep", err)
	}
}

func TestSaveStoreFailureStaysInReview(t *testing.T) {
	store := &fakeReceiptStore{err: errors.New("connection reset")}
	s := newTestSession(Deps{Receipts: store})

	if err := s.Process(context.Background(), "receipt.jpg", "image/jpeg", testImage); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if _, err := s.Save(context.Background()); err == nil {
		t.Fatal("Save succeeded, want store failure")
	}
	if snap := s.Snapshot(); snap.Step != StepReview {
		t.Fatalf("step = %q, want %q for retry", snap.Step, StepReview)
	}

	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()
	if _, err := s.Save(context.Background()); err != nil {
		t.Fatalf("retry Save failed: %v", err)
	}
}

func TestRegistryOwnership(t *testing.T) {
	r := NewRegistry(Deps{
		Blobs:      &fakeBlobs{url: "https://blobs.test/x.jpg"},
		OCR:        &fakeOCR{},
		Structurer: &fakeStructurer{raw: "{}"},
		Receipts:   &fakeReceiptStore{},
	}, nil)

	owner := uuid.New()
	other := uuid.New()
	s := r.Create(owner)

	if _, err := r.Get(s.ID, owner); err != nil {
		t.Fatalf("owner Get failed: %v", err)
	}
	if _, err := r.Get(s.ID, other); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("foreign Get err = %v, want ErrSessionNotFound", err)
	}
	if err := r.Close(s.ID, other, false); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("foreign Close err = %v, want ErrSessionNotFound", err)
	}
	if err := r.Close(s.ID, owner, false); err != nil {
		t.Fatalf("owner Close failed: %v", err)
	}
	if _, err := r.Get(s.ID, owner); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Get after Close err = %v, want ErrSessionNotFound", err)
	}
}
