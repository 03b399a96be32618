package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"snapspend/internal/extract"
	"snapspend/internal/models"
)

// Step is the session's current position in the capture workflow.
type Step string

const (
	StepUpload     Step = "upload"
	StepProcessing Step = "processing"
	StepReview     Step = "review"
	StepSuccess    Step = "success"
	StepManual     Step = "manual"
)

// Draft is the transient, unpersisted receipt being built up during capture.
// It is owned by the session and never written to the store directly.
type Draft struct {
	ImageName    string
	ImageMime    string
	ImageData    []byte
	ImageURL     string // set once uploaded to the blob store
	RawOCRText   string
	RawModelText string // verbatim structuring response, kept for the raw-data view

	MerchantName string
	Date         string
	TotalAmount  *float64
	LineItems    []models.LineItem
	Category     models.Category
	Notes        string
}

// DraftEdit is one full replacement of the user-editable draft fields, the
// way the review form submits its whole state.
type DraftEdit struct {
	MerchantName string
	Date         string
	TotalAmount  *float64
	LineItems    []models.LineItem
	Category     string
	Notes        string
}

// Deps are the session's external collaborators.
type Deps struct {
	Blobs      BlobStore
	OCR        OCRGateway
	Structurer StructuringGateway
	Receipts   ReceiptStore
}

// Session is one capture workflow instance. A single authoritative step value
// plus guarded transitions keeps impossible states (processing and manual
// entry at once) unrepresentable. All remote calls happen with the lock
// released; the generation counter lets a close or reset that happened
// mid-pipeline discard the late result instead of applying it.
type Session struct {
	ID     uuid.UUID
	UserID uuid.UUID

	mu         sync.Mutex
	step       Step
	closed     bool
	generation int
	progress   string
	failure    string // last pipeline failure, surfaced to the user
	draft      Draft

	deps       Deps
	reconciler *Reconciler
	logger     *zap.Logger
}

func NewSession(userID uuid.UUID, deps Deps, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		ID:         uuid.New(),
		UserID:     userID,
		step:       StepUpload,
		deps:       deps,
		reconciler: NewReconciler(deps.Receipts, logger),
		logger:     logger,
	}
}

// Snapshot is a point-in-time copy of the session's observable state.
type Snapshot struct {
	ID       uuid.UUID
	Step     Step
	Progress string
	Failure  string
	Draft    Draft
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:       s.ID,
		Step:     s.step,
		Progress: s.progress,
		Failure:  s.failure,
		Draft:    s.draft,
	}
}

// Process runs the full pipeline: blob upload, OCR, structuring, parse.
// Passing image data selects a new image; passing none replays processing on
// the already-selected one. On success the session lands in review — even
// when the structured response was unparsable, the user just gets an empty
// draft to fill in. On pipeline failure the session returns to upload with
// the failure surfaced and the image retained.
func (s *Session) Process(ctx context.Context, imageName, mimeType string, imageData []byte) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.step == StepProcessing {
		s.mu.Unlock()
		return ErrProcessingInFlight
	}
	if s.step != StepUpload {
		s.mu.Unlock()
		return ErrInvalidStep
	}
	if len(imageData) > 0 {
		s.draft.ImageName = imageName
		s.draft.ImageMime = mimeType
		s.draft.ImageData = imageData
	}
	if len(s.draft.ImageData) == 0 {
		s.mu.Unlock()
		return ErrNoImage
	}
	gen := s.generation
	s.step = StepProcessing
	s.progress = "uploading image"
	s.failure = ""
	name, mime, data := s.draft.ImageName, s.draft.ImageMime, s.draft.ImageData
	s.mu.Unlock()

	result, err := s.runPipeline(ctx, gen, name, mime, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.generation {
		// The session was closed or reset while the calls were in flight.
		// Nothing was persisted; the result is simply dropped.
		s.logger.Info("Discarding stale pipeline result", zap.String("session_id", s.ID.String()))
		return nil
	}
	s.progress = ""
	if err != nil {
		s.step = StepUpload
		s.failure = err.Error()
		s.logger.Warn("Pipeline failed, returning to upload",
			zap.String("session_id", s.ID.String()),
			zap.Error(err),
		)
		return err
	}

	s.draft.ImageURL = result.imageURL
	s.draft.RawOCRText = result.ocrText
	s.draft.RawModelText = result.rawModelText
	s.draft.MerchantName = result.fields.MerchantName
	s.draft.Date = result.fields.Date
	s.draft.TotalAmount = result.fields.TotalAmount
	s.draft.LineItems = result.fields.LineItems
	s.draft.Category = models.NormalizeCategory(result.fields.Category)
	s.draft.Notes = result.fields.Notes
	s.step = StepReview
	return nil
}

type pipelineResult struct {
	imageURL     string
	ocrText      string
	rawModelText string
	fields       extract.Fields
}

// runPipeline performs the sequential remote steps without holding the
// session lock. Each step strictly depends on the previous one's output; a
// failure in upload, OCR or structuring aborts, while a parse failure never
// does.
func (s *Session) runPipeline(ctx context.Context, gen int, name, mime string, data []byte) (pipelineResult, error) {
	var res pipelineResult

	objectName := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), name)
	url, err := s.deps.Blobs.Upload(ctx, objectName, data, mime)
	if err != nil {
		return res, fmt.Errorf("upload image: %w", err)
	}
	res.imageURL = url
	s.setProgress(gen, "detecting text")

	ocrText, err := s.deps.OCR.ExtractText(ctx, data, mime)
	if err != nil {
		return res, fmt.Errorf("ocr failed: %w", err)
	}
	res.ocrText = ocrText
	s.setProgress(gen, "extracting data")

	raw, err := s.deps.Structurer.Extract(ctx, ocrText)
	if err != nil {
		return res, fmt.Errorf("extraction failed: %w", err)
	}
	res.rawModelText = raw
	s.setProgress(gen, "categorizing")

	res.fields = extract.ParseFields(raw, s.logger)
	return res, nil
}

func (s *Session) setProgress(gen int, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.generation && s.step == StepProcessing {
		s.progress = label
	}
}

// EnterManual moves from upload to the manual-entry path, which skips OCR and
// structuring entirely.
func (s *Session) EnterManual() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.step != StepUpload {
		return ErrInvalidStep
	}
	s.step = StepManual
	return nil
}

// UpdateDraft replaces the user-editable draft fields during review or manual
// entry.
func (s *Session) UpdateDraft(edit DraftEdit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.step != StepReview && s.step != StepManual {
		return ErrInvalidStep
	}
	s.draft.MerchantName = edit.MerchantName
	s.draft.Date = extract.RepairDate(edit.Date)
	s.draft.TotalAmount = edit.TotalAmount
	s.draft.LineItems = edit.LineItems
	s.draft.Category = models.NormalizeCategory(edit.Category)
	s.draft.Notes = edit.Notes
	return nil
}

// Save commits the reviewed draft. On store failure the session stays in
// review so the user can retry the same action.
func (s *Session) Save(ctx context.Context) (*models.Receipt, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.step != StepReview {
		s.mu.Unlock()
		return nil, ErrInvalidStep
	}
	gen := s.generation
	draft := s.draft
	s.mu.Unlock()

	receipt, err := s.reconciler.CommitReview(ctx, s.UserID, draft)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed && gen == s.generation && s.step == StepReview {
		s.step = StepSuccess
	}
	return receipt, nil
}

// SaveManual commits a manually entered receipt; the total is always
// recomputed from the line items.
func (s *Session) SaveManual(ctx context.Context) (*models.Receipt, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.step != StepManual {
		s.mu.Unlock()
		return nil, ErrInvalidStep
	}
	gen := s.generation
	draft := s.draft
	s.mu.Unlock()

	receipt, err := s.reconciler.CommitManual(ctx, s.UserID, draft)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed && gen == s.generation && s.step == StepManual {
		s.step = StepSuccess
	}
	return receipt, nil
}

// Back returns from review or manual entry to upload, discarding the
// extracted text and draft fields but keeping the selected image.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.step != StepReview && s.step != StepManual {
		return ErrInvalidStep
	}
	image, mime, data := s.draft.ImageName, s.draft.ImageMime, s.draft.ImageData
	s.draft = Draft{ImageName: image, ImageMime: mime, ImageData: data}
	s.step = StepUpload
	return nil
}

// Reset is the "scan another" action: success back to upload with all
// transient state cleared.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.step != StepSuccess {
		return ErrInvalidStep
	}
	s.draft = Draft{}
	s.failure = ""
	s.progress = ""
	s.generation++
	s.step = StepUpload
	return nil
}

// Close ends the session. While processing it requires explicit confirmation;
// the in-flight calls are not cancelled, but their results will be discarded
// when they land.
func (s *Session) Close(confirm bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if s.step == StepProcessing && !confirm {
		return ErrConfirmRequired
	}
	s.closed = true
	s.generation++
	return nil
}
