package capture

import (
	"context"

	"snapspend/internal/models"
)

// The capture workflow talks to its collaborators through these interfaces so
// the state machine can be exercised without network or database access.

// BlobStore uploads an image under a caller-supplied unique name and returns
// its externally resolvable URL.
type BlobStore interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

// OCRGateway extracts plain text from image bytes. Empty text is valid output.
type OCRGateway interface {
	ExtractText(ctx context.Context, imageBytes []byte, mimeType string) (string, error)
}

// StructuringGateway turns OCR text into the model's raw structured response.
type StructuringGateway interface {
	Extract(ctx context.Context, ocrText string) (string, error)
}

// ReceiptStore persists exactly one committed receipt per call.
type ReceiptStore interface {
	Insert(ctx context.Context, receipt *models.Receipt) error
}
