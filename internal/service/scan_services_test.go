package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	text  string
	err   error
	parts []*genai.Part
}

func (f *fakeGenerator) GenerateText(ctx context.Context, parts []*genai.Part) (string, error) {
	f.parts = parts
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func TestOCRServiceRejectsMissingImage(t *testing.T) {
	gen := &fakeGenerator{text: "should not be called"}
	s := NewOCRService(gen, zap.NewNop())

	_, err := s.ExtractText(context.Background(), nil, "image/jpeg")
	if !errors.Is(err, ErrMissingImage) {
		t.Fatalf("err = %v, want ErrMissingImage", err)
	}
	if gen.parts != nil {
		t.Error("generator called despite missing image")
	}
}

func TestOCRServiceEmptyTextIsValid(t *testing.T) {
	gen := &fakeGenerator{text: "  \n "}
	s := NewOCRService(gen, zap.NewNop())

	text, err := s.ExtractText(context.Background(), []byte{0xff, 0xd8}, "")
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
	// Default mime applied when the upload carried none.
	if gen.parts[1].InlineData.MIMEType != "image/jpeg" {
		t.Errorf("mime = %q, want image/jpeg default", gen.parts[1].InlineData.MIMEType)
	}
}

func TestOCRServiceWrapsGatewayError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	s := NewOCRService(gen, zap.NewNop())

	_, err := s.ExtractText(context.Background(), []byte{0xff}, "image/png")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("err = %v, want wrapped gateway error", err)
	}
}

func TestExtractServiceRejectsEmptyText(t *testing.T) {
	gen := &fakeGenerator{text: "{}"}
	s := NewExtractService(gen, zap.NewNop())

	for _, in := range []string{"", "   ", "\n\t"} {
		if _, err := s.Extract(context.Background(), in); !errors.Is(err, ErrMissingText) {
			t.Errorf("Extract(%q) err = %v, want ErrMissingText", in, err)
		}
	}
	if gen.parts != nil {
		t.Error("generator called despite empty input")
	}
}

func TestExtractServiceReturnsVerbatimResponse(t *testing.T) {
	raw := "```json\n{\"merchant_name\":\"Cafe X\"}\n```"
	gen := &fakeGenerator{text: raw}
	s := NewExtractService(gen, zap.NewNop())

	got, err := s.Extract(context.Background(), "CAFE X\nTOTAL 42000")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got != raw {
		t.Errorf("response = %q, want verbatim %q", got, raw)
	}
	if len(gen.parts) != 1 || !strings.Contains(gen.parts[0].Text, "CAFE X") {
		t.Error("prompt does not embed the OCR text")
	}
}
