package dto

// OCRResponse mirrors the OCR endpoint contract: best-effort plain text,
// empty when the image held none.
type OCRResponse struct {
	Text string `json:"text"`
}

// ExtractDetailsRequest carries the OCR text to the structuring endpoint.
type ExtractDetailsRequest struct {
	OCRText string `json:"ocrText"`
}

// ExtractDetailsResponse returns the model's raw, possibly fenced, response
// text. The caller is expected to repair and parse it.
type ExtractDetailsResponse struct {
	JSON string `json:"json"`
}
