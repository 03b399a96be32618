package extract

import (
	"encoding/json"
	"time"

	"snapspend/internal/models"

	"go.uber.org/zap"
)

// ParseFields turns a raw structuring response into Fields. It never returns
// an error: when the text does not decode as JSON the caller gets an
// all-default Fields so the user can fill the record in by hand.
func ParseFields(raw string, logger *zap.Logger) Fields {
	if logger == nil {
		logger = zap.NewNop()
	}

	clean := CleanJSON(raw)

	var m map[string]any
	if err := json.Unmarshal([]byte(clean), &m); err != nil {
		logger.Warn("Extraction response is not valid JSON, falling back to empty draft",
			zap.Error(err),
		)
		return Fields{}
	}

	auditContract(m, logger)

	f := Fields{
		MerchantName: asString(m["merchant_name"]),
		Date:         RepairDate(asString(m["date"])),
		Category:     asString(m["category"]),
		Notes:        asString(m["notes"]),
	}

	if v, ok := m["total_amount"]; ok {
		if n, numeric := asNumber(v); numeric {
			f.TotalAmount = &n
		}
	}

	if arr, ok := m["line_items"].([]any); ok {
		for _, it := range arr {
			obj, ok := it.(map[string]any)
			if !ok {
				continue
			}
			price, _ := asNumber(obj["price"])
			qty, _ := asNumber(obj["quantity"])
			if qty < 0 {
				qty = 0
			}
			f.LineItems = append(f.LineItems, models.LineItem{
				Name:     asString(obj["name"]),
				Price:    price,
				Quantity: qty,
			})
		}
	}

	return f
}

// dateLayouts covers the formats the extractor has been seen producing when
// it ignores the YYYY-MM-DD instruction.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"01/02/2006",
	"02-01-2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
}

// RepairDate re-renders a date string in canonical YYYY-MM-DD form. A string
// that matches none of the known layouts is returned verbatim; an extracted
// value is never discarded merely because it doesn't parse as a date.
func RepairDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
