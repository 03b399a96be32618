package extract

import (
	"strconv"
	"strings"

	"snapspend/internal/models"
)

// Fields is what we managed to pull out of one model response. Absent fields
// keep their zero value; TotalAmount stays nil when the model gave nothing
// usable. The model's output is untrusted, so every field goes through
// coercion rather than direct deserialization.
type Fields struct {
	MerchantName string
	Date         string
	TotalAmount  *float64
	LineItems    []models.LineItem
	Category     string
	Notes        string
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// asNumber tolerates the model emitting "42000" or "Rp 42.000" style strings
// where a number was asked for.
func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
