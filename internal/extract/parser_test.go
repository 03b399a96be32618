package extract

import (
	"testing"
)

func TestParseFieldsFencedResponse(t *testing.T) {
	raw := "```json\n{\"merchant_name\":\"Cafe X\",\"total_amount\":42000}\n```"

	f := ParseFields(raw, nil)

	if f.MerchantName != "Cafe X" {
		t.Errorf("MerchantName = %q, want %q", f.MerchantName, "Cafe X")
	}
	if f.TotalAmount == nil || *f.TotalAmount != 42000 {
		t.Errorf("TotalAmount = %v, want 42000", f.TotalAmount)
	}
	if f.Date != "" {
		t.Errorf("Date = %q, want empty", f.Date)
	}
	if len(f.LineItems) != 0 {
		t.Errorf("LineItems = %v, want none", f.LineItems)
	}
	if f.Category != "" {
		t.Errorf("Category = %q, want empty", f.Category)
	}
}

func TestParseFieldsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "prose instead of json", raw: "Sorry, I could not read the receipt."},
		{name: "truncated object", raw: `{"merchant_name":"Cafe`},
		{name: "empty response", raw: ""},
		{name: "json array", raw: `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ParseFields(tt.raw, nil)
			if f.MerchantName != "" || f.Date != "" || f.TotalAmount != nil ||
				len(f.LineItems) != 0 || f.Category != "" || f.Notes != "" {
				t.Fatalf("ParseFields(%q) = %+v, want all defaults", tt.raw, f)
			}
		})
	}
}

func TestParseFieldsCoercion(t *testing.T) {
	raw := `{
		"merchant_name": "  Warung Sari  ",
		"date": "2024/01/05",
		"total_amount": "42000",
		"category": "Food",
		"line_items": [
			{"name": "Nasi Goreng", "price": 25000, "quantity": 1},
			{"name": "Es Teh", "price": "5000", "quantity": -2},
			"not an object",
			{"name": "Kerupuk", "price": 2000}
		]
	}`

	f := ParseFields(raw, nil)

	if f.MerchantName != "Warung Sari" {
		t.Errorf("MerchantName = %q, want trimmed %q", f.MerchantName, "Warung Sari")
	}
	if f.Date != "2024-01-05" {
		t.Errorf("Date = %q, want repaired %q", f.Date, "2024-01-05")
	}
	if f.TotalAmount == nil || *f.TotalAmount != 42000 {
		t.Errorf("TotalAmount = %v, want 42000 from string", f.TotalAmount)
	}
	if f.Category != "Food" {
		t.Errorf("Category = %q, want %q", f.Category, "Food")
	}
	if len(f.LineItems) != 3 {
		t.Fatalf("LineItems count = %d, want 3 (non-object skipped)", len(f.LineItems))
	}
	if f.LineItems[1].Quantity != 0 {
		t.Errorf("negative quantity clamped to %v, want 0", f.LineItems[1].Quantity)
	}
	if f.LineItems[1].Price != 5000 {
		t.Errorf("string price = %v, want 5000", f.LineItems[1].Price)
	}
	if f.LineItems[2].Quantity != 0 {
		t.Errorf("missing quantity = %v, want 0", f.LineItems[2].Quantity)
	}
}

func TestRepairDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"2024-01-05", "2024-01-05"},
		{"2024/01/05", "2024-01-05"},
		{"2024.01.05", "2024-01-05"},
		{"01/05/2024", "2024-01-05"},
		{"05-01-2024", "2024-01-05"},
		{"5 Jan 2024", "2024-01-05"},
		{"Jan 5, 2024", "2024-01-05"},
		{"January 5, 2024", "2024-01-05"},
		{"not a date", "not a date"},
		{"13th of never", "13th of never"},
	}

	for _, tt := range tests {
		if got := RepairDate(tt.in); got != tt.want {
			t.Errorf("RepairDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
