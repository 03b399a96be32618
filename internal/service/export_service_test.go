package service

import (
	"testing"

	"snapspend/internal/models"
)

func TestFormatLineItems(t *testing.T) {
	tests := []struct {
		name  string
		items []models.LineItem
		want  string
	}{
		{name: "none", items: nil, want: ""},
		{
			name:  "single",
			items: []models.LineItem{{Name: "Coffee", Quantity: 2, Price: 15000}},
			want:  "Coffee x2 @ 15000",
		},
		{
			name: "multiple joined",
			items: []models.LineItem{
				{Name: "Coffee", Quantity: 2, Price: 15000},
				{Name: "Bagel", Quantity: 1, Price: 20000},
			},
			want: "Coffee x2 @ 15000; Bagel x1 @ 20000",
		},
		{
			name:  "fractional quantity",
			items: []models.LineItem{{Name: "Cheese", Quantity: 0.5, Price: 80}},
			want:  "Cheese x0.5 @ 80",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatLineItems(tt.items); got != tt.want {
				t.Fatalf("formatLineItems = %q, want %q", got, tt.want)
			}
		})
	}
}
