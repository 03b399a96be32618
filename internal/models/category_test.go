package models

import "testing"

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Food", CategoryFood},
		{"Groceries", CategoryGroceries},
		{"Others", CategoryOthers},
		{"food", CategoryOthers},   // labels are case-sensitive
		{"Sushi", CategoryOthers},
		{"", CategoryOthers},
	}

	for _, tt := range tests {
		if got := NormalizeCategory(tt.in); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
