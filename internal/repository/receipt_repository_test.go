package repository

import (
	"testing"
	"time"
)

func TestEndOfDay(t *testing.T) {
	in := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	got := EndOfDay(in)
	want := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("EndOfDay = %v, want %v", got, want)
	}

	// Already late in the day stays on the same day.
	in = time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)
	if got := EndOfDay(in); !got.Equal(want) {
		t.Fatalf("EndOfDay = %v, want %v", got, want)
	}
}
