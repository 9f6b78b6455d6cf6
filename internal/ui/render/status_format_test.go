package render

import (
	"testing"
	"time"
)

func TestFormatScrollPosition(t *testing.T) {
	tests := []struct {
		offset, total, height int
		want                  string
	}{
		{0, 5, 10, "All"},
		{0, 50, 10, "Top"},
		{40, 50, 10, "Bot"},
		{20, 50, 10, "50%"},
	}
	for _, tt := range tests {
		if got := formatScrollPosition(tt.offset, tt.total, tt.height); got != tt.want {
			t.Fatalf("formatScrollPosition(%d,%d,%d) = %q, want %q", tt.offset, tt.total, tt.height, got, tt.want)
		}
	}
}

func TestFormatDurationShort(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Microsecond, "250µs"},
		{1500 * time.Microsecond, "1.5ms"},
		{2 * time.Millisecond, "2ms"},
		{3 * time.Second, "3s"},
		{90 * time.Second, "1.5m"},
	}
	for _, tt := range tests {
		if got := formatDurationShort(tt.d); got != tt.want {
			t.Fatalf("formatDurationShort(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatBlockCount(t *testing.T) {
	if got := formatBlockCount(1); got != "1 block" {
		t.Fatalf("got %q", got)
	}
	if got := formatBlockCount(1500); got != "1.5k blocks" {
		t.Fatalf("got %q", got)
	}
}
