package textutil

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		width  int
		expect string
	}{
		{"fits without truncation", "note.md", 20, "note.md"},
		{"adds ellipsis when needed", "verylongname", 6, "veryl…"},
		{"only ellipsis when width too small", "example", 1, "…"},
		{"multi-byte characters respected", "你好世界", 5, "你好…"},
		{"returns empty when width is zero", "anything", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if actual := Truncate(tt.text, tt.width); actual != tt.expect {
				t.Fatalf("expected %q, got %q (width %d)", tt.expect, actual, tt.width)
			}
		})
	}
}

func TestDisplayWidth(t *testing.T) {
	if got := DisplayWidth("abc"); got != 3 {
		t.Fatalf("expected ASCII width 3, got %d", got)
	}
	if got := DisplayWidth("你好"); got != 4 {
		t.Fatalf("expected wide rune width 4, got %d", got)
	}
}

func TestExpandTabs(t *testing.T) {
	if got := ExpandTabs("a\tb", 4); got != "a   b" {
		t.Fatalf("unexpected expansion %q", got)
	}
	if got := ExpandTabs("你\tb", 4); got != "你  b" {
		t.Fatalf("expected wide rune to count two columns, got %q", got)
	}
	if got := ExpandTabs("\t", 0); got != "\t" {
		t.Fatalf("expected tabs kept for zero width, got %q", got)
	}
}
