package markdown

import (
	"reflect"
	"testing"
)

func TestMarkdownCanonicalForm(t *testing.T) {
	blocks := []Block{
		Heading{Text: "T", Level: 3},
		CodeBlock{Code: "", Language: "sh"},
		ListBlock{Items: []string{"x", "y"}},
		QuoteBlock{Text: "q"},
		ImageBlock{Path: "a.png", AltText: "pic"},
		PlaceholderBlock{},
		TextBlock{Runs: []StyledRun{{Text: "a"}, {Text: "b", Style: StyleBold}}},
	}
	want := "### T\n```sh\n```\n- x\n- y\n> q\n![pic](a.png)\na**b**"
	if got := Markdown(blocks); got != want {
		t.Fatalf("Markdown()\n got: %q\nwant: %q", got, want)
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"empty", "", 0, ""},
		{"heading markers removed", "# Title **x**\nbody", 0, "Title x"},
		{"code skipped", "```\ncode\n```\n\n- *first* item\n- second", 0, "first item"},
		{"quote", "> `quoted`", 0, "quoted"},
		{"image alt", "![cat photo](cat.png)", 0, "cat photo"},
		{"limit applies to runes", "żółćabc", 4, "żółć"},
		{"empty heading skipped", "# \nnext", 0, "next"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.input, tt.limit); got != tt.want {
				t.Fatalf("Preview(%q, %d)=%q want %q", tt.input, tt.limit, got, tt.want)
			}
		})
	}
}

func TestLinesSeparatesBlocks(t *testing.T) {
	lines := Lines(Segment("# T\n- a\n- b"))
	want := []string{"# T", "", "• a", "• b"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %#v", len(want), len(lines), lines)
	}
	for i, line := range lines {
		if line.String() != want[i] {
			t.Fatalf("line %d: got %q want %q", i, line.String(), want[i])
		}
	}
	if lines[1].BlockID != -1 {
		t.Fatalf("expected separator line to carry no block id")
	}
	if lines[2].BlockID != 1 || lines[3].BlockID != 1 {
		t.Fatalf("expected list lines to belong to block 1")
	}
}

func TestBlockLinesCode(t *testing.T) {
	got := BlockLines(CodeBlock{ID: 4, Code: "a\n\nb", Language: "go"})
	want := []Line{
		{Kind: KindCode, BlockID: 4, Prefix: codeIndent, Runs: []StyledRun{{Text: "[go]", Style: StyleInlineCode}}},
		{Kind: KindCode, BlockID: 4, Prefix: codeIndent, Runs: []StyledRun{{Text: "a", Style: StyleInlineCode}}},
		{Kind: KindCode, BlockID: 4, Prefix: codeIndent},
		{Kind: KindCode, BlockID: 4, Prefix: codeIndent, Runs: []StyledRun{{Text: "b", Style: StyleInlineCode}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("BlockLines(code)\n got: %#v\nwant: %#v", got, want)
	}
}

func TestBlockLinesPlaceholder(t *testing.T) {
	lines := BlockLines(PlaceholderBlock{ID: 2})
	if len(lines) != 1 || lines[0].String() != placeholderText || lines[0].BlockID != 2 {
		t.Fatalf("unexpected placeholder lines %#v", lines)
	}
}
