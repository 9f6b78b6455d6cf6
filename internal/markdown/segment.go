package markdown

import "strings"

const (
	fenceDelimiter  = "```"
	quotePrefix     = "> "
	imagePrefix     = "!["
	maxHeadingLevel = 6
)

var listPrefixes = []string{"- ", "* "}

// Segment splits raw note text into an ordered sequence of blocks. It never
// fails: anything that is not a recognized construct becomes a TextBlock, and
// unterminated fences run to the end of input. Block IDs are indices scoped to
// this call.
func Segment(raw string) []Block {
	if raw == "" {
		return nil
	}
	lines := splitLines(raw)
	s := segmenter{lines: lines}
	s.run()
	return s.blocks
}

type segmenter struct {
	lines  []string
	blocks []Block
	nextID int
}

func (s *segmenter) id() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *segmenter) run() {
	i := 0
	for i < len(s.lines) {
		line := s.lines[i]

		if language, ok := detectFence(line); ok {
			code, next := collectFence(s.lines, i+1)
			s.blocks = append(s.blocks, CodeBlock{ID: s.id(), Code: code, Language: language})
			i = next
			continue
		}

		if level, text, ok := parseHeading(line); ok {
			s.blocks = append(s.blocks, Heading{ID: s.id(), Text: text, Level: level})
			i++
			continue
		}

		if _, ok := listItem(line); ok {
			items, next := collectList(s.lines, i)
			s.blocks = append(s.blocks, ListBlock{ID: s.id(), Items: items})
			i = next
			continue
		}

		if strings.HasPrefix(line, quotePrefix) {
			s.blocks = append(s.blocks, QuoteBlock{ID: s.id(), Text: line[len(quotePrefix):]})
			i++
			continue
		}

		if alt, path, ok := parseImage(line); ok {
			s.blocks = append(s.blocks, ImageBlock{ID: s.id(), Path: path, AltText: alt})
			i++
			continue
		}

		if !isBlankLine(line) {
			s.blocks = append(s.blocks, TextBlock{ID: s.id(), Runs: Stylize(line)})
		}
		i++
	}
}

func splitLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func detectFence(line string) (string, bool) {
	if !strings.HasPrefix(line, fenceDelimiter) {
		return "", false
	}
	return strings.TrimSpace(line[len(fenceDelimiter):]), true
}

// collectFence gathers code lines starting at start until a closing fence or
// end of input. The returned index points past the closing fence.
func collectFence(lines []string, start int) (string, int) {
	var content []string
	i := start
	for i < len(lines) {
		if strings.HasPrefix(lines[i], fenceDelimiter) {
			return strings.Join(content, "\n"), i + 1
		}
		content = append(content, lines[i])
		i++
	}
	return strings.Join(content, "\n"), i
}

func parseHeading(line string) (int, string, bool) {
	level := countRepeatByte(line, '#')
	if level == 0 || level > maxHeadingLevel {
		return 0, "", false
	}
	if level >= len(line) || line[level] != ' ' {
		return 0, "", false
	}
	return level, line[level+1:], true
}

// listItem returns the item text when line starts with a bullet prefix.
func listItem(line string) (string, bool) {
	for _, prefix := range listPrefixes {
		if strings.HasPrefix(line, prefix) {
			return line[len(prefix):], true
		}
	}
	return "", false
}

func collectList(lines []string, start int) ([]string, int) {
	var items []string
	i := start
	for i < len(lines) {
		item, ok := listItem(lines[i])
		if !ok {
			break
		}
		items = append(items, item)
		i++
	}
	return items, i
}

// parseImage recognizes a line starting with ![alt](path). Text after the
// closing paren is ignored and the path may be empty; a missing bracket or
// paren rejects the line.
func parseImage(line string) (string, string, bool) {
	if !strings.HasPrefix(line, imagePrefix) {
		return "", "", false
	}
	rest := line[len(imagePrefix):]
	closeAlt := strings.Index(rest, "](")
	if closeAlt == -1 || strings.Contains(rest[:closeAlt], "]") {
		return "", "", false
	}
	target := rest[closeAlt+2:]
	closeParen := strings.IndexByte(target, ')')
	if closeParen == -1 {
		return "", "", false
	}
	return rest[:closeAlt], strings.TrimSpace(target[:closeParen]), true
}

func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

func countRepeatByte(text string, target byte) int {
	n := 0
	for n < len(text) && text[n] == target {
		n++
	}
	return n
}
