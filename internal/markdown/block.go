package markdown

// Block is one structural unit of a segmented note. The set of variants is
// closed: Heading, CodeBlock, ListBlock, QuoteBlock, ImageBlock, TextBlock and
// PlaceholderBlock.
type Block interface {
	blockKind() BlockKind
}

// BlockKind identifies a Block variant.
type BlockKind int

const (
	KindText BlockKind = iota
	KindHeading
	KindCode
	KindList
	KindQuote
	KindImage
	KindPlaceholder
)

func (k BlockKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindHeading:
		return "heading"
	case KindCode:
		return "code"
	case KindList:
		return "list"
	case KindQuote:
		return "quote"
	case KindImage:
		return "image"
	case KindPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Heading is an ATX heading, Level 1 through 6.
type Heading struct {
	ID    int
	Text  string
	Level int
}

func (Heading) blockKind() BlockKind { return KindHeading }

// CodeBlock is a fenced code block. Language holds the info string of the
// opening fence and may be empty.
type CodeBlock struct {
	ID       int
	Code     string
	Language string
}

func (CodeBlock) blockKind() BlockKind { return KindCode }

// ListBlock is a run of consecutive bullet lines.
type ListBlock struct {
	ID    int
	Items []string
}

func (ListBlock) blockKind() BlockKind { return KindList }

// QuoteBlock is a single "> " line.
type QuoteBlock struct {
	ID   int
	Text string
}

func (QuoteBlock) blockKind() BlockKind { return KindQuote }

// ImageBlock references an image by path. The bytes are resolved elsewhere.
type ImageBlock struct {
	ID      int
	Path    string
	AltText string
}

func (ImageBlock) blockKind() BlockKind { return KindImage }

// TextBlock is a plain line with inline styling applied.
type TextBlock struct {
	ID   int
	Runs []StyledRun
}

func (TextBlock) blockKind() BlockKind { return KindText }

// PlaceholderBlock stands in for content that is still being resolved.
type PlaceholderBlock struct {
	ID int
}

func (PlaceholderBlock) blockKind() BlockKind { return KindPlaceholder }

// KindOf reports the variant of b.
func KindOf(b Block) BlockKind {
	if b == nil {
		return KindPlaceholder
	}
	return b.blockKind()
}

// BlockID returns the per-parse identifier of b, or -1 for nil.
func BlockID(b Block) int {
	switch v := b.(type) {
	case Heading:
		return v.ID
	case CodeBlock:
		return v.ID
	case ListBlock:
		return v.ID
	case QuoteBlock:
		return v.ID
	case ImageBlock:
		return v.ID
	case TextBlock:
		return v.ID
	case PlaceholderBlock:
		return v.ID
	default:
		return -1
	}
}
