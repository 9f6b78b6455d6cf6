package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines viewer colors.
type ColorTheme struct {
	Background    tcell.Color
	Foreground    tcell.Color
	HeadingFg     []tcell.Color // by level, last entry repeats
	CodeFg        tcell.Color
	CodeBg        tcell.Color
	CodeBlockFg   tcell.Color
	CodeBlockBg   tcell.Color
	QuoteFg       tcell.Color
	QuoteBarFg    tcell.Color
	BulletFg      tcell.Color
	ImageFg       tcell.Color
	ErrorFg       tcell.Color
	PlaceholderFg tcell.Color
	FooterBg      tcell.Color
	FooterFg      tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:    tcell.ColorDefault,
		Foreground:    tcell.ColorDefault,
		HeadingFg:     []tcell.Color{tcell.Color33, tcell.Color39, tcell.Color44, tcell.Color250},
		CodeBg:        tcell.ColorDefault,
		CodeFg:        tcell.Color44,  // brighter cyan text for code
		CodeBlockBg:   tcell.Color234, // darker grey background for fenced code
		CodeBlockFg:   tcell.Color252, // light grey text for fenced code
		QuoteFg:       tcell.Color246,
		QuoteBarFg:    tcell.Color33,
		BulletFg:      tcell.Color33,
		ImageFg:       tcell.Color51,
		ErrorFg:       tcell.Color196,
		PlaceholderFg: tcell.ColorLightSlateGray,
		FooterBg:      tcell.ColorDefault,
		FooterFg:      tcell.ColorDefault,
	}
}

func (t ColorTheme) headingColor(level int) tcell.Color {
	if len(t.HeadingFg) == 0 {
		return t.Foreground
	}
	idx := level - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(t.HeadingFg) {
		idx = len(t.HeadingFg) - 1
	}
	return t.HeadingFg[idx]
}

func (t ColorTheme) base() tcell.Style {
	return tcell.StyleDefault.Background(t.Background).Foreground(t.Foreground)
}

func (t ColorTheme) codeBlock() tcell.Style {
	style := t.base()
	if t.CodeBlockFg != tcell.ColorDefault {
		style = style.Foreground(t.CodeBlockFg)
	}
	if t.CodeBlockBg != tcell.ColorDefault {
		style = style.Background(t.CodeBlockBg)
	}
	return style
}

func (t ColorTheme) footer() tcell.Style {
	return tcell.StyleDefault.Background(t.FooterBg).Foreground(t.FooterFg)
}
