package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apppkg "github.com/kk-code-lab/mdnote/internal/app"
	"github.com/kk-code-lab/mdnote/internal/ai"
	"github.com/kk-code-lab/mdnote/internal/config"
	"github.com/kk-code-lab/mdnote/internal/export"
	fsutil "github.com/kk-code-lab/mdnote/internal/fs"
	"github.com/kk-code-lab/mdnote/internal/markdown"
	"github.com/kk-code-lab/mdnote/internal/notes"
	"golang.org/x/term"
)

type cli struct {
	cfg    *config.Config
	stdout io.Writer
}

var newAIClient = func(cfg *config.Config) ai.Client {
	return ai.NewChatClient(ai.ConfigFromEnv(cfg.AI.BaseURL, cfg.AI.Model, cfg.AI.APIKeyEnv, cfg.AI.Timeout()))
}

func (c *cli) terminal() bool {
	f, ok := c.stdout.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (c *cli) aiClient() ai.Client {
	return newAIClient(c.cfg)
}

func dispatch(c *cli, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "view":
		file, err := oneArg(cmd, rest)
		if err != nil {
			return err
		}
		return c.view(file)
	case "blocks":
		file, err := oneArg(cmd, rest)
		if err != nil {
			return err
		}
		return c.blocks(file)
	case "preview":
		file, err := oneArg(cmd, rest)
		if err != nil {
			return err
		}
		return c.preview(file)
	case "html":
		return c.html(rest)
	case "note":
		return c.note(rest)
	case "ai":
		return c.aiCommand(rest)
	}
	if info, err := os.Stat(cmd); err == nil && !info.IsDir() && len(rest) == 0 {
		return c.view(cmd)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func oneArg(cmd string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: %s takes exactly one argument", errUsage, cmd)
	}
	return args[0], nil
}

func readNote(path string) (string, error) {
	return fsutil.ReadNote(path, fsutil.DefaultNoteLimit)
}

func (c *cli) view(file string) error {
	if !c.terminal() {
		source, err := readNote(file)
		if err != nil {
			return err
		}
		return writeLines(c.stdout, markdown.Segment(source))
	}
	app, err := apppkg.NewApplication(c.cfg, file)
	if err != nil {
		return err
	}
	defer func() {
		_ = app.Close()
	}()
	app.Run()
	return nil
}

func writeLines(w io.Writer, blocks []markdown.Block) error {
	for _, line := range markdown.Lines(blocks) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}

func (c *cli) blocks(file string) error {
	source, err := readNote(file)
	if err != nil {
		return err
	}
	for _, block := range markdown.Segment(source) {
		fmt.Fprintf(c.stdout, "%d\t%s\t%s\n", markdown.BlockID(block), markdown.KindOf(block), blockDetail(block))
	}
	return nil
}

func blockDetail(block markdown.Block) string {
	switch b := block.(type) {
	case markdown.Heading:
		return fmt.Sprintf("h%d %s", b.Level, b.Text)
	case markdown.CodeBlock:
		lang := b.Language
		if lang == "" {
			lang = "-"
		}
		return fmt.Sprintf("lang=%s lines=%d", lang, strings.Count(b.Code, "\n")+1)
	case markdown.ListBlock:
		return fmt.Sprintf("items=%d", len(b.Items))
	case markdown.QuoteBlock:
		return b.Text
	case markdown.ImageBlock:
		return fmt.Sprintf("%s -> %s", b.AltText, b.Path)
	case markdown.TextBlock:
		return markdown.RunsText(b.Runs)
	}
	return ""
}

func (c *cli) preview(file string) error {
	source, err := readNote(file)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.stdout, markdown.Preview(source, markdown.DefaultPreviewLimit))
	return err
}

func (c *cli) html(args []string) error {
	standalone := false
	var files []string
	for _, arg := range args {
		if arg == "--standalone" {
			standalone = true
			continue
		}
		files = append(files, arg)
	}
	file, err := oneArg("html", files)
	if err != nil {
		return err
	}
	source, err := readNote(file)
	if err != nil {
		return err
	}
	exporter := export.New(c.cfg.Viewer.CodeStyle)
	if standalone {
		return exporter.Document(c.stdout, noteTitle(file, source), source)
	}
	return exporter.HTML(c.stdout, source)
}

// noteTitle is the first heading, else the preview line, else the file name.
func noteTitle(path, source string) string {
	for _, block := range markdown.Segment(source) {
		if h, ok := block.(markdown.Heading); ok && strings.TrimSpace(h.Text) != "" {
			return strings.TrimSpace(h.Text)
		}
	}
	if preview := markdown.Preview(source, 60); preview != "" {
		return preview
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (c *cli) openStore() (*notes.Store, error) {
	return notes.Open(c.cfg.Database.Path)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid note id %q", errUsage, arg)
	}
	return id, nil
}

func (c *cli) aiCommand(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: ai takes a subcommand and a file", errUsage)
	}
	source, err := readNote(args[1])
	if err != nil {
		return err
	}
	title := noteTitle(args[1], source)
	ctx := context.Background()
	client := c.aiClient()

	switch args[0] {
	case "summarize":
		summary, err := client.Summarize(ctx, title, source)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.stdout, summary)
		return err
	case "tags":
		tags, err := client.SuggestTags(ctx, title, source)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.stdout, strings.Join(tags, ", "))
		return err
	}
	return fmt.Errorf("%w: unknown ai command %q", errUsage, args[0])
}
