package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/mdnote/internal/markdown"
	"github.com/kk-code-lab/mdnote/internal/notes"
)

func (c *cli) note(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: note requires a subcommand", errUsage)
	}
	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	ctx := context.Background()
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "add":
		return c.noteAdd(ctx, store, rest)
	case "list":
		return c.noteList(ctx, store, rest)
	case "search":
		if len(rest) == 0 {
			return fmt.Errorf("%w: note search requires a query", errUsage)
		}
		found, err := store.Search(ctx, strings.Join(rest, " "))
		if err != nil {
			return err
		}
		c.printNotes(found)
		return nil
	case "find":
		if len(rest) == 0 {
			return fmt.Errorf("%w: note find requires a query", errUsage)
		}
		all, err := store.List(ctx)
		if err != nil {
			return err
		}
		c.printNotes(notes.FindTitles(strings.Join(rest, " "), all))
		return nil
	case "show":
		arg, err := oneArg("note show", rest)
		if err != nil {
			return err
		}
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		n, err := store.Get(ctx, id)
		if err != nil {
			return err
		}
		c.printNote(n)
		return nil
	case "rm":
		arg, err := oneArg("note rm", rest)
		if err != nil {
			return err
		}
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		return store.Delete(ctx, id)
	case "tags":
		tags, err := store.Tags(ctx)
		if err != nil {
			return err
		}
		for _, tag := range tags {
			fmt.Fprintf(c.stdout, "%s\t%d\n", tag.Name, tag.Notes)
		}
		return nil
	case "ai":
		arg, err := oneArg("note ai", rest)
		if err != nil {
			return err
		}
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		return c.noteAI(ctx, store, id)
	}
	return fmt.Errorf("%w: unknown note command %q", errUsage, cmd)
}

func (c *cli) noteAdd(ctx context.Context, store *notes.Store, args []string) error {
	var (
		file  string
		title string
		tags  []string
	)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--title" || arg == "--tag":
			if i+1 >= len(args) {
				return fmt.Errorf("%w: %s requires a value", errUsage, arg)
			}
			if arg == "--title" {
				title = args[i+1]
			} else {
				tags = append(tags, args[i+1])
			}
			i++
		case strings.HasPrefix(arg, "--title="):
			title = strings.TrimPrefix(arg, "--title=")
		case strings.HasPrefix(arg, "--tag="):
			tags = append(tags, strings.TrimPrefix(arg, "--tag="))
		case file == "":
			file = arg
		default:
			return fmt.Errorf("%w: unexpected argument %q", errUsage, arg)
		}
	}
	if file == "" {
		return fmt.Errorf("%w: note add requires a file", errUsage)
	}
	source, err := readNote(file)
	if err != nil {
		return err
	}
	if title == "" {
		title = noteTitle(file, source)
	}
	id, err := store.Save(ctx, notes.Note{Title: title, Content: source, Tags: tags})
	if err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(file), err)
	}
	_, err = fmt.Fprintln(c.stdout, id)
	return err
}

func (c *cli) noteList(ctx context.Context, store *notes.Store, args []string) error {
	var tag string
	switch {
	case len(args) == 0:
	case len(args) == 2 && args[0] == "--tag":
		tag = args[1]
	case len(args) == 1 && strings.HasPrefix(args[0], "--tag="):
		tag = strings.TrimPrefix(args[0], "--tag=")
	default:
		return fmt.Errorf("%w: note list takes only --tag", errUsage)
	}

	var (
		list []notes.Note
		err  error
	)
	if tag != "" {
		list, err = store.ByTag(ctx, tag)
	} else {
		list, err = store.List(ctx)
	}
	if err != nil {
		return err
	}
	c.printNotes(list)
	return nil
}

func (c *cli) noteAI(ctx context.Context, store *notes.Store, id int64) error {
	n, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	client := c.aiClient()
	summary, err := client.Summarize(ctx, n.Title, n.Content)
	if err != nil {
		return err
	}
	suggested, err := client.SuggestTags(ctx, n.Title, n.Content)
	if err != nil {
		return err
	}
	n.Summary = summary
	n.Tags = notes.NormalizeTags(append(n.Tags, suggested...))
	if _, err := store.Save(ctx, n); err != nil {
		return err
	}
	c.printNote(n)
	return nil
}

func (c *cli) printNotes(list []notes.Note) {
	for _, n := range list {
		fmt.Fprintf(c.stdout, "%d\t%s\t%s\t%s\n",
			n.ID, n.Title, strings.Join(n.Tags, ","), markdown.Preview(n.Content, 60))
	}
}

func (c *cli) printNote(n notes.Note) {
	fmt.Fprintf(c.stdout, "# %s\n", n.Title)
	if len(n.Tags) > 0 {
		fmt.Fprintf(c.stdout, "tags: %s\n", strings.Join(n.Tags, ", "))
	}
	if n.Summary != "" {
		fmt.Fprintf(c.stdout, "summary: %s\n", n.Summary)
	}
	fmt.Fprintln(c.stdout)
	_ = writeLines(c.stdout, markdown.Segment(n.Content))
}
