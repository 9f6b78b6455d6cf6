package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/mdnote/internal/config"
)

func printHelp(w io.Writer) {
	fmt.Fprint(w, `mdnote - Markdown notes in the terminal

USAGE:
    mdnote [OPTIONS] FILE
    mdnote [OPTIONS] COMMAND [ARGS]

COMMANDS:
    view FILE                 Open the note viewer (prints plain lines when not a terminal)
    blocks FILE               List the note's blocks
    preview FILE              Print a one-line plain-text preview
    html FILE [--standalone]  Export the note as HTML
    note add FILE [--title T] [--tag TAG]...
    note list [--tag TAG]     List stored notes
    note search QUERY         Search titles and content
    note find QUERY           Fuzzy-find notes by title
    note show ID              Print a stored note
    note rm ID                Delete a stored note
    note tags                 List tags with note counts
    note ai ID                Store an AI summary and merge suggested tags
    ai summarize FILE         Summarize a note with the configured model
    ai tags FILE              Suggest tags for a note

OPTIONS:
    -h, --help                Show this help message and exit
    --config PATH             Read configuration from PATH
    --db PATH                 Use the note database at PATH
`)
}

var errUsage = errors.New("usage")

type globalOptions struct {
	configPath string
	dbPath     string
	help       bool
}

func parseGlobalOptions(args []string) (globalOptions, []string, error) {
	var opts globalOptions
	for len(args) > 0 {
		arg := args[0]
		switch {
		case arg == "-h" || arg == "--help":
			opts.help = true
			args = args[1:]
		case arg == "--config" || arg == "--db":
			if len(args) < 2 {
				return opts, nil, fmt.Errorf("%s requires a value", arg)
			}
			if arg == "--config" {
				opts.configPath = args[1]
			} else {
				opts.dbPath = args[1]
			}
			args = args[2:]
		case strings.HasPrefix(arg, "--config="):
			opts.configPath = strings.TrimPrefix(arg, "--config=")
			args = args[1:]
		case strings.HasPrefix(arg, "--db="):
			opts.dbPath = strings.TrimPrefix(arg, "--db=")
			args = args[1:]
		default:
			return opts, args, nil
		}
	}
	return opts, args, nil
}

func loadConfig(opts globalOptions) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFromFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		cfg.Database.Path = opts.dbPath
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, rest, err := parseGlobalOptions(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.help || len(rest) == 0 {
		printHelp(stdout)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := dispatch(&cli{cfg: cfg, stdout: stdout}, rest); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Error: %v\n\n", err)
			printHelp(stderr)
			return 1
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
