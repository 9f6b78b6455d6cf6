package app

import (
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	statepkg "github.com/kk-code-lab/mdnote/internal/state"
)

var commandBuilder = exec.Command

func runCommand(cmd *exec.Cmd, name string) error {
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (app *Application) handleClipboard() bool {
	if !app.clipboardAvail || len(app.clipboardCmd) == 0 {
		return false
	}
	notePath := normalizeClipboardPath(app.state.Path, runtime.GOOS)
	cmd := commandBuilder(app.clipboardCmd[0], app.clipboardCmd[1:]...)
	cmd.Stdin = strings.NewReader(notePath)
	if err := runCommand(cmd, app.clipboardCmd[0]); err != nil {
		app.state.LastError = err
		return true
	}
	app.state.LastYankTime = time.Now()
	return true
}

func normalizeClipboardPath(inputPath string, goos string) string {
	if strings.EqualFold(goos, "windows") {
		cleaned := filepath.Clean(inputPath)
		return strings.ReplaceAll(cleaned, "/", `\`)
	}
	return path.Clean(filepath.ToSlash(inputPath))
}

// handleEditorOpen edits the note and reloads it once the editor exits.
func (app *Application) handleEditorOpen() bool {
	if !app.state.EditorAvailable || len(app.editorCmd) == 0 {
		return false
	}
	if err := app.openFileInEditor(app.state.Path); err != nil {
		app.state.LastError = err
		return true
	}
	if _, err := app.reducer.Reduce(app.state, statepkg.ReloadAction{}); err != nil {
		app.state.LastError = err
	}
	return true
}

func (app *Application) handleOpenPager() bool {
	if err := app.openFileInPager(app.state.Path); err != nil {
		app.state.LastError = err
	}
	return true
}

func (app *Application) pagerArgs(filePath string) []string {
	base := detectPagerCommand(runtime.GOOS, os.Getenv("PAGER"), pagerLookPath)
	if len(base) == 0 {
		return nil
	}

	args := make([]string, len(base)+1)
	copy(args, base)
	args[len(base)] = filePath
	return args
}

func (app *Application) openFileInPager(filePath string) error {
	pagerArgs := app.pagerArgs(filePath)
	if len(pagerArgs) == 0 {
		return fmt.Errorf("no pager command available")
	}
	return app.runInTerminal(pagerArgs, app.openFileInPagerFallback)
}

func (app *Application) openFileInPagerFallback(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no pager command available")
	}
	return app.runSuspended(args, os.Stdin, os.Stdout, os.Stderr)
}

func (app *Application) openFileInEditor(filePath string) error {
	if len(app.editorCmd) == 0 {
		return fmt.Errorf("no editor configured")
	}
	editorArgs := app.editorArgsWithFile(filePath)
	if runtime.GOOS == "windows" {
		return app.runSuspended(editorArgs, os.Stdin, os.Stdout, os.Stderr)
	}
	return app.runInTerminal(editorArgs, app.openFileInEditorFallback)
}

func (app *Application) openFileInEditorFallback(args []string) error {
	return app.runSuspended(args, os.Stdin, os.Stdout, os.Stderr)
}

// runInTerminal runs args attached to /dev/tty, falling back when the
// controlling terminal cannot be opened.
func (app *Application) runInTerminal(args []string, fallback func([]string) error) error {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return fallback(args)
	}
	defer func() {
		_ = tty.Close()
	}()
	return app.runSuspended(args, tty, tty, tty)
}

func (app *Application) runSuspended(args []string, stdin, stdout, stderr *os.File) error {
	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}

	cmd := commandBuilder(args[0], args[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	runErr := runCommand(cmd, args[0])

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	app.screen.Sync()
	return runErr
}

func (app *Application) editorArgsWithFile(filePath string) []string {
	args := make([]string, len(app.editorCmd)+1)
	copy(args, app.editorCmd)
	args[len(app.editorCmd)] = filePath
	return args
}
