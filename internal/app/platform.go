package app

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

type lookPathFunc func(string) (string, error)

var pagerLookPath lookPathFunc = exec.LookPath

// firstAvailable returns the resolved path of the first candidate found on PATH.
func firstAvailable(lookPath lookPathFunc, candidates ...string) (string, bool) {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if resolved, err := lookPath(candidate); err == nil && resolved != "" {
			return resolved, true
		}
	}
	return "", false
}

func detectClipboard() ([]string, bool) {
	return detectClipboardInternal(runtime.GOOS, exec.LookPath)
}

func detectClipboardInternal(goos string, lookPath lookPathFunc) ([]string, bool) {
	if strings.EqualFold(goos, "windows") {
		if resolved, ok := firstAvailable(lookPath, "clip.exe", "clip"); ok {
			return []string{resolved}, true
		}
		if resolved, ok := firstAvailable(lookPath, "powershell", "powershell.exe", "pwsh"); ok {
			return []string{resolved, "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"}, true
		}
	}
	if resolved, ok := firstAvailable(lookPath, "pbcopy", "xclip", "wl-copy", "xsel"); ok {
		return []string{resolved}, true
	}
	return nil, false
}

func detectEditorCommand() ([]string, bool) {
	return detectEditorCommandInternal(runtime.GOOS, os.Getenv, exec.LookPath)
}

// detectEditorCommandInternal prefers MDNOTE_EDITOR, then VISUAL and EDITOR,
// then a platform default.
func detectEditorCommandInternal(goos string, getenv func(string) string, lookPath lookPathFunc) ([]string, bool) {
	for _, candidate := range []string{getenv("MDNOTE_EDITOR"), getenv("VISUAL"), getenv("EDITOR")} {
		args := parseCommandLine(candidate)
		if len(args) == 0 {
			continue
		}
		if resolved, ok := resolveExecutable(args[0], lookPath); ok {
			args[0] = resolved
			return args, true
		}
	}

	defaults := [][]string{{"vim"}, {"nano"}, {"vi"}}
	if strings.EqualFold(goos, "windows") {
		defaults = [][]string{{"code", "--wait"}, {"notepad++.exe"}, {"notepad.exe"}}
	}
	for _, def := range defaults {
		if resolved, ok := resolveExecutable(def[0], lookPath); ok {
			return append([]string{resolved}, def[1:]...), true
		}
	}
	return nil, false
}

// parseCommandLine splits a shell-like command string, honoring single and
// double quotes, and expands a leading ~ in the program name.
func parseCommandLine(cmd string) []string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return nil
	}

	var args []string
	var current strings.Builder
	inSingle, inDouble := false, false
	for _, r := range cmd {
		switch {
		case r == '\'' && !inDouble:
			inSingle = !inSingle
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case unicode.IsSpace(r) && !inSingle && !inDouble:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	if len(args) > 0 {
		args[0] = expandUserPath(args[0])
	}
	return args
}

func expandUserPath(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	if len(p) > 1 && p[1] != '/' && p[1] != '\\' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if len(p) == 1 {
		return home
	}
	return filepath.Join(home, p[2:])
}

func resolveExecutable(cmd string, lookPath lookPathFunc) (string, bool) {
	if cmd == "" {
		return "", false
	}
	resolved, err := lookPath(expandUserPath(cmd))
	if err != nil {
		return "", false
	}
	return resolved, true
}

// detectPagerCommand prefers MDNOTE_PAGER, then PAGER, then a platform default.
func detectPagerCommand(goos string, pagerEnv string, lookPath lookPathFunc) []string {
	for _, candidate := range []string{os.Getenv("MDNOTE_PAGER"), pagerEnv} {
		if args := parseCommandLine(candidate); len(args) > 0 {
			return args
		}
	}
	if strings.EqualFold(goos, "windows") {
		if lookPath != nil {
			if resolved, ok := firstAvailable(lookPath, "more.com", "more"); ok {
				return []string{resolved}
			}
		}
		return []string{"cmd", "/C", "type"}
	}
	return []string{"less", "-R"}
}
