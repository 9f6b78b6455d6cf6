package app

import (
	"errors"
	"reflect"
	"testing"
)

func lookPathOnly(found map[string]string) lookPathFunc {
	return func(cmd string) (string, error) {
		if path, ok := found[cmd]; ok {
			return path, nil
		}
		return "", errors.New("not found")
	}
}

func TestDetectPagerCommandPrefersEnv(t *testing.T) {
	t.Setenv("MDNOTE_PAGER", "")
	args := detectPagerCommand("linux", "less -R", nil)
	expected := []string{"less", "-R"}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectPagerCommandPrefersMdnotePager(t *testing.T) {
	t.Setenv("MDNOTE_PAGER", "bat --paging=always")
	args := detectPagerCommand("linux", "less", nil)
	expected := []string{"bat", "--paging=always"}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectPagerCommandWindowsDefaults(t *testing.T) {
	t.Setenv("MDNOTE_PAGER", "")
	args := detectPagerCommand("windows", "", lookPathOnly(map[string]string{"more.com": `C:\Windows\System32\more.com`}))
	if !reflect.DeepEqual(args, []string{`C:\Windows\System32\more.com`}) {
		t.Fatalf("unexpected pager %v", args)
	}
	args = detectPagerCommand("windows", "", lookPathOnly(nil))
	if !reflect.DeepEqual(args, []string{"cmd", "/C", "type"}) {
		t.Fatalf("unexpected fallback %v", args)
	}
}

func TestDetectClipboard(t *testing.T) {
	tests := []struct {
		name  string
		goos  string
		found map[string]string
		want  []string
	}{
		{"pbcopy on unix", "linux", map[string]string{"pbcopy": "/usr/bin/pbcopy"}, []string{"/usr/bin/pbcopy"}},
		{"clip on windows", "windows", map[string]string{"clip.exe": `C:\clip.exe`}, []string{`C:\clip.exe`}},
		{"powershell fallback", "windows", map[string]string{"powershell": `C:\ps.exe`},
			[]string{`C:\ps.exe`, "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"}},
		{"none", "linux", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, ok := detectClipboardInternal(tt.goos, lookPathOnly(tt.found))
			if ok != (tt.want != nil) || !reflect.DeepEqual(args, tt.want) {
				t.Fatalf("expected %v, got %v (ok=%v)", tt.want, args, ok)
			}
		})
	}
}

func TestDetectEditorCommand(t *testing.T) {
	env := map[string]string{"EDITOR": "nano -w", "MDNOTE_EDITOR": ""}
	getenv := func(key string) string { return env[key] }

	args, ok := detectEditorCommandInternal("linux", getenv, lookPathOnly(map[string]string{"nano": "/bin/nano", "vim": "/bin/vim"}))
	if !ok || !reflect.DeepEqual(args, []string{"/bin/nano", "-w"}) {
		t.Fatalf("expected EDITOR to win, got %v", args)
	}

	env["MDNOTE_EDITOR"] = "vim"
	args, _ = detectEditorCommandInternal("linux", getenv, lookPathOnly(map[string]string{"nano": "/bin/nano", "vim": "/bin/vim"}))
	if !reflect.DeepEqual(args, []string{"/bin/vim"}) {
		t.Fatalf("expected MDNOTE_EDITOR to win, got %v", args)
	}

	args, ok = detectEditorCommandInternal("windows", func(string) string { return "" },
		lookPathOnly(map[string]string{"notepad++.exe": `C:\npp.exe`}))
	if !ok || !reflect.DeepEqual(args, []string{`C:\npp.exe`}) {
		t.Fatalf("expected windows fallback, got %v", args)
	}
}

func TestParseCommandLineQuotes(t *testing.T) {
	got := parseCommandLine(`code --wait "my dir/x" 'a b'`)
	want := []string{"code", "--wait", "my dir/x", "a b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if parseCommandLine("   ") != nil {
		t.Fatalf("expected nil for blank command")
	}
}
