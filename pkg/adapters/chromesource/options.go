package chromesource

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ErrChromeNotFound is returned when no Chrome or Chromium binary can be found.
var ErrChromeNotFound = errors.New("chromesource: chrome not found (install Chrome/Chromium, set CHROME_PATH, or use --chrome-path)")

// Options configures the browser.
type Options struct {
	URL    string
	Width  int
	Height int
	// ChromePath overrides browser discovery.
	ChromePath string
	Headless   bool
}

// lookPath resolves bare names through PATH and checks paths containing a
// separator directly.
var lookPath = exec.LookPath

// ExecPath returns the browser binary to launch: ChromePath, then
// $CHROME_PATH, then the first installed Chromium or Chrome.
func (o Options) ExecPath() (string, error) {
	for _, explicit := range []struct{ from, path string }{
		{"--chrome-path", o.ChromePath},
		{"CHROME_PATH", os.Getenv("CHROME_PATH")},
	} {
		if explicit.path == "" {
			continue
		}
		p, err := lookPath(explicit.path)
		if err != nil {
			return "", fmt.Errorf("%w: %s %s: %v", ErrChromeNotFound, explicit.from, explicit.path, err)
		}
		return p, nil
	}

	for _, candidate := range browserCandidates(runtime.GOOS, os.Getenv) {
		if p, err := lookPath(candidate); err == nil {
			return p, nil
		}
	}
	return "", ErrChromeNotFound
}

// browserCandidates lists install locations, Chromium first.
func browserCandidates(goos string, getenv func(string) string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		}
	case "windows":
		var out []string
		for _, root := range []string{getenv("PROGRAMFILES"), getenv("PROGRAMFILES(X86)"), getenv("LOCALAPPDATA")} {
			if root == "" {
				continue
			}
			out = append(out,
				filepath.Join(root, "Chromium", "Application", "chrome.exe"),
				filepath.Join(root, "Google", "Chrome", "Application", "chrome.exe"),
			)
		}
		return out
	default:
		return []string{"chromium", "chromium-browser", "google-chrome-stable", "google-chrome", "headless_shell"}
	}
}
