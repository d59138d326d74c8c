package darwin

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/darkawower/bingwall/internal/platform"
)

// runner executes a command and returns its combined output.
type runner func(name string, args ...string) ([]byte, error)

func runCommand(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// New returns the macOS services.
func New() *platform.Services {
	return &platform.Services{
		GOOS:       "darwin",
		Background: &WallpaperService{run: runCommand},
		Files:      &FileManagerService{run: runCommand},
	}
}

// WallpaperService drives System Events, which covers every display and
// space, and reads the picture back through Finder.
type WallpaperService struct {
	run runner
}

func (s *WallpaperService) Set(path string) error {
	if output, err := s.run("osascript", "-e", setPictureScript(path)); err != nil {
		return fmt.Errorf("failed to set wallpaper: %w (output: %s)", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (s *WallpaperService) Get() (string, error) {
	output, err := s.run("osascript", "-e", `tell application "Finder" to get POSIX path of (desktop picture as alias)`)
	if err != nil {
		return "", fmt.Errorf("failed to get wallpaper: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

func setPictureScript(path string) string {
	return fmt.Sprintf(`tell application "System Events"
	tell every desktop
		set picture to %s
	end tell
end tell`, appleScriptString(path))
}

// appleScriptString quotes s as an AppleScript string literal.
func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
