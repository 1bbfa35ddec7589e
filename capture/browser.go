package capture

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"

	agenterrors "github.com/cursortools/usage-agent/internal/errors"
)

// browserCandidates returns the ordered list of well-known browser install
// paths for the current platform. The first existing path wins.
func browserCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
		}
	case "windows":
		programFiles := os.Getenv("ProgramFiles")
		programFilesX86 := os.Getenv("ProgramFiles(x86)")
		return []string{
			filepath.Join(programFiles, "Google", "Chrome", "Application", "chrome.exe"),
			filepath.Join(programFilesX86, "Google", "Chrome", "Application", "chrome.exe"),
			filepath.Join(programFiles, "Microsoft", "Edge", "Application", "msedge.exe"),
		}
	default:
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}
	}
}

// resolveExecutable picks the browser binary to spawn. An explicit override
// is probed ahead of the platform candidates; no existing path at all fails
// closed rather than proceeding with a guess.
func resolveExecutable(override string, candidates []string) (string, error) {
	if override != "" {
		candidates = append([]string{override}, candidates...)
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", errors.Wrap(agenterrors.ErrBrowserNotFound, "[resolveExecutable] no known browser install found")
}
