// Package preview launches the platform image viewer for finished
// artifacts. Launching is best-effort: a missing viewer or a failed spawn
// is logged and otherwise ignored, and the pipeline never waits on it.
package preview

import (
	"log/slog"
	"os/exec"
	"runtime"
)

// Launcher opens files with the platform's default viewer.
type Launcher struct {
	log *slog.Logger
}

// NewLauncher creates a viewer launcher logging through log.
func NewLauncher(log *slog.Logger) *Launcher {
	if log == nil {
		log = slog.Default()
	}
	return &Launcher{log: log}
}

// Open spawns one viewer process per path without waiting for any of them.
func (l *Launcher) Open(paths []string) {
	for _, p := range paths {
		cmd := viewerCommand(p)
		if err := cmd.Start(); err != nil {
			l.log.Warn("preview launch failed", "path", p, "error", err)
			continue
		}
		// Reap the process once the viewer exits.
		go cmd.Wait()
	}
}

func viewerCommand(path string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return exec.Command("xdg-open", path)
	}
}
