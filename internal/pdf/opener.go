package pdf

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// ValidViewers lists the supported viewer values.
var ValidViewers = []string{"system", "skim", "preview", "zathura", "evince", "okular"}

// Opener launches a PDF viewer.
type Opener struct {
	viewer string
}

// NewOpener creates an opener for the named viewer. An empty name means
// the platform default.
func NewOpener(viewer string) *Opener {
	if viewer == "" {
		viewer = "system"
	}
	return &Opener{viewer: viewer}
}

// Open starts the viewer on path without waiting for it to exit.
func (o *Opener) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("PDF file does not exist: %s", path)
		}
		return fmt.Errorf("checking PDF file: %w", err)
	}

	cmd, err := o.command(runtime.GOOS, path)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func (o *Opener) command(goos, path string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return o.darwinCommand(path), nil
	case "linux":
		return o.linuxCommand(path), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

func (o *Opener) darwinCommand(path string) *exec.Cmd {
	switch o.viewer {
	case "skim":
		return exec.Command("open", "-a", "Skim", path)
	case "preview":
		return exec.Command("open", "-a", "Preview", path)
	default:
		return exec.Command("open", path)
	}
}

func (o *Opener) linuxCommand(path string) *exec.Cmd {
	switch o.viewer {
	case "zathura", "evince", "okular":
		return exec.Command(o.viewer, path)
	default:
		return exec.Command("xdg-open", path)
	}
}
