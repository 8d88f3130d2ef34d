// Package clipboard copies report text to the system clipboard via shell
// commands.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when no clipboard command is found.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

type lookPathFunc func(file string) (string, error)

// command picks the clipboard command for goos, preferring pbcopy on
// macOS and xclip over xsel on Linux.
func command(goos string, lookPath lookPathFunc) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		if _, err := lookPath("pbcopy"); err == nil {
			return exec.Command("pbcopy"), nil
		}
	case "linux":
		if _, err := lookPath("xclip"); err == nil {
			return exec.Command("xclip", "-selection", "clipboard"), nil
		}
		if _, err := lookPath("xsel"); err == nil {
			return exec.Command("xsel", "--clipboard", "--input"), nil
		}
	}
	return nil, ErrClipboardUnavailable
}

// IsAvailable reports whether a clipboard command exists on this system.
func IsAvailable() bool {
	_, err := command(runtime.GOOS, exec.LookPath)
	return err == nil
}

// Copy replaces the clipboard contents with text.
func Copy(text string) error {
	cmd, err := command(runtime.GOOS, exec.LookPath)
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// CopyCitations copies citations as a numbered list, one per line.
func CopyCitations(numbers []int, citations []string) error {
	return Copy(FormatCitations(numbers, citations))
}

// FormatCitations renders citations as "n. citation" lines. numbers and
// citations must be the same length.
func FormatCitations(numbers []int, citations []string) string {
	var b strings.Builder
	for i, c := range citations {
		fmt.Fprintf(&b, "%d. %s\n", numbers[i], c)
	}
	return b.String()
}
