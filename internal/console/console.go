// Package console implements the operator-facing terminal surface of the
// pylot CLI: the window title, the pause-for-acknowledgment primitive,
// and the fatal-path messages.
//
// The launcher is meant to run in an interactive terminal window. Fatal
// paths block on an acknowledgment read so the window cannot vanish
// before the operator has read the diagnostic. Each fatal path has its
// own message helper here so the launcher and the CLI agree on wording.
package console

import (
	"bufio"
	"fmt"
	"io"

	"github.com/mmr-tortoise/pylot/internal/model"
)

// SetTitle writes the OSC 0 escape sequence that sets the terminal window
// title. This is a one-time presentation side effect performed at startup;
// terminals that do not understand the sequence ignore it.
func SetTitle(w io.Writer, title string) {
	if title == "" {
		return
	}
	fmt.Fprintf(w, "\x1b]0;%s\x07", title)
}

// Pause prints the acknowledgment prompt and blocks until the operator
// sends a line (or the reader reaches EOF, so a closed stdin cannot hang
// the process forever).
func Pause(r io.Reader, w io.Writer) {
	fmt.Fprint(w, "Press Enter to continue...")
	reader := bufio.NewReader(r)
	_, _ = reader.ReadString('\n')
	fmt.Fprintln(w)
}

// RuntimeMissingMessage is the fatal diagnostic for an absent or outdated
// runtime. min is the minimum acceptable version; detail carries the
// probe's own explanation when available.
func RuntimeMissingMessage(min model.Version, detail string) string {
	msg := fmt.Sprintf("Python %s or newer is required.", min)
	if detail != "" {
		msg += "\n" + detail
	}
	return msg + fmt.Sprintf("\nInstall Python %s or newer, make sure it is on PATH, and run again.", min)
}

// InstallFailedMessage is the fatal diagnostic for a failed delegated
// installation, instructing the operator to install manually.
func InstallFailedMessage(installer string, detail string) string {
	msg := fmt.Sprintf("Automatic dependency installation via %s failed.", installer)
	if detail != "" {
		msg += "\n" + detail
	}
	return msg + "\nInstall the dependencies manually and run again."
}

// TargetFailedMessage is the diagnostic shown when the target program
// exits non-zero.
func TargetFailedMessage(target string, exitCode int) string {
	return fmt.Sprintf("%s exited with code %d.", target, exitCode)
}
