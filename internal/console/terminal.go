// Package console is the interactive terminal front-end: it plays the role of the portal
// page, rendering rosters and tables and answering dialogs from stdin.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/noah-isme/sma-substitution-console/internal/models"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// ErrInputClosed is returned when stdin ends while a prompt is waiting.
var ErrInputClosed = errors.New("input closed")

// Terminal reads answers from in and writes prompts to out. It implements the dialog,
// native prompt and navigator capabilities of a page.
type Terminal struct {
	mu      sync.Mutex
	in      *bufio.Scanner
	out     io.Writer
	color   bool
	theme   models.Theme
	current string
}

// NewTerminal wraps in and out. color enables ANSI escapes.
func NewTerminal(in io.Reader, out io.Writer, color bool) *Terminal {
	return &Terminal{in: bufio.NewScanner(in), out: out, color: color, theme: models.ThemeLight}
}

// SetTheme switches the palette. Dark mode drops the dim escape so muted text stays readable.
func (t *Terminal) SetTheme(theme models.Theme) {
	t.mu.Lock()
	t.theme = theme
	t.mu.Unlock()
}

// Location is the last page the terminal navigated to.
func (t *Terminal) Location() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// ReadLine prints prompt and returns the next trimmed line.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readLocked(prompt)
}

func (t *Terminal) readLocked(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(t.in.Text()), nil
}

// Printf writes formatted output.
func (t *Terminal) Printf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

// Alert renders a modal dialog and waits for Enter.
func (t *Terminal) Alert(_ context.Context, req models.DialogRequest) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeDialog(req)
	label := req.ConfirmText
	if label == "" {
		label = "OK"
	}
	_, err := t.readLocked(t.paint(fmt.Sprintf("[Enter] %s ", label), colorDim))
	return err
}

// Confirm renders a question dialog. Anything but y/yes declines.
func (t *Terminal) Confirm(_ context.Context, req models.DialogRequest) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeDialog(req)
	yes, no := req.ConfirmText, req.CancelText
	if yes == "" {
		yes = "Yes"
	}
	if no == "" {
		no = "No"
	}
	answer, err := t.readLocked(fmt.Sprintf("%s / %s [y/N] ", t.paint("y: "+yes, colorGreen), t.paint("n: "+no, colorRed)))
	if err != nil {
		return false, err
	}
	return isYes(answer), nil
}

// Navigate records and announces a page change.
func (t *Terminal) Navigate(_ context.Context, location string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = location
	fmt.Fprintf(t.out, "%s %s\n", t.paint("->", colorCyan), location)
}

// Reload announces a refresh of the current page.
func (t *Terminal) Reload(context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, t.paint("-> page reloaded", colorCyan))
}

func (t *Terminal) writeDialog(req models.DialogRequest) {
	fmt.Fprintln(t.out)
	title := req.Title
	if title == "" {
		title = strings.ToUpper(string(req.Icon))
	}
	fmt.Fprintf(t.out, "%s %s\n", t.paint(iconMark(req.Icon), iconColor(req.Icon)), t.paint(title, colorBold))
	if req.Text != "" {
		fmt.Fprintf(t.out, "  %s\n", req.Text)
	}
}

func (t *Terminal) paint(text, code string) string {
	if !t.color {
		return text
	}
	if code == colorDim && t.theme == models.ThemeDark {
		return text
	}
	return code + text + colorReset
}

// Native is the bare prompt used when the dialog capability fails.
type Native struct {
	t *Terminal
}

// NewNative returns the fallback prompt bound to t.
func NewNative(t *Terminal) Native { return Native{t: t} }

// Confirm asks a plain yes/no question.
func (n Native) Confirm(_ context.Context, message string) (bool, error) {
	n.t.mu.Lock()
	defer n.t.mu.Unlock()
	answer, err := n.t.readLocked(message + " [y/N] ")
	if err != nil {
		return false, err
	}
	return isYes(answer), nil
}

// Alert prints message on its own line.
func (n Native) Alert(_ context.Context, message string) {
	n.t.mu.Lock()
	defer n.t.mu.Unlock()
	fmt.Fprintf(n.t.out, "! %s\n", message)
}

func isYes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func iconMark(icon models.DialogIcon) string {
	switch icon {
	case models.IconSuccess:
		return "[ok]"
	case models.IconError:
		return "[x]"
	case models.IconWarning:
		return "[!]"
	case models.IconQuestion:
		return "[?]"
	default:
		return "[i]"
	}
}

func iconColor(icon models.DialogIcon) string {
	switch icon {
	case models.IconSuccess:
		return colorGreen
	case models.IconError:
		return colorRed
	case models.IconWarning, models.IconQuestion:
		return colorYellow
	default:
		return colorCyan
	}
}
