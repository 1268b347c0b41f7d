// Package console adapts the host terminal for line-oriented use: a Console reads one line at a
// time and serves as the host's diagnostic output sink. The assemble command uses it only for
// output; no command reads source lines through it. It is grounded in the LC-3
// assembler's cmd/internal/tty package, trimmed to the one device this program has (a
// line-oriented console, not a simulated keyboard/display pair), and kept on the same
// term/unix pairing rather than hand-rolling termios handling.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNoTTY is returned when standard input is not a terminal, in which case raw-mode editing
// (line history, interrupt handling) is unavailable and callers should fall back to plain
// line-buffered reads.
var ErrNoTTY = errors.New("console: not a TTY")

// Console is a line-oriented terminal front end: it reads one line at a time, with the host
// terminal's own line editing when available, and doubles as the host's diagnostic output sink
// via Write.
type Console struct {
	fd    int
	state *term.State
	term  *term.Terminal
	plain *bufio.Scanner
	sout  *os.File
}

// termReadWriter pairs sin for reads and sout for writes into the single io.ReadWriter
// term.NewTerminal requires, since the two are separate *os.File values here rather than one fd
// shared between stdin and stdout.
type termReadWriter struct {
	r *os.File
	w *os.File
}

func (rw termReadWriter) Read(p []byte) (int, error)  { return rw.r.Read(p) }
func (rw termReadWriter) Write(p []byte) (int, error) { return rw.w.Write(p) }

// New adapts sin/sout for interactive use. If sin is not a terminal, the returned Console falls
// back to unadorned line reads and plain writes, and ErrNoTTY is returned alongside it so callers
// can report the degraded mode without treating it as fatal.
func New(sin, sout *os.File) (*Console, error) {
	fd := int(sin.Fd())

	if !term.IsTerminal(fd) {
		return &Console{plain: bufio.NewScanner(sin), sout: sout}, ErrNoTTY
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return &Console{plain: bufio.NewScanner(sin), sout: sout}, fmt.Errorf("%w: %w", ErrNoTTY, err)
	}

	cons := &Console{
		fd:    fd,
		state: state,
		term:  term.NewTerminal(termReadWriter{r: sin, w: sout}, "macro10> "),
		sout:  sout,
	}

	if err := cons.setTerminalParams(1, 0); err != nil {
		_ = term.Restore(fd, state)
		return &Console{plain: bufio.NewScanner(sin), sout: sout}, fmt.Errorf("%w: %w", ErrNoTTY, err)
	}

	return cons, nil
}

// Write implements io.Writer, so the host's diagnostic output can be routed through the
// terminal's own line handling when one is active, or written directly to sout otherwise.
func (c *Console) Write(p []byte) (int, error) {
	if c.term != nil {
		return c.term.Write(p)
	}

	return c.sout.Write(p)
}

// setTerminalParams stores vmin and vtime in the terminal's VMIN/VTIME cc values, switching the
// descriptor to non-blocking mode while it does so and back to blocking mode on success; raw
// mode otherwise stays in effect (echo and line editing stay off), so with vmin 1 a read
// returns after one byte rather than a whole line.
func (c *Console) setTerminalParams(vmin, vtime byte) error {
	_ = syscall.SetNonblock(c.fd, true)

	termIO, err := unix.IoctlGetTermios(c.fd, getTermiosIoctl)
	if err != nil {
		return err
	}

	termIO.Cc[unix.VMIN] = vmin
	termIO.Cc[unix.VTIME] = vtime

	if err := unix.IoctlSetTermios(c.fd, setTermiosIoctl, termIO); err != nil {
		return err
	}

	return syscall.SetNonblock(c.fd, false)
}

// ReadLine returns the next line of input, or io.EOF when the stream is exhausted.
func (c *Console) ReadLine() (string, error) {
	if c.term != nil {
		return c.term.ReadLine()
	}

	if c.plain.Scan() {
		return c.plain.Text(), nil
	}

	if err := c.plain.Err(); err != nil {
		return "", err
	}

	return "", errEOF
}

// Width reports the terminal's column width, falling back to 80 when it cannot be determined
// (not a terminal, or the ioctl fails).
func (c *Console) Width() int {
	if c.state == nil {
		return 80
	}

	w, _, err := term.GetSize(c.fd)
	if err != nil || w <= 0 {
		return 80
	}

	return w
}

// Restore returns the terminal to its original mode. Safe to call on a Console that was never
// put into raw mode.
func (c *Console) Restore() {
	if c.state != nil {
		_ = term.Restore(c.fd, c.state)
	}
}

var errEOF = errors.New("console: end of input")
