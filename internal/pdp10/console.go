package pdp10

import (
	"fmt"
	"io"
	"os"
)

// sink is the host's diagnostic output destination, satisfied by internal/console's terminal
// writer in the CLI binary and by a plain buffer in tests.
type sink interface {
	Println(s string)
}

type writerSink struct{ w io.Writer }

func (s writerSink) Println(text string) {
	fmt.Fprintln(s.w, text)
}

var defaultSink sink = writerSink{w: os.Stdout}

// SetOutput redirects Println to w, letting the CLI wire the host's diagnostic output through
// internal/console's terminal handling.
func SetOutput(w io.Writer) {
	defaultSink = writerSink{w: w}
}
