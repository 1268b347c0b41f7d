package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/smoynes/macro10/internal/asm"
	"github.com/smoynes/macro10/internal/cli"
	"github.com/smoynes/macro10/internal/console"
	"github.com/smoynes/macro10/internal/encoding"
	"github.com/smoynes/macro10/internal/htmlsrc"
	"github.com/smoynes/macro10/internal/log"
	"github.com/smoynes/macro10/internal/pdp10"
)

// assemble is the "assemble" sub-command: it loads one or more local source files, strips any
// HTML wrapper, and runs them through the assembler, writing the resulting image as a
// hex-encoded object file.
type assemble struct {
	fs *flag.FlagSet

	load  string
	opt   string
	out   string
	debug bool
}

var _ cli.Command = (*assemble)(nil)

// Assemble constructs the "assemble" sub-command.
func Assemble() *assemble {
	a := &assemble{
		fs: flag.NewFlagSet("assemble", flag.ExitOnError),
	}

	a.fs.StringVar(&a.load, "load", "01000", "load address, in octal")
	a.fs.StringVar(&a.opt, "opt", "", "assembler option letters (e.g. \"p\" for preprocess-only)")
	a.fs.StringVar(&a.out, "o", "", "output object file (defaults to stdout)")
	a.fs.BoolVar(&a.debug, "debug", false, "enable debug logging")

	return a
}

func (assemble) Description() string {
	return "assemble MACRO-10 diagnostic source into a PDP-10 object image"
}

func (a *assemble) FlagSet() *cli.FlagSet { return a.fs }

func (a *assemble) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, "assemble [option]... <file>...")
	return err
}

func (a *assemble) Run(ctx context.Context, args []string, out io.Writer, logger *log.Logger) int {
	if a.debug {
		log.LogLevel.Set(log.Debug)
	}

	if len(args) == 0 {
		logger.Error("assemble: no source files given")
		return 1
	}

	cons, err := console.New(os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, console.ErrNoTTY) {
		logger.Error("assemble: console", "err", err)
		return 1
	}

	defer cons.Restore()

	pdp10.SetOutput(cons)

	loadAddr, err := strconv.ParseInt(a.load, 8, 64)
	if err != nil {
		logger.Error("assemble: bad load address", "err", err)
		return 1
	}

	text, err := a.loadSources(args, logger)
	if err != nil {
		logger.Error("assemble: loading source", "err", err)
		return 1
	}

	host := pdp10.New()
	program := asm.New(asm.Word(loadAddr), a.opt, host)

	if err := program.AssembleText(text); err != nil {
		logger.Error("assemble: failed", "err", err)
		return 1
	}

	if strings.Contains(a.opt, "p") {
		return 0
	}

	words := program.Image()
	if len(words) == 0 {
		return 0
	}

	code := encoding.HexEncoding{
		Code: []encoding.ObjectCode{{Orig: asm.Word(loadAddr), Code: words}},
	}

	text2, err := code.MarshalText()
	if err != nil {
		logger.Error("assemble: encoding object", "err", err)
		return 1
	}

	dest := out

	if a.out != "" {
		f, err := os.Create(a.out)
		if err != nil {
			logger.Error("assemble: opening output", "err", err)
			return 1
		}
		defer f.Close()

		dest = f
	}

	if _, err := dest.Write(text2); err != nil {
		logger.Error("assemble: writing output", "err", err)
		return 1
	}

	if start, ok := program.Start(); ok {
		logger.Info("assemble: complete", "start", start.String())
	}

	return 0
}

// loadSources reads every named file, strips any HTML <pre> wrapper, decodes entities, and
// joins the results with a newline between files so they assemble as one source.
func (a *assemble) loadSources(paths []string, logger *log.Logger) (string, error) {
	var parts []string

	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return "", fmt.Errorf("%s: %w", p, err)
		}

		text, warnings := htmlsrc.Extract(string(raw))
		for _, w := range warnings {
			logger.Warn(w.Error(), "file", p)
		}

		parts = append(parts, text)
	}

	return strings.Join(parts, "\n"), nil
}
