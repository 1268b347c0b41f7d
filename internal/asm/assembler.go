// assembler.go is the driver: it orchestrates the two conceptual phases (main text
// walk, then literals, then variables, then fixups) over the packages in this directory. It
// generalizes the LC-3 assembler's Parser/Generator two-stage pipeline (internal/asm/assembler.go,
// gen.go) into a single pass with deferred resolution.
package asm

import (
	"fmt"
	"strings"

	"github.com/smoynes/macro10/internal/log"
)

// Host is the narrow interface the core depends on for everything outside its own scope:
// expression parsing, instruction encoding, and the host's own variable table.
type Host interface {
	// ParseExpression parses text as a signed integer expression, resolving any symbols it
	// recognizes from its own variable table. ok is false when the expression cannot yet be
	// resolved (e.g. a forward reference) or is malformed.
	ParseExpression(text string, pass1 bool) (value int64, ok bool)

	// ParseInstruction encodes a single machine instruction (op plus its comma-separated
	// operand texts) at loc to a 36-bit word. An error indicates the operand could not be
	// fully resolved (commonly a forward reference during pass1) or names an unknown opcode.
	ParseInstruction(op string, operands []string, loc Word, pass1 bool) (Word, error)

	// ToStrBase renders n in the given base (host-defined default when base < 0).
	ToStrBase(n int64, base int) string

	// Truncate matches the free function Truncate, delegated to the host so a single source
	// of truth for bit-width semantics is shared with its own expression evaluator.
	Truncate(n int64, bits uint, unsigned bool) int64

	// SetVariable mirrors a symbol table insertion into the host so its expressions may
	// reference it.
	SetVariable(name string, value Word)

	// ResetVariables snapshots the host's current variable table; RestoreVariables restores
	// it, so assembly is idempotent with respect to the host's public symbol environment
	// (§5, §8.10).
	ResetVariables()
	RestoreVariables()

	// Undefined returns the host's marker string for an as-yet-unresolved symbol.
	Undefined() string

	// Println writes one diagnostic line to the host's console sink.
	Println(s string)
}

// instrFixup records a deferred instruction re-encode: the operand text could not be resolved
// during the main pass (most often a forward-referenced label), so the assembler stores enough
// to call Host.ParseInstruction again, with pass1=false, once every symbol is known.
type instrFixup struct {
	Op       string
	Operands []string
}

// substContext is the active macro-parameter substitution frame, applied to each body line
// before it is tokenized (§4.2). A nil *substContext means no substitution is active (top-level
// program text).
type substContext struct {
	Params []string
	Values []string
}

// Assembler is the MACRO-10 work-alike assembler driver.
type Assembler struct {
	host Host
	opts string

	loadAddr Word
	loc      Word // Live location counter.

	image  map[Word]Word
	fixups map[Word]string     // Additive expression fixups (EXP/XWD/literal bodies).
	instrs map[Word]instrFixup // Deferred instruction re-encodes.

	minLoc, maxLoc Word
	haveWords      bool

	symbols  SymbolTable
	macros   MacroTable
	literals LiteralPool

	reservedQueue []string
	reservedSeen  map[string]bool

	scopes scopeStack

	nameSeq int // Sequence counter for auto-generated "?NNNNN" names.

	line           int
	recursionDepth int

	start    Word
	haveEnd  bool
	haveGoal bool

	log *log.Logger
}

// maxRecursionDepth bounds macro invocation recursion; unbounded recursion would exhaust the
// stack, so the bound is explicit rather than left open.
const maxRecursionDepth = 64

// New creates an assembler that will load its image starting at loadAddr, honoring an
// option-letter string (currently just 'p', preprocess-only echo) and delegating
// expression/instruction work to host.
func New(loadAddr Word, opts string, host Host) *Assembler {
	return &Assembler{
		host:         host,
		opts:         opts,
		loadAddr:     loadAddr,
		loc:          loadAddr,
		image:        make(map[Word]Word),
		fixups:       make(map[Word]string),
		instrs:       make(map[Word]instrFixup),
		symbols:      NewSymbolTable(),
		macros:       NewMacroTable(),
		reservedSeen: make(map[string]bool),
		minLoc:       loadAddr,
		maxLoc:       loadAddr,
		log:          log.DefaultLogger(),
	}
}

// AssembleText runs the full two-phase pipeline (§4.10) over already-joined, CRLF-normalized
// source text. The assemble command calls it after reading and joining its source files.
func (a *Assembler) AssembleText(text string) error {
	a.host.ResetVariables()
	defer a.host.RestoreVariables()

	if strings.Contains(a.opts, "p") {
		a.host.Println(text)
	}

	lines := splitLines(text)

	if err := a.phase1(lines); err != nil {
		return err
	}

	if !a.scopes.empty() {
		return &ScopeError{Reason: "scope stack not empty at end of input", Line: a.line}
	}

	return a.phase2()
}

// phase1 walks the joined source line-by-line, emitting words, fixups, literals and variables,
// per §2 item 10 and §4.10's introduction.
func (a *Assembler) phase1(lines []string) error {
	err := a.processLines(lines, 1, nil)
	if err == ErrEndOfProgram {
		return nil
	}

	return err
}

// phase2 materializes literals (with collapsing), then reserved variables, then resolves every
// fixup, per §4.10 steps 2-5.
func (a *Assembler) phase2() error {
	l0 := a.loc

	for _, lit := range a.literals {
		if addr, ok := findMatch(a.denseFromZero(a.loc), a.fixups, l0, a.loc, lit.Words, lit.Fixups); ok {
			if err := a.symbols.Define(lit.Name, addr, SymLabel, a.line); err != nil {
				return err
			}

			a.host.SetVariable(lit.Name, addr)

			continue
		}

		addr := a.loc

		if err := a.symbols.Define(lit.Name, addr, SymLabel, a.line); err != nil {
			return err
		}

		a.host.SetVariable(lit.Name, addr)

		for i, w := range lit.Words {
			a.storeWord(a.loc, w)

			if lit.Fixups[i] != "" {
				a.fixups[a.loc] = lit.Fixups[i]
			}

			a.loc++
		}
	}

	a.log.Debug("literal pool materialized", "start", l0.String(), "end", a.loc.String(), "count", len(a.literals))

	for _, name := range a.reservedQueue {
		m, ok := a.macros["?"+name]
		if !ok {
			continue
		}

		addr := a.loc

		if err := a.invokeReservedBody(m, addr); err != nil {
			return err
		}

		if err := a.symbols.Define(name, addr, SymLabel, a.line); err != nil {
			return err
		}

		a.host.SetVariable(name, addr)
	}

	for loc, text := range a.fixups {
		val, err := a.evalExprAt(text, loc, false)
		if err != nil {
			return err
		}

		a.checkTruncation(int64(a.image[loc]) + val)

		a.storeWord(loc, addWord(a.image[loc], val))
	}

	for loc, f := range a.instrs {
		w, err := a.host.ParseInstruction(f.Op, f.Operands, loc, false)
		if err != nil {
			return &SyntaxError{Line: a.line, Text: f.Op, Err: err}
		}

		a.storeWord(loc, w)
	}

	return nil
}

// Image returns the dense word array from the load address through the highest location
// written, per §6; index i holds the word at load address + i, and locations in between that were
// never written are zero. If LOC placed words below the load address, the array starts at the
// lowest location written instead.
func (a *Assembler) Image() []Word {
	return a.imageSlice()
}

func (a *Assembler) imageSlice() []Word {
	if !a.haveWords {
		return nil
	}

	start := a.loadAddr
	if a.minLoc < start {
		start = a.minLoc
	}

	out := make([]Word, a.maxLoc-start+1)
	for i := range out {
		out[i] = a.image[start+Word(i)]
	}

	return out
}

// denseFromZero returns a slice indexed by absolute address, index k holding the word stored at
// address k, for addresses [0, through). Used by literal-collapsing search (literal.go's
// findMatch), which indexes its image argument by raw address rather than an offset from the
// load address.
func (a *Assembler) denseFromZero(through Word) []Word {
	if through == 0 {
		return nil
	}

	out := make([]Word, through)
	for addr, w := range a.image {
		if addr < through {
			out[addr] = w
		}
	}

	return out
}

// Start returns the program's declared start address, if an END statement supplied one.
func (a *Assembler) Start() (Word, bool) {
	return a.start, a.haveGoal
}

// checkTruncation reports a TruncationWarning to the host's diagnostic sink when sum falls
// outside [-2^35, 2^36), the range a 36-bit word can represent as either two's-complement signed
// or unsigned (§7). Assembly continues regardless; the caller still truncates and stores the
// value.
func (a *Assembler) checkTruncation(sum int64) {
	if sum < -int64(IntLimit) || sum >= int64(WordLimit) {
		a.host.Println((&TruncationWarning{Value: sum, Line: a.line}).Error())
	}
}

func (a *Assembler) storeWord(loc Word, w Word) {
	a.image[loc] = w

	if !a.haveWords {
		a.minLoc, a.maxLoc = loc, loc
		a.haveWords = true
	} else {
		if loc < a.minLoc {
			a.minLoc = loc
		}

		if loc > a.maxLoc {
			a.maxLoc = loc
		}
	}
}

// currentLoc returns the location counter in scope: the enclosing scope's saved location when
// inside a scope, else the live location counter (§3, §4.8).
func (a *Assembler) currentLoc() Word {
	if f, ok := a.scopes.top(); ok {
		return f.savedLocation
	}

	return a.loc
}

// emit appends a word (with optional additive fixup text) at the current location, routing to
// the active scope's side buffer when one is pushed, else to the main image.
func (a *Assembler) emit(w Word, fixup string) {
	if f, ok := a.scopes.top(); ok {
		f.savedWords = append(f.savedWords, w)
		f.savedFixups = append(f.savedFixups, fixup)
		f.savedScopeLocation++

		return
	}

	a.storeWord(a.loc, w)

	if fixup != "" {
		a.fixups[a.loc] = fixup
	}

	a.loc++
}

// emitInstr is emit's instruction-specific counterpart: it records a deferred re-encode instead
// of an additive fixup, per the design decision in DESIGN.md.
func (a *Assembler) emitInstr(w Word, op string, operands []string, deferred bool) {
	if f, ok := a.scopes.top(); ok {
		f.savedWords = append(f.savedWords, w)
		f.savedFixups = append(f.savedFixups, "")
		f.savedScopeLocation++

		return
	}

	a.storeWord(a.loc, w)

	if deferred {
		a.instrs[a.loc] = instrFixup{Op: op, Operands: operands}
	}

	a.loc++
}

// pushScope saves the current output vector and location and starts a fresh local counter at 0,
// per §3/§5.
func (a *Assembler) pushScope(name string) {
	a.scopes.push(&scopeFrame{
		Name:               name,
		savedLocation:      a.loc,
		savedScopeLocation: 0,
		savedLine:          a.line,
	})
}

// popScope restores the previously-saved output vector and location, returning the frame that
// was active.
func (a *Assembler) popScope() (*scopeFrame, error) {
	f, ok := a.scopes.pop()
	if !ok {
		return nil, &ScopeError{Reason: "pop with empty scope stack", Line: a.line}
	}

	return f, nil
}

// nextAutoName returns the next "?NNNNN" auto-generated name; bracketed literals take their
// names from it (§3).
func (a *Assembler) nextAutoName() string {
	a.nameSeq++
	return fmt.Sprintf("?%05d", a.nameSeq)
}

// splitLines normalizes line separators to LF and splits on it, per §6.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	return strings.Split(text, "\n")
}
