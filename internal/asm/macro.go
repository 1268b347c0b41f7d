// macro.go defines the macro table of §3/§4.6-4.7, grounded in the pack's z80asm.MacroProcessor
// (parameter binding, recursion-depth guard) and keurnel-assembler's macro preprocessor
// (delimiter-bounded body capture), generalized to MACRO-10's richer macro taxonomy: named
// DEFINE/OPDEF macros, the auto-named LITERAL and RESERVED forms, and the anonymous pseudo-ops
// REPEAT/IFE/IFG/IFL/IFN/IRP/IRPC.

package asm

// MacroKind classifies a macro record. Per §3, DEFINE macros carry a positive kind (the value
// itself is not meaningful beyond its sign); OPDEF, LITERAL and RESERVED carry fixed negative
// kinds. The anonymous pseudo-ops (REPEAT, IFx, IRP, IRPC) expand as soon as their body is
// captured and create no Macro record, so no kind is used for them.
//
//go:generate go run golang.org/x/tools/cmd/stringer -type MacroKind -output macrokind_string.go
type MacroKind int

const (
	KindDefine   MacroKind = 1  // Any positive value marks a user DEFINE macro.
	KindOpdef    MacroKind = -2 // OPDEF-defined instruction.
	KindLiteral  MacroKind = -3 // Auto-named bracketed literal body.
	KindReserved MacroKind = -4 // Auto-named NAME# reserved variable.
)

// Names of the anonymous pseudo-op macro kinds. All synthetic macro names begin with '?' so
// they can never collide with a user symbol (§3).
const (
	nameRepeat = "?REPEAT"
	nameIfe    = "?IFE"
	nameIfg    = "?IFG"
	nameIfl    = "?IFL"
	nameIfn    = "?IFN"
	nameIrp    = "?IRP"
	nameIrpc   = "?IRPC"
)

// Macro is a macro definition record.
type Macro struct {
	Name     string
	Kind     MacroKind
	Params   []string
	Defaults []string
	Values   []string
	Body     string
	Line     int
}

// MacroTable maps macro name to its definition.
type MacroTable map[string]*Macro

// NewMacroTable creates an empty macro table.
func NewMacroTable() MacroTable {
	return make(MacroTable)
}

// delims returns the open/close delimiter pair used to bound a macro body, by kind, per §4.6:
// '<'/'>' for DEFINE/REPEAT/IFx/IRP/IRPC, '['/']' for OPDEF/LITERAL.
func (k MacroKind) delims() (open, close byte) {
	switch k {
	case KindOpdef, KindLiteral:
		return '[', ']'
	default:
		return '<', '>'
	}
}

// macroDefPhase is the capture state of §4.6: idle, waiting for the opening delimiter, or
// accumulating body text.
type macroDefPhase int

const (
	phaseIdle macroDefPhase = iota
	phaseAwaitingOpen
	phaseInsideBody
)

// macroCapture tracks the in-progress capture of a macro body across lines.
type macroCapture struct {
	phase macroDefPhase
	macro *Macro
	open  byte
	close byte
	depth int

	// anonymous is true for REPEAT/IFx/IRP/IRPC/LITERAL bodies, which invoke immediately
	// on capture completion rather than waiting for a separate use site (§4.6).
	anonymous bool
	// openedAtLine records the line that opened the capture, for scope-error messages.
	openedAtLine int
}

// append appends one physical line of source to the in-progress body, tracking delimiter
// nesting. Characters before the outermost opening delimiter (header leftovers, stray
// whitespace) and the outermost closing delimiter itself are discarded; everything strictly
// between them -- including any nested same-kind delimiters -- becomes body text. done is true
// once nesting returns to zero (the body is complete).
func (c *macroCapture) append(text string) (done bool) {
	var out []byte

	for i := 0; i < len(text); i++ {
		ch := text[i]

		switch ch {
		case c.open:
			c.depth++

			if c.depth == 1 {
				continue // Discard the outermost opening delimiter itself.
			}
		case c.close:
			c.depth--

			if c.depth == 0 {
				c.appendBody(string(out))
				return true
			}
		}

		if c.depth > 0 {
			out = append(out, ch)
		}
	}

	c.appendBody(string(out))

	return false
}

// appendBody appends one line's worth of captured text to the macro body, separating lines with
// a newline.
func (c *macroCapture) appendBody(text string) {
	if c.macro.Body != "" {
		c.macro.Body += "\n" + text
	} else {
		c.macro.Body = text
	}
}
