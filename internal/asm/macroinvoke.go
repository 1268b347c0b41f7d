// macroinvoke.go implements §4.6's header parsing and body capture for DEFINE/OPDEF/REPEAT/
// IFE/IFG/IFL/IFN/IRP/IRPC, and §4.7's invocation semantics: parameter binding for named macros,
// and the immediate-invoke behavior of the anonymous pseudo-op forms.
package asm

import "strings"

// captureBody scans for the outer open/close delimiter pair starting in headerRemainder
// (which must still contain the opening delimiter itself) and, if the body is not complete on
// that text alone, consumes further lines from the (lines, i, lineNo) cursor until nesting
// returns to zero (§4.6).
func (a *Assembler) captureBody(headerRemainder string, open, close byte, lines []string, i, lineNo *int) (string, error) {
	cap := &macroCapture{macro: &Macro{}, open: open, close: close, openedAtLine: a.line}

	if cap.append(headerRemainder) {
		return cap.macro.Body, nil
	}

	for *i < len(lines) {
		next := lines[*i]
		*i++
		a.line = *lineNo
		*lineNo++

		if cap.append(next) {
			return cap.macro.Body, nil
		}
	}

	return "", &ScopeError{Reason: "unterminated macro body", Line: a.line, OpenedAt: cap.openedAtLine}
}

// splitAtFirstDelim splits operand at the first occurrence of delim, returning the header text
// before it and the remainder starting at (and including) delim, ready to feed to captureBody.
func splitAtFirstDelim(operand string, delim byte) (header, rem string, ok bool) {
	idx := strings.IndexByte(operand, delim)
	if idx < 0 {
		return "", "", false
	}

	return operand[:idx], operand[idx:], true
}

// splitTopLevel splits s on sep, not splitting inside a nested "<...>" default-value region.
func splitTopLevel(s string, sep byte) []string {
	var out []string

	depth := 0
	start := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case sep:
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}

	out = append(out, s[start:])

	return out
}

// splitDefault splits a single parameter token into its name and optional "<default>" suffix.
func splitDefault(tok string) (name, def string) {
	idx := strings.IndexByte(tok, '<')
	if idx >= 0 && strings.HasSuffix(tok, ">") {
		return strings.TrimSpace(tok[:idx]), tok[idx+1 : len(tok)-1]
	}

	return strings.TrimSpace(tok), ""
}

// parseDefineHeader parses "name(params)" from operand's start, returning the parameter/default
// lists and the text remaining after the closing ')' (which still contains the opening '<' of
// the body, for captureBody).
func parseDefineHeader(operand string) (name string, params, defaults []string, rem string, err error) {
	s := strings.TrimLeft(operand, " \t")

	m := opPattern.FindStringSubmatchIndex(s)
	if m == nil {
		return "", nil, nil, "", errMissingMacroName
	}

	name = normalizeSymbol(s[m[2]:m[3]])
	s = strings.TrimLeft(s[m[1]:], " \t")

	if s == "" || s[0] != '(' {
		return "", nil, nil, "", errMissingParamList
	}

	depth := 0
	end := -1

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--

			if depth == 0 {
				end = i
			}
		}

		if end >= 0 {
			break
		}
	}

	if end < 0 {
		return "", nil, nil, "", errUnbalancedParens
	}

	for _, tok := range splitTopLevel(s[1:end], ',') {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		p, d := splitDefault(tok)
		params = append(params, p)
		defaults = append(defaults, d)
	}

	return name, params, defaults, s[end+1:], nil
}

// parseOpdefHeader parses "name [body]" from operand's start, returning the remainder starting
// at the opening '['.
func parseOpdefHeader(operand string) (name, rem string, err error) {
	s := strings.TrimLeft(operand, " \t")

	m := opPattern.FindStringSubmatchIndex(s)
	if m == nil {
		return "", "", errMissingMacroName
	}

	name = normalizeSymbol(s[m[2]:m[3]])
	rem = s[m[1]:]

	if !strings.Contains(rem, "[") {
		return "", "", errMissingBody
	}

	return name, rem, nil
}

// handleDefine implements DEFINE name(params)<body> (§4.5, §4.6): it registers the macro without
// invoking it.
func (a *Assembler) handleDefine(operand string, lines []string, i, lineNo *int) error {
	name, params, defaults, rem, err := parseDefineHeader(operand)
	if err != nil {
		return &MacroDefError{Line: a.line, Err: err}
	}

	body, err := a.captureBody(rem, '<', '>', lines, i, lineNo)
	if err != nil {
		return err
	}

	a.macros[name] = &Macro{Name: name, Kind: KindDefine, Params: params, Defaults: defaults, Body: body, Line: a.line}

	return nil
}

// handleOpdef implements OPDEF name [body] (§4.5, §4.6): it registers the custom instruction
// without invoking it. body is the combine-formula template, evaluated at each call site by
// invokeNamedMacro.
func (a *Assembler) handleOpdef(operand string, lines []string, i, lineNo *int) error {
	name, rem, err := parseOpdefHeader(operand)
	if err != nil {
		return &MacroDefError{Line: a.line, Err: err}
	}

	body, err := a.captureBody(rem, '[', ']', lines, i, lineNo)
	if err != nil {
		return err
	}

	a.macros[name] = &Macro{Name: name, Kind: KindOpdef, Body: body, Line: a.line}

	return nil
}

// handleRepeat implements REPEAT n <body> (§4.5, §4.6-4.7): n is evaluated immediately and the
// body is invoked n times against the enclosing substitution context unchanged.
func (a *Assembler) handleRepeat(operand string, lines []string, i, lineNo *int, subst *substContext) error {
	header, rem, ok := splitAtFirstDelim(operand, '<')
	if !ok {
		return &MacroDefError{Name: nameRepeat, Line: a.line, Err: errMissingBody}
	}

	n, err := a.evalExprAt(header, a.currentLoc(), true)
	if err != nil {
		return err
	}

	body, err := a.captureBody(rem, '<', '>', lines, i, lineNo)
	if err != nil {
		return err
	}

	if err := a.enterRecursion(); err != nil {
		return err
	}
	defer a.exitRecursion()

	bodyLines := strings.Split(body, "\n")

	for k := int64(0); k < n; k++ {
		if err := a.processLines(bodyLines, a.line, subst); err != nil {
			return err
		}
	}

	return nil
}

// handleIf implements IFE/IFG/IFL/IFN expr <body> (§4.5, §4.6-4.7): expr is evaluated
// immediately and, if its sign matches the pseudo-op, the body is invoked once against the
// enclosing substitution context unchanged.
func (a *Assembler) handleIf(op, operand string, lines []string, i, lineNo *int, subst *substContext) error {
	header, rem, ok := splitAtFirstDelim(operand, '<')
	if !ok {
		return &MacroDefError{Name: op, Line: a.line, Err: errMissingBody}
	}

	val, err := a.evalExprAt(header, a.currentLoc(), true)
	if err != nil {
		return err
	}

	body, err := a.captureBody(rem, '<', '>', lines, i, lineNo)
	if err != nil {
		return err
	}

	var take bool

	switch op {
	case "IFE":
		take = val == 0
	case "IFG":
		take = val > 0
	case "IFL":
		take = val < 0
	case "IFN":
		take = val != 0
	}

	if !take {
		return nil
	}

	if err := a.enterRecursion(); err != nil {
		return err
	}
	defer a.exitRecursion()

	return a.processLines(strings.Split(body, "\n"), a.line, subst)
}

// handleIrp implements IRP param,<body> (§4.5, §4.6-4.7): param's bound value in the enclosing
// substitution context is split on commas, and body is invoked once per value with a fresh
// substitution context that replaces (not merges with) the enclosing one.
func (a *Assembler) handleIrp(operand string, lines []string, i, lineNo *int, subst *substContext) error {
	header, rem, ok := splitAtFirstDelim(operand, ',')
	if !ok {
		return &MacroDefError{Name: nameIrp, Line: a.line, Err: errMissingBody}
	}

	param := normalizeSymbol(strings.TrimSpace(header))

	body, err := a.captureBody(rem, '<', '>', lines, i, lineNo)
	if err != nil {
		return err
	}

	bound, err := boundValue(subst, param)
	if err != nil {
		return &MacroDefError{Name: nameIrp, Line: a.line, Err: err}
	}

	if err := a.enterRecursion(); err != nil {
		return err
	}
	defer a.exitRecursion()

	bodyLines := strings.Split(body, "\n")

	for _, v := range strings.Split(bound, ",") {
		fresh := &substContext{Params: []string{param}, Values: []string{strings.TrimSpace(v)}}

		if err := a.processLines(bodyLines, a.line, fresh); err != nil {
			return err
		}
	}

	return nil
}

// handleIrpc implements IRPC param,<body> (§4.5, §4.6-4.7): like handleIrp, but iterates one
// character of the bound value at a time rather than one comma-separated element.
func (a *Assembler) handleIrpc(operand string, lines []string, i, lineNo *int, subst *substContext) error {
	header, rem, ok := splitAtFirstDelim(operand, ',')
	if !ok {
		return &MacroDefError{Name: nameIrpc, Line: a.line, Err: errMissingBody}
	}

	param := normalizeSymbol(strings.TrimSpace(header))

	body, err := a.captureBody(rem, '<', '>', lines, i, lineNo)
	if err != nil {
		return err
	}

	bound, err := boundValue(subst, param)
	if err != nil {
		return &MacroDefError{Name: nameIrpc, Line: a.line, Err: err}
	}

	if err := a.enterRecursion(); err != nil {
		return err
	}
	defer a.exitRecursion()

	bodyLines := strings.Split(body, "\n")

	for _, r := range bound {
		fresh := &substContext{Params: []string{param}, Values: []string{string(r)}}

		if err := a.processLines(bodyLines, a.line, fresh); err != nil {
			return err
		}
	}

	return nil
}

// boundValue looks up param's caller-supplied value in the enclosing substitution context.
func boundValue(subst *substContext, param string) (string, error) {
	if subst == nil {
		return "", errUnboundParam
	}

	for i, p := range subst.Params {
		if normalizeSymbol(p) == param {
			if i < len(subst.Values) {
				return subst.Values[i], nil
			}

			return "", nil
		}
	}

	return "", errUnboundParam
}

// invokeNamedMacro invokes a DEFINE or OPDEF macro at a call site. operand is the raw,
// unsubstituted call-site text: for DEFINE, a parenthesized or bare comma-separated argument
// list; for OPDEF, the operand list of the synthesized instruction.
func (a *Assembler) invokeNamedMacro(m *Macro, operand string) error {
	if err := a.enterRecursion(); err != nil {
		return err
	}
	defer a.exitRecursion()

	if m.Kind == KindOpdef {
		return a.invokeOpdef(m, operand)
	}

	args := splitCallArgs(operand)

	values := make([]string, len(m.Params))

	for idx := range m.Params {
		switch {
		case idx < len(args) && strings.TrimSpace(args[idx]) != "":
			values[idx] = strings.TrimSpace(args[idx])
		case idx < len(m.Defaults):
			values[idx] = m.Defaults[idx]
		}
	}

	subst := &substContext{Params: m.Params, Values: values}

	return a.processLines(strings.Split(m.Body, "\n"), a.line, subst)
}

// PDP-10 instruction word layout, bit 0 most significant: opcode(0-8), AC(9-12), I(13),
// X(14-17), Y(18-35). fieldAXY covers AC+index+address; fieldI is the indirect bit alone.
const (
	fieldI      Word = 1 << 22
	fieldOpcode Word = 0o777 << 27
	fieldAll36  Word = WordLimit - 1
	fieldAXY    Word = fieldAll36 &^ fieldI &^ fieldOpcode
)

// invokeOpdef implements an OPDEF-synthesized instruction at a call site (§4.7): the defining
// body "[BASEOP operand]" is first invoked with an empty side scope to obtain a base word W0.
// Then a fresh scope parses the call site's own operand text (with the same base mnemonic) to
// obtain W1. Result = W0 + (W1 & (A|X|Y)) | (W1 & I). Fixups from the W1 parse become the
// location's deferred instruction re-encode.
func (a *Assembler) invokeOpdef(m *Macro, operand string) error {
	base, baseOperands, err := splitOpdefBody(m.Body)
	if err != nil {
		return &MacroDefError{Name: m.Name, Line: a.line, Err: err}
	}

	a.pushScope(m.Name + ":base")

	w0raw, err := a.host.ParseInstruction(base, baseOperands, a.currentLoc(), true)
	if err != nil {
		a.scopes.pop()
		return &MacroDefError{Name: m.Name, Line: a.line, Err: err}
	}

	a.emit(w0raw, "")

	w0Frame, err := a.popScope()
	if err != nil {
		return err
	}

	w0 := w0Frame.savedWords[0]

	rewritten, err := a.scanOperand(operand)
	if err != nil {
		return err
	}

	operands := splitExprList(rewritten)

	a.pushScope(m.Name + ":call")

	loc := a.currentLoc()

	w1raw, ierr := a.host.ParseInstruction(base, operands, loc, true)
	a.emit(w1raw, "")

	w1Frame, err := a.popScope()
	if err != nil {
		return err
	}

	w1 := w1Frame.savedWords[0]
	combined := w0 + (w1 & fieldAXY) | (w1 & fieldI)

	a.emitInstr(combined, base, operands, ierr != nil)

	return nil
}

// splitOpdefBody splits an OPDEF body "BASEOP operand" into its base mnemonic and operand list.
func splitOpdefBody(body string) (op string, operands []string, err error) {
	body = strings.TrimSpace(body)

	m := opPattern.FindStringSubmatchIndex(body)
	if m == nil {
		return "", nil, errMissingMacroName
	}

	op = strings.ToUpper(body[m[2]:m[3]])
	rest := strings.TrimSpace(body[m[1]:])

	return op, splitExprList(rest), nil
}

// splitCallArgs splits a macro call's argument text, which may or may not be parenthesized, on
// top-level commas.
func splitCallArgs(operand string) []string {
	s := strings.TrimSpace(operand)

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}

	return splitTopLevel(s, ',')
}

// enterRecursion and exitRecursion guard against unbounded macro/pseudo-op recursion (§9).
func (a *Assembler) enterRecursion() error {
	a.recursionDepth++
	if a.recursionDepth > maxRecursionDepth {
		return &MacroDefError{Line: a.line, Err: errRecursionTooDeep}
	}

	return nil
}

func (a *Assembler) exitRecursion() {
	a.recursionDepth--
}
