// Package htmlsrc extracts assembler source text from an HTML-wrapped listing: the text between
// the first <pre>...</pre> pair, with the three basic entities decoded. It favors small,
// purpose-built text scanning over pulling in a full HTML parser for what is, at most, one
// wrapper tag (see DESIGN.md): golang.org/x/net/html would parse the whole document tree to
// answer a question a byte scan answers directly.
package htmlsrc

import (
	"fmt"
	"strings"
)

// EntityWarning reports an HTML entity other than the three this package understands. It is a
// warning, not a fatal error: decoding continues, leaving the entity text untouched.
type EntityWarning struct {
	Entity string
	Line   int
}

func (w *EntityWarning) Error() string {
	return fmt.Sprintf("warning at line %d: unknown HTML entity %q", w.Line, w.Entity)
}

// entities is the fixed, small decode table of entities known to the extractor; anything else is
// left as-is and reported via EntityWarning.
var entities = map[string]string{
	"&lt;":  "<",
	"&gt;":  ">",
	"&amp;": "&",
}

// Extract returns the text between the first "<pre>" and its matching "</pre>" (case
// insensitive), with &lt;/&gt;/&amp; decoded, plus one EntityWarning per occurrence of an
// unrecognized entity, in order of appearance (a repeated entity is reported each time). If no <pre> wrapper is present, text is
// returned unchanged and undecoded: plain MACRO-10 source has no reason to contain HTML
// entities.
func Extract(text string) (string, []*EntityWarning) {
	lower := strings.ToLower(text)

	open := strings.Index(lower, "<pre>")
	if open < 0 {
		return text, nil
	}

	start := open + len("<pre>")

	end := strings.Index(lower[start:], "</pre>")
	if end < 0 {
		return decodeEntities(text[start:])
	}

	return decodeEntities(text[start : start+end])
}

// decodeEntities replaces the three known entities and reports every other "&name;"-shaped run
// as an EntityWarning, tagged with the 1-based line number it occurs on.
func decodeEntities(text string) (string, []*EntityWarning) {
	var (
		out  strings.Builder
		warn []*EntityWarning
		line = 1
	)

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if ch == '\n' {
			line++
		}

		if ch != '&' {
			out.WriteByte(ch)
			continue
		}

		end := strings.IndexByte(text[i:], ';')
		if end < 0 || end > 32 {
			out.WriteByte(ch)
			continue
		}

		entity := text[i : i+end+1]

		if decoded, ok := entities[entity]; ok {
			out.WriteString(decoded)
			i += end

			continue
		}

		warn = append(warn, &EntityWarning{Entity: entity, Line: line})
		out.WriteString(entity)
		i += end
	}

	return out.String(), warn
}
