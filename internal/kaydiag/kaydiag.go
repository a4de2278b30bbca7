// Package kaydiag renders compiler errors as source-highlighted,
// ANSI-coloured text for the REPL and run-file CLI surfaces. Grounded on
// keyton_rust_compiler's diagnostics.rs: find the offending name in the
// source line, colour it, and draw a caret underneath it, then a bold
// error-kind header. fatih/color replaces the raw "\x1b[31m...\x1b[0m"
// escapes with the corpus's general colourised-CLI-output idiom.
package kaydiag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/keiv-fly/kayton-go/internal/kayerr"
)

var (
	headerColor = color.New(color.FgRed, color.Bold)
	kindColor   = color.New(color.FgRed, color.Bold)
	nameColor   = color.New(color.FgRed)
	caretColor  = color.New(color.FgRed, color.Bold)
)

// FormatTypeError renders err against source, highlighting the first
// occurrence of name within it, in the style of
// diagnostics.rs::format_type_error. fileLabel appears in the "File ..."
// line the way a traceback-style header would name its source unit.
func FormatTypeError(source, name, fileLabel string, err error) string {
	const indent = "    "
	line, pos := highlightName(source, name, indent)

	var b strings.Builder
	b.WriteString(headerColor.Sprint("Compilation failed:"))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "  File %q, line 1, in <module>\n", fileLabel)
	b.WriteString(line)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", len(indent)+pos))
	b.WriteString(caretColor.Sprint("^"))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%s: %v", kindColor.Sprint(kindLabel(err)), err)
	return b.String()
}

// highlightName returns source with the first occurrence of name wrapped
// in red, prefixed by indent, along with the byte offset name was found
// at (0 if not found, matching the original's unwrap_or(0) fallback).
func highlightName(source, name, indent string) (string, int) {
	pos := strings.Index(source, name)
	if pos < 0 {
		return indent + source, 0
	}
	before := source[:pos]
	after := source[pos+len(name):]
	return indent + before + nameColor.Sprint(name) + after, pos
}

// kindLabel maps a kayerr.Kind to the short diagnostic label the
// traceback-style header prints, defaulting to "Error" for anything
// outside the compile-time kinds a source-span diagnostic applies to.
func kindLabel(err error) string {
	kerr, ok := err.(*kayerr.Error)
	if !ok {
		return "Error"
	}
	switch kerr.Kind {
	case kayerr.ResolveError:
		return "NameError"
	case kayerr.TypeError:
		return "TypeError"
	case kayerr.ParseError:
		return "SyntaxError"
	default:
		return "Error"
	}
}

// Summarize renders the terse one-line form later errors in the same
// cell get, per spec.md 7's "subsequent type errors are summarised".
func Summarize(err error) string {
	return kindColor.Sprint(kindLabel(err)) + ": " + err.Error()
}
