// Command kayton is the REPL and file-runner front end over the
// compile-and-run cycle internal/kayharness drives. Two subcommands:
// "repl" for interactive line-at-a-time input via peterh/liner, "run"
// for submitting a whole file as a sequence of blank-line-separated
// units. Coloured diagnostics go through internal/kaydiag; exit codes
// follow spec.md 6 exactly (0 normal, 1 on REPL-internal error).
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/peterh/liner"

	"github.com/keiv-fly/kayton-go/internal/kaydiag"
	"github.com/keiv-fly/kayton-go/internal/kayconfig"
	"github.com/keiv-fly/kayton-go/internal/kayharness"
	"github.com/keiv-fly/kayton-go/internal/kayvm"
	"github.com/keiv-fly/kayton-go/internal/kayvm/vtable"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: kayton <repl|run> [args]")
		return 1
	}

	subcmd, rest := args[0], args[1:]
	cfg, err := kayconfig.Load(rest)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	vm := kayvm.New()
	defer vm.Close()
	vt := vtable.Build()
	h, err := kayharness.New(vm, cfg.ScratchDir, vt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer h.Close()
	h.Stream = func(chunk string) { fmt.Print(chunk) }

	stderr := colorable.NewColorableStderr()

	switch subcmd {
	case "repl":
		return runRepl(h, stderr)
	case "run":
		if fs := rest; len(fs) == 0 {
			fmt.Fprintln(stderr, "usage: kayton run <file>")
			return 1
		}
		return runFile(h, positionalFileArg(rest), stderr)
	default:
		fmt.Fprintf(stderr, "unknown subcommand %q\n", subcmd)
		return 1
	}
}

// positionalFileArg returns the first argument that isn't a flag,
// letting "kayton run --scratch-dir=x file.kay" and
// "kayton run file.kay" both resolve to the same file.
func positionalFileArg(args []string) string {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return ""
}

// runRepl drives one line-at-a-time session: a bare line is submitted as
// its own unit immediately, a line beginning "fn" and ending ":" opens a
// continuation block collected until a blank line terminates it.
func runRepl(h *kayharness.Harness, stderr io.Writer) int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		text, err := line.Prompt(">>> ")
		if err != nil {
			// EOF (ctrl-D) or ctrl-C ends the session normally.
			return 0
		}
		line.AppendHistory(text)

		unit := text
		if isFuncHeader(text) {
			unit = collectBlock(line, text)
		}
		if strings.TrimSpace(unit) == "" {
			continue
		}
		submit(h, unit, "<repl>", stderr)
	}
}

// isFuncHeader reports whether text opens a multi-line fn definition,
// per spec.md 6's "continuation prompt appears when the current line is
// a fn header ending with colon".
func isFuncHeader(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasPrefix(trimmed, "fn ") && strings.HasSuffix(trimmed, ":")
}

// collectBlock reads continuation lines under a "... " prompt until an
// empty line, returning the joined block including its header.
func collectBlock(line *liner.State, header string) string {
	lines := []string{header}
	for {
		text, err := line.Prompt("... ")
		if err != nil || strings.TrimSpace(text) == "" {
			break
		}
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n")
}

// runFile splits source into blank-line-separated units and submits each
// in order, stopping at the first error (matching the REPL's "errors
// print to stderr" behaviour, but for a batch run a failing unit aborts
// the remaining file rather than silently skipping it).
func runFile(h *kayharness.Harness, path string, stderr io.Writer) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	for _, unit := range splitUnits(string(data)) {
		if strings.TrimSpace(unit) == "" {
			continue
		}
		if !submit(h, unit, path, stderr) {
			return 1
		}
	}
	return 0
}

// splitUnits breaks file text into blocks separated by one or more blank
// lines, the file-mode analogue of the REPL's one-unit-per-empty-line
// submission rule.
func splitUnits(source string) []string {
	var units []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			units = append(units, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	sc := bufio.NewScanner(strings.NewReader(source))
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return units
}

// submit runs one unit through the harness, printing its stdout or a
// coloured diagnostic, and reports whether execution should continue.
func submit(h *kayharness.Harness, unit, fileLabel string, stderr io.Writer) bool {
	if _, err := h.Run(unit); err != nil {
		fmt.Fprintln(stderr, kaydiag.FormatTypeError(unit, firstIdent(unit), fileLabel, err))
		return false
	}
	return true
}

// firstIdent is a best-effort guess at the identifier an error concerns:
// the unit's first identifier-like word, which FormatTypeError highlights.
// Any span the underlying kayerr.Error carries is not used.
func firstIdent(unit string) string {
	fields := strings.FieldsFunc(unit, func(r rune) bool {
		return !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	})
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
