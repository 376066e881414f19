package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/juncdeinda/forgetti/internal/ast"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// CompilerError represents a structured error with suggestions and context
type CompilerError struct {
	Level       ErrorLevel
	Code        string       // Error code like F0001
	Message     string       // Primary error message
	Position    ast.Position // Location in source
	Length      int          // Length of the problematic region
	Suggestions []Suggestion // Suggested fixes
	Notes       []string     // Additional context notes
	HelpText    string       // Help text for the error
}

// Suggestion represents a suggested fix
type Suggestion struct {
	Message     string       // Description of the suggestion
	Replacement string       // Suggested replacement text (optional)
	Position    ast.Position // Position to apply the fix (optional)
	Length      int          // Length of text to replace (optional)
}

// ErrorReporter handles consistent error formatting and suggestions
type ErrorReporter struct {
	filename string
	source   string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		source:   source,
		lines:    strings.Split(source, "\n"),
	}
}

// FormatError renders one diagnostic as a caret-annotated source excerpt,
// tagged with the optimizer-domain category its code falls in (see
// GetErrorCategory) so a reader can tell a malformed-hook-call error
// apart from a preset-configuration one at a glance, followed by its
// suggestions/notes/help rendered by shape: a DependencyArrayMismatch's
// "missing from the array" / "present but unused" notes read as a plain
// list, while a suggestion carrying replacement text gets its own
// indented block instead of being folded into the note list.
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var result strings.Builder

	lineNumberWidth := er.lineNumberWidth(err.Position.Line)
	indent := strings.Repeat(" ", lineNumberWidth)
	dim := color.New(color.Faint).SprintFunc()

	er.writeHeader(&result, err)
	result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n", indent, dim("-->"), er.filename, err.Position.Line, err.Position.Column))
	result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	er.writeSourceWindow(&result, err, lineNumberWidth, indent)
	er.writeSuggestions(&result, err, indent)
	er.writeNotes(&result, err, indent)
	er.writeHelp(&result, err, indent)

	result.WriteString("\n")
	return result.String()
}

// writeHeader emits "error[F0003 optimizer input]: <message>", the category
// word coming from GetErrorCategory so the same code range a reader
// learns from codes.go is legible directly in the rendered diagnostic.
func (er *ErrorReporter) writeHeader(out *strings.Builder, err CompilerError) {
	levelColor := er.getLevelColor(err.Level)
	if err.Code == "" {
		fmt.Fprintf(out, "%s: %s\n", levelColor(string(err.Level)), err.Message)
		return
	}
	category := strings.ToLower(GetErrorCategory(err.Code))
	fmt.Fprintf(out, "%s[%s %s]: %s\n", levelColor(string(err.Level)), err.Code, category, err.Message)
}

// writeSourceWindow prints the offending line with one line of context on
// either side and an underline sized to err.Length.
func (er *ErrorReporter) writeSourceWindow(out *strings.Builder, err CompilerError, width int, indent string) {
	dim := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	line := err.Position.Line

	if line > 1 && line-1 < len(er.lines) {
		fmt.Fprintf(out, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, line-1)), dim("│"), er.lines[line-2])
	}

	if line > 0 && line <= len(er.lines) {
		fmt.Fprintf(out, "%s %s %s\n", bold(fmt.Sprintf("%*d", width, line)), dim("│"), er.lines[line-1])
		fmt.Fprintf(out, "%s %s %s\n", indent, dim("│"), er.underline(err.Position.Column, err.Length, err.Level))
	}

	if line < len(er.lines) {
		fmt.Fprintf(out, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, line+1)), dim("│"), er.lines[line])
	}
}

// writeSuggestions renders err.Suggestions. A suggestion with no
// Replacement reads as a one-line "try" hint, matching the spec's fatal
// diagnostics (UnsupportedLVal, MalformedHookCall) which only ever point
// at a different way to write the source; a suggestion that does carry
// Replacement text (reserved for a future fix-it mode) gets its own
// quoted block instead of being squeezed onto the hint line.
func (er *ErrorReporter) writeSuggestions(out *strings.Builder, err CompilerError, indent string) {
	if len(err.Suggestions) == 0 {
		return
	}
	dim := color.New(color.Faint).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(out, "%s %s\n", indent, dim("│"))
	for i, s := range err.Suggestions {
		if i == 0 {
			fmt.Fprintf(out, "%s %s: %s\n", indent, cyan("help: try"), s.Message)
		} else {
			fmt.Fprintf(out, "%s %s %s\n", indent, cyan("   +"), s.Message)
		}
		if s.Replacement == "" {
			continue
		}
		fmt.Fprintf(out, "%s %s\n", indent, dim("│"))
		replacement := strings.ReplaceAll(s.Replacement, "\n", fmt.Sprintf("\n%s %s ", indent, dim("│")))
		fmt.Fprintf(out, "%s %s %s\n", indent, cyan("│"), cyan(replacement))
	}
}

// writeNotes renders err.Notes as a flat list; DependencyArrayMismatch is
// the only diagnostic that emits more than one (its "missing from the
// array" / "present but unused" pair), so no extra structure beyond
// per-line rendering is needed here.
func (er *ErrorReporter) writeNotes(out *strings.Builder, err CompilerError, indent string) {
	if len(err.Notes) == 0 {
		return
	}
	dim := color.New(color.Faint).SprintFunc()
	blue := color.New(color.FgBlue).SprintFunc()
	for _, note := range err.Notes {
		fmt.Fprintf(out, "%s %s %s %s\n", indent, dim("│"), blue("note:"), note)
	}
}

func (er *ErrorReporter) writeHelp(out *strings.Builder, err CompilerError, indent string) {
	if err.HelpText == "" {
		return
	}
	dim := color.New(color.Faint).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(out, "%s %s %s %s\n", indent, dim("│"), green("help:"), err.HelpText)
}

// FormatDiagnostics renders a batch of diagnostics produced from the same
// source (e.g. every ambiguous entry found while loading one preset
// file, or the warnings accumulated by one Optimize call) as a single
// report: every diagnostic formatted with FormatError, followed by a
// summary line broken down by GetErrorCategory rather than a flat
// error/warning count — "2 error(s) [optimizer input: 1, preset
// configuration: 1], 1 warning(s) [warning: 1]" tells a reader which part of the pass produced the
// trouble without them having to read every code back against codes.go.
func (er *ErrorReporter) FormatDiagnostics(errs []CompilerError) string {
	var result strings.Builder
	var numErrors, numWarnings int
	errorCategories := map[string]int{}
	warningCategories := map[string]int{}

	for _, e := range errs {
		result.WriteString(er.FormatError(e))
		category := GetErrorCategory(e.Code)
		if e.Level == Error {
			numErrors++
			errorCategories[category]++
		} else if e.Level == Warning {
			numWarnings++
			warningCategories[category]++
		}
	}

	bold := color.New(color.Bold).SprintFunc()
	switch {
	case numErrors > 0 && numWarnings > 0:
		result.WriteString(bold(fmt.Sprintf("%d error(s) %s, %d warning(s) %s\n",
			numErrors, categoryBreakdown(errorCategories), numWarnings, categoryBreakdown(warningCategories))))
	case numErrors > 0:
		result.WriteString(bold(fmt.Sprintf("%d error(s) %s\n", numErrors, categoryBreakdown(errorCategories))))
	case numWarnings > 0:
		result.WriteString(bold(fmt.Sprintf("%d warning(s) %s\n", numWarnings, categoryBreakdown(warningCategories))))
	}

	return result.String()
}

// categoryBreakdown renders a category->count map as "[a: 1, b: 2]" with
// deterministic ordering, or "" when empty.
func categoryBreakdown(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %d", strings.ToLower(name), counts[name]))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// getLevelColor returns the appropriate color function for an error level
func (er *ErrorReporter) getLevelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// underline draws the marker beneath the offending span: a single caret
// for a point position (the common case — most optimizer diagnostics
// name one node), or a caret followed by tildes spanning the rest of the
// region for a multi-column Length (e.g. a dependency-array note whose
// Length covers the whole array literal), matching how a reader expects
// a point error to read differently from a ranged one.
func (er *ErrorReporter) underline(column, length int, level ErrorLevel) string {
	if length <= 0 {
		length = 1
	}

	spaces := strings.Repeat(" ", maxInt(0, column-1))

	markerColor := color.New(color.FgRed, color.Bold).SprintFunc()
	if level == Warning {
		markerColor = color.New(color.FgYellow, color.Bold).SprintFunc()
	}

	var marker string
	if length == 1 {
		marker = "^"
	} else {
		marker = "^" + strings.Repeat("~", length-1)
	}
	return spaces + markerColor(marker)
}

// lineNumberWidth calculates the width needed for line numbers
func (er *ErrorReporter) lineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3 // minimum width for visual alignment
	}
	return width
}

// maxInt returns the larger of two integers.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
