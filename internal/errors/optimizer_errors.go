package errors

import (
	"fmt"
	"strings"

	"github.com/juncdeinda/forgetti/internal/ast"
)

// ErrorBuilder provides a fluent interface for constructing optimizer
// errors with suggestions, following the same shape the reporter expects.
type ErrorBuilder struct {
	err CompilerError
}

// NewError starts a new error-level builder.
func NewError(code, message string, pos ast.Position) *ErrorBuilder {
	return &ErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning starts a new warning-level builder.
func NewWarning(code, message string, pos ast.Position) *ErrorBuilder {
	return &ErrorBuilder{
		err: CompilerError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

func (b *ErrorBuilder) WithLength(length int) *ErrorBuilder {
	b.err.Length = length
	return b
}

func (b *ErrorBuilder) WithSuggestion(message string) *ErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

func (b *ErrorBuilder) WithNote(note string) *ErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

func (b *ErrorBuilder) WithHelp(help string) *ErrorBuilder {
	b.err.HelpText = help
	return b
}

func (b *ErrorBuilder) Build() CompilerError {
	return b.err
}

// UnsupportedLVal reports an assignment target the optimizer cannot
// dirty: an unsupported LVal shape on the left of a write.
func UnsupportedLVal(shape string, pos ast.Position) CompilerError {
	return NewError(ErrorUnsupportedLVal,
		fmt.Sprintf("cannot determine how to invalidate a cache slot for an assignment to %s", shape), pos).
		WithSuggestion("assign to a plain identifier or a member expression instead").
		WithNote("the optimizer dirties a slot by recognizing the exact binding or property being written").
		Build()
}

// NonExpressionHookArgument reports a hook call whose argument the
// optimizer cannot analyze as a plain expression.
func NonExpressionHookArgument(hookName string, pos ast.Position) CompilerError {
	return NewError(ErrorNonExpressionHookArgument,
		fmt.Sprintf("argument to '%s' is not an expression the optimizer can analyze", hookName), pos).
		WithSuggestion("pass a factory function and a dependency array as in the standard hook signature").
		Build()
}

// MalformedHookCall reports a hook call that was classified by the
// active preset but whose shape does not match what that classification
// requires (e.g. a memo hook called with zero arguments).
func MalformedHookCall(hookName, reason string, pos ast.Position) CompilerError {
	return NewError(ErrorMalformedHookCall,
		fmt.Sprintf("call to '%s' is malformed: %s", hookName, reason), pos).
		WithHelp("check the preset entry for this identifier against the call shape it expects").
		Build()
}

// UnsupportedComponentShape reports a component body the optimizer was
// not handed as a single block of statements.
func UnsupportedComponentShape(reason string, pos ast.Position) CompilerError {
	return NewError(ErrorUnsupportedComponentShape, reason, pos).
		WithHelp("the optimizer expects one component at a time, with a block body").
		Build()
}

// UnsupportedPattern reports a destructuring pattern too irregular for
// dependency derivation to follow.
func UnsupportedPattern(reason string, pos ast.Position) CompilerError {
	return NewError(ErrorUnsupportedPattern, reason, pos).Build()
}

// AmbiguousPresetEntry reports a preset that names the same callee
// identifier under two different hook kinds.
func AmbiguousPresetEntry(identifier string, kinds []string, pos ast.Position) CompilerError {
	return NewError(ErrorAmbiguousPresetEntry,
		fmt.Sprintf("'%s' is registered as more than one hook kind: %s", identifier, strings.Join(kinds, ", ")), pos).
		WithSuggestion("remove all but one registration for this identifier").
		Build()
}

// InvalidPresetConfig reports a preset source file that failed to parse.
func InvalidPresetConfig(message string, pos ast.Position) CompilerError {
	return NewError(ErrorInvalidPresetConfig, message, pos).Build()
}

// UnknownPresetKey reports a preset-block field key the loader does not
// recognize, suggesting near-miss corrections (by edit distance) among
// the keys it does.
func UnknownPresetKey(key string, knownKeys []string, pos ast.Position) CompilerError {
	builder := NewWarning(WarningUnknownPresetKey,
		fmt.Sprintf("'%s' is not a recognized preset field and was ignored", key), pos)
	if similar := findSimilarNames(key, knownKeys); len(similar) > 0 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean: %s?", strings.Join(similar, ", ")))
	}
	return builder.Build()
}

// NoOptimizableExpressions warns that a whole component produced no
// memoization at all.
func NoOptimizableExpressions(componentName string, pos ast.Position) CompilerError {
	name := componentName
	if name == "" {
		name = "<anonymous>"
	}
	return NewWarning(WarningNoOptimizableExpressions,
		fmt.Sprintf("component '%s' has nothing eligible for memoization", name), pos).
		WithNote("every expression the optimizer examined was already constant").
		Build()
}

// DependencyArrayMismatch warns that a literal dependency array written
// in the source does not match what the optimizer computed from the
// callback's free variables.
func DependencyArrayMismatch(missing, extra []string, pos ast.Position) CompilerError {
	builder := NewWarning(WarningDependencyArrayMismatch,
		"declared dependency array does not match the variables this callback actually closes over", pos)
	if len(missing) > 0 {
		builder = builder.WithNote(fmt.Sprintf("missing from the array: %s", strings.Join(missing, ", ")))
	}
	if len(extra) > 0 {
		builder = builder.WithNote(fmt.Sprintf("present but unused: %s", strings.Join(extra, ", ")))
	}
	return builder.WithHelp("the optimizer keys the cached value on this array as written").Build()
}

// findSimilarNames returns candidates within edit distance 2 of target,
// used to suggest corrections for a misnamed preset entry.
func findSimilarNames(target string, candidates []string) []string {
	var similar []string
	for _, candidate := range candidates {
		if levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}
	return similar
}

// levenshteinDistance is a plain edit-distance implementation used only
// for suggestion ranking above.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}
	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min3(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(a)][len(b)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
