package preset

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/juncdeinda/forgetti/internal/ast"
	"github.com/juncdeinda/forgetti/internal/errors"
)

var configParser = participle.MustBuild[Config](
	participle.Lexer(ConfigLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
)

// knownFieldKeys lists every recognized preset-block field, used to
// suggest corrections for a typo'd key via Levenshtein distance.
var knownFieldKeys = []string{
	"jsx", "memo", "callback", "ref", "effect", "custom", "skip",
	"customprefix", "memohook", "refhook",
}

// Load parses a preset configuration file and overlays it on top of
// Default(), so a user-supplied preset only needs to mention the
// entries it wants to change.
func Load(path string) (*Preset, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset file: %w", err)
	}
	return ParseString(path, string(source))
}

// ParseString parses preset configuration source directly, useful for
// tests and embedded presets that don't live on disk.
//
// Two kinds of diagnostic can arise from a field in the preset block: a
// callee identifier registered under two different hook kinds is a fatal
// ambiguity (the returned error renders every such conflict with
// Rust-style source context via the errors.ErrorReporter this module was
// built for); an unrecognized field key is non-fatal and surfaces as a
// warning on the returned Preset instead, since the rest of the file is
// still usable.
func ParseString(filename, source string) (*Preset, error) {
	cfg, err := configParser.ParseString(filename, source)
	if err != nil {
		if pe, ok := err.(participle.Error); ok {
			diag := errors.InvalidPresetConfig(pe.Message(), posFromLexer(filename, pe.Position()))
			return nil, fmt.Errorf("%s", diag.Message)
		}
		return nil, err
	}

	p := Default()
	if cfg.Name != "" {
		p.Name = cfg.Name
	}

	assignedBy := map[string]HookKind{}
	var fatal []errors.CompilerError
	var warnings []errors.CompilerError

	for _, field := range cfg.Fields {
		pos := posFromLexer(filename, field.Pos)
		switch strings.ToLower(field.Key) {
		case "jsx":
			p.JSXMemo = len(field.Values) == 1 && strings.EqualFold(field.Values[0], "true")
		case "memo":
			fatal = append(fatal, registerAll(p, field.Values, Memo, assignedBy, pos)...)
		case "callback":
			fatal = append(fatal, registerAll(p, field.Values, Callback, assignedBy, pos)...)
		case "ref":
			fatal = append(fatal, registerAll(p, field.Values, Ref, assignedBy, pos)...)
		case "effect":
			fatal = append(fatal, registerAll(p, field.Values, Effect, assignedBy, pos)...)
		case "custom":
			fatal = append(fatal, registerAll(p, field.Values, Custom, assignedBy, pos)...)
		case "skip":
			fatal = append(fatal, registerAll(p, field.Values, Skip, assignedBy, pos)...)
		case "customprefix":
			if len(field.Values) == 1 {
				p.CustomHookPrefix = field.Values[0]
			}
		case "memohook":
			if len(field.Values) == 1 {
				p.MemoHookName = field.Values[0]
			}
		case "refhook":
			if len(field.Values) == 1 {
				p.RefHookName = field.Values[0]
			}
		default:
			warnings = append(warnings, errors.UnknownPresetKey(field.Key, knownFieldKeys, pos))
		}
	}

	if len(fatal) > 0 {
		reporter := errors.NewErrorReporter(filename, source)
		return nil, fmt.Errorf("%s", strings.TrimRight(reporter.FormatDiagnostics(fatal), "\n\n"))
	}

	p.Warnings = warnings
	return p, nil
}

// registerAll assigns kind to each name. A name registered earlier by
// this same parse under a different kind is reported as an
// errors.AmbiguousPresetEntry diagnostic instead of being silently
// overwritten; assignedBy tracks only registrations made by this file
// (not Default()'s own entries, which a preset is always allowed to
// override once without it being an ambiguity).
func registerAll(p *Preset, names []string, kind HookKind, assignedBy map[string]HookKind, pos ast.Position) []errors.CompilerError {
	var diags []errors.CompilerError
	for _, name := range names {
		if prior, ok := assignedBy[name]; ok && prior != kind {
			diags = append(diags, errors.AmbiguousPresetEntry(name, []string{prior.String(), kind.String()}, pos))
			continue
		}
		assignedBy[name] = kind
		p.Rules[name] = kind
	}
	return diags
}

func posFromLexer(filename string, pos lexer.Position) ast.Position {
	return ast.Position{Filename: filename, Line: pos.Line, Column: pos.Column, Offset: pos.Offset}
}
