// ═══════════════════════════════════════════════════════════════════════════════
// PIPELINE
// ═══════════════════════════════════════════════════════════════════════════════
// A Pipeline is an ordered stack of labeled functions applied to every Token
// flowing into the index at build time, and to every query term at search
// time. Each function maps one Token (plus its index and the full slice) to
// zero, one, or several Tokens.
//
// Functions are identified by a string label so a Pipeline can be serialized
// as a list of labels and rebuilt later by looking functions up in a
// process-wide registry, using an explicit pair type rather than attaching
// an attribute to a function value at runtime.
// ═══════════════════════════════════════════════════════════════════════════════

package lexica

import (
	"log/slog"
	"sync"
)

// PipelineStepFunc is a single pipeline function. It receives the token
// being processed, its index within tokens, and the full token slice (so a
// function can look at neighbors), and returns the tokens that should
// replace it: nil to drop the token, a single Token, or several.
type PipelineStepFunc func(token *Token, index int, tokens []*Token) []*Token

// PipelineFunc pairs a PipelineStepFunc with the label it is registered
// and serialized under.
type PipelineFunc struct {
	Label string
	Fn    PipelineStepFunc
}

var (
	registryMu sync.Mutex
	registry   = map[string]PipelineFunc{}
)

// RegisterFunction records fn under label in the process-wide registry so
// it can be resolved again by LoadPipeline. Re-registering an existing
// label is allowed but logged as a warning.
func RegisterFunction(label string, fn PipelineStepFunc) PipelineFunc {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[label]; exists {
		slog.Warn("pipeline: overwriting existing registered function", "label", label)
	}
	pf := PipelineFunc{Label: label, Fn: fn}
	registry[pf.Label] = pf
	return pf
}

func lookupRegisteredFunction(label string) (PipelineFunc, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	pf, ok := registry[label]
	return pf, ok
}

// Pipeline manages an ordered list of pipeline functions and a per-function
// set of field names for which that function is bypassed.
type Pipeline struct {
	stack []PipelineFunc
	skip  map[string]map[string]struct{}
}

// NewPipeline returns an empty Pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{skip: map[string]map[string]struct{}{}}
}

// Len reports the number of functions currently in the pipeline.
func (p *Pipeline) Len() int { return len(p.stack) }

// Add appends functions to the end of the pipeline.
func (p *Pipeline) Add(fns ...PipelineFunc) {
	p.stack = append(p.stack, fns...)
}

// Remove removes every occurrence of fn (matched by label) from the stack.
func (p *Pipeline) Remove(fn PipelineFunc) {
	out := p.stack[:0]
	for _, existing := range p.stack {
		if existing.Label != fn.Label {
			out = append(out, existing)
		}
	}
	p.stack = out
}

// Before inserts newFn immediately before the first occurrence of anchor.
// Returns an error if anchor is not present in the stack.
func (p *Pipeline) Before(anchor, newFn PipelineFunc) error {
	idx := p.indexOf(anchor)
	if idx < 0 {
		return newConfigurationError(ErrMalformedQuery, "pipeline.before: anchor not found: "+anchor.Label)
	}
	p.stack = append(p.stack[:idx], append([]PipelineFunc{newFn}, p.stack[idx:]...)...)
	return nil
}

// After inserts newFn immediately after the first occurrence of anchor.
// Returns an error if anchor is not present in the stack.
func (p *Pipeline) After(anchor, newFn PipelineFunc) error {
	idx := p.indexOf(anchor)
	if idx < 0 {
		return newConfigurationError(ErrMalformedQuery, "pipeline.after: anchor not found: "+anchor.Label)
	}
	idx++
	p.stack = append(p.stack[:idx], append([]PipelineFunc{newFn}, p.stack[idx:]...)...)
	return nil
}

func (p *Pipeline) indexOf(fn PipelineFunc) int {
	for i, existing := range p.stack {
		if existing.Label == fn.Label {
			return i
		}
	}
	return -1
}

// Skip records that fn should be bypassed for any of the given field
// names when Run is invoked with that field name.
func (p *Pipeline) Skip(fn PipelineFunc, fieldNames ...string) {
	set, ok := p.skip[fn.Label]
	if !ok {
		set = map[string]struct{}{}
		p.skip[fn.Label] = set
	}
	for _, name := range fieldNames {
		set[name] = struct{}{}
	}
}

// Run applies every function in the pipeline, in order, to tokens. If
// fieldName is non-empty and a function's skip set contains it, that
// function is bypassed entirely for this call. Each function's output
// replaces its input for the NEXT function in the stack; the tokens a
// function emits for one input are never re-fed into that same function.
func (p *Pipeline) Run(tokens []*Token, fieldName string) []*Token {
	for _, pf := range p.stack {
		if fieldName != "" {
			if bypassed, ok := p.skip[pf.Label]; ok {
				if _, skip := bypassed[fieldName]; skip {
					continue
				}
			}
		}
		var results []*Token
		for i, tok := range tokens {
			out := pf.Fn(tok, i, tokens)
			results = append(results, out...)
		}
		tokens = results
	}
	return tokens
}

// RunString wraps s in a single Token (with the given metadata, which may
// be nil) and runs it through the pipeline, returning the resulting token
// strings. Unlike Run, RunString never applies skip logic — there is no
// field name to bypass against.
func (p *Pipeline) RunString(s string, metadata map[string]any) []string {
	md := Metadata{Extras: map[string]any{}}
	overlayMetadata(&md, metadata)
	tokens := p.Run([]*Token{NewToken(s, md)}, "")
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.String
	}
	return out
}

// Reset empties the pipeline's function stack. Skip rules are left intact.
func (p *Pipeline) Reset() { p.stack = nil }

// Serialize returns the ordered list of function labels, suitable for
// storing in a serialized Index and replaying with Load.
func (p *Pipeline) Serialize() []string {
	labels := make([]string, len(p.stack))
	for i, pf := range p.stack {
		labels[i] = pf.Label
	}
	return labels
}

// LoadPipeline rebuilds a Pipeline from a serialized label list, resolving
// each label through the process-wide registry. Returns a LoadError if any
// label is not registered.
func LoadPipeline(labels []string) (*Pipeline, error) {
	p := NewPipeline()
	for _, label := range labels {
		pf, ok := lookupRegisteredFunction(label)
		if !ok {
			return nil, newLoadError(ErrUnregisteredPipelineLabel, label)
		}
		p.Add(pf)
	}
	return p, nil
}
