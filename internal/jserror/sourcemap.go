package jserror

import (
	"github.com/go-sourcemap/sourcemap"
)

// SourceMapIndex associates a module/script identifier with the parsed
// source map for its generated text, so that a StackFrame produced while
// evaluating bundled/transpiled source can be resolved back to the
// original author-facing position.
type SourceMapIndex struct {
	maps map[string]*sourcemap.Consumer
}

// NewSourceMapIndex returns an empty index; Register populates it.
func NewSourceMapIndex() *SourceMapIndex {
	return &SourceMapIndex{maps: make(map[string]*sourcemap.Consumer)}
}

// Register parses and stores the source map for the given source id
// (module specifier or host-visible filename). A malformed map is
// reported but does not prevent evaluation — resolution degrades to the
// generated position.
func (idx *SourceMapIndex) Register(sourceID string, mapContent []byte) error {
	consumer, err := sourcemap.Parse(sourceID, mapContent)
	if err != nil {
		return err
	}
	idx.maps[sourceID] = consumer
	return nil
}

// Resolve maps a generated-source StackFrame to its original position, if
// a source map was registered for the frame's Source. It returns ok=false
// when no map is available, leaving the frame's generated position as the
// one the caller should display.
func (idx *SourceMapIndex) Resolve(frame StackFrame) (ResolvedFrame, bool) {
	consumer, found := idx.maps[frame.Source]
	if !found {
		return ResolvedFrame{}, false
	}
	file, fn, line, col, ok := consumer.Source(frame.Pos.Line, frame.Pos.Column)
	if !ok {
		return ResolvedFrame{}, false
	}
	resolved := ResolvedFrame{
		StackFrame:     frame,
		OriginalLine:   line,
		OriginalColumn: col,
		OriginalSource: file,
	}
	if fn != "" {
		resolved.FunctionName = fn
	}
	return resolved, true
}

// ResolveStack resolves every frame it has a map for, leaving the rest
// unresolved-but-present so a partially-mapped stack still prints.
func (idx *SourceMapIndex) ResolveStack(stack CallStack) []ResolvedFrame {
	out := make([]ResolvedFrame, len(stack))
	for i, f := range stack {
		if r, ok := idx.Resolve(f); ok {
			out[i] = r
			continue
		}
		out[i] = ResolvedFrame{StackFrame: f}
	}
	return out
}
