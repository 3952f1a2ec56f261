package codegen

import "io"

// Builder can create new code writers.
type Builder struct {
	annotate      bool
	staticSymbols bool
}

// NewBuilder returns a builder with the default, unannotated output.
func NewBuilder() Builder {
	return Builder{}
}

// WithAnnotations makes the writer emit the VM command as a comment line
// before its translation.
func (b Builder) WithAnnotations(annotate bool) Builder {
	b.annotate = annotate
	return b
}

// WithStaticSymbols makes static entries use file-scoped symbols such as
// Foo.3 instead of fixed slot addresses. It only takes effect after
// SetFileName.
func (b Builder) WithStaticSymbols(staticSymbols bool) Builder {
	b.staticSymbols = staticSymbols
	return b
}

// Build creates a code writer appending to out. Each translation run needs
// its own writer so that label numbering starts fresh.
func (b Builder) Build(out io.Writer) *CodeWriter {
	return &CodeWriter{
		out:           out,
		annotate:      b.annotate,
		staticSymbols: b.staticSymbols,
	}
}

// NewCodeWriter creates a code writer with default options.
func NewCodeWriter(out io.Writer) *CodeWriter {
	return NewBuilder().Build(out)
}
