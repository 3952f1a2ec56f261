package api

import (
	"io"

	"github.com/sarchlab/hackvm/codegen"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	annotate      bool
	staticSymbols bool
}

// WithAnnotations makes the driver echo each VM command as a comment.
func (b DriverBuilder) WithAnnotations(annotate bool) DriverBuilder {
	b.annotate = annotate
	return b
}

// WithStaticSymbols makes static entries use file-scoped symbols.
func (b DriverBuilder) WithStaticSymbols(staticSymbols bool) DriverBuilder {
	b.staticSymbols = staticSymbols
	return b
}

// Build creates a driver that writes assembly to out.
func (b DriverBuilder) Build(out io.Writer) Driver {
	w := codegen.NewBuilder().
		WithAnnotations(b.annotate).
		WithStaticSymbols(b.staticSymbols).
		Build(out)

	return &driverImpl{writer: w}
}
