// Package analyzers provides all custom static analyzers for genlib.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/genlib/tools/genlib-lint/analyzers/loopcall"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		loopcall.Analyzer,
	}
}
