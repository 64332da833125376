// genlib-lint is a custom static analyzer for genlib store access patterns.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/genlib/tools/genlib-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
