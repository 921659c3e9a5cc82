// Command aritycheck reports field-count drift between types linked by
// //arity: directives.
//
// Run it standalone or through go vet:
//
//	go vet -vettool=$(which aritycheck) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"arity-generator/aritycheck"
)

func main() {
	singlechecker.Main(aritycheck.Analyzer)
}
