package lisp

import _ "embed"

// prelude is lisp code loaded into every new interpreter.
//
//go:embed prelude.mal
var prelude string
