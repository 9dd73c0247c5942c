package evaluator

import "lox/internal/object"

type CompletionKind int

const (
	Normal CompletionKind = iota
	Return
)

// Completion is how a statement finished. A Return completion carries the
// returned value up to the nearest function call, which consumes it.
type Completion struct {
	Kind  CompletionKind
	Value object.Object
}

var normal = Completion{Kind: Normal}
