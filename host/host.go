// Package host talks to the Python interpreter that owns the real ast
// module: parsing source into trees, dumping and unparsing trees, and
// executing a tree to collect the symbols it defines.
package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/dzjyyds666/asttab/tree"
)

var ErrHost = errors.New("host error")

// Error is an exception raised inside the host interpreter.
type Error struct {
	Op      string
	Type    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("host %s: %s: %s", e.Op, e.Type, e.Message)
}

func (e *Error) Unwrap() error { return ErrHost }

// Namespace is the symbol table a tree executes against: each name maps to
// "module:attr" (or just "module") and is imported before execution.
type Namespace map[string]string

type SymbolKind string

const (
	KindFunction       SymbolKind = "function"
	KindCoroutine      SymbolKind = "coroutine function"
	KindGenerator      SymbolKind = "generator function"
	KindAsyncGenerator SymbolKind = "async generator function"
	KindCallable       SymbolKind = "callable"
	KindObject         SymbolKind = "object"
)

// Symbol is a name defined by executing a tree.
type Symbol struct {
	Name      string     `json:"name"`
	Kind      SymbolKind `json:"kind"`
	Callable  bool       `json:"callable"`
	Signature string     `json:"signature,omitempty"`
}

// Host is the set of services only the interpreter can provide.
type Host interface {
	ParseSource(ctx context.Context, src string) (*tree.Node, error)

	// DumpTree renders n with ast.dump. A negative indent gives the
	// single line form.
	DumpTree(ctx context.Context, n *tree.Node, indent int) (string, error)

	// UnparseTree fills in missing locations and converts n back to source.
	UnparseTree(ctx context.Context, n *tree.Node) (string, error)

	// CompileAndExecute runs n as a module in a fresh namespace seeded from
	// ns and reports the names it defined, in definition order.
	CompileAndExecute(ctx context.Context, n *tree.Node, ns Namespace) ([]Symbol, error)
}
