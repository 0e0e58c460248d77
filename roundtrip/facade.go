// Package roundtrip moves a Python program between its forms: source text,
// ast.dump text, builder expressions and reconstructed callables.
package roundtrip

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"go.uber.org/zap"

	"github.com/dzjyyds666/asttab/host"
	"github.com/dzjyyds666/asttab/parse/dump"
	"github.com/dzjyyds666/asttab/parse/expr"
	"github.com/dzjyyds666/asttab/pkg/ctxlog"
	"github.com/dzjyyds666/asttab/pretty"
	"github.com/dzjyyds666/asttab/tree"
)

// DefaultIndent is the ast.dump indent used by There.
const DefaultIndent = 4

// DefaultNamespace seeds every callable reconstruction.
var DefaultNamespace = host.Namespace{
	"Any":            "typing:Any",
	"AsyncGenerator": "typing:AsyncGenerator",
}

// Facade holds configuration only and is safe for concurrent use.
type Facade struct {
	host      host.Host
	prefix    string
	schema    *tree.Schema
	namespace host.Namespace
	indent    string
}

type Option func(*Facade)

// WithPrefix sets the node constructor qualifier, "ast." by default.
func WithPrefix(prefix string) Option {
	return func(f *Facade) {
		f.prefix = prefix
	}
}

// WithSchema replaces the node table used to validate builder text and fill
// in defaults. nil accepts any node type and field, for trees from a newer
// Python than the table describes.
func WithSchema(s *tree.Schema) Option {
	return func(f *Facade) {
		f.schema = s
	}
}

// WithNamespace adds symbols to DefaultNamespace for callable
// reconstruction. Entries in ns win.
func WithNamespace(ns host.Namespace) Option {
	return func(f *Facade) {
		maps.Copy(f.namespace, ns)
	}
}

// WithIndent sets the unit the pretty printer indents by.
func WithIndent(unit string) Option {
	return func(f *Facade) {
		f.indent = unit
	}
}

func New(h host.Host, opts ...Option) *Facade {
	f := &Facade{
		host:      h,
		prefix:    dump.DefaultPrefix,
		schema:    tree.PythonSchema(),
		namespace: maps.Clone(DefaultNamespace),
		indent:    pretty.DefaultIndent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Parse converts dump text into a builder expression. With pretty set the
// expression is laid out one argument per line; if the layout fails the
// plain expression is returned and the failure logged.
func (f *Facade) Parse(ctx context.Context, dumpText string, pretty bool) (string, error) {
	builder, err := dump.Parse(dumpText, dump.WithPrefix(f.prefix))
	if err != nil {
		return "", err
	}
	if !pretty {
		return builder, nil
	}
	return f.pretty(ctx, builder), nil
}

// Verify rebuilds the tree a plain builder expression describes, dumps it
// and checks that the dump converts back to the same expression. Strings
// whose escapes do not survive the raw re-quoting fail here.
func (f *Facade) Verify(builder string) error {
	e, err := expr.Parse(builder)
	if err != nil {
		return &EvaluationError{Reason: ErrInvalidBuilder, Err: err}
	}
	v, err := tree.NewBuilder(tree.WithPrefix(f.prefix), tree.WithSchema(f.schema)).Build(e)
	if err != nil {
		return &EvaluationError{Reason: ErrInvalidBuilder, Err: err}
	}

	// fields and attributes print as given so explicit None values survive
	text := tree.Dump(v, tree.DumpOptions{Indent: -1, IncludeAttributes: true})
	again, err := dump.Parse(text, dump.WithPrefix(f.prefix))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMismatch, err)
	}
	if again != builder {
		return fmt.Errorf("%w: expressions differ from byte %d", ErrMismatch, firstDifference(builder, again))
	}
	return nil
}

func firstDifference(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func (f *Facade) pretty(ctx context.Context, builder string) string {
	out, err := pretty.Source(builder, f.indent)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("pretty printing failed, using plain builder expression", zap.Error(err))
		return builder
	}
	return out
}

// There returns the ast.dump text of target's source. A negative indent
// gives the single line form.
func (f *Facade) There(ctx context.Context, target Target, indent int) (string, error) {
	src, err := target.RetrieveSource(ctx)
	if err != nil {
		return "", err
	}
	n, err := f.host.ParseSource(ctx, src)
	if err != nil {
		return "", err
	}
	return f.host.DumpTree(ctx, n, indent)
}

// Builder returns the builder expression for target's source.
func (f *Facade) Builder(ctx context.Context, target Target, pretty bool) (string, error) {
	text, err := f.There(ctx, target, -1)
	if err != nil {
		return "", err
	}
	return f.Parse(ctx, text, pretty)
}

// Back converts a builder expression to Python source.
func (f *Facade) Back(ctx context.Context, builder string) (string, error) {
	n, err := f.Evaluate(builder)
	if err != nil {
		return "", err
	}
	return f.host.UnparseTree(ctx, n)
}

// BackCallable rebuilds the single function a module-level builder
// expression defines.
func (f *Facade) BackCallable(ctx context.Context, builder string) (*Callable, error) {
	n, err := f.Evaluate(builder)
	if err != nil {
		return nil, err
	}
	name, err := singleFunction(n)
	if err != nil {
		return nil, err
	}

	src, err := f.host.UnparseTree(ctx, n)
	if err != nil {
		return nil, err
	}
	symbols, err := f.host.CompileAndExecute(ctx, n, f.namespace)
	if err != nil {
		return nil, err
	}
	for _, sym := range symbols {
		if sym.Name == name && sym.Callable {
			ctxlog.FromContext(ctx).Debug("callable reconstructed", zap.String("name", name), zap.String("kind", string(sym.Kind)))
			return &Callable{Name: name, Kind: sym.Kind, Signature: sym.Signature, Source: src}, nil
		}
	}
	return nil, &ReconstructionError{Reason: ErrMissingSymbol, Detail: name}
}

// Evaluate builds the tree a builder expression describes, with constructor
// defaults and positions filled in.
func (f *Facade) Evaluate(builder string) (*tree.Node, error) {
	e, err := expr.Parse(builder)
	if err != nil {
		return nil, &EvaluationError{Reason: ErrInvalidBuilder, Err: err}
	}
	v, err := tree.NewBuilder(tree.WithPrefix(f.prefix), tree.WithSchema(f.schema)).Build(e)
	if err != nil {
		return nil, &EvaluationError{Reason: ErrInvalidBuilder, Err: err}
	}
	n, ok := v.(*tree.Node)
	if !ok {
		return nil, &EvaluationError{Reason: ErrNotATree, Err: fmt.Errorf("got %s", describe(v))}
	}
	tree.FillMissingFields(n, f.schema)
	tree.FixMissingLocations(n, f.schema)
	return n, nil
}

func singleFunction(n *tree.Node) (string, error) {
	if n.Type != "Module" {
		return "", &ReconstructionError{Reason: ErrNotAModule, Detail: "got " + n.Type}
	}
	body, _ := n.Get("body")
	stmts, _ := body.(tree.List)

	var names []string
	for _, s := range stmts {
		def, ok := s.(*tree.Node)
		if !ok || (def.Type != "FunctionDef" && def.Type != "AsyncFunctionDef") {
			continue
		}
		name, _ := def.Get("name")
		str, _ := name.(tree.Str)
		names = append(names, string(str))
	}

	switch len(names) {
	case 0:
		return "", &ReconstructionError{Reason: ErrNoCallable}
	case 1:
		return names[0], nil
	}
	return "", &ReconstructionError{Reason: ErrAmbiguousCallable, Detail: strings.Join(names, ", ")}
}

func describe(v tree.Value) string {
	switch v.(type) {
	case tree.List:
		return "a list"
	case tree.Tuple:
		return "a tuple"
	}
	return "a constant"
}
