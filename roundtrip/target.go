package roundtrip

import (
	"context"
	"fmt"

	"github.com/dzjyyds666/asttab/host"
	"github.com/dzjyyds666/asttab/pkg"
)

// Target is something There can get Python source from.
type Target interface {
	RetrieveSource(ctx context.Context) (string, error)
}

// Code is literal Python source.
type Code string

func (c Code) RetrieveSource(context.Context) (string, error) {
	return string(c), nil
}

// File is a path to a Python source file.
type File string

func (f File) RetrieveSource(context.Context) (string, error) {
	src, err := pkg.ReadText(string(f))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return src, nil
}

// Callable is a function reconstructed by BackCallable. Its source is
// recorded so it can be fed back to There.
type Callable struct {
	Name      string
	Kind      host.SymbolKind
	Signature string
	Source    string
}

func (c *Callable) RetrieveSource(context.Context) (string, error) {
	if c == nil || c.Source == "" {
		return "", fmt.Errorf("%w: callable has no recorded source", ErrSourceUnavailable)
	}
	return c.Source, nil
}

func (c *Callable) String() string {
	return c.Name + c.Signature
}
