package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dzjyyds666/asttab/roundtrip"
)

func newTestRepl() (*repl, *bytes.Buffer) {
	var out bytes.Buffer
	return &repl{
		facade: roundtrip.New(&fakeHost{parsed: passModule()}),
		indent: -1,
		out:    &out,
	}, &out
}

func TestReplSingleLine(t *testing.T) {
	r, out := newTestRepl()
	more, quit := r.feed(context.Background(), "pass")
	assert.False(t, more)
	assert.False(t, quit)
	assert.Equal(t, "Module(body=[Pass()], type_ignores=[])\n\nast.Module(body=[ast.Pass()], type_ignores=[])\n", out.String())
}

func TestReplBlock(t *testing.T) {
	r, out := newTestRepl()
	ctx := context.Background()

	more, _ := r.feed(ctx, "def f():")
	assert.True(t, more)
	more, _ = r.feed(ctx, "    pass")
	assert.True(t, more)
	assert.Empty(t, out.String())

	more, _ = r.feed(ctx, "")
	assert.False(t, more)
	assert.Contains(t, out.String(), "ast.Module(")
	assert.Empty(t, r.pending)
}

func TestReplCommands(t *testing.T) {
	r, out := newTestRepl()
	ctx := context.Background()

	_, quit := r.feed(ctx, ":pretty")
	assert.False(t, quit)
	assert.True(t, r.pretty)
	assert.Contains(t, out.String(), "pretty output on")

	out.Reset()
	r.feed(ctx, "pass")
	assert.Contains(t, out.String(), "ast.Module(\n    body=[\n        ast.Pass(),\n    ],")

	out.Reset()
	r.feed(ctx, ":bogus")
	assert.Contains(t, out.String(), "unknown command :bogus")

	_, quit = r.feed(ctx, ":quit")
	assert.True(t, quit)
}

func TestReplErrorsKeepGoing(t *testing.T) {
	r, out := newTestRepl()
	more, quit := r.feed(context.Background(), "def (")
	assert.False(t, more)
	assert.False(t, quit)
	assert.Contains(t, out.String(), "Error: host parse: SyntaxError")
}
