package host

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dzjyyds666/asttab/pkg/ctxlog"
	"github.com/dzjyyds666/asttab/tree"
)

// DefaultInterpreter is looked up on PATH when no interpreter is configured.
const DefaultInterpreter = "python3"

//go:embed helper.py
var helperSource string

// Python runs each request in a fresh interpreter process. The zero value
// uses DefaultInterpreter.
type Python struct {
	Interpreter string
}

func NewPython(interpreter string) *Python {
	return &Python{Interpreter: interpreter}
}

var _ Host = (*Python)(nil)

type request struct {
	Op        string          `json:"op"`
	Source    string          `json:"source,omitempty"`
	Tree      json.RawMessage `json:"tree,omitempty"`
	Indent    *int            `json:"indent,omitempty"`
	Namespace Namespace       `json:"namespace,omitempty"`
}

type reply struct {
	OK      bool            `json:"ok"`
	Tree    json.RawMessage `json:"tree"`
	Text    string          `json:"text"`
	Symbols []Symbol        `json:"symbols"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *Python) interpreter() string {
	if p == nil || p.Interpreter == "" {
		return DefaultInterpreter
	}
	return p.Interpreter
}

func (p *Python) ParseSource(ctx context.Context, src string) (*tree.Node, error) {
	rep, err := p.call(ctx, &request{Op: "parse", Source: src})
	if err != nil {
		return nil, err
	}
	v, err := tree.Decode(rep.Tree)
	if err != nil {
		return nil, fmt.Errorf("host parse: %w", err)
	}
	n, ok := v.(*tree.Node)
	if !ok {
		return nil, fmt.Errorf("host parse: reply is %T, not a node", v)
	}
	return n, nil
}

func (p *Python) DumpTree(ctx context.Context, n *tree.Node, indent int) (string, error) {
	data, err := tree.Encode(n)
	if err != nil {
		return "", err
	}
	rep, err := p.call(ctx, &request{Op: "dump", Tree: data, Indent: &indent})
	if err != nil {
		return "", err
	}
	return rep.Text, nil
}

func (p *Python) UnparseTree(ctx context.Context, n *tree.Node) (string, error) {
	data, err := tree.Encode(n)
	if err != nil {
		return "", err
	}
	rep, err := p.call(ctx, &request{Op: "unparse", Tree: data})
	if err != nil {
		return "", err
	}
	return rep.Text, nil
}

func (p *Python) CompileAndExecute(ctx context.Context, n *tree.Node, ns Namespace) ([]Symbol, error) {
	data, err := tree.Encode(n)
	if err != nil {
		return nil, err
	}
	rep, err := p.call(ctx, &request{Op: "exec", Tree: data, Namespace: ns})
	if err != nil {
		return nil, err
	}
	return rep.Symbols, nil
}

// Version reports the interpreter's version, e.g. "3.12.4".
func (p *Python) Version(ctx context.Context) (string, error) {
	rep, err := p.call(ctx, &request{Op: "version"})
	if err != nil {
		return "", err
	}
	return rep.Text, nil
}

func (p *Python) call(ctx context.Context, req *request) (*reply, error) {
	logger := ctxlog.FromContext(ctx)

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("host %s: encode request: %w", req.Op, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.interpreter(), "-c", helperSource)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = append(os.Environ(), "PYTHONIOENCODING=utf-8")

	start := time.Now()
	err = cmd.Run()
	logger.Debug("host call",
		zap.String("op", req.Op),
		zap.String("interpreter", p.interpreter()),
		zap.Int("request_bytes", len(payload)),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("host %s: %w", req.Op, ctxErr)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("host %s: run %s: %w", req.Op, p.interpreter(), err)
		}
		return nil, fmt.Errorf("host %s: run %s: %w: %s", req.Op, p.interpreter(), err, msg)
	}
	if stderr.Len() > 0 {
		logger.Debug("host stderr", zap.String("op", req.Op), zap.String("output", strings.TrimSpace(stderr.String())))
	}

	var rep reply
	if err := json.Unmarshal(stdout.Bytes(), &rep); err != nil {
		return nil, fmt.Errorf("host %s: decode reply: %w", req.Op, err)
	}
	if !rep.OK {
		if rep.Error == nil {
			return nil, &Error{Op: req.Op, Type: "Error", Message: "request failed without detail"}
		}
		return nil, &Error{Op: req.Op, Type: rep.Error.Type, Message: rep.Error.Message}
	}
	return &rep, nil
}
