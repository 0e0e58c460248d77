package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dzjyyds666/asttab/roundtrip"
)

const (
	replPrompt     = ">>> "
	replContPrompt = "... "
)

// ReplParams repl 子命令参数
type ReplParams struct {
	Pretty  bool   // 是否格式化构造表达式
	History string // 历史记录文件
}

func newReplCmd(s *session) *cobra.Command {
	params := &ReplParams{}
	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Show the dump and builder expression of each Python statement typed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd, s, params)
		},
	}
	replCmd.Flags().BoolVar(&params.Pretty, "pretty", true, "lay builder expressions out one argument per line")
	replCmd.Flags().StringVar(&params.History, "history", defaultHistoryFile(), "history file, empty to disable")
	return replCmd
}

func defaultHistoryFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "history")
}

func runRepl(cmd *cobra.Command, s *session, params *ReplParams) error {
	if params.History != "" {
		if err := os.MkdirAll(filepath.Dir(params.History), 0o755); err != nil {
			s.logger.Warn("history disabled", zap.Error(err))
			params.History = ""
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     params.History,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("repl: %w", err)
	}
	defer rl.Close()

	r := &repl{facade: s.facade, indent: s.cfg.Indent, pretty: params.Pretty, out: cmd.OutOrStdout()}
	fmt.Fprintln(r.out, `Type Python statements. A blank line ends a block. ":help" lists commands.`)

	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if len(line) == 0 && len(r.pending) == 0 {
				return nil
			}
			r.pending = nil
			rl.SetPrompt(replPrompt)
			continue
		case errors.Is(err, io.EOF):
			r.flush(cmd.Context())
			return nil
		case err != nil:
			return fmt.Errorf("repl: %w", err)
		}

		more, quit := r.feed(cmd.Context(), line)
		if quit {
			return nil
		}
		if more {
			rl.SetPrompt(replContPrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}
}

// repl holds the line buffer of an interactive session. Statements that
// open a block are collected until a blank line.
type repl struct {
	facade  *roundtrip.Facade
	indent  int
	pretty  bool
	out     io.Writer
	pending []string
}

// feed handles one input line. more reports that a block is still open.
func (r *repl) feed(ctx context.Context, line string) (more, quit bool) {
	trimmed := strings.TrimSpace(line)

	if len(r.pending) == 0 && strings.HasPrefix(trimmed, ":") {
		return false, r.command(trimmed)
	}

	if len(r.pending) > 0 {
		if trimmed == "" {
			r.flush(ctx)
			return false, false
		}
		r.pending = append(r.pending, line)
		return true, false
	}

	switch {
	case trimmed == "":
		return false, false
	case strings.HasSuffix(trimmed, ":"), strings.HasSuffix(trimmed, "\\"), strings.HasPrefix(trimmed, "@"):
		r.pending = append(r.pending, line)
		return true, false
	}
	r.show(ctx, line)
	return false, false
}

func (r *repl) command(c string) (quit bool) {
	switch c {
	case ":q", ":quit", ":exit":
		return true
	case ":pretty":
		r.pretty = !r.pretty
		fmt.Fprintf(r.out, "pretty output %s\n", onOff(r.pretty))
	case ":help":
		fmt.Fprintln(r.out, ":pretty  toggle pretty builder output")
		fmt.Fprintln(r.out, ":quit    leave the repl")
	default:
		fmt.Fprintf(r.out, "unknown command %s\n", c)
	}
	return false
}

func (r *repl) flush(ctx context.Context) {
	if len(r.pending) == 0 {
		return
	}
	src := strings.Join(r.pending, "\n")
	r.pending = nil
	r.show(ctx, src)
}

func (r *repl) show(ctx context.Context, src string) {
	text, err := r.facade.There(ctx, roundtrip.Code(src), r.indent)
	if err != nil {
		fmt.Fprintln(r.out, "Error:", err)
		return
	}
	builder, err := r.facade.Parse(ctx, text, r.pretty)
	if err != nil {
		fmt.Fprintln(r.out, "Error:", err)
		return
	}
	fmt.Fprintln(r.out, text)
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, builder)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
