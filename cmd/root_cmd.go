package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dzjyyds666/asttab/host"
	"github.com/dzjyyds666/asttab/pkg/ctxlog"
	"github.com/dzjyyds666/asttab/roundtrip"
)

// RootParams 全局参数
type RootParams struct {
	Config    string // 配置文件路径
	LogLevel  string
	LogFormat string
	Python    string // 解释器
	Prefix    string // 构造函数前缀
	Lenient   bool   // 跳过节点表校验
}

// newHost is replaced in tests.
var newHost = func(interpreter string) host.Host {
	return host.NewPython(interpreter)
}

// session is what every subcommand works with once flags and config are
// merged.
type session struct {
	cfg    *Config
	logger *zap.Logger
	host   host.Host
	facade *roundtrip.Facade
}

func newRootCmd() *cobra.Command {
	params := &RootParams{}
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "asttab",
		Short: "asttab converts between Python source, ast.dump text and ast builder expressions.",
		Long: `asttab converts between Python source, ast.dump text and ast builder expressions.
It turns a dump into Python code that rebuilds the same tree, and rebuilt trees back into
source or a callable.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup(cmd, params)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if s.logger != nil {
				_ = s.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&params.Config, "config", "", "config file (default $XDG_CONFIG_HOME/asttab/config.yaml)")
	flags.StringVar(&params.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&params.LogFormat, "log-format", "", "log format: text, json")
	flags.StringVar(&params.Python, "python", "", "Python interpreter used for host services")
	flags.StringVar(&params.Prefix, "prefix", "", "qualifier placed before node constructors")
	flags.BoolVar(&params.Lenient, "lenient", false, "accept node types and fields the built-in node table does not know")

	rootCmd.AddCommand(newParseCmd(s))
	rootCmd.AddCommand(newThereCmd(s))
	rootCmd.AddCommand(newBackCmd(s))
	rootCmd.AddCommand(newReplCmd(s))
	rootCmd.AddCommand(newVersionCmd(s))
	return rootCmd
}

func (s *session) setup(cmd *cobra.Command, params *RootParams) error {
	cfg, err := LoadConfig(params.Config)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = params.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = params.LogFormat
	}
	if flags.Changed("python") {
		cfg.Python = params.Python
	}
	if flags.Changed("prefix") {
		cfg.Prefix = params.Prefix
	}
	if flags.Changed("lenient") {
		cfg.Lenient = params.Lenient
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.cfg = cfg
	s.logger = newLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	s.host = newHost(cfg.Python)
	opts := []roundtrip.Option{
		roundtrip.WithPrefix(cfg.Prefix),
		roundtrip.WithNamespace(cfg.Namespace),
		roundtrip.WithIndent(strings.Repeat(" ", cfg.PrettyIndent)),
	}
	if cfg.Lenient {
		opts = append(opts, roundtrip.WithSchema(nil))
	}
	s.facade = roundtrip.New(s.host, opts...)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(ctxlog.WithLogger(ctx, s.logger))
	s.logger.Debug("config loaded",
		zap.String("python", cfg.Python),
		zap.String("prefix", cfg.Prefix),
		zap.Int("namespace", len(cfg.Namespace)),
	)
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
