package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dzjyyds666/asttab/pkg"
)

// ParseParams parse 子命令参数
type ParseParams struct {
	Pretty bool // 是否格式化输出
	Verify bool // 重建并比对 dump
}

func newParseCmd(s *session) *cobra.Command {
	params := &ParseParams{}
	parseCmd := &cobra.Command{
		Use:   "parse <dump_file>",
		Short: "Convert ast.dump output into a builder script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, s, params, args[0])
		},
	}
	parseCmd.Flags().BoolVar(&params.Pretty, "pretty", false, "lay the builder expression out one argument per line")
	parseCmd.Flags().BoolVar(&params.Verify, "verify", false, "rebuild the tree and check its dump converts back to the same expression")
	return parseCmd
}

func runParse(cmd *cobra.Command, s *session, params *ParseParams, path string) error {
	text, err := pkg.ReadText(path)
	if err != nil {
		return err
	}
	builder, err := s.facade.Parse(cmd.Context(), text, false)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if params.Verify {
		if err := s.facade.Verify(builder); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		s.logger.Info("dump reproduced", zap.String("path", path))
	}
	if params.Pretty {
		if builder, err = s.facade.Parse(cmd.Context(), text, true); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	writeBuilderScript(cmd.OutOrStdout(), builder)
	return nil
}

// writeBuilderScript emits a script that rebuilds the tree and prints its
// dump for comparison with the input.
func writeBuilderScript(w io.Writer, builder string) {
	fmt.Fprintln(w, "import ast")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "node = %s\n", builder)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "print(ast.dump(node, indent=4))  # validation")
}
