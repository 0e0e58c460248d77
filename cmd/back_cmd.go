package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dzjyyds666/asttab/pkg"
)

// BackParams back 子命令参数
type BackParams struct {
	Builder  string // 内联构造表达式
	File     string // 构造表达式文件, 也接受 parse 生成的脚本
	Callable bool   // 重建函数而不是输出源码
}

func newBackCmd(s *session) *cobra.Command {
	params := &BackParams{}
	backCmd := &cobra.Command{
		Use:   "back",
		Short: "Rebuild Python source (or a callable) from a builder expression",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBack(cmd, s, params)
		},
	}
	flags := backCmd.Flags()
	flags.StringVarP(&params.Builder, "builder", "b", "", "inline builder expression")
	flags.StringVarP(&params.File, "file", "f", "", "file holding a builder expression or a parse script")
	flags.BoolVar(&params.Callable, "callable", false, "reconstruct the single function the tree defines")
	backCmd.MarkFlagsMutuallyExclusive("builder", "file")
	backCmd.MarkFlagsOneRequired("builder", "file")
	return backCmd
}

func runBack(cmd *cobra.Command, s *session, params *BackParams) error {
	builder := params.Builder
	if cmd.Flags().Changed("file") {
		text, err := pkg.ReadText(params.File)
		if err != nil {
			return err
		}
		builder = builderFromScript(text)
	}

	out := cmd.OutOrStdout()
	if params.Callable {
		c, err := s.facade.BackCallable(cmd.Context(), builder)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Callable reconstructed: %s\n", c.Name)
		s.logger.Info("callable",
			zap.String("name", c.Name),
			zap.String("kind", string(c.Kind)),
			zap.String("signature", c.Signature),
		)
		return nil
	}

	src, err := s.facade.Back(cmd.Context(), builder)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, src)
	return nil
}

// builderFromScript returns the expression assigned to node in a script
// written by parse. Any other text is returned unchanged.
func builderFromScript(text string) string {
	const assign = "node = "
	var start int
	switch {
	case strings.HasPrefix(text, assign):
		start = len(assign)
	default:
		i := strings.Index(text, "\n"+assign)
		if i < 0 {
			return text
		}
		start = i + 1 + len(assign)
	}
	body := text[start:]
	if end := strings.Index(body, "\nprint(ast.dump("); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}
