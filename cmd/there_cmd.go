package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dzjyyds666/asttab/roundtrip"
)

// ThereParams there 子命令参数
type ThereParams struct {
	Code   string // 内联源码
	File   string // 源码文件路径
	Indent int    // ast.dump 缩进, 负数为单行
}

func newThereCmd(s *session) *cobra.Command {
	params := &ThereParams{}
	thereCmd := &cobra.Command{
		Use:   "there",
		Short: "Produce ast.dump output for inline code or a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThere(cmd, s, params)
		},
	}
	flags := thereCmd.Flags()
	flags.StringVarP(&params.Code, "code", "c", "", "inline Python source")
	flags.StringVarP(&params.File, "file", "f", "", "Python source file")
	flags.IntVarP(&params.Indent, "indent", "i", 4, "indent passed to ast.dump; negative for one line")
	thereCmd.MarkFlagsMutuallyExclusive("code", "file")
	thereCmd.MarkFlagsOneRequired("code", "file")
	return thereCmd
}

func runThere(cmd *cobra.Command, s *session, params *ThereParams) error {
	var target roundtrip.Target = roundtrip.Code(params.Code)
	if cmd.Flags().Changed("file") {
		target = roundtrip.File(params.File)
	}
	indent := s.cfg.Indent
	if cmd.Flags().Changed("indent") {
		indent = params.Indent
	}

	text, err := s.facade.There(cmd.Context(), target, indent)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
