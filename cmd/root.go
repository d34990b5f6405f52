// cdt2cmake [flags] <project root>...
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/qobs-build/cdt2cmake/internal/convert"
	"github.com/qobs-build/cdt2cmake/internal/msg"
)

var (
	flagGenerate bool
	flagDiff     bool
	flagConfig   string
	flagColor    EnumValue = NewEnumValue("auto", map[string]string{
		"auto":   "Colorize when stderr is a terminal (default)",
		"always": "Always colorize",
		"never":  "Never colorize",
	})
)

func applyColor() {
	switch flagColor.Value() {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
}

func conversionMode() convert.Mode {
	switch {
	case flagGenerate:
		return convert.ModeGenerate
	case flagDiff:
		return convert.ModeDiff
	default:
		return convert.ModePrint
	}
}

func doConvert(cmd *cobra.Command, args []string) {
	applyColor()
	opts := convert.Options{
		Mode:       conversionMode(),
		ConfigPath: flagConfig,
		Stdout:     cmd.OutOrStdout(),
	}
	// a failing project never stops the others
	for _, root := range args {
		if err := convert.Process(root, opts); err != nil {
			msg.Error("%v", err)
		}
	}
}

var rootCmd = &cobra.Command{
	Use:   "cdt2cmake [flags] <project root>...",
	Short: "Convert Eclipse CDT projects to CMake",
	Long: `Convert Eclipse CDT managed build projects (.project and .cproject) to CMakeLists.txt.

The generated file is printed to stdout unless --generate is given. Every argument
after a lone "-" is taken as a project root.`,
	Args: cobra.MinimumNArgs(1),
	Run:  doConvert,
}

func init() {
	rootCmd.Flags().BoolVarP(&flagGenerate, "generate", "g", false, "Write <project root>/CMakeLists.txt instead of printing it")
	rootCmd.Flags().BoolVarP(&flagDiff, "diff", "d", false, "Show how the generated file differs from the existing CMakeLists.txt")
	rootCmd.MarkFlagsMutuallyExclusive("generate", "diff")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Use this config file instead of <project root>/cdt2cmake.{toml,yaml,yml}")
	rootCmd.PersistentFlags().Var(&flagColor, "color", "When to colorize output, one of "+flagColor.HelpString())
	rootCmd.RegisterFlagCompletionFunc("color", flagColor.CompletionFunc())
}

// rewriteArgs turns the first lone "-" into "--" so everything after it is a project root
func rewriteArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i, a := range out {
		if a == "--" {
			break
		}
		if a == "-" {
			out[i] = "--"
			break
		}
	}
	return out
}

func Execute() {
	rootCmd.SetArgs(rewriteArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
