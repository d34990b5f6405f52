// cdt2cmake configs <project root>...
package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/qobs-build/cdt2cmake/internal/convert"
	"github.com/qobs-build/cdt2cmake/internal/msg"
)

var flagVerbose bool

// listConfigurations prints the configurations of the project at root, marking the selected ones
func listConfigurations(w io.Writer, root string) error {
	cfg, err := convert.LoadConfig(root, flagConfig)
	if err != nil {
		return err
	}
	infos, err := convert.Inspect(root, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, root)
	iw := &msg.IndentWriter{Indent: "  ", W: w}
	selected := 0
	for i, info := range infos {
		mark := " "
		if info.Selected {
			mark = color.HiGreenString("*")
			selected++
		}
		fmt.Fprintf(iw, "%s %d. %s (%s) -> %s %s\n", mark, i+1, info.Name, info.ID, info.Type, info.Artifact)
		if flagVerbose {
			detail := &msg.IndentWriter{Indent: "     ", W: iw}
			if _, err := io.WriteString(detail, info.Configuration.String()); err != nil {
				return err
			}
		}
	}

	if selected == 0 {
		msg.Warn("%s: no configuration matches %q", root, cfg.Select)
	} else {
		msg.Info("%d of %d configurations selected", selected, len(infos))
	}
	return nil
}

var configsCmd = &cobra.Command{
	Use:   "configs <project root>...",
	Short: "List the CDT configurations of a project",
	Long:  `List the CDT configurations of a project. Configurations accepted by the select expression of the config file are marked with "*".`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		applyColor()
		for _, root := range args {
			if err := listConfigurations(cmd.OutOrStdout(), root); err != nil {
				msg.Error("%v", err)
			}
		}
	},
}

func init() {
	// cdt2cmake configs subcommand
	configsCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Also print the settings read from each configuration")
	rootCmd.AddCommand(configsCmd)
}
