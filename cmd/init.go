// cdt2cmake init [project root]
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/qobs-build/cdt2cmake/internal/cdt"
	"github.com/qobs-build/cdt2cmake/internal/msg"
)

const configTemplate = `# cdt2cmake settings for this project

# version passed to cmake_minimum_required
cmake_minimum = "2.8"

# a directory with more sources than this lists them one per line
wrap_threshold = 3

# sources to leave out, doublestar patterns relative to this directory
# exclude = ["build/**", "test/"]

# only convert the configurations this expression accepts; it can use
# id, name, artifact and type ("Executable", "StaticLibrary", "SharedLibrary")
# select = 'name == "Release"'
select = ""

# add the git HEAD commit as a comment
record_revision = false
`

// writefile creates path with content unless it already exists. It reports whether the file was created.
func writefile(content string, elem ...string) (bool, error) {
	path := filepath.Join(elem...)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return false, err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("create file %s: %w", path, err)
	}
	return true, nil
}

func getProgramName() string {
	if len(os.Args) == 0 {
		return "cdt2cmake"
	}
	basename := filepath.Base(os.Args[0])
	return strings.TrimSuffix(basename, filepath.Ext(basename))
}

// initIn writes a config file with the default settings into a project root
func initIn(dir string) error {
	if _, err := os.Stat(filepath.Join(dir, cdt.CProjectFilename)); err != nil {
		msg.Warn("%s does not look like a CDT project: %v", dir, err)
	}

	created, err := writefile(configTemplate, dir, "cdt2cmake.toml")
	if err != nil {
		return err
	}
	path := filepath.ToSlash(filepath.Join(dir, "cdt2cmake.toml"))
	if !created {
		msg.Warn("%s already exists", path)
		return nil
	}
	fmt.Fprintf(msg.Output, "%s file: %s\n", color.HiGreenString("Created"), path)

	programName := getProgramName()
	fmt.Fprintf(msg.Output, "You can now do %s to preview, or %s to write CMakeLists.txt.\n",
		color.HiCyanString(programName+" "+dir), color.HiCyanString(programName+" --generate "+dir))
	return nil
}

var initCmd = &cobra.Command{
	Use:   "init [project root]",
	Short: "Create a cdt2cmake.toml with the default settings",
	Long:  `Create a cdt2cmake.toml with the default settings. If no project root is given, uses "."`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		applyColor()
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		if err := initIn(dir); err != nil {
			msg.Fatal("%v", err)
		}
	},
}

func init() {
	// cdt2cmake init subcommand
	rootCmd.AddCommand(initCmd)
}
