package cmake

import (
	"errors"
	"fmt"
	"slices"

	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
	"github.com/alecthomas/participle/lexer/ebnf"
)

type listFile struct {
	Commands []*command `{ @@ }`
}

type command struct {
	Pos  lexer.Position
	Name string   `@Word "("`
	Args []string `{ @( Word | String ) } ")"`
}

// every token is decided by its first character
var listFileLexer = lexer.Must(ebnf.New(`
	Comment = "#" { "\u0000"…"\uffff"-"\n"-"\r" } .
	String = "\"" { "\u0000"…"\uffff"-"\""-"\\" | "\\" any } "\"" .
	Word = argchar { argchar } .
	Paren = "(" | ")" .
	Whitespace = " " | "\t" | "\n" | "\r" .

	argchar = "\u0000"…"\uffff"-" "-"\t"-"\n"-"\r"-"("-")"-"\""-"#"-"\\" .
	any = "\u0000"…"\uffff" .
`))

var listFileParser = participle.MustBuild(&listFile{},
	participle.Lexer(listFileLexer),
	participle.Elide("Comment", "Whitespace"),
)

var errNoCommands = errors.New("no commands")

// commands the emitter produces
var knownCommands = []string{
	"cmake_minimum_required",
	"project",
	"add_executable",
	"add_library",
	"set_target_properties",
	"link_directories",
	"target_link_libraries",
	"add_subdirectory",
}

// Lint parses content as a list of CMake commands and checks that only known
// commands appear, cmake_minimum_required first
func Lint(content string) error {
	lf := &listFile{}
	if err := listFileParser.ParseString(content, lf); err != nil {
		return err
	}
	if len(lf.Commands) == 0 {
		return errNoCommands
	}

	for i, cmd := range lf.Commands {
		name := cmd.Name
		if !slices.Contains(knownCommands, name) {
			return fmt.Errorf("%s: unexpected command %q", cmd.Pos, name)
		}
		if i == 0 && name != "cmake_minimum_required" {
			return fmt.Errorf("%s: expected cmake_minimum_required, got %q", cmd.Pos, name)
		}
		if len(cmd.Args) == 0 {
			return fmt.Errorf("%s: %s has no arguments", cmd.Pos, name)
		}
	}
	return nil
}
