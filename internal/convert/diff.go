package convert

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/qobs-build/cdt2cmake/internal/msg"
)

// lines of unchanged context kept around each change
const diffContext = 2

// WriteDiff writes a line diff from oldText to newText. It reports whether the texts differ.
func WriteDiff(w io.Writer, path, oldText, newText string) (bool, error) {
	if oldText == newText {
		return false, nil
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	fmt.Fprintf(w, "%s\n%s\n", color.RedString("--- %s", path), color.GreenString("+++ %s (generated)", path))
	iw := &msg.IndentWriter{Indent: " ", W: w}

	for i, d := range diffs {
		chunk := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, line := range chunk {
				fmt.Fprintln(w, color.RedString("-%s", line))
			}
		case diffmatchpatch.DiffInsert:
			for _, line := range chunk {
				fmt.Fprintln(w, color.GreenString("+%s", line))
			}
		case diffmatchpatch.DiffEqual:
			skipping := false
			for j, line := range chunk {
				keep := i > 0 && j < diffContext ||
					i < len(diffs)-1 && j >= len(chunk)-diffContext
				if keep {
					if _, err := fmt.Fprintln(iw, line); err != nil {
						return true, err
					}
					skipping = false
				} else if !skipping {
					fmt.Fprintln(w, color.CyanString("@@"))
					skipping = true
				}
			}
		}
	}
	return true, nil
}

func splitLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
