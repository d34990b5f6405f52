package main

import "github.com/qobs-build/cdt2cmake/cmd"

func main() {
	cmd.Execute()
}
