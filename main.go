package main

import "github.com/fmi-build/bd2cmake/cmd"

func main() {
	cmd.Execute()
}
