package main

import (
	"os"

	"github.com/rheetham/Student-Record-Management-System/cmd/students/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
