package main

import (
	"os"

	"github.com/abhishaiv/AI-Study-Master/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
