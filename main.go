package main

import (
	"os"

	"github.com/sumonitor/go-sumonitor/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
