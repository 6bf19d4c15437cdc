package main

import (
	"os"

	"github.com/cinelog/cinelog-server/internal/cli/cmd"
	"github.com/cinelog/cinelog-server/internal/cli/output"
)

func main() {
	if err := cmd.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}
