package main

import (
	"fmt"
	"os"

	"github.com/MEERAN2314/socialtab/cmd/run"
)

func main() {
	if err := run.Run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error running socialtab server: %v", err)
		os.Exit(1)
	}
}
