// Command aureum runs the Aureum user service.
package main

import (
	"fmt"
	"os"

	"aureum/cmd/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "aureum:", err)
		os.Exit(1)
	}
}
