package main

import (
	"fmt"
	"os"
)

// main - is the entry point of the application. Everything else hangs
// off the cobra command tree.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	Execute()
}
